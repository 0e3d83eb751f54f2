// Package settings persists player preferences between runs.
package settings

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "thirdperson"

	settingsObject   = "settings"
	settingsProperty = "global"
)

// Settings is stored as YAML. Zero values mean "use the default".
type Settings struct {
	// Bindings maps action names to ebiten key names, e.g. forward: [W, ArrowUp].
	Bindings map[string][]string `yaml:"bindings,omitempty"`
	// RotationPolicy is "cancel" or "last_wins".
	RotationPolicy        string  `yaml:"rotation_policy"`
	CancelOppositeOnPress bool    `yaml:"cancel_opposite_on_press"`
	CameraSharpness       float32 `yaml:"camera_sharpness,omitempty"`
	BestScore             int     `yaml:"best_score"`
}

func Default() *Settings {
	return &Settings{
		RotationPolicy: "cancel",
	}
}

// Store loads and saves Settings. A nil manager keeps settings in memory only.
type Store struct {
	manager  *gdata.Manager
	settings *Settings
}

// Open opens the storage for appName. If storage is unavailable the store still
// works in memory and the error is returned alongside it.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil), fmt.Errorf("settings: open storage: %w", err)
	}
	return NewStore(m), nil
}

func NewStore(m *gdata.Manager) *Store {
	return &Store{manager: m, settings: Default()}
}

func (s *Store) Settings() *Settings {
	return s.settings
}

func (s *Store) Load() error {
	s.settings = Default()
	if s.manager == nil || !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}
	loaded := Default()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("settings: unmarshal: %w", err)
	}
	s.settings = loaded
	log.Debug("settings loaded", "policy", loaded.RotationPolicy, "bindings", len(loaded.Bindings))
	return nil
}

func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

// RecordScore raises BestScore to kills and saves when it changed.
func (s *Store) RecordScore(kills int) error {
	if kills <= s.settings.BestScore {
		return nil
	}
	s.settings.BestScore = kills
	return s.Save()
}
