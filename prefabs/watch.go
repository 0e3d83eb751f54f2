package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one change.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports edited prefab and script files. The game loop drains Events
// at the start of a tick; nothing else runs off the loop goroutine.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
	debounce time.Duration
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		debounce: DefaultDebounce,
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Pending returns every change queued since the last call without blocking.
func (w *Watcher) Pending() []string {
	var out []string
	for {
		select {
		case name := <-w.Events:
			out = append(out, name)
		default:
			return out
		}
	}
}

// run reports a file once its events have been quiet for the debounce window,
// so a truncate followed by a write reloads the final content.
func (w *Watcher) run() {
	pending := make(map[string]*time.Timer)
	fired := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSpecFile(event.Name) && !isScriptFile(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(w.debounce)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- name:
				case <-w.closeCh:
				}
			})
		case name := <-fired:
			delete(pending, name)
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				// keep only the first unread error
			}
		case <-w.closeCh:
			return
		}
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
