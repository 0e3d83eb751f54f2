package ecs

import "fmt"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// Writer is implemented by systems that own a shared resource. The scheduler
// rejects two systems declaring the same resource.
type Writer interface {
	Writes() []string
}

// Phase orders systems inside one tick. Phases always run in declaration order.
type Phase int

const (
	PhaseInput Phase = iota
	PhaseMovement
	PhasePhysics
	PhaseCamera
	PhaseUIProjection
	PhaseUILayout
	phaseCount
)

var phaseNames = [phaseCount]string{
	"input",
	"movement",
	"physics",
	"camera",
	"ui-projection",
	"ui-layout",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Phases lists every phase in run order.
func Phases() []Phase {
	out := make([]Phase, 0, phaseCount)
	for p := Phase(0); p < phaseCount; p++ {
		out = append(out, p)
	}
	return out
}

type Scheduler struct {
	phases [phaseCount][]System
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add appends a system to a phase. Nil systems are ignored.
func (s *Scheduler) Add(phase Phase, system System) error {
	if system == nil {
		return nil
	}
	if phase < 0 || phase >= phaseCount {
		return fmt.Errorf("%w: %d", ErrUnknownPhase, int(phase))
	}
	s.phases[phase] = append(s.phases[phase], system)
	return nil
}

// Validate checks single-writer ownership across every registered system.
func (s *Scheduler) Validate() error {
	owners := make(map[string]System)
	for _, system := range s.Systems() {
		wr, ok := system.(Writer)
		if !ok {
			continue
		}
		for _, res := range wr.Writes() {
			if prev, taken := owners[res]; taken && prev != system {
				return fmt.Errorf("%w: %q claimed by %T and %T", ErrDuplicateWriter, res, prev, system)
			}
			owners[res] = system
		}
	}
	return nil
}

// Update runs every phase once against the current clock, then drops
// undrained events.
func (s *Scheduler) Update(w *World) {
	if w == nil {
		return
	}
	for _, systems := range s.phases {
		for _, system := range systems {
			system.Update(w)
		}
	}
	w.events.flush()
}

// Tick advances the world clock by delta seconds and runs one update.
func (s *Scheduler) Tick(w *World, delta float32) {
	w.Advance(delta)
	s.Update(w)
}

// Systems returns every system in run order.
func (s *Scheduler) Systems() []System {
	var systems []System
	for _, phase := range s.phases {
		systems = append(systems, phase...)
	}
	return systems
}

// PhaseOf reports which phase a system was registered in.
func (s *Scheduler) PhaseOf(system System) (Phase, bool) {
	for p, systems := range s.phases {
		for _, sys := range systems {
			if sys == system {
				return Phase(p), true
			}
		}
	}
	return 0, false
}
