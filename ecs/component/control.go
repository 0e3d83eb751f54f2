package component

// Command is a discrete trigger held in ControlState.Triggers.
type Command uint8

const (
	FirePrimary Command = 1 << iota
	Jump
	Build
)

func (c Command) String() string {
	switch c {
	case FirePrimary:
		return "fire_primary"
	case Jump:
		return "jump"
	case Build:
		return "build"
	default:
		return "unknown"
	}
}

// Rotation is a turning intent.
type Rotation uint8

const (
	Left Rotation = 1 << iota
	Right
)

// Opposite returns the paired rotation. Opposite(Opposite(r)) == r.
func (r Rotation) Opposite() Rotation {
	switch r {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return r
	}
}

func (r Rotation) String() string {
	switch r {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Direction is a movement intent.
type Direction uint8

const (
	Forward Direction = 1 << iota
	Backward
	StrafeLeft
	StrafeRight
)

// Opposite returns the paired direction. Opposite(Opposite(d)) == d.
func (d Direction) Opposite() Direction {
	switch d {
	case Forward:
		return Backward
	case Backward:
		return Forward
	case StrafeLeft:
		return StrafeRight
	case StrafeRight:
		return StrafeLeft
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case StrafeLeft:
		return "strafe_left"
	case StrafeRight:
		return "strafe_right"
	default:
		return "unknown"
	}
}

var (
	AllCommands   = []Command{FirePrimary, Jump, Build}
	AllRotations  = []Rotation{Left, Right}
	AllDirections = []Direction{Forward, Backward, StrafeLeft, StrafeRight}
)

type (
	Commands   uint8
	Rotations  uint8
	Directions uint8
)

func (s Commands) Has(c Command) bool     { return s&Commands(c) != 0 }
func (s Rotations) Has(r Rotation) bool   { return s&Rotations(r) != 0 }
func (s Directions) Has(d Direction) bool { return s&Directions(d) != 0 }

// RotationPolicy resolves Left and Right being held together.
type RotationPolicy uint8

const (
	// RotationCancel nets both rotations to zero torque.
	RotationCancel RotationPolicy = iota
	// RotationLastWins drops the opposite rotation when a rotation is pressed.
	RotationLastWins
)

func (p RotationPolicy) String() string {
	if p == RotationLastWins {
		return "last_wins"
	}
	return "cancel"
}

// ParseRotationPolicy accepts the String forms; anything else is RotationCancel.
func ParseRotationPolicy(s string) RotationPolicy {
	if s == "last_wins" {
		return RotationLastWins
	}
	return RotationCancel
}

// ControlState stores movement intent, tuning and the fire cooldown of one
// controllable entity. Integration into velocity happens elsewhere.
type ControlState struct {
	Triggers   Commands
	Rotations  Rotations
	Directions Directions

	Speed               float32
	Acceleration        float32
	MaxSpeed            float32
	TurnSpeed           float32
	MaxTurnSpeed        float32
	RateOfFirePerMinute float32
	// FireCoolDown may go negative between ticks.
	FireCoolDown float32
	HasThrown    bool
}

func NewControlState(speed, acceleration, turnSpeed, rateOfFire float32) *ControlState {
	return &ControlState{
		Speed:               speed,
		Acceleration:        acceleration,
		MaxSpeed:            speed,
		TurnSpeed:           turnSpeed,
		MaxTurnSpeed:        turnSpeed,
		RateOfFirePerMinute: rateOfFire,
	}
}

// SetTrigger adds or removes cmd. Repeating the same call has no further effect.
func (c *ControlState) SetTrigger(cmd Command, active bool) {
	if active {
		c.Triggers |= Commands(cmd)
	} else {
		c.Triggers &^= Commands(cmd)
	}
}

// ToggleTrigger flips cmd and reports whether it is now active.
func (c *ControlState) ToggleTrigger(cmd Command) bool {
	c.Triggers ^= Commands(cmd)
	return c.Triggers.Has(cmd)
}

func (c *ControlState) SetRotation(rot Rotation, active bool) {
	if active {
		c.Rotations |= Rotations(rot)
	} else {
		c.Rotations &^= Rotations(rot)
	}
}

func (c *ControlState) SetDirection(dir Direction, active bool) {
	if active {
		c.Directions |= Directions(dir)
	} else {
		c.Directions &^= Directions(dir)
	}
}

func (c *ControlState) HasTrigger(cmd Command) bool     { return c.Triggers.Has(cmd) }
func (c *ControlState) HasRotation(rot Rotation) bool   { return c.Rotations.Has(rot) }
func (c *ControlState) HasDirection(dir Direction) bool { return c.Directions.Has(dir) }

// ClearInputs drops every held direction and rotation and all triggers except Build,
// which is a mode rather than a held key.
func (c *ControlState) ClearInputs() {
	c.Triggers &= Commands(Build)
	c.Rotations = 0
	c.Directions = 0
}

// CoolDownWindow is the minimum spacing between two shots in seconds, or 0 when
// the entity cannot fire.
func (c *ControlState) CoolDownWindow() float32 {
	if c.RateOfFirePerMinute <= 0 {
		return 0
	}
	return 60 / c.RateOfFirePerMinute
}

// TickCooldown advances the fire cooldown by delta seconds and reports whether a
// shot is permitted this tick. Idle time beyond one window is not banked.
func (c *ControlState) TickCooldown(delta float32) bool {
	if c.RateOfFirePerMinute <= 0 {
		return false
	}
	c.FireCoolDown -= delta
	if c.FireCoolDown > 0 {
		return false
	}
	c.FireCoolDown = 60 / c.RateOfFirePerMinute
	return true
}

var ControlStateComponent = NewComponent[ControlState]()
