package component

type GameStatus uint8

const (
	StatusMenu GameStatus = iota
	StatusPlaying
	StatusGameOver
)

func (s GameStatus) String() string {
	switch s {
	case StatusMenu:
		return "menu"
	case StatusPlaying:
		return "playing"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameState is the singleton top-level state. Entered is the frame of the last
// transition.
type GameState struct {
	Status  GameStatus
	Entered uint64
}

var GameStateComponent = NewComponent[GameState]()

// GotoStateRequest asks the game state system to transition on the next tick.
type GotoStateRequest struct {
	Status GameStatus
}

var GotoStateRequestComponent = NewComponent[GotoStateRequest]()

// Score survives cleanup together with the GameState entity.
type Score struct {
	Kills int
	Best  int
}

var ScoreComponent = NewComponent[Score]()
