package component

// AIController feeds a tengo script's decisions into the entity's ControlState.
type AIController struct {
	// Script names a file under prefabs/scripts.
	Script string
	// Range is the distance at which the bot engages the player.
	Range float32
}

var AIControllerComponent = NewComponent[AIController]()
