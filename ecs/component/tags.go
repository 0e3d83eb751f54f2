package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// CameraTag marks the active game camera.
type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// FollowTarget marks the entity the camera tracks. At most one may exist.
type FollowTarget struct{}

var FollowTargetComponent = NewComponent[FollowTarget]()

type BotTag struct{}

var BotTagComponent = NewComponent[BotTag]()

// KeyboardController routes keyboard input into the entity's ControlState.
type KeyboardController struct{}

var KeyboardControllerComponent = NewComponent[KeyboardController]()
