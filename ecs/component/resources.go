package component

// Shared resources with exactly one writing system.
const (
	ResourceCameraPose     = "camera.pose"
	ResourceBodyPose       = "body.pose"
	ResourceVelocity       = "control.velocity"
	ResourceControlSpeed   = "control.speed"
	ResourceFireCooldown   = "control.fire_cooldown"
	ResourceAnchorPosition = "anchor.position"
	ResourceAnchorSize     = "anchor.size"
	ResourceGameState      = "game.state"
)
