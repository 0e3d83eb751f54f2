package component

// Invulnerable makes an entity ignore projectile damage. Seconds <= 0 means
// until removed.
type Invulnerable struct {
	Seconds float32
}

var InvulnerableComponent = NewComponent[Invulnerable]()
