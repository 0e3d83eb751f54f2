package component

type Health struct {
	Initial int
	Current int
}

var HealthComponent = NewComponent[Health]()

// Projectile damages the first non-owner body it touches.
type Projectile struct {
	Damage int
	Owner  uint64
	Speed  float32
}

var ProjectileComponent = NewComponent[Projectile]()

// TTL destroys the entity after Seconds of game time.
type TTL struct {
	Seconds float32
}

var TTLComponent = NewComponent[TTL]()
