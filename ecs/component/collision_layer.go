package component

const (
	LayerActors uint32 = 1 << iota
	LayerProjectiles
	LayerWalls
)

// CollisionLayer declares a collision category and the categories it collides
// with. Zero values fall back to category 1 and a full mask.
type CollisionLayer struct {
	Category uint32 `yaml:"category,omitempty"`
	Mask     uint32 `yaml:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
