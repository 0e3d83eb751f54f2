package component

// PrefabSource records which prefab file built an entity so edits can be
// re-applied while the game runs.
type PrefabSource struct {
	Path string
}

var PrefabSourceComponent = NewComponent[PrefabSource]()
