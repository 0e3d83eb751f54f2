package component

// ReloadRequest asks the prefab reload system to re-apply the named prefab file
// to live entities.
type ReloadRequest struct {
	File string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
