package component

// Persistent entities survive the cleanup run when leaving the Playing state.
type Persistent struct {
	ID string
}

var PersistentComponent = NewComponent[Persistent]()
