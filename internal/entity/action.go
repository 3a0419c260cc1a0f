package entity

// Action is a state transition request. The set of variants is closed: only
// the types in this file implement it.
type Action interface {
	isAction()
}

// Started marks a read as in flight.
type Started struct{}

// WriteStarted marks a create, update or delete as in flight.
type WriteStarted struct {
	Op Op
}

// GetAllDone carries a complete collection.
type GetAllDone[ID comparable, T Entity[ID]] struct {
	Items   []T
	Results int
}

// GetPageDone carries one page of a collection.
type GetPageDone[ID comparable, T Entity[ID]] struct {
	Items   []T
	Results int
}

// Upserted carries a single created, updated or re-read item.
type Upserted[ID comparable, T Entity[ID]] struct {
	Item T
}

// Deleted removes one item.
type Deleted[ID comparable] struct {
	ID ID
}

// Failed records request errors.
type Failed struct {
	Errors Errors
}

// AddedMany upserts a batch.
type AddedMany[ID comparable, T Entity[ID]] struct {
	Items []T
}

// RemovedMany removes a batch.
type RemovedMany[ID comparable] struct {
	IDs []ID
}

func (Started) isAction() {}
func (WriteStarted) isAction() {}
func (GetAllDone[ID, T]) isAction() {}
func (GetPageDone[ID, T]) isAction() {}
func (Upserted[ID, T]) isAction() {}
func (Deleted[ID]) isAction() {}
func (Failed) isAction() {}
func (AddedMany[ID, T]) isAction() {}
func (RemovedMany[ID]) isAction() {}

// Reduce applies a to s. Actions parameterized with a different ID or item
// type than s leave it unchanged.
func Reduce[ID comparable, T Entity[ID]](s State[ID, T], a Action) State[ID, T] {
	if s.ItemsByID == nil {
		s.ItemsByID = map[ID]T{}
	}
	switch a := a.(type) {
	case Started:
		return OnStart(s)
	case WriteStarted:
		return OnWriteStart(a.Op, s)
	case GetAllDone[ID, T]:
		return OnGetAllSuccess(a.Items, s, a.Results)
	case GetPageDone[ID, T]:
		return OnGetPageSuccess(a.Items, s, a.Results)
	case Upserted[ID, T]:
		return OnCreateOrUpdate(a.Item, s)
	case Deleted[ID]:
		return OnDeleteSuccess(a.ID, s)
	case Failed:
		return OnError(a.Errors, s)
	case AddedMany[ID, T]:
		return AddMany(a.Items, s)
	case RemovedMany[ID]:
		return RemoveMany(a.IDs, s)
	default:
		return s
	}
}

// NestedAction is a transition on a relational map.
type NestedAction interface {
	isNestedAction()
}

// ForParent scopes Action to the children of Parent.
type ForParent[P comparable] struct {
	Parent P
	Action Action
}

// ParentDeleted drops the parent's whole entry.
type ParentDeleted[P comparable] struct {
	Parent P
}

func (ForParent[P]) isNestedAction() {}
func (ParentDeleted[P]) isNestedAction() {}
