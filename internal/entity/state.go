package entity

import (
	"maps"
	"slices"
	"time"
)

// now is the clock used for LastUpdated. Tests replace it.
var now = time.Now

// Entity is any resource with a stable identifier.
type Entity[ID comparable] interface {
	EntityID() ID
}

// Reason is a single human-readable failure reason reported by the API.
type Reason struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Op names one of the four request kinds that own an error slot.
type Op int

const (
	OpCreate Op = iota
	OpRead
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpRead:
		return "read"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Errors holds one slot per request kind. A nil slot means no error.
type Errors struct {
	Create []Reason
	Read   []Reason
	Update []Reason
	Delete []Reason
}

// Slot returns the reasons recorded for op.
func (e Errors) Slot(op Op) []Reason {
	switch op {
	case OpCreate:
		return e.Create
	case OpRead:
		return e.Read
	case OpUpdate:
		return e.Update
	case OpDelete:
		return e.Delete
	}
	return nil
}

// Any reports whether any slot is populated.
func (e Errors) Any() bool {
	return e.Create != nil || e.Read != nil || e.Update != nil || e.Delete != nil
}

// ErrorsFor builds an Errors value with only the op slot set.
func ErrorsFor(op Op, reasons []Reason) Errors {
	var e Errors
	e.set(op, reasons)
	return e
}

func (e *Errors) set(op Op, reasons []Reason) {
	switch op {
	case OpCreate:
		e.Create = reasons
	case OpRead:
		e.Read = reasons
	case OpUpdate:
		e.Update = reasons
	case OpDelete:
		e.Delete = reasons
	}
}

// merge copies every non-nil slot of patch over e.
func (e Errors) merge(patch Errors) Errors {
	if patch.Create != nil {
		e.Create = slices.Clone(patch.Create)
	}
	if patch.Read != nil {
		e.Read = slices.Clone(patch.Read)
	}
	if patch.Update != nil {
		e.Update = slices.Clone(patch.Update)
	}
	if patch.Delete != nil {
		e.Delete = slices.Clone(patch.Delete)
	}
	return e
}

// State is the keyed-by-id cache of one resource type plus request metadata.
// The zero LastUpdated means the collection has never been read completely.
type State[ID comparable, T Entity[ID]] struct {
	ItemsByID   map[ID]T
	Loading     bool
	LastUpdated time.Time
	Error       Errors
	Results     int
}

// Default returns an empty, idle state.
func Default[ID comparable, T Entity[ID]]() State[ID, T] {
	return State[ID, T]{ItemsByID: map[ID]T{}}
}

// Clone returns a copy that shares no maps or slices with s.
func (s State[ID, T]) Clone() State[ID, T] {
	out := s
	out.ItemsByID = cloneItems(s.ItemsByID)
	out.Error = Errors{}.merge(s.Error)
	return out
}

// Get returns the item with id.
func (s State[ID, T]) Get(id ID) (T, bool) {
	item, ok := s.ItemsByID[id]
	return item, ok
}

// Items returns the cached items in unspecified order.
func (s State[ID, T]) Items() []T {
	return slices.Collect(maps.Values(s.ItemsByID))
}

// Fresh reports whether a complete read has ever succeeded.
func (s State[ID, T]) Fresh() bool {
	return !s.LastUpdated.IsZero()
}

// OnStart marks a read as in flight and clears the previous read error.
func OnStart[ID comparable, T Entity[ID]](s State[ID, T]) State[ID, T] {
	s.Loading = true
	s.Error.Read = nil
	return s
}

// OnWriteStart clears the error slot of a write that is being retried.
func OnWriteStart[ID comparable, T Entity[ID]](op Op, s State[ID, T]) State[ID, T] {
	if op == OpRead {
		return OnStart(s)
	}
	s.Error.set(op, nil)
	return s
}

// OnGetAllSuccess replaces the whole collection with items.
func OnGetAllSuccess[ID comparable, T Entity[ID]](items []T, s State[ID, T], total int) State[ID, T] {
	byID := make(map[ID]T, len(items))
	for _, item := range items {
		byID[item.EntityID()] = item
	}
	s.ItemsByID = byID
	s.Loading = false
	s.Results = total
	s.LastUpdated = now()
	return s
}

// OnGetPageSuccess merges one page into the collection. LastUpdated only
// moves when the page turned out to hold the whole collection. Loading is
// left alone; the read that fetched the page is still running.
func OnGetPageSuccess[ID comparable, T Entity[ID]](items []T, s State[ID, T], total int) State[ID, T] {
	byID := cloneItems(s.ItemsByID)
	for _, item := range items {
		byID[item.EntityID()] = item
	}
	s.ItemsByID = byID
	s.Results = total
	if total == len(items) {
		s.LastUpdated = now()
	}
	return s
}

// OnCreateOrUpdate upserts a single item.
func OnCreateOrUpdate[ID comparable, T Entity[ID]](item T, s State[ID, T]) State[ID, T] {
	byID := cloneItems(s.ItemsByID)
	byID[item.EntityID()] = item
	s.ItemsByID = byID
	return s
}

// OnDeleteSuccess removes id and recounts Results.
func OnDeleteSuccess[ID comparable, T Entity[ID]](id ID, s State[ID, T]) State[ID, T] {
	byID := cloneItems(s.ItemsByID)
	delete(byID, id)
	s.ItemsByID = byID
	s.Results = len(byID)
	return s
}

// OnError merges the populated slots of bag into the state's errors.
func OnError[ID comparable, T Entity[ID]](bag Errors, s State[ID, T]) State[ID, T] {
	s.Error = s.Error.merge(bag)
	s.Loading = false
	return s
}

// AddMany upserts every item.
func AddMany[ID comparable, T Entity[ID]](items []T, s State[ID, T]) State[ID, T] {
	byID := cloneItems(s.ItemsByID)
	for _, item := range items {
		byID[item.EntityID()] = item
	}
	s.ItemsByID = byID
	s.Results = len(byID)
	return s
}

// RemoveMany deletes every id.
func RemoveMany[ID comparable, T Entity[ID]](ids []ID, s State[ID, T]) State[ID, T] {
	byID := cloneItems(s.ItemsByID)
	for _, id := range ids {
		delete(byID, id)
	}
	s.ItemsByID = byID
	s.Results = len(byID)
	return s
}

func cloneItems[ID comparable, T any](in map[ID]T) map[ID]T {
	out := make(map[ID]T, len(in))
	maps.Copy(out, in)
	return out
}
