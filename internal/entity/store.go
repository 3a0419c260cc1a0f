package entity

import "sync"

// Ticket identifies one outstanding read. Pass it back to Finish with the
// read's result.
type Ticket struct {
	seq  uint64
	item bool
	key  any // item id or parent id
}

// sequencer numbers every read and write of one store from a single
// counter. whole is the newest collection read applied; marks hold the
// newest read or write applied per key.
type sequencer[K comparable] struct {
	next  uint64
	whole uint64
	marks map[K]uint64
}

func (q *sequencer[K]) begin() uint64 {
	q.next++
	return q.next
}

func (q *sequencer[K]) mark(k K, seq uint64) {
	if q.marks == nil {
		q.marks = map[K]uint64{}
	}
	if seq > q.marks[k] {
		q.marks[k] = seq
	}
}

// current is the newest number applied to k directly or by a collection read.
func (q *sequencer[K]) current(k K) uint64 {
	return max(q.whole, q.marks[k])
}

// touchedAfter returns the keys written or re-read after seq.
func (q *sequencer[K]) touchedAfter(seq uint64) []K {
	var out []K
	for k, m := range q.marks {
		if m > seq {
			out = append(out, k)
		}
	}
	return out
}

// applyWhole records a collection result at seq. Item marks at or below it
// can no longer reject or filter anything.
func (q *sequencer[K]) applyWhole(seq uint64) {
	if seq <= q.whole {
		return
	}
	q.whole = seq
	for k, m := range q.marks {
		if m <= seq {
			delete(q.marks, k)
		}
	}
}

// Store is the single writer for one resource type's State. Readers get
// deep copies from Snapshot.
type Store[ID comparable, T Entity[ID]] struct {
	mu    sync.RWMutex
	state State[ID, T]
	seq   sequencer[ID]
}

// NewStore returns a store holding Default().
func NewStore[ID comparable, T Entity[ID]]() *Store[ID, T] {
	return &Store[ID, T]{state: Default[ID, T]()}
}

// Dispatch applies a unconditionally. Writes to items count as newer than
// every read still in flight.
func (s *Store[ID, T]) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.seq.begin()
	s.state = Reduce(s.state, a)

	switch a := a.(type) {
	case Upserted[ID, T]:
		s.seq.mark(a.Item.EntityID(), seq)
	case Deleted[ID]:
		s.seq.mark(a.ID, seq)
	case AddedMany[ID, T]:
		for _, item := range a.Items {
			s.seq.mark(item.EntityID(), seq)
		}
	case RemovedMany[ID]:
		for _, id := range a.IDs {
			s.seq.mark(id, seq)
		}
	case GetAllDone[ID, T]:
		s.seq.applyWhole(seq)
	}
}

// BeginRead dispatches Started and returns a ticket for a collection read.
func (s *Store[ID, T]) BeginRead() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Started{})
	return Ticket{seq: s.seq.begin()}
}

// BeginItem returns a ticket for a read of a single item. It does not mark
// the collection as loading.
func (s *Store[ID, T]) BeginItem(id ID) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{seq: s.seq.begin(), item: true, key: id}
}

// Finish applies a unless something newer already landed, and reports
// whether it did. An item read loses to a later write or read of that item
// and to a later collection read. A collection read loses to a later
// collection read; items written or re-read since it began keep their
// current value.
func (s *Store[ID, T]) Finish(t Ticket, a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.seq == 0 {
		s.state = Reduce(s.state, a)
		return true
	}

	if t.item {
		id := t.key.(ID)
		if t.seq < s.seq.current(id) {
			return false
		}
		s.state = Reduce(s.state, a)
		s.seq.mark(id, t.seq)
		return true
	}

	if t.seq < s.seq.whole {
		return false
	}
	prev := s.state
	s.state = Reduce(s.state, a)
	switch a.(type) {
	case GetAllDone[ID, T], GetPageDone[ID, T]:
		s.keepNewer(prev, s.seq.touchedAfter(t.seq))
		s.seq.applyWhole(t.seq)
	}
	return true
}

// keepNewer restores ids from prev after a collection result overwrote
// them. Results follows any presence change.
func (s *Store[ID, T]) keepNewer(prev State[ID, T], ids []ID) {
	for _, id := range ids {
		old, had := prev.ItemsByID[id]
		_, has := s.state.ItemsByID[id]
		switch {
		case had:
			s.state.ItemsByID[id] = old
			if !has {
				s.state.Results++
			}
		case has:
			delete(s.state.ItemsByID, id)
			s.state.Results--
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store[ID, T]) Snapshot() State[ID, T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// NestedStore is the single writer for a relational map.
type NestedStore[P comparable, ID comparable, T Entity[ID]] struct {
	mu     sync.RWMutex
	nested Nested[P, ID, T]
	seq    sequencer[P]
}

// NewNestedStore returns an empty relational store.
func NewNestedStore[P comparable, ID comparable, T Entity[ID]]() *NestedStore[P, ID, T] {
	return &NestedStore[P, ID, T]{nested: Nested[P, ID, T]{}}
}

// Dispatch applies a unconditionally. Children reads of the affected parent
// that are still in flight become stale.
func (s *NestedStore[P, ID, T]) Dispatch(a NestedAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.seq.begin()
	s.nested = ReduceNested(s.nested, a)

	switch a := a.(type) {
	case ParentDeleted[P]:
		s.seq.mark(a.Parent, seq)
	case ForParent[P]:
		s.seq.mark(a.Parent, seq)
	}
}

// BeginChildren dispatches Started for parent and returns a read ticket.
func (s *NestedStore[P, ID, T]) BeginChildren(parent P) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nested = ReduceChild(s.nested, parent, Started{})
	return Ticket{seq: s.seq.begin(), key: parent}
}

// Finish applies a to parent's children unless a newer read or write of
// that parent already landed.
func (s *NestedStore[P, ID, T]) Finish(t Ticket, parent P, a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.seq != 0 && t.seq < s.seq.current(parent) {
		return false
	}
	s.nested = ReduceChild(s.nested, parent, a)
	s.seq.mark(parent, t.seq)
	return true
}

// Snapshot returns a deep copy of the relational map.
func (s *NestedStore[P, ID, T]) Snapshot() Nested[P, ID, T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nested.Clone()
}

// Children returns a copy of parent's child state.
func (s *NestedStore[P, ID, T]) Children(parent P) State[ID, T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nested.Get(parent).Clone()
}
