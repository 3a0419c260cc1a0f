package entity

import "maps"

// Nested is a two-level cache: parent id, then child id.
type Nested[P comparable, ID comparable, T Entity[ID]] map[P]State[ID, T]

// Get returns the children of parent, or an empty state when none are cached.
func (n Nested[P, ID, T]) Get(parent P) State[ID, T] {
	if s, ok := n[parent]; ok {
		return s
	}
	return Default[ID, T]()
}

// Clone deep-copies every child state.
func (n Nested[P, ID, T]) Clone() Nested[P, ID, T] {
	out := make(Nested[P, ID, T], len(n))
	for parent, s := range n {
		out[parent] = s.Clone()
	}
	return out
}

// ReduceChild applies a to the children of parent, starting from an empty
// state when the parent has no entry yet.
func ReduceChild[P comparable, ID comparable, T Entity[ID]](n Nested[P, ID, T], parent P, a Action) Nested[P, ID, T] {
	out := make(Nested[P, ID, T], len(n)+1)
	maps.Copy(out, n)
	out[parent] = Reduce(n.Get(parent), a)
	return out
}

// DeleteParent removes parent and all of its children.
func DeleteParent[P comparable, ID comparable, T Entity[ID]](n Nested[P, ID, T], parent P) Nested[P, ID, T] {
	out := make(Nested[P, ID, T], len(n))
	maps.Copy(out, n)
	delete(out, parent)
	return out
}

// ReduceNested applies a relational action.
func ReduceNested[P comparable, ID comparable, T Entity[ID]](n Nested[P, ID, T], a NestedAction) Nested[P, ID, T] {
	switch a := a.(type) {
	case ForParent[P]:
		return ReduceChild(n, a.Parent, a.Action)
	case ParentDeleted[P]:
		return DeleteParent(n, a.Parent)
	default:
		return n
	}
}
