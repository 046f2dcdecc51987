// Package sets provides a tiny generic membership set. The rewrite
// classifier keeps its fixed lookup tables, such as asset extensions, as
// sets instead of switch statements so the tables read as data.
package sets

// Set holds comparable keys. The zero value is not usable; build one with
// New or make.
type Set[T comparable] map[T]struct{}

// New builds a set from the given values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members in unspecified order.
func (s Set[T]) Values() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}
