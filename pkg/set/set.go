package set

type unit = struct{}

// Set is an unordered set of values of type T.
type Set[T comparable] map[T]unit

// New returns an empty set.
func New[T comparable]() Set[T] {
	return make(Set[T])
}

// FromSlice returns a set containing the values in the given slice.
func FromSlice[T comparable](keys []T) Set[T] {
	set := make(Set[T], len(keys))
	for _, x := range keys {
		set.Insert(x)
	}
	return set
}

// Contains checks whether the passed-in value is present in the Set.
func (s *Set[T]) Contains(val T) bool {
	_, ok := (map[T]unit)(*s)[val]
	return ok
}

// ContainsAny checks whether any of the passed-in values is present in the Set.
func (s *Set[T]) ContainsAny(vals []T) bool {
	for _, val := range vals {
		if s.Contains(val) {
			return true
		}
	}
	return false
}

// Insert adds the passed-in value to the Set.
func (s *Set[T]) Insert(val T) {
	(map[T]unit)(*s)[val] = unit{}
}

// ToSlice builds a new slice, populates it with the contents of the Set, and returns it.
func (s Set[T]) ToSlice() []T {
	res := make([]T, 0, len(s))
	for val := range s {
		res = append(res, val)
	}
	return res
}
