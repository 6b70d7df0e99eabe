package collection

// Set is an insertion-ordered collection that rejects duplicates.
type Set[T comparable] struct {
	*Collection[T]
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		Collection: newCollection[T](uniquePlacement[T]),
	}
}
