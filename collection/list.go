package collection

import "fmt"

// List is an insertion-ordered collection that accepts duplicates and
// supports positional access.
type List[T comparable] struct {
	*Collection[T]
}

func NewList[T comparable]() *List[T] {
	return &List[T]{
		Collection: newCollection[T](appendPlacement[T]),
	}
}

// Set replaces the element at index i and returns the previous one.
func (l *List[T]) Set(i int, item T) (T, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, len(l.items))
	}
	old := l.items[i]
	l.items[i] = item
	return old, nil
}

// InsertAt inserts item at index i, shifting later elements. i may be equal
// to the size.
func (l *List[T]) InsertAt(i int, item T) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if i < 0 || i > len(l.items) {
		return fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, len(l.items))
	}
	l.insert(i, item)
	return nil
}

// ListIterator returns a bidirectional iterator before the first element.
func (l *List[T]) ListIterator() *ListIterator[T] {
	it, _ := l.newIterator(0, modeFull)
	return &ListIterator[T]{it}
}

// ListIteratorAt returns a bidirectional iterator whose first Next returns
// the element at index i.
func (l *List[T]) ListIteratorAt(i int) (*ListIterator[T], error) {
	it, err := l.newIterator(i, modeFull)
	if err != nil {
		return nil, err
	}
	return &ListIterator[T]{it}, nil
}

func (l *List[T]) ReadOnlyListIterator() *ListIterator[T] {
	it, _ := l.newIterator(0, modeReadOnly)
	return &ListIterator[T]{it}
}
