package view

import (
	"iter"

	"github.com/fulldump/registryviews/collection"
)

// ReadOnlyCollection is the read side of a view. Observations fail with
// ErrUnavailable while a required view is empty; mutators always fail with
// collection.ErrUnsupported.
type ReadOnlyCollection[T comparable] struct {
	v *View[T]
}

// Collection works for every kind.
func (v *View[T]) Collection() *ReadOnlyCollection[T] {
	return &ReadOnlyCollection[T]{v: v}
}

func (c *ReadOnlyCollection[T]) Size() (int, error) {
	if err := c.v.available(); err != nil {
		return 0, err
	}
	return c.v.items.Size(), nil
}

func (c *ReadOnlyCollection[T]) IsEmpty() (bool, error) {
	if err := c.v.available(); err != nil {
		return false, err
	}
	return c.v.items.IsEmpty(), nil
}

func (c *ReadOnlyCollection[T]) Contains(item T) (bool, error) {
	if err := c.v.available(); err != nil {
		return false, err
	}
	return c.v.items.Contains(item), nil
}

func (c *ReadOnlyCollection[T]) ToSlice() ([]T, error) {
	if err := c.v.available(); err != nil {
		return nil, err
	}
	return c.v.items.ToSlice(), nil
}

// Iterator is live: it follows the view as services come and go. Remove
// fails with collection.ErrUnsupported.
func (c *ReadOnlyCollection[T]) Iterator() (*collection.Iterator[T], error) {
	if err := c.v.available(); err != nil {
		return nil, err
	}
	return c.v.items.ReadOnlyIterator(), nil
}

func (c *ReadOnlyCollection[T]) All() (iter.Seq[T], error) {
	if err := c.v.available(); err != nil {
		return nil, err
	}
	return c.v.items.All(), nil
}

func (c *ReadOnlyCollection[T]) Add(item T) (bool, error) {
	return false, collection.ErrUnsupported
}

func (c *ReadOnlyCollection[T]) AddAll(items ...T) (bool, error) {
	return false, collection.ErrUnsupported
}

func (c *ReadOnlyCollection[T]) Remove(item T) (bool, error) {
	return false, collection.ErrUnsupported
}

func (c *ReadOnlyCollection[T]) RemoveAll(items ...T) (bool, error) {
	return false, collection.ErrUnsupported
}

func (c *ReadOnlyCollection[T]) Clear() error {
	return collection.ErrUnsupported
}

type ReadOnlyList[T comparable] struct {
	ReadOnlyCollection[T]
}

// List works for list and sorted-list views.
func (v *View[T]) List() (*ReadOnlyList[T], error) {
	if v.lists == nil {
		return nil, collection.ErrUnsupported
	}
	return &ReadOnlyList[T]{ReadOnlyCollection[T]{v: v}}, nil
}

func (l *ReadOnlyList[T]) Get(i int) (T, error) {
	if err := l.v.available(); err != nil {
		var zero T
		return zero, err
	}
	return l.v.items.Get(i)
}

func (l *ReadOnlyList[T]) IndexOf(item T) (int, error) {
	if err := l.v.available(); err != nil {
		return -1, err
	}
	return l.v.items.IndexOf(item), nil
}

// ListIterator rejects Remove, Set and Add with collection.ErrUnsupported.
func (l *ReadOnlyList[T]) ListIterator() (*collection.ListIterator[T], error) {
	if err := l.v.available(); err != nil {
		return nil, err
	}
	return l.v.lists.ReadOnlyListIterator(), nil
}

func (l *ReadOnlyList[T]) Set(i int, item T) (T, error) {
	var zero T
	return zero, collection.ErrUnsupported
}

func (l *ReadOnlyList[T]) InsertAt(i int, item T) error {
	return collection.ErrUnsupported
}

func (l *ReadOnlyList[T]) RemoveAt(i int) (T, error) {
	var zero T
	return zero, collection.ErrUnsupported
}

type ReadOnlySet[T comparable] struct {
	ReadOnlyCollection[T]
}

// Set works for set and sorted-set views.
func (v *View[T]) Set() (*ReadOnlySet[T], error) {
	if v.kind != KindSet && v.kind != KindSortedSet {
		return nil, collection.ErrUnsupported
	}
	return &ReadOnlySet[T]{ReadOnlyCollection[T]{v: v}}, nil
}

type ReadOnlySortedSet[T comparable] struct {
	ReadOnlySet[T]
}

func (v *View[T]) SortedSet() (*ReadOnlySortedSet[T], error) {
	if v.kind != KindSortedSet {
		return nil, collection.ErrUnsupported
	}
	return &ReadOnlySortedSet[T]{ReadOnlySet[T]{ReadOnlyCollection[T]{v: v}}}, nil
}

// Comparator is nil when the view uses natural ordering.
func (s *ReadOnlySortedSet[T]) Comparator() collection.Comparator[T] {
	return s.v.comparator
}

func (s *ReadOnlySortedSet[T]) First() (T, error) {
	if err := s.v.available(); err != nil {
		var zero T
		return zero, err
	}
	return s.v.items.First()
}

func (s *ReadOnlySortedSet[T]) Last() (T, error) {
	if err := s.v.available(); err != nil {
		var zero T
		return zero, err
	}
	return s.v.items.Last()
}

func (s *ReadOnlySortedSet[T]) HeadSet(to T) (*ReadOnlySortedSet[T], error) {
	return nil, collection.ErrUnsupported
}

func (s *ReadOnlySortedSet[T]) TailSet(from T) (*ReadOnlySortedSet[T], error) {
	return nil, collection.ErrUnsupported
}

func (s *ReadOnlySortedSet[T]) SubSet(from, to T) (*ReadOnlySortedSet[T], error) {
	return nil, collection.ErrUnsupported
}
