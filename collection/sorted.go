package collection

// sortedPlacement binary searches the tail of the run of elements equal to
// item, so equal items keep their insertion order. With unique set, an equal
// run rejects the item.
func sortedPlacement[T comparable](compare func(a, b T) (int, error), unique bool) placement[T] {
	return func(items []T, item T) (int, bool, error) {

		lo, hi := 0, len(items)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			c, err := compare(items[mid], item)
			if err != nil {
				return 0, false, err
			}
			if c <= 0 {
				lo = mid + 1
			} else {
				hi = mid
			}
		}

		if len(items) == 0 {
			// no element to compare against, still reject unordered types
			if _, err := compare(item, item); err != nil {
				return 0, false, err
			}
		}

		if unique && lo > 0 {
			c, err := compare(items[lo-1], item)
			if err != nil {
				return 0, false, err
			}
			if c == 0 {
				return 0, false, nil
			}
		}

		return lo, true, nil
	}
}

// SortedList keeps its elements ordered and accepts duplicates.
type SortedList[T comparable] struct {
	*Collection[T]
	comparator Comparator[T]
}

// NewSortedList orders by comparator or, when nil, by natural ordering.
func NewSortedList[T comparable](comparator Comparator[T]) *SortedList[T] {
	return &SortedList[T]{
		Collection: newCollection[T](sortedPlacement[T](compareFunc(comparator), false)),
		comparator: comparator,
	}
}

// Comparator returns the injected comparator, nil for natural ordering.
func (l *SortedList[T]) Comparator() Comparator[T] {
	return l.comparator
}

func (l *SortedList[T]) Set(i int, item T) (T, error) {
	var zero T
	return zero, ErrUnsupported
}

func (l *SortedList[T]) InsertAt(i int, item T) error {
	return ErrUnsupported
}

// ListIterator traverses both ways; Set and Add are unsupported.
func (l *SortedList[T]) ListIterator() *ListIterator[T] {
	it, _ := l.newIterator(0, modeRemove)
	return &ListIterator[T]{it}
}

func (l *SortedList[T]) ReadOnlyListIterator() *ListIterator[T] {
	it, _ := l.newIterator(0, modeReadOnly)
	return &ListIterator[T]{it}
}

// SortedSet keeps its elements ordered and rejects items comparing equal to
// an existing one.
type SortedSet[T comparable] struct {
	*Collection[T]
	comparator Comparator[T]
}

func NewSortedSet[T comparable](comparator Comparator[T]) *SortedSet[T] {
	return &SortedSet[T]{
		Collection: newCollection[T](sortedPlacement[T](compareFunc(comparator), true)),
		comparator: comparator,
	}
}

func (s *SortedSet[T]) Comparator() Comparator[T] {
	return s.comparator
}

func (s *SortedSet[T]) HeadSet(to T) (*SortedSet[T], error) {
	return nil, ErrUnsupported
}

func (s *SortedSet[T]) TailSet(from T) (*SortedSet[T], error) {
	return nil, ErrUnsupported
}

func (s *SortedSet[T]) SubSet(from, to T) (*SortedSet[T], error) {
	return nil, ErrUnsupported
}
