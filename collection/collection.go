package collection

import (
	"fmt"
	"iter"
	"slices"
	"sync"
)

// placement decides where item goes. ok=false means the collection rejects
// it (duplicate policy).
type placement[T comparable] func(items []T, item T) (index int, ok bool, err error)

// Collection is the storage core shared by every variant: an ordered backing
// slice, the registry of live iterators and a single mutation lock.
//
// Iterators created from a Collection stay consistent under concurrent
// mutation: once HasNext returns true the following Next succeeds, and once
// it returns false the following Next fails.
type Collection[T comparable] struct {
	mutex     *sync.RWMutex
	items     []T
	iterators *iteratorRegistry[T]
	place     placement[T]
}

func newCollection[T comparable](place placement[T]) *Collection[T] {
	return &Collection[T]{
		mutex:     &sync.RWMutex{},
		items:     []T{},
		iterators: newIteratorRegistry[T](),
		place:     place,
	}
}

// New returns a bare storage core: insertion order, duplicates allowed.
func New[T comparable]() *Collection[T] {
	return newCollection[T](appendPlacement[T])
}

func appendPlacement[T comparable](items []T, item T) (int, bool, error) {
	return len(items), true, nil
}

func uniquePlacement[T comparable](items []T, item T) (int, bool, error) {
	if indexOf(items, item) >= 0 {
		return 0, false, nil
	}
	return len(items), true, nil
}

func indexOf[T comparable](items []T, item T) int {
	for i, candidate := range items {
		if equal(candidate, item) {
			return i
		}
	}
	return -1
}

func lockBlock(m sync.Locker, f func() error) error {
	m.Lock()
	defer m.Unlock()
	return f()
}

// Add inserts item where the collection policy places it. It returns false
// when the item is rejected as a duplicate.
func (c *Collection[T]) Add(item T) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.add(item)
}

func (c *Collection[T]) add(item T) (bool, error) {
	i, ok, err := c.place(c.items, item)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	c.insert(i, item)
	return true, nil
}

// AddAll adds every item and reports whether the collection changed. It
// stops at the first placement error.
func (c *Collection[T]) AddAll(items ...T) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	changed := false
	for _, item := range items {
		added, err := c.add(item)
		if err != nil {
			return changed, err
		}
		changed = changed || added
	}
	return changed, nil
}

// insert must be called with the mutation lock held.
func (c *Collection[T]) insert(i int, item T) {
	c.items = slices.Insert(c.items, i, item)
	c.iterators.each(func(it *Iterator[T]) {
		it.inserted(i)
	})
}

// removeAt must be called with the mutation lock held and a valid index.
func (c *Collection[T]) removeAt(i int) T {
	item := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.iterators.each(func(it *Iterator[T]) {
		it.removed(i, item)
	})
	return item
}

// Remove removes the first element equal to item.
func (c *Collection[T]) Remove(item T) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	i := indexOf(c.items, item)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// RemoveAt removes and returns the element at index i.
func (c *Collection[T]) RemoveAt(i int) (T, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, len(c.items))
	}
	return c.removeAt(i), nil
}

// RemoveAll removes the first occurrence of every item and reports whether
// the collection changed.
func (c *Collection[T]) RemoveAll(items ...T) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	changed := false
	for _, item := range items {
		i := indexOf(c.items, item)
		if i < 0 {
			continue
		}
		c.removeAt(i)
		changed = true
	}
	return changed
}

// Clear removes every element, last to first, so live iterators see each
// removal.
func (c *Collection[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i := len(c.items) - 1; i >= 0; i-- {
		c.removeAt(i)
	}
}

func (c *Collection[T]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) IsEmpty() bool {
	return c.Size() == 0
}

func (c *Collection[T]) Contains(item T) bool {
	return c.IndexOf(item) >= 0
}

// IndexOf returns the index of the first element equal to item or -1.
func (c *Collection[T]) IndexOf(item T) int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return indexOf(c.items, item)
}

// ToSlice returns a snapshot copy of the elements.
func (c *Collection[T]) ToSlice() []T {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection[T]) Get(i int) (T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, len(c.items))
	}
	return c.items[i], nil
}

func (c *Collection[T]) First() (T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if len(c.items) == 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	return c.items[0], nil
}

func (c *Collection[T]) Last() (T, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if len(c.items) == 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	return c.items[len(c.items)-1], nil
}

// Iterator returns a live forward iterator positioned before the first
// element. Remove is allowed.
func (c *Collection[T]) Iterator() *Iterator[T] {
	it, _ := c.newIterator(0, modeRemove)
	return it
}

// ReadOnlyIterator is like Iterator but Remove fails with ErrUnsupported.
func (c *Collection[T]) ReadOnlyIterator() *Iterator[T] {
	it, _ := c.newIterator(0, modeReadOnly)
	return it
}

// All yields the elements through a live iterator, so concurrent mutation
// is observed the same way Iterator observes it.
func (c *Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := c.ReadOnlyIterator()
		defer it.Close()
		for it.HasNext() {
			item, err := it.Next()
			if err != nil {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

func (c *Collection[T]) newIterator(start int, mode iteratorMode) (*Iterator[T], error) {
	it := &Iterator[T]{
		c:      c,
		cursor: start,
		last:   -1,
		mode:   mode,
	}

	// Tracking under the read lock: no mutation can slip between the bounds
	// check and the registration.
	err := lockBlock(c.mutex.RLocker(), func() error {
		if start < 0 || start > len(c.items) {
			return fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, start, len(c.items))
		}
		c.iterators.track(it)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return it, nil
}

func (c *Collection[T]) liveIterators() int {
	return c.iterators.len()
}
