package collection

import "sync"

type iteratorMode uint8

const (
	modeReadOnly iteratorMode = iota // no Remove, Set or Add
	modeRemove                       // Remove only
	modeFull                         // Remove, Set and Add
)

// memo remembers what the last HasNext/HasPrevious answered, and in which
// direction. Next/Previous honour it and reset it.
type memo uint8

const (
	memoUnknown memo = iota
	memoNextSucceeds
	memoNextFails
	memoPrevSucceeds
	memoPrevFails
)

// Iterator is a live iterator over a Collection. It is safe to share between
// goroutines, although interleaving HasNext/Next from several goroutines on
// the same iterator has no useful meaning.
//
// Iterators need no explicit release: an unreachable iterator is dropped
// from the collection. Close releases it eagerly.
type Iterator[T comparable] struct {
	c      *Collection[T]
	handle uint64
	mode   iteratorMode

	mutex  sync.Mutex
	closed bool
	cursor int
	memo   memo

	// ghost holds an element confirmed by HasNext/HasPrevious that was
	// removed before the matching Next/Previous.
	ghost     bool
	ghostItem T

	// last is the index of the element returned by the last Next/Previous,
	// or -1. lastGone is set when that element was returned as a ghost or
	// removed by someone else since.
	last     int
	lastGone bool
	permit   bool
}

// inserted adjusts the cursor after an insertion at index i. Called with the
// collection and registry locks held.
func (it *Iterator[T]) inserted(i int) {
	it.mutex.Lock()
	defer it.mutex.Unlock()

	switch {
	case i < it.cursor:
		it.cursor++
	case i == it.cursor && it.memo == memoNextSucceeds && !it.ghost:
		// keep pointing at the element HasNext confirmed
		it.cursor++
	}

	if it.last >= 0 && i <= it.last {
		it.last++
	}
}

// removed adjusts the cursor after item was removed from index i. Called
// with the collection and registry locks held.
func (it *Iterator[T]) removed(i int, item T) {
	it.mutex.Lock()
	defer it.mutex.Unlock()

	switch {
	case it.memo == memoNextSucceeds && !it.ghost && i == it.cursor:
		it.ghost, it.ghostItem = true, item
	case it.memo == memoPrevSucceeds && !it.ghost && i == it.cursor-1:
		it.ghost, it.ghostItem = true, item
		it.cursor--
	case i < it.cursor:
		it.cursor--
	}

	switch {
	case i == it.last:
		it.last = -1
		it.lastGone = true
	case i < it.last:
		it.last--
	}
}

func (it *Iterator[T]) clearGhost() {
	var zero T
	it.ghost, it.ghostItem = false, zero
}

// locked runs f holding the collection read lock and the iterator lock.
func (it *Iterator[T]) locked(f func()) {
	it.c.mutex.RLock()
	defer it.c.mutex.RUnlock()
	it.mutex.Lock()
	defer it.mutex.Unlock()
	f()
}

func (it *Iterator[T]) hasNext() bool {
	if it.closed {
		it.memo = memoNextFails
		return false
	}
	if it.ghost && it.memo == memoNextSucceeds {
		return true
	}
	it.clearGhost()
	if it.cursor < len(it.c.items) {
		it.memo = memoNextSucceeds
		return true
	}
	it.memo = memoNextFails
	return false
}

func (it *Iterator[T]) hasPrevious() bool {
	if it.closed {
		it.memo = memoPrevFails
		return false
	}
	if it.ghost && it.memo == memoPrevSucceeds {
		return true
	}
	it.clearGhost()
	if it.cursor > 0 {
		it.memo = memoPrevSucceeds
		return true
	}
	it.memo = memoPrevFails
	return false
}

// HasNext reports whether Next will succeed. A true answer is a promise: the
// next Next returns an element even if it is removed in between. A false
// answer is a promise too, regardless of later additions.
func (it *Iterator[T]) HasNext() (ok bool) {
	it.locked(func() {
		ok = it.hasNext()
	})
	return
}

func (it *Iterator[T]) Next() (item T, err error) {
	it.locked(func() {
		item, err = it.next()
	})
	return
}

func (it *Iterator[T]) next() (T, error) {
	if it.memo != memoNextSucceeds && it.memo != memoNextFails {
		it.hasNext()
	}
	answer := it.memo
	it.memo = memoUnknown

	var zero T
	if answer == memoNextFails {
		return zero, ErrExhausted
	}

	it.permit = true
	if it.ghost {
		item := it.ghostItem
		it.clearGhost()
		it.last, it.lastGone = -1, true
		return item, nil
	}

	item := it.c.items[it.cursor]
	it.last, it.lastGone = it.cursor, false
	it.cursor++
	return item, nil
}

func (it *Iterator[T]) previous() (T, error) {
	if it.memo != memoPrevSucceeds && it.memo != memoPrevFails {
		it.hasPrevious()
	}
	answer := it.memo
	it.memo = memoUnknown

	var zero T
	if answer == memoPrevFails {
		return zero, ErrExhausted
	}

	it.permit = true
	if it.ghost {
		item := it.ghostItem
		it.clearGhost()
		it.last, it.lastGone = -1, true
		return item, nil
	}

	it.cursor--
	item := it.c.items[it.cursor]
	it.last, it.lastGone = it.cursor, false
	return item, nil
}

// Remove removes the element returned by the last Next/Previous. It is
// allowed once per traversal call. If that element is already gone the call
// succeeds without touching the collection.
func (it *Iterator[T]) Remove() error {
	if it.mode == modeReadOnly {
		return ErrUnsupported
	}

	c := it.c
	c.mutex.Lock()
	defer c.mutex.Unlock()

	it.mutex.Lock()
	if !it.permit || it.closed {
		it.mutex.Unlock()
		return ErrIllegalState
	}
	it.permit = false
	last, gone := it.last, it.lastGone
	it.mutex.Unlock()

	if gone || last < 0 {
		return nil
	}

	// adjusts this iterator too, through the registry
	c.removeAt(last)
	return nil
}

// Close releases the iterator. Further calls behave as if exhausted.
func (it *Iterator[T]) Close() {
	it.mutex.Lock()
	it.closed = true
	it.clearGhost()
	it.mutex.Unlock()

	it.c.iterators.forget(it.handle)
}

// ListIterator adds bidirectional traversal and in-place modification.
type ListIterator[T comparable] struct {
	*Iterator[T]
}

func (it *ListIterator[T]) HasPrevious() (ok bool) {
	it.locked(func() {
		ok = it.hasPrevious()
	})
	return
}

func (it *ListIterator[T]) Previous() (item T, err error) {
	it.locked(func() {
		item, err = it.previous()
	})
	return
}

// NextIndex is the index of the element Next would return.
func (it *ListIterator[T]) NextIndex() (i int) {
	it.locked(func() {
		i = it.cursor
	})
	return
}

func (it *ListIterator[T]) PreviousIndex() int {
	return it.NextIndex() - 1
}

// Set replaces the element returned by the last Next/Previous. After Next
// the affected index is cursor-1, after Previous it is cursor; concurrent
// shifts are already folded into the tracked index.
func (it *ListIterator[T]) Set(item T) error {
	if it.mode != modeFull {
		return ErrUnsupported
	}

	c := it.c
	c.mutex.Lock()
	defer c.mutex.Unlock()

	it.mutex.Lock()
	defer it.mutex.Unlock()

	if !it.permit || it.closed || it.last < 0 {
		return ErrIllegalState
	}
	it.permit = false
	c.items[it.last] = item
	return nil
}

// Add inserts item at the cursor: a following Next is unaffected and a
// following Previous returns item.
func (it *ListIterator[T]) Add(item T) error {
	if it.mode != modeFull {
		return ErrUnsupported
	}

	c := it.c
	c.mutex.Lock()
	defer c.mutex.Unlock()

	it.mutex.Lock()
	if it.closed {
		it.mutex.Unlock()
		return ErrIllegalState
	}
	it.memo = memoUnknown
	it.clearGhost()
	i := it.cursor
	it.mutex.Unlock()

	c.insert(i, item)

	it.mutex.Lock()
	it.cursor++
	it.last, it.lastGone, it.permit = -1, false, false
	it.mutex.Unlock()

	return nil
}
