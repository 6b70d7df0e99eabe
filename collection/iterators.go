package collection

import (
	"runtime"
	"sync"
	"weak"
)

// iteratorRegistry tracks live iterators by handle without keeping them
// reachable. Entries whose iterator was collected are pruned on the next
// adjustment pass, or by the cleanup attached at registration.
//
// Lock order: collection mutex, then registry mutex, then iterator mutex.
type iteratorRegistry[T comparable] struct {
	mutex *sync.Mutex
	next  uint64
	live  map[uint64]weak.Pointer[Iterator[T]]
}

func newIteratorRegistry[T comparable]() *iteratorRegistry[T] {
	return &iteratorRegistry[T]{
		mutex: &sync.Mutex{},
		live:  map[uint64]weak.Pointer[Iterator[T]]{},
	}
}

func (r *iteratorRegistry[T]) track(it *Iterator[T]) {
	r.mutex.Lock()
	r.next++
	it.handle = r.next
	r.live[it.handle] = weak.Make(it)
	r.mutex.Unlock()

	runtime.AddCleanup(it, r.forget, it.handle)
}

func (r *iteratorRegistry[T]) forget(handle uint64) {
	r.mutex.Lock()
	delete(r.live, handle)
	r.mutex.Unlock()
}

// each calls f for every iterator still reachable. f runs with the registry
// mutex held and must take the iterator mutex itself.
func (r *iteratorRegistry[T]) each(f func(it *Iterator[T])) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for handle, w := range r.live {
		it := w.Value()
		if it == nil {
			delete(r.live, handle)
			continue
		}
		f(it)
	}
}

func (r *iteratorRegistry[T]) len() int {
	n := 0
	r.each(func(*Iterator[T]) {
		n++
	})
	return n
}
