package view

import (
	"slices"
	"sync"
	"sync/atomic"
)

// ProxyCreator turns a descriptor into the item stored in a view. destroy,
// when not nil, is called once the item leaves the view or is rejected.
type ProxyCreator[T any] interface {
	CreateProxy(d Descriptor) (item T, destroy func(), err error)
}

type ProxyCreatorFunc[T any] func(d Descriptor) (T, func(), error)

func (f ProxyCreatorFunc[T]) CreateProxy(d Descriptor) (T, func(), error) {
	return f(d)
}

// Updater is implemented by items that follow the changes of their service.
// Update may be called with revisions out of order; older ones must be
// ignored.
type Updater interface {
	Update(d Descriptor)
}

// BindListener is told about every item entering and leaving the view.
// Metadata is the descriptor properties of the service behind the item.
type BindListener[T any] interface {
	Bind(item T, metadata map[string]interface{}) error
	Unbind(item T, metadata map[string]interface{}) error
}

type BindFuncs[T any] struct {
	OnBind   func(item T, metadata map[string]interface{}) error
	OnUnbind func(item T, metadata map[string]interface{}) error
}

func (f BindFuncs[T]) Bind(item T, metadata map[string]interface{}) error {
	if f.OnBind == nil {
		return nil
	}
	return f.OnBind(item, metadata)
}

func (f BindFuncs[T]) Unbind(item T, metadata map[string]interface{}) error {
	if f.OnUnbind == nil {
		return nil
	}
	return f.OnUnbind(item, metadata)
}

// StateListener is told when a required view becomes satisfied (first item)
// and unsatisfied (last item gone).
type StateListener interface {
	Satisfied()
	Unsatisfied()
}

type StateFuncs struct {
	OnSatisfied   func()
	OnUnsatisfied func()
}

func (f StateFuncs) Satisfied() {
	if f.OnSatisfied != nil {
		f.OnSatisfied()
	}
}

func (f StateFuncs) Unsatisfied() {
	if f.OnUnsatisfied != nil {
		f.OnUnsatisfied()
	}
}

type registration[L any] struct {
	listener L
}

// listenerList is copy-on-write: dispatch reads a snapshot without locking.
type listenerList[L any] struct {
	mutex    sync.Mutex
	snapshot atomic.Pointer[[]*registration[L]]
}

func (l *listenerList[L]) load() []*registration[L] {
	p := l.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (l *listenerList[L]) add(listener L) (remove func()) {
	r := &registration[L]{listener: listener}

	l.mutex.Lock()
	next := append(slices.Clone(l.load()), r)
	l.snapshot.Store(&next)
	l.mutex.Unlock()

	return func() {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		next := slices.DeleteFunc(slices.Clone(l.load()), func(candidate *registration[L]) bool {
			return candidate == r
		})
		l.snapshot.Store(&next)
	}
}
