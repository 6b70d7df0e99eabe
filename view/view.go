package view

import (
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"

	"github.com/fulldump/registryviews/collection"
	"github.com/fulldump/registryviews/registry"
	"github.com/fulldump/registryviews/utils"
)

type Descriptor = registry.Descriptor

// listIterable is provided by the list shaped backings.
type listIterable[T comparable] interface {
	ReadOnlyListIterator() *collection.ListIterator[T]
}

type entry[T comparable] struct {
	item     T
	destroy  func()
	metadata map[string]interface{}
	revision uint64
}

// View is a collection whose contents follow the services of a registry
// matching a filter. Each matching service is represented by one item built
// by a ProxyCreator. Consumers only read it, through the read-only shapes
// returned by Collection, List, Set and SortedSet.
//
// Listeners never run under a lock and see bind, unbind and state changes in
// the order the view applied them.
type View[T comparable] struct {
	name     string
	filter   registry.Filter
	required bool
	kind     Kind
	logger   *zap.Logger

	source  registry.Source
	creator ProxyCreator[T]

	items      *collection.Collection[T]
	lists      listIterable[T]
	comparator collection.Comparator[T]

	mutex        *sync.Mutex
	entries      map[string]*entry[T]
	nonEmpty     bool
	opened       bool
	closed       bool
	subscription *registry.Subscription

	// touched holds the ids that got an event while Open reconciles. Those
	// events are newer than the lookup being reconciled.
	touched map[string]bool

	bindListeners  listenerList[BindListener[T]]
	stateListeners listenerList[StateListener]

	// pending is filled under mutex and drained by one dispatcher at a time
	pending     []func()
	dispatching sync.Mutex
}

func New[T comparable](source registry.Source, creator ProxyCreator[T], options ...Option) (*View[T], error) {

	s := &settings{
		name:   "view",
		kind:   KindList,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}

	var comparator collection.Comparator[T]
	if s.comparator != nil {
		c, ok := s.comparator.(collection.Comparator[T])
		if !ok {
			return nil, fmt.Errorf("%w: comparator %T does not order %T", collection.ErrTypeMismatch, s.comparator, *new(T))
		}
		comparator = c
	}

	v := &View[T]{
		name:       s.name,
		filter:     s.filter,
		required:   s.required,
		kind:       s.kind,
		logger:     s.logger.With(zap.String("view", s.name)),
		source:     source,
		creator:    creator,
		comparator: comparator,
		mutex:      &sync.Mutex{},
		entries:    map[string]*entry[T]{},
	}

	switch s.kind {
	case KindList:
		l := collection.NewList[T]()
		v.items, v.lists = l.Collection, l
	case KindSet:
		v.items = collection.NewSet[T]().Collection
	case KindSortedList:
		l := collection.NewSortedList[T](comparator)
		v.items, v.lists = l.Collection, l
	case KindSortedSet:
		v.items = collection.NewSortedSet[T](comparator).Collection
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownKind, s.kind)
	}

	return v, nil
}

func (v *View[T]) Name() string {
	return v.name
}

func (v *View[T]) Kind() Kind {
	return v.kind
}

func (v *View[T]) Filter() registry.Filter {
	return v.filter
}

func (v *View[T]) Required() bool {
	return v.required
}

// Satisfied is true for optional views and for required views holding at
// least one item.
func (v *View[T]) Satisfied() bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return !v.required || v.nonEmpty
}

// IDs returns the ids of the services currently in the view, sorted.
func (v *View[T]) IDs() []string {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return utils.GetKeys(v.entries)
}

// AddBindListener registers l. Items already in the view are not replayed.
func (v *View[T]) AddBindListener(l BindListener[T]) (remove func()) {
	return v.bindListeners.add(l)
}

func (v *View[T]) AddStateListener(l StateListener) (remove func()) {
	return v.stateListeners.add(l)
}

// Open starts following the registry: current services are tracked, then
// events are. A second lookup after subscribing catches what changed in
// between.
func (v *View[T]) Open() error {

	v.mutex.Lock()
	if v.closed {
		v.mutex.Unlock()
		return ErrClosed
	}
	if v.opened {
		v.mutex.Unlock()
		return ErrAlreadyOpen
	}
	v.opened = true
	v.mutex.Unlock()

	probe, err := v.source.Lookup(v.filter)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	for _, d := range probe {
		v.track(d, false)
	}

	v.mutex.Lock()
	v.touched = map[string]bool{}
	v.mutex.Unlock()
	defer func() {
		v.mutex.Lock()
		v.touched = nil
		v.mutex.Unlock()
	}()

	subscription, err := v.source.Subscribe(v.filter, v.onEvent)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	v.mutex.Lock()
	closed := v.closed
	if !closed {
		v.subscription = subscription
	}
	v.mutex.Unlock()
	if closed {
		subscription.Cancel()
		return ErrClosed
	}

	current, err := v.source.Lookup(v.filter)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	present := map[string]bool{}
	for _, d := range current {
		present[d.ID] = true
		v.track(d, true)
	}
	for _, d := range probe {
		if !present[d.ID] {
			v.reconcileRemoved(d.ID)
		}
	}

	v.logger.Debug("view opened",
		zap.String("kind", string(v.kind)),
		zap.Bool("required", v.required),
		zap.Int("items", len(v.IDs())),
	)

	return nil
}

// Close stops following the registry and drops every item, running unbind
// listeners and destruction callbacks. A satisfied required view reports
// unsatisfied.
func (v *View[T]) Close() error {

	v.mutex.Lock()
	if v.closed {
		v.mutex.Unlock()
		return nil
	}
	v.closed = true
	subscription := v.subscription
	v.subscription = nil
	ids := utils.GetKeys(v.entries)
	v.mutex.Unlock()

	if subscription != nil {
		subscription.Cancel()
	}

	for _, id := range ids {
		v.untrack(id)
	}

	v.items.Clear()

	v.logger.Debug("view closed")

	return nil
}

func (v *View[T]) onEvent(e registry.Event) {

	v.mutex.Lock()
	if v.touched != nil {
		v.touched[e.ID] = true
	}
	v.mutex.Unlock()

	switch e.Type {
	case registry.Added, registry.Changed:
		v.track(e.Descriptor, false)
	case registry.Removed:
		v.untrack(e.ID)
	}
}

// stale tells whether a reconciling lookup must leave id alone. Must be
// called with the lock held.
func (v *View[T]) stale(id string, reconciling bool) bool {
	return reconciling && v.touched[id]
}

// reconcileRemoved drops a service missing from the reconciling lookup,
// unless an event already said something newer about it.
func (v *View[T]) reconcileRemoved(id string) {
	v.untrackIf(id, func() bool { return !v.stale(id, true) })
}

func (v *View[T]) track(d Descriptor, reconciling bool) {

	v.mutex.Lock()
	if v.closed || v.stale(d.ID, reconciling) {
		v.mutex.Unlock()
		return
	}
	if e, exists := v.entries[d.ID]; exists {
		var updater Updater
		if d.Revision > e.revision {
			e.metadata = d.Properties
			e.revision = d.Revision
			updater, _ = any(e.item).(Updater)
		}
		v.mutex.Unlock()
		if updater != nil {
			v.safely("update", d.ID, func() error {
				updater.Update(d)
				return nil
			})
		}
		return
	}
	v.mutex.Unlock()

	// user code, out of the lock
	item, destroy, err := v.creator.CreateProxy(d)
	if err != nil {
		v.logger.Warn("create proxy", zap.String("id", d.ID), zap.Error(err))
		return
	}

	accepted := false

	v.mutex.Lock()
	_, exists := v.entries[d.ID]
	if !exists && !v.closed && !v.stale(d.ID, reconciling) {
		added, err := v.items.Add(item)
		if err != nil {
			v.logger.Warn("add item", zap.String("id", d.ID), zap.Error(err))
		}
		if added {
			accepted = true
			e := &entry[T]{
				item:     item,
				destroy:  destroy,
				metadata: d.Properties,
				revision: d.Revision,
			}
			v.entries[d.ID] = e
			v.enqueue(func() {
				v.notifyBind(item, d.Properties)
			})
			v.transition()
		}
	}
	v.mutex.Unlock()

	if !accepted && destroy != nil {
		v.safely("destroy", d.ID, func() error {
			destroy()
			return nil
		})
	}

	v.drain()
}

func (v *View[T]) untrack(id string) {
	v.untrackIf(id, nil)
}

// untrackIf removes id when check, run under the lock, allows it.
func (v *View[T]) untrackIf(id string, check func() bool) {

	v.mutex.Lock()
	e, exists := v.entries[id]
	if !exists || (check != nil && !check()) {
		v.mutex.Unlock()
		return
	}
	delete(v.entries, id)
	v.items.Remove(e.item)
	metadata := e.metadata
	v.enqueue(func() {
		v.notifyUnbind(e.item, metadata)
		if e.destroy != nil {
			v.safely("destroy", id, func() error {
				e.destroy()
				return nil
			})
		}
	})
	v.transition()
	v.mutex.Unlock()

	v.drain()
}

// transition queues a state notification when the view crosses between
// empty and non-empty. Must be called with the lock held.
func (v *View[T]) transition() {
	nonEmpty := len(v.entries) > 0
	if nonEmpty == v.nonEmpty {
		return
	}
	v.nonEmpty = nonEmpty

	if !v.required {
		return
	}

	if nonEmpty {
		v.enqueue(v.notifySatisfied)
	} else {
		v.enqueue(v.notifyUnsatisfied)
	}
}

func (v *View[T]) enqueue(notification func()) {
	v.pending = append(v.pending, notification)
}

// drain delivers pending notifications. Only one goroutine delivers at a
// time; a listener causing new notifications returns immediately and the
// running dispatcher delivers them afterwards.
func (v *View[T]) drain() {
	for {
		if !v.dispatching.TryLock() {
			return
		}

		for {
			v.mutex.Lock()
			if len(v.pending) == 0 {
				v.mutex.Unlock()
				break
			}
			next := v.pending[0]
			v.pending[0] = nil
			v.pending = v.pending[1:]
			v.mutex.Unlock()

			next()
		}

		v.dispatching.Unlock()

		// something may have been queued after the last check by a goroutine
		// that found the dispatcher busy
		v.mutex.Lock()
		empty := len(v.pending) == 0
		v.mutex.Unlock()
		if empty {
			return
		}
	}
}

func (v *View[T]) notifyBind(item T, metadata map[string]interface{}) {
	for _, r := range v.bindListeners.load() {
		v.safely("bind", "", func() error {
			return r.listener.Bind(item, maps.Clone(metadata))
		})
	}
}

func (v *View[T]) notifyUnbind(item T, metadata map[string]interface{}) {
	for _, r := range v.bindListeners.load() {
		v.safely("unbind", "", func() error {
			return r.listener.Unbind(item, maps.Clone(metadata))
		})
	}
}

func (v *View[T]) notifySatisfied() {
	v.logger.Info("view satisfied")
	for _, r := range v.stateListeners.load() {
		v.safely("satisfied", "", func() error {
			r.listener.Satisfied()
			return nil
		})
	}
}

func (v *View[T]) notifyUnsatisfied() {
	v.logger.Info("view unsatisfied")
	for _, r := range v.stateListeners.load() {
		v.safely("unsatisfied", "", func() error {
			r.listener.Unsatisfied()
			return nil
		})
	}
}

// safely runs user code, logging its error or panic instead of letting it
// reach the registry.
func (v *View[T]) safely(callback, id string, f func() error) {
	fields := []zap.Field{zap.String("callback", callback)}
	if id != "" {
		fields = append(fields, zap.String("id", id))
	}

	defer func() {
		if p := recover(); p != nil {
			v.logger.Warn("callback panic", append(fields, zap.Any("panic", p))...)
		}
	}()

	err := f()
	if err != nil {
		v.logger.Warn("callback failed", append(fields, zap.Error(err))...)
	}
}

// available fails when a required view has nothing to offer.
func (v *View[T]) available() error {
	if v.required && v.items.IsEmpty() {
		return fmt.Errorf("%w: required view '%s' is empty", ErrUnavailable, v.name)
	}
	return nil
}
