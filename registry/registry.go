package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry is an in-memory dynamic service registry. Services come and go at
// any time; subscribers are told about it through filtered events.
//
// Events are delivered synchronously on the goroutine that registered,
// modified or unregistered the service, never under the registry lock.
// Events of one service id reach every subscriber in mutation order.
type Registry struct {
	mutex    *sync.RWMutex
	services map[string]*record
	ranked   *btree.BTreeG[*record]
	sequence uint64

	subscribers   map[uint64]*Subscription
	subscriptions uint64

	logger *zap.Logger
}

type Option func(r *Registry)

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

func New(options ...Option) *Registry {
	r := &Registry{
		mutex:       &sync.RWMutex{},
		services:    map[string]*record{},
		ranked:      btree.NewG(32, higherRanked),
		subscribers: map[uint64]*Subscription{},
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id        uint64
	filter    Filter
	listener  Listener
	registry  *Registry
	cancelled atomic.Bool
}

// Cancel stops the delivery of events. Deliveries already in progress on
// other goroutines may still reach the listener once.
func (s *Subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}

	r := s.registry
	r.mutex.Lock()
	delete(r.subscribers, s.id)
	r.mutex.Unlock()
}

func (r *Registry) Register(properties map[string]interface{}) (Descriptor, error) {

	normalized, ranking, err := normalize(properties)
	if err != nil {
		return Descriptor{}, err
	}

	rec := &record{
		Descriptor: Descriptor{
			ID:         uuid.NewString(),
			Ranking:    ranking,
			Properties: normalized,
			Registered: time.Now(),
			Revision:   1,
		},
	}

	// Nobody can see rec yet, so holding its delivery lock from here keeps a
	// concurrent Unregister from overtaking the Added event.
	rec.delivery.Lock()
	defer rec.delivery.Unlock()

	r.mutex.Lock()
	r.sequence++
	rec.sequence = r.sequence
	r.services[rec.ID] = rec
	r.ranked.ReplaceOrInsert(rec)
	snapshot := rec.snapshot()
	subscribers := r.snapshotSubscribers()
	r.mutex.Unlock()

	r.logger.Debug("service registered",
		zap.String("id", snapshot.ID),
		zap.Int("ranking", snapshot.Ranking),
	)

	now := time.Now()
	for _, s := range subscribers {
		if r.matches(s, snapshot.Properties) {
			r.deliver(s, Event{Type: Added, ID: snapshot.ID, Descriptor: snapshot, Timestamp: now})
		}
	}

	return snapshot, nil
}

// Modify replaces the properties of a registered service. Subscribers that
// still match get Changed, those that stopped matching get Removed and those
// that start matching get Changed as well.
func (r *Registry) Modify(id string, properties map[string]interface{}) (Descriptor, error) {

	normalized, ranking, err := normalize(properties)
	if err != nil {
		return Descriptor{}, err
	}

	rec, err := r.find(id)
	if err != nil {
		return Descriptor{}, err
	}

	rec.delivery.Lock()
	defer rec.delivery.Unlock()

	r.mutex.Lock()
	if rec.gone {
		r.mutex.Unlock()
		return Descriptor{}, fmt.Errorf("%w: '%s'", ErrServiceNotFound, id)
	}
	before := rec.snapshot()
	r.ranked.Delete(rec)
	rec.Properties = normalized
	rec.Ranking = ranking
	rec.Revision++
	r.ranked.ReplaceOrInsert(rec)
	after := rec.snapshot()
	subscribers := r.snapshotSubscribers()
	r.mutex.Unlock()

	r.logger.Debug("service modified", zap.String("id", id))

	now := time.Now()
	for _, s := range subscribers {
		if r.matches(s, after.Properties) {
			r.deliver(s, Event{Type: Changed, ID: id, Descriptor: after, Timestamp: now})
			continue
		}
		if r.matches(s, before.Properties) {
			r.deliver(s, Event{Type: Removed, ID: id, Descriptor: after, Timestamp: now})
		}
	}

	return after, nil
}

func (r *Registry) Unregister(id string) error {

	rec, err := r.find(id)
	if err != nil {
		return err
	}

	rec.delivery.Lock()
	defer rec.delivery.Unlock()

	r.mutex.Lock()
	if rec.gone {
		r.mutex.Unlock()
		return fmt.Errorf("%w: '%s'", ErrServiceNotFound, id)
	}
	rec.gone = true
	delete(r.services, id)
	r.ranked.Delete(rec)
	snapshot := rec.snapshot()
	subscribers := r.snapshotSubscribers()
	r.mutex.Unlock()

	r.logger.Debug("service unregistered", zap.String("id", id))

	now := time.Now()
	for _, s := range subscribers {
		if r.matches(s, snapshot.Properties) {
			r.deliver(s, Event{Type: Removed, ID: id, Descriptor: snapshot, Timestamp: now})
		}
	}

	return nil
}

func (r *Registry) Get(id string) (Descriptor, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, exists := r.services[id]
	if !exists {
		return Descriptor{}, fmt.Errorf("%w: '%s'", ErrServiceNotFound, id)
	}
	return rec.snapshot(), nil
}

// Lookup returns the services matching filter, highest ranking first.
func (r *Registry) Lookup(filter Filter) ([]Descriptor, error) {

	err := validateFilter(filter)
	if err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := []Descriptor{}
	r.ranked.Ascend(func(rec *record) bool {
		matched, err := match(filter, rec.Properties)
		if err != nil {
			r.logger.Warn("lookup match", zap.String("id", rec.ID), zap.Error(err))
			return true
		}
		if matched {
			result = append(result, rec.snapshot())
		}
		return true
	})

	return result, nil
}

func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.services)
}

// Subscribe registers listener for the events of services matching filter.
// Services already registered are not replayed: use Lookup for them.
func (r *Registry) Subscribe(filter Filter, listener Listener) (*Subscription, error) {

	err := validateFilter(filter)
	if err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.subscriptions++
	s := &Subscription{
		id:       r.subscriptions,
		filter:   filter,
		listener: listener,
		registry: r,
	}
	r.subscribers[s.id] = s

	return s, nil
}

func (r *Registry) find(id string) (*record, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, exists := r.services[id]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrServiceNotFound, id)
	}
	return rec, nil
}

// snapshotSubscribers must be called with the lock held. The result is in
// subscription order.
func (r *Registry) snapshotSubscribers() []*Subscription {
	result := make([]*Subscription, 0, len(r.subscribers))
	for _, s := range r.subscribers {
		result = append(result, s)
	}
	slices.SortFunc(result, func(a, b *Subscription) int {
		return cmp.Compare(a.id, b.id)
	})
	return result
}

func (r *Registry) matches(s *Subscription, properties map[string]interface{}) bool {
	matched, err := match(s.filter, properties)
	if err != nil {
		r.logger.Warn("subscription match", zap.Uint64("subscription", s.id), zap.Error(err))
		return false
	}
	return matched
}

func (r *Registry) deliver(s *Subscription, e Event) {
	if s.cancelled.Load() {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("listener panic",
				zap.Uint64("subscription", s.id),
				zap.String("event", string(e.Type)),
				zap.String("id", e.ID),
				zap.Any("panic", p),
			)
		}
	}()

	s.listener(e)
}
