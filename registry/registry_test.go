package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/fulldump/biff"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mutex  sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	result := []EventType{}
	for _, e := range r.events {
		result = append(result, e.Type)
	}
	return result
}

func TestRegistry(t *testing.T) {

	biff.Alternative("Registry", func(a *biff.A) {

		r := New()

		storage := &recorder{}
		_, err := r.Subscribe(Filter{"interface": "storage"}, storage.listen)
		biff.AssertNil(err)

		everything := &recorder{}
		_, err = r.Subscribe(nil, everything.listen)
		biff.AssertNil(err)

		d, err := r.Register(map[string]interface{}{
			"interface": "storage",
			"ranking":   3,
		})
		biff.AssertNil(err)
		biff.AssertEqual(d.Ranking, 3)
		biff.AssertEqual(len(d.ID), 36)
		biff.AssertEqual(d.Revision, uint64(1))

		biff.AssertEqual(storage.types(), []EventType{Added})
		biff.AssertEqual(everything.types(), []EventType{Added})

		a.Alternative("Get", func(a *biff.A) {
			got, err := r.Get(d.ID)
			biff.AssertNil(err)
			biff.AssertEqual(got.Properties["interface"], "storage")
			biff.AssertEqual(got.Properties["ranking"], float64(3))
		})

		a.Alternative("Snapshots are detached", func(a *biff.A) {
			d.Properties["interface"] = "tampered"

			got, _ := r.Get(d.ID)
			biff.AssertEqual(got.Properties["interface"], "storage")
		})

		a.Alternative("Modify keeps matching", func(a *biff.A) {
			modified, err := r.Modify(d.ID, map[string]interface{}{"interface": "storage", "zone": "b"})
			biff.AssertNil(err)
			biff.AssertEqual(modified.Revision, uint64(2))

			biff.AssertEqual(storage.types(), []EventType{Added, Changed})
			biff.AssertEqual(storage.events[1].Descriptor.Properties["zone"], "b")
		})

		a.Alternative("Modify stops matching", func(a *biff.A) {
			_, err := r.Modify(d.ID, map[string]interface{}{"interface": "queue"})
			biff.AssertNil(err)

			biff.AssertEqual(storage.types(), []EventType{Added, Removed})
			biff.AssertEqual(everything.types(), []EventType{Added, Changed})

			a.Alternative("And back", func(a *biff.A) {
				r.Modify(d.ID, map[string]interface{}{"interface": "storage"})
				biff.AssertEqual(storage.types(), []EventType{Added, Removed, Changed})
			})
		})

		a.Alternative("Unregister", func(a *biff.A) {
			biff.AssertNil(r.Unregister(d.ID))

			biff.AssertEqual(storage.types(), []EventType{Added, Removed})
			biff.AssertEqual(storage.events[1].ID, d.ID)
			biff.AssertEqual(r.Len(), 0)

			a.Alternative("Twice", func(a *biff.A) {
				err := r.Unregister(d.ID)
				biff.AssertTrue(errors.Is(err, ErrServiceNotFound))
			})

			a.Alternative("Modify after", func(a *biff.A) {
				_, err := r.Modify(d.ID, nil)
				biff.AssertTrue(errors.Is(err, ErrServiceNotFound))
			})
		})

		a.Alternative("Not matching register", func(a *biff.A) {
			_, err := r.Register(map[string]interface{}{"interface": "queue"})
			biff.AssertNil(err)

			biff.AssertEqual(storage.types(), []EventType{Added})
			biff.AssertEqual(everything.types(), []EventType{Added, Added})
		})
	})
}

func TestRegistry_LookupRanking(t *testing.T) {

	r := New()

	low, _ := r.Register(map[string]interface{}{"name": "low", "ranking": -1})
	first, _ := r.Register(map[string]interface{}{"name": "first"})
	high, _ := r.Register(map[string]interface{}{"name": "high", "ranking": 10})
	second, _ := r.Register(map[string]interface{}{"name": "second"})

	ids := func(descriptors []Descriptor) []string {
		result := []string{}
		for _, d := range descriptors {
			result = append(result, d.ID)
		}
		return result
	}

	all, err := r.Lookup(nil)
	biff.AssertNil(err)
	biff.AssertEqual(ids(all), []string{high.ID, first.ID, second.ID, low.ID})

	// re-ranking moves it in the index
	r.Modify(low.ID, map[string]interface{}{"name": "low", "ranking": 20})
	all, _ = r.Lookup(nil)
	biff.AssertEqual(ids(all), []string{low.ID, high.ID, first.ID, second.ID})

	filtered, err := r.Lookup(Filter{"ranking": Filter{"$gt": 5}})
	biff.AssertNil(err)
	biff.AssertEqual(ids(filtered), []string{low.ID, high.ID})
}

func TestRegistry_InvalidInput(t *testing.T) {

	r := New()

	_, err := r.Register(map[string]interface{}{"ranking": "high"})
	biff.AssertTrue(errors.Is(err, ErrInvalidProperties))

	_, err = r.Register(map[string]interface{}{"ranking": 1.5})
	biff.AssertTrue(errors.Is(err, ErrInvalidProperties))

	_, err = r.Subscribe(Filter{"name": Filter{"$unknown": 1}}, func(Event) {})
	biff.AssertTrue(errors.Is(err, ErrInvalidFilter))

	_, err = r.Get("missing")
	biff.AssertTrue(errors.Is(err, ErrServiceNotFound))
}

func TestRegistry_Cancel(t *testing.T) {

	r := New()

	events := &recorder{}
	s, _ := r.Subscribe(nil, events.listen)

	r.Register(nil)
	s.Cancel()
	s.Cancel()
	r.Register(nil)

	biff.AssertEqual(events.types(), []EventType{Added})
}

func TestRegistry_ListenerPanic(t *testing.T) {

	core, logs := observer.New(zap.WarnLevel)
	r := New(WithLogger(zap.New(core)))

	r.Subscribe(nil, func(Event) {
		panic("boom")
	})
	survivor := &recorder{}
	r.Subscribe(nil, survivor.listen)

	_, err := r.Register(nil)
	biff.AssertNil(err)

	biff.AssertEqual(survivor.types(), []EventType{Added})
	biff.AssertEqual(logs.FilterMessage("listener panic").Len(), 1)
}

func TestRegistry_ReentrantListener(t *testing.T) {

	r := New()

	seen := 0
	r.Subscribe(Filter{"kind": "trigger"}, func(e Event) {
		if e.Type != Added {
			return
		}
		// listeners run outside the lock
		all, err := r.Lookup(nil)
		biff.AssertNil(err)
		seen = len(all)
		r.Register(map[string]interface{}{"kind": "derived"})
	})

	r.Register(map[string]interface{}{"kind": "trigger"})

	biff.AssertEqual(seen, 1)
	biff.AssertEqual(r.Len(), 2)
}

func TestRegistry_PerIdOrder(t *testing.T) {

	r := New()

	mutex := sync.Mutex{}
	history := map[string][]EventType{}
	r.Subscribe(nil, func(e Event) {
		mutex.Lock()
		defer mutex.Unlock()
		history[e.ID] = append(history[e.ID], e.Type)
	})

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		d, _ := r.Register(nil)
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Modify(d.ID, map[string]interface{}{"step": 1})
		}()
		go func() {
			defer wg.Done()
			r.Unregister(d.ID)
		}()
	}
	wg.Wait()

	for id, types := range history {
		last := types[len(types)-1]
		if last != Removed {
			t.Fatalf("service %s ended with %s: %v", id, last, types)
		}
		if types[0] != Added {
			t.Fatalf("service %s started with %s", id, types[0])
		}
	}
}
