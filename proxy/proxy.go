package proxy

import (
	"cmp"
	"errors"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fulldump/registryviews/collection"
	"github.com/fulldump/registryviews/registry"
)

var ErrInvalidated = errors.New("proxy invalidated")

// Service is a stand-in for a registered service. It stays usable until the
// view that created it drops the service, then it reports ErrInvalidated.
// Properties and ranking follow Modify; the position in sorted views is the
// one computed when the service entered the view.
type Service struct {
	id         string
	registered time.Time
	position   int // ranking used for ordering, fixed

	mutex      sync.RWMutex
	descriptor registry.Descriptor

	valid atomic.Bool
}

func (s *Service) ID() string {
	return s.id
}

func (s *Service) Ranking() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.descriptor.Ranking
}

func (s *Service) Revision() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.descriptor.Revision
}

func (s *Service) Properties() (map[string]interface{}, error) {
	if !s.valid.Load() {
		return nil, ErrInvalidated
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return maps.Clone(s.descriptor.Properties), nil
}

// Update takes d when it is newer than what the service holds.
func (s *Service) Update(d registry.Descriptor) {
	if d.ID != s.id {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if d.Revision <= s.descriptor.Revision {
		return
	}
	s.descriptor = d
}

func (s *Service) Valid() bool {
	return s.valid.Load()
}

func (s *Service) String() string {
	return "service(" + s.id + ")"
}

// Creator builds Services for views. It satisfies
// view.ProxyCreator[*proxy.Service].
type Creator struct {
	logger *zap.Logger
	live   atomic.Int64
}

func NewCreator(logger *zap.Logger) *Creator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Creator{
		logger: logger,
	}
}

func (c *Creator) CreateProxy(d registry.Descriptor) (*Service, func(), error) {

	s := &Service{
		id:         d.ID,
		registered: d.Registered,
		position:   d.Ranking,
		descriptor: d,
	}
	s.valid.Store(true)
	c.live.Add(1)

	destroy := func() {
		if !s.valid.Swap(false) {
			return
		}
		c.live.Add(-1)
		c.logger.Debug("proxy destroyed", zap.String("id", d.ID))
	}

	return s, destroy, nil
}

// Live is the number of proxies created and not destroyed yet.
func (c *Creator) Live() int64 {
	return c.live.Load()
}

// ByRanking orders services highest ranking first, then by registration
// time and id.
var ByRanking collection.Comparator[*Service] = func(a, b *Service) int {
	if a.position != b.position {
		return cmp.Compare(b.position, a.position)
	}
	if c := a.registered.Compare(b.registered); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}
