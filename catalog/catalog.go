package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json2 "github.com/go-json-experiment/json"
	"go.uber.org/zap"

	"github.com/fulldump/registryviews/proxy"
	"github.com/fulldump/registryviews/registry"
	"github.com/fulldump/registryviews/view"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrViewAlreadyExists = errors.New("view already exists")
	ErrViewNotFound      = errors.New("view not found")
	ErrInvalidView       = errors.New("invalid view")
	ErrClosing           = errors.New("catalog is closing")
)

type Config struct {
	// Views is an optional json file with a list of ViewConfig loaded at
	// start.
	Views  string
	Logger *zap.Logger
}

type ViewConfig struct {
	Name     string                 `json:"name"`
	Kind     string                 `json:"kind"`
	Filter   map[string]interface{} `json:"filter"`
	Required bool                   `json:"required"`
}

// Entry is a named view plus what the catalog knows about it.
type Entry struct {
	Config  ViewConfig
	View    *view.View[*proxy.Service]
	Created time.Time

	transitions atomic.Int64
}

// Transitions counts satisfied/unsatisfied changes of a required view.
func (e *Entry) Transitions() int64 {
	return e.transitions.Load()
}

// Catalog owns a registry and the named views following it.
type Catalog struct {
	config   *Config
	registry *registry.Registry
	creator  *proxy.Creator
	logger   *zap.Logger

	mutex  *sync.RWMutex
	status string
	views  map[string]*Entry

	exit     chan struct{}
	stopOnce sync.Once
}

func New(config *Config) *Catalog {

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Catalog{
		config:   config,
		registry: registry.New(registry.WithLogger(logger.Named("registry"))),
		creator:  proxy.NewCreator(logger.Named("proxy")),
		logger:   logger.Named("catalog"),
		mutex:    &sync.RWMutex{},
		status:   StatusOpening,
		views:    map[string]*Entry{},
		exit:     make(chan struct{}),
	}
}

func (c *Catalog) GetStatus() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.status
}

func (c *Catalog) setStatus(status string) {
	c.mutex.Lock()
	c.status = status
	c.mutex.Unlock()
}

func (c *Catalog) Registry() *registry.Registry {
	return c.registry
}

func (c *Catalog) Creator() *proxy.Creator {
	return c.creator
}

// Load creates the views listed in the configured file and moves the
// catalog to operating.
func (c *Catalog) Load() error {

	if c.config.Views != "" {
		t0 := time.Now()
		views, err := readViews(c.config.Views)
		if err != nil {
			c.setStatus(StatusClosing)
			return err
		}
		for _, viewConfig := range views {
			_, err := c.CreateView(viewConfig)
			if err != nil {
				c.setStatus(StatusClosing)
				return fmt.Errorf("load view '%s': %w", viewConfig.Name, err)
			}
		}
		c.logger.Info("views loaded",
			zap.String("file", c.config.Views),
			zap.Int("views", len(views)),
			zap.Duration("took", time.Since(t0)),
		)
	}

	c.mutex.Lock()
	if c.status == StatusOpening {
		c.status = StatusOperating
	}
	c.mutex.Unlock()

	return nil
}

func readViews(filename string) ([]ViewConfig, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	views := []ViewConfig{}
	err = json2.UnmarshalRead(f, &views)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %w", filename, err)
	}
	return views, nil
}

// Start loads the catalog and blocks until Stop.
func (c *Catalog) Start() error {

	go func() {
		err := c.Load()
		if err != nil {
			c.logger.Error("load", zap.Error(err))
		}
	}()

	<-c.exit

	return nil
}

// Stop closes every view, which destroys every proxy.
func (c *Catalog) Stop() error {

	var lastErr error
	c.stopOnce.Do(func() {
		defer close(c.exit)

		c.mutex.Lock()
		c.status = StatusClosing
		views := c.views
		c.views = map[string]*Entry{}
		c.mutex.Unlock()

		for name, entry := range views {
			c.logger.Info("closing view", zap.String("view", name))
			err := entry.View.Close()
			if err != nil {
				c.logger.Error("close view", zap.String("view", name), zap.Error(err))
				lastErr = err
			}
		}
	})

	return lastErr
}

func (c *Catalog) CreateView(config ViewConfig) (*Entry, error) {

	if config.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidView)
	}

	kind, err := view.ParseKind(config.Kind)
	if err != nil {
		return nil, err
	}
	config.Kind = string(kind)

	options := []view.Option{
		view.WithName(config.Name),
		view.WithFilter(config.Filter),
		view.WithRequired(config.Required),
		view.WithLogger(c.logger.Named("view")),
	}
	switch kind {
	case view.KindSet:
		options = append(options, view.AsSet())
	case view.KindSortedList:
		options = append(options, view.AsSortedList(proxy.ByRanking))
	case view.KindSortedSet:
		options = append(options, view.AsSortedSet(proxy.ByRanking))
	}

	v, err := view.New[*proxy.Service](c.registry, c.creator, options...)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Config:  config,
		View:    v,
		Created: time.Now(),
	}

	c.mutex.Lock()
	closing := c.status == StatusClosing
	_, exists := c.views[config.Name]
	if !exists && !closing {
		c.views[config.Name] = entry
	}
	c.mutex.Unlock()
	if closing {
		return nil, ErrClosing
	}
	if exists {
		return nil, fmt.Errorf("%w: '%s'", ErrViewAlreadyExists, config.Name)
	}

	v.AddStateListener(view.StateFuncs{
		OnSatisfied: func() {
			entry.transitions.Add(1)
			c.logger.Info("view satisfied", zap.String("view", config.Name))
		},
		OnUnsatisfied: func() {
			entry.transitions.Add(1)
			c.logger.Warn("view unsatisfied", zap.String("view", config.Name))
		},
	})

	err = v.Open()
	if err != nil {
		c.mutex.Lock()
		if c.views[config.Name] == entry {
			delete(c.views, config.Name)
		}
		c.mutex.Unlock()
		v.Close()
		return nil, err
	}

	return entry, nil
}

func (c *Catalog) GetView(name string) (*Entry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.views[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrViewNotFound, name)
	}
	return entry, nil
}

// ListViews returns every view sorted by name.
func (c *Catalog) ListViews() []*Entry {
	c.mutex.RLock()
	result := make([]*Entry, 0, len(c.views))
	for _, entry := range c.views {
		result = append(result, entry)
	}
	c.mutex.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Config.Name < result[j].Config.Name
	})
	return result
}

func (c *Catalog) DropView(name string) error {

	c.mutex.Lock()
	entry, exists := c.views[name]
	delete(c.views, name)
	c.mutex.Unlock()

	if !exists {
		return fmt.Errorf("%w: '%s'", ErrViewNotFound, name)
	}

	return entry.View.Close()
}
