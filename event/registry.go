package event

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/obkit/go-obkit/logger"
)

// Named is the part of a descriptor visible to the registry; every
// Descriptor instantiation implements it.
type Named interface {
	Name() string
}

// Registry is an optional name-indexed catalog of declared events, for hosts
// that wire descriptors up by configuration (the retrofit builder registers
// through it). It never participates in dispatch.
type Registry struct {
	cfg Config
	log *logger.Logger

	mu     sync.RWMutex
	events map[string]Named
}

// NewRegistry creates a registry with the given configuration. A nil logger
// falls back to a no-op one.
func NewRegistry(cfg Config, lg *logger.Logger) *Registry {
	if lg == nil {
		lg = logger.Nop("event")
	}
	return &Registry{
		cfg:    cfg,
		log:    lg,
		events: make(map[string]Named),
	}
}

// Register adds a descriptor under its name. Registering a name twice fails
// with ErrDuplicateEvent. When the registry is disabled by configuration,
// Register is a no-op that still reports success, so declaration code does
// not need to care.
func (r *Registry) Register(d Named) error {
	if d == nil {
		return fmt.Errorf("event registry: %w: nil descriptor", ErrArgument)
	}
	if !r.cfg.Enabled {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	name := d.Name()
	if _, ok := r.events[name]; ok {
		return fmt.Errorf("event registry: %q: %w", name, ErrDuplicateEvent)
	}
	r.events[name] = d
	r.log.Debug("event registered", zap.String("event", name))
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Named, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.events[name]
	return d, ok
}

// Names returns the registered event names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered events.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
