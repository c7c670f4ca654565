package resilience

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Status summarizes a breaker state for health reporting.
type Status string

// Status values.
const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// ProviderHealth is a point-in-time view of one guarded provider.
type ProviderHealth struct {
	Name         string
	CircuitState gobreaker.State
	Counts       gobreaker.Counts

	// LastSuccessAt and LastFailureAt are nil until the first call.
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Status maps the breaker state: closed is ok, half-open is degraded and
// open is down.
func (h ProviderHealth) Status() Status {
	switch h.CircuitState {
	case gobreaker.StateOpen:
		return StatusDown
	case gobreaker.StateHalfOpen:
		return StatusDegraded
	default:
		return StatusOK
	}
}

// Breaker is the read side of a circuit breaker. *Guard implements it.
type Breaker interface {
	State() gobreaker.State
	Counts() gobreaker.Counts
}

type providerRecord struct {
	breaker       Breaker
	lastSuccessAt time.Time
	lastFailureAt time.Time
	lastError     string
}

// Registry tracks the guarded push providers and the outcome of their
// latest calls.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*providerRecord
	now       func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]*providerRecord),
		now:       time.Now,
	}
}

// Register adds or replaces a provider breaker.
func (r *Registry) Register(name string, breaker Breaker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = &providerRecord{breaker: breaker}
}

// Record stores the outcome of one call; a nil err is a success.
// Unknown names are ignored.
func (r *Registry) Record(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.providers[name]
	if !ok {
		return
	}
	if err == nil {
		p.lastSuccessAt = r.now()
		return
	}
	p.lastFailureAt = r.now()
	p.lastError = err.Error()
}

// Health returns the current view of one provider.
func (r *Registry) Health(name string) (ProviderHealth, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return ProviderHealth{}, false
	}
	return p.health(name), true
}

// Snapshot returns every provider ordered by name.
func (r *Registry) Snapshot() []ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderHealth, 0, len(r.providers))
	for _, name := range slices.Sorted(maps.Keys(r.providers)) {
		out = append(out, r.providers[name].health(name))
	}
	return out
}

func (p *providerRecord) health(name string) ProviderHealth {
	return ProviderHealth{
		Name:          name,
		CircuitState:  p.breaker.State(),
		Counts:        p.breaker.Counts(),
		LastSuccessAt: timePtr(p.lastSuccessAt),
		LastFailureAt: timePtr(p.lastFailureAt),
		LastError:     p.lastError,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
