package resilience

import (
	"errors"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Guard runs provider calls through a circuit breaker and reports outcomes to
// a Registry. Calls are never retried.
type Guard struct {
	name     string
	breaker  *gobreaker.CircuitBreaker[struct{}]
	registry *Registry
}

// NewGuard creates a Guard and registers it. registry may be nil.
func NewGuard(cfg CircuitBreakerConfig, registry *Registry) *Guard {
	g := &Guard{
		name:     cfg.Name,
		breaker:  newBreaker(cfg),
		registry: registry,
	}
	if registry != nil {
		registry.Register(cfg.Name, g)
	}
	return g
}

// Do executes fn unless the breaker is open.
// Returns ErrCircuitOpen without calling fn when the breaker rejects the call.
// A nil Guard runs fn directly.
func (g *Guard) Do(fn func() error) error {
	if g == nil {
		return fn()
	}

	_, err := g.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = ErrCircuitOpen
	}

	if g.registry != nil {
		g.registry.Record(g.name, err)
	}
	return err
}

// State returns the current state of the circuit breaker.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}

// Counts returns the current counts of the circuit breaker.
func (g *Guard) Counts() gobreaker.Counts {
	return g.breaker.Counts()
}
