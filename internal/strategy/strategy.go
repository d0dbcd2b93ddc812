package strategy

import (
	"context"
	"fmt"

	"signal-scanner/models"
)

// Strategy analyzes one instrument's multi-timeframe data and either
// produces a signal or explains why it declined.
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, data *models.MultiTimeframeData) (*models.StrategyResult, error)
}

// Registry holds the registered strategies. Register everything during
// startup; lookups after that need no locking.
type Registry struct {
	strategies map[string]Strategy
	order      []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy, replacing any previous one with the same name.
func (r *Registry) Register(s Strategy) {
	if _, ok := r.strategies[s.Name()]; !ok {
		r.order = append(r.order, s.Name())
	}
	r.strategies[s.Name()] = s
}

// Get returns a strategy by name.
func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// Names lists registered strategy names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// All returns the strategies in registration order.
func (r *Registry) All() []Strategy {
	out := make([]Strategy, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.strategies[name])
	}
	return out
}
