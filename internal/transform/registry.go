package transform

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Transformer type keys. The set is fixed; unknown keys fail.
const (
	TypeSimple = "simple"
	TypeProj   = "proj"
)

// Registry holds at most one shared transformer instance per type key and
// propagates cache-clear requests to every held instance.
type Registry struct {
	cfg RegistryConfig

	mu        sync.Mutex
	instances map[string]Transformer
}

// RegistryConfig carries the dependencies handed to transformers the
// registry constructs. ProjBackend is an optional external projection engine
// for the "proj" extension type; it is currently consulted only to decide
// what to warn about.
type RegistryConfig struct {
	Simple      SimpleConfig
	ProjBackend any
	Logger      *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Simple.Logger == nil {
		cfg.Simple.Logger = cfg.Logger
	}
	return &Registry{cfg: cfg, instances: make(map[string]Transformer)}
}

// Get returns the shared transformer for a type key, constructing it on
// first use.
func (r *Registry) Get(typeKey string) (Transformer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.instances[typeKey]; ok {
		return t, nil
	}

	switch typeKey {
	case TypeSimple:
		t := NewSimpleWGS84(r.cfg.Simple)
		r.instances[typeKey] = t
		return t, nil
	case TypeProj:
		if r.cfg.ProjBackend == nil {
			r.cfg.Logger.Warn("proj transformer requested without a configured backend")
		} else {
			r.cfg.Logger.Warn("proj transformer backend configured but the integration is not implemented")
		}
		return nil, fmt.Errorf("transformer type %q: %w", typeKey, ErrNotImplemented)
	default:
		return nil, fmt.Errorf("transformer type %q: %w", typeKey, ErrUnknownTransformer)
	}
}

// SupportedProjections reports, per constructible transformer type, the
// projection identifiers it accepts.
func (r *Registry) SupportedProjections() map[string][]string {
	out := map[string][]string{
		TypeSimple: ProjectionNames(),
		TypeProj:   nil,
	}
	return out
}

// ClearCaches invalidates every held instance's cache and empties the
// registry itself; the next Get re-creates instances on demand.
func (r *Registry) ClearCaches(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for key, t := range r.instances {
		if err := t.ClearCache(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clear cache for %q: %w", key, err)
		}
	}
	r.instances = make(map[string]Transformer)
	return firstErr
}
