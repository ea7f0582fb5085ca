package compiler

import (
	"sync"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Capability describes how one node kind participates in compilation.
// The set of kinds is closed; unknown kinds abort compilation with a
// CompileError.
type Capability struct {
	Kind string

	// EmitsAction is true for kinds that produce an on-chain effect.
	EmitsAction bool

	// Defaults are merged underneath authored properties before decoding.
	Defaults map[string]any

	// Compile validates the node and, for action-emitting kinds, transforms
	// the running (token, amount) pair. Returns nil for structural kinds.
	// defaults is the registered Defaults map of the capability being
	// compiled, so a customized registry sees its own values, not the
	// built-in ones.
	Compile func(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error)
}

// Registry holds the capability records keyed by kind tag.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Capability)}
}

// Register adds a capability. An existing record for the same kind is
// overwritten.
func (r *Registry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[c.Kind] = c
}

// Lookup returns the capability for a kind.
func (r *Registry) Lookup(kind string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.kinds[kind]
	return c, ok
}

// Defaults returns the default properties for a kind, or nil for unknown
// kinds. Exposed so callers can resolve defaults without compiling.
func (r *Registry) Defaults(kind string) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.kinds[kind]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(c.Defaults))
	for k, v := range c.Defaults {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the registry. Callers use it to
// customize defaults or capabilities without touching the shared built-in set.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for kind, c := range r.kinds {
		if c.Defaults != nil {
			defaults := make(map[string]any, len(c.Defaults))
			for k, v := range c.Defaults {
				defaults[k] = v
			}
			c.Defaults = defaults
		}
		out.kinds[kind] = c
	}
	return out
}

var defaultRegistry = buildDefaultRegistry()

// DefaultRegistry returns the registry with the built-in capability set.
func DefaultRegistry() *Registry { return defaultRegistry }

func buildDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Capability{
		Kind:        domain.KindTrigger,
		EmitsAction: false,
		Compile:     compileTrigger,
	})

	r.Register(Capability{
		Kind:        domain.KindMint,
		EmitsAction: true,
		Defaults:    map[string]any{"currency": domain.CurrencyUSD},
		Compile:     compileMint,
	})

	r.Register(Capability{
		Kind:        domain.KindSwap,
		EmitsAction: true,
		Defaults:    map[string]any{"slippageTolerance": 0.5},
		Compile:     compileSwap,
	})

	r.Register(Capability{
		Kind:        domain.KindBridge,
		EmitsAction: true,
		Compile:     compileBridge,
	})

	r.Register(Capability{
		Kind:        domain.KindVault,
		EmitsAction: true,
		Compile:     compileVault,
	})

	r.Register(Capability{
		Kind:        domain.KindTransfer,
		EmitsAction: true,
		Compile:     compileTransfer,
	})

	// Structural kinds: no action emitted.
	r.Register(Capability{Kind: domain.KindDecision})
	r.Register(Capability{Kind: domain.KindConditional})
	r.Register(Capability{Kind: domain.KindDelay})

	return r
}
