package channel

import (
	"cmp"
	"slices"
	"sync"
)

// Registry owns the canonical [Channel] instance for each id and the bindings
// from owner types to channels. It is safe for concurrent use.
//
// Registration is append-only: channels and bindings are never removed, and
// the first registration for an id or owner wins.
//
// Create instances with [NewRegistry].
type Registry struct {
	byID    map[string]*Channel
	byOwner map[Owner]*Channel
	order   []string
	idCache []string
	mu      sync.RWMutex
}

// NewRegistry creates an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*Channel),
		byOwner: make(map[Owner]*Channel),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide [Registry].
func Default() *Registry {
	return defaultRegistry
}

// Get returns the channel for id, creating and registering it when absent.
// Ids that differ only in case return the same instance.
func (r *Registry) Get(id string) *Channel {
	if ch := r.Lookup(id); ch != nil {
		return ch
	}

	// Racing callers may each build a channel; only the first is kept.
	return r.Register(New(id))
}

// Register adds ch as the canonical channel for its id and returns the
// canonical instance. When the id is already registered, the existing channel
// is kept and returned.
func (r *Registry) Register(ch *Channel) *Channel {
	if ch == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registerLocked(ch)
}

func (r *Registry) registerLocked(ch *Channel) *Channel {
	if existing, ok := r.byID[ch.id]; ok {
		return existing
	}

	r.byID[ch.id] = ch
	r.order = append(r.order, ch.id)
	r.idCache = nil

	return ch
}

// Lookup returns the registered channel for id, or nil.
func (r *Registry) Lookup(id string) *Channel {
	key := normalize(id)

	r.mu.RLock()
	ch := r.byID[key]
	r.mu.RUnlock()

	return ch
}

// Has reports whether a channel with the given id is registered.
func (r *Registry) Has(id string) bool {
	return r.Lookup(id) != nil
}

// IDs returns all registered ids in first-registration order. The list is
// cached until the next registration; each call returns its own copy.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	cached := r.idCache
	r.mu.RUnlock()

	if cached == nil {
		r.mu.Lock()
		if r.idCache == nil {
			r.idCache = slices.Clone(r.order)
			if r.idCache == nil {
				r.idCache = []string{}
			}
		}

		cached = r.idCache
		r.mu.Unlock()
	}

	return slices.Clone(cached)
}

// Bind binds owner to the channel named after its simple name and returns
// that channel. An owner that is already bound keeps its existing channel.
// Bind returns nil for the zero owner.
func (r *Registry) Bind(owner Owner) *Channel {
	if owner.IsZero() {
		return nil
	}

	if ch := r.ForOwner(owner); ch != nil {
		return ch
	}

	return r.BindTo(owner, New(owner.SimpleName()))
}

// BindTo binds owner to ch, registering ch when its id is new, and returns
// the channel owner is bound to. The first binding of an owner wins.
func (r *Registry) BindTo(owner Owner, ch *Channel) *Channel {
	if owner.IsZero() || ch == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byOwner[owner]; ok {
		return existing
	}

	canonical := r.registerLocked(ch)
	r.byOwner[owner] = canonical

	return canonical
}

// BindAll binds each owner as [Registry.Bind] does.
func (r *Registry) BindAll(owners ...Owner) {
	for _, o := range owners {
		r.Bind(o)
	}
}

// ForOwner returns the channel bound to owner, or nil. It never creates
// channels or bindings.
func (r *Registry) ForOwner(owner Owner) *Channel {
	r.mu.RLock()
	ch := r.byOwner[owner]
	r.mu.RUnlock()

	return ch
}

// Owners returns the owners bound to ch, sorted by their string form.
func (r *Registry) Owners(ch *Channel) []Owner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owners []Owner

	for o, bound := range r.byOwner {
		if bound.Equal(ch) {
			owners = append(owners, o)
		}
	}

	slices.SortFunc(owners, func(a, b Owner) int {
		return cmp.Compare(a.String(), b.String())
	})

	return owners
}
