package registry

import (
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// Registry owns the resolved entity table and its domain index. Both are
// built on first use and kept until Reset.
type Registry struct {
	builtins     []Entity
	overridePath string
	logger       interfaces.Logger

	mu       sync.Mutex
	resolved *Resolved
	domains  *DomainIndex
}

// Option configures a Registry.
type Option func(*Registry)

// WithBuiltins replaces the compiled entity table. Mostly useful in tests.
func WithBuiltins(entities []Entity) Option {
	return func(r *Registry) {
		r.builtins = append([]Entity(nil), entities...)
	}
}

// WithOverrideFile sets the project override file. A blank path disables overrides.
func WithOverrideFile(path string) Option {
	return func(r *Registry) {
		r.overridePath = path
	}
}

// WithLogger sets the logger used to report override failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New constructs a registry over the compiled entity table.
func New(opts ...Option) *Registry {
	r := &Registry{
		builtins: builtinEntities,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the merged table, building it on first call.
func (r *Registry) Resolve() *Resolved {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked()
}

func (r *Registry) resolveLocked() *Resolved {
	if r.resolved != nil {
		return r.resolved
	}
	resolved := newResolved(r.builtins)
	overrides, err := LoadOverrides(r.overridePath)
	if err != nil {
		fields := map[string]any{"path": r.overridePath, "error": err}
		var typed *goerrors.Error
		if goerrors.As(err, &typed) {
			fields["text_code"] = typed.TextCode
		}
		logging.WithFields(r.logger, fields).Warn("registry.overrides.ignored")
		overrides = nil
	}
	for _, entity := range overrides {
		resolved.put(entity)
	}
	if len(overrides) > 0 {
		logging.WithFields(r.logger, map[string]any{
			"path":      r.overridePath,
			"overrides": len(overrides),
		}).Debug("registry.overrides.applied")
	}
	r.resolved = resolved
	return resolved
}

// Get returns the entity stored under slug. Keys are case sensitive.
func (r *Registry) Get(slug string) (Entity, bool) {
	return r.Resolve().Get(slug)
}

// All returns every entity in overlay order.
func (r *Registry) All() []Entity {
	return r.Resolve().Entities()
}

// ByCategory returns the entities tagged with category, in overlay order.
func (r *Registry) ByCategory(category string) []Entity {
	var out []Entity
	for _, entity := range r.Resolve().Entities() {
		if entity.Category == category {
			out = append(out, entity)
		}
	}
	return out
}

// Domains returns the domain index derived from the resolved table.
func (r *Registry) Domains() *DomainIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.domains == nil {
		r.domains = NewDomainIndex(r.resolveLocked())
	}
	return r.domains
}

// LookupURL maps the host of rawURL to a slug through the domain index.
func (r *Registry) LookupURL(rawURL string) (string, bool) {
	return r.Domains().Lookup(rawURL)
}

// Reset drops the resolved table and the domain index so the next lookup
// rereads the override file.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = nil
	r.domains = nil
}

// Resolved is an immutable slug keyed snapshot that remembers overlay order.
type Resolved struct {
	order  []string
	bySlug map[string]Entity
}

func newResolved(base []Entity) *Resolved {
	res := &Resolved{
		order:  make([]string, 0, len(base)),
		bySlug: make(map[string]Entity, len(base)),
	}
	for _, entity := range base {
		res.put(entity)
	}
	return res
}

// put replaces an existing slug in place or appends a new one.
func (r *Resolved) put(entity Entity) {
	if _, exists := r.bySlug[entity.Slug]; !exists {
		r.order = append(r.order, entity.Slug)
	}
	r.bySlug[entity.Slug] = entity
}

// Get returns the entity stored under slug.
func (r *Resolved) Get(slug string) (Entity, bool) {
	if r == nil {
		return Entity{}, false
	}
	entity, ok := r.bySlug[slug]
	return entity, ok
}

// Len reports the number of entities.
func (r *Resolved) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Slugs returns the keys in overlay order.
func (r *Resolved) Slugs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Entities returns the records in overlay order.
func (r *Resolved) Entities() []Entity {
	if r == nil {
		return nil
	}
	out := make([]Entity, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.bySlug[slug])
	}
	return out
}
