package runtime

import "borth.dev/borth/internal/lang"

// VocabularyFactory populates a fresh vocabulary. It receives the owning
// runtime so it can temporarily set current to the new vocabulary while
// defining words into it — and must restore the prior current before
// returning (spec.md §4.5). Auxiliary vocabularies (io, events, editor,
// reflect, graph, hooks) are modeled only as factories of this shape; the
// spec treats their contents as out of scope, so none are registered by
// default — a host embedding Borth supplies its own via
// WithVocabularyFactory or resolver.Register.
type VocabularyFactory func(rt *Runtime) (*lang.Vocabulary, error)

// Resolver is a name → factory registry with a cache of realized
// vocabularies, so resolving the same name twice returns the identical
// object (spec.md §4.5, §8 "idempotent caching").
type Resolver struct {
	factories map[string]VocabularyFactory
	cache     map[string]*lang.Vocabulary
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		factories: map[string]VocabularyFactory{},
		cache:     map[string]*lang.Vocabulary{},
	}
}

// Register adds or replaces the factory for name.
func (r *Resolver) Register(name string, factory VocabularyFactory) {
	r.factories[name] = factory
}

// Resolve returns the cached vocabulary for name, or invokes and caches
// its factory. It reports false if no factory is registered for name.
func (r *Resolver) Resolve(rt *Runtime, name string) (*lang.Vocabulary, bool, error) {
	if v, ok := r.cache[name]; ok {
		return v, true, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, false, nil
	}
	v, err := factory(rt)
	if err != nil {
		return nil, true, err
	}
	r.cache[name] = v
	return v, true, nil
}
