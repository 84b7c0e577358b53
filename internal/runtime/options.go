package runtime

import "borth.dev/borth/internal/lang"

// Option configures a Runtime at construction time, mirroring the
// functional-options shape the teacher's public API uses throughout
// (pkg/losp/options.go's WithSQLiteStore/WithMemoryStore family).
type Option func(*Runtime)

// WithLogf installs an ambient logging hook. The runtime calls it for
// diagnostic events (vocabulary resolution, recompilation) if non-nil;
// it is never required for correctness.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(rt *Runtime) {
		rt.logf = logf
	}
}

// WithDefaultOption preseeds an interpreter option (e.g.
// "unbound-word-as-string") before any source runs.
func WithDefaultOption(key string, val lang.Value) Option {
	return func(rt *Runtime) {
		rt.options[key] = val
	}
}

// WithVocabularyFactory registers a lazy vocabulary factory up front, the
// same role register(name, factory) plays on the resolver at runtime
// (spec.md §4.5), just available before the first using: runs.
func WithVocabularyFactory(name string, factory VocabularyFactory) Option {
	return func(rt *Runtime) {
		rt.resolver.Register(name, factory)
	}
}
