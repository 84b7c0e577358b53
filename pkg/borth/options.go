package borth

import (
	"borth.dev/borth/internal/card"
	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/runtime"
)

// Option configures a Runtime, mirroring the functional-options pattern
// the teacher's pkg/losp/options.go uses for its own Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite-backed card storage at path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := card.NewSQLite(path)
		if err == nil {
			r.store = s
		}
	}
}

// WithMemoryStore configures in-memory card storage (for testing, and for
// hosts that don't need cards to survive a restart).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = card.NewMemory()
	}
}

// WithLogf installs a diagnostic log sink, threaded down to the
// interpreter's own debug logging (spec.md §9).
func WithLogf(logf func(format string, args ...any)) Option {
	return func(r *Runtime) {
		r.rtOpts = append(r.rtOpts, runtime.WithLogf(logf))
	}
}

// WithDefaultOption seeds an interpreter option (as if by opt: key val)
// before any source runs.
func WithDefaultOption(key string, val lang.Value) Option {
	return func(r *Runtime) {
		r.rtOpts = append(r.rtOpts, runtime.WithDefaultOption(key, val))
	}
}

// WithVocabulary registers a host-backed vocabulary factory, resolvable
// from Borth source via using: name (spec.md §4.2/§4.6 module system).
func WithVocabulary(name string, factory func(rt *runtime.Runtime) (*lang.Vocabulary, error)) Option {
	return func(r *Runtime) {
		r.rtOpts = append(r.rtOpts, runtime.WithVocabularyFactory(name, factory))
	}
}

// WithExposed installs host values as literal words in vocab (or in the
// default "user" vocabulary when vocab is empty) once the runtime is
// constructed (spec.md §9 Expose).
func WithExposed(vocab string, values map[string]lang.Value) Option {
	return func(r *Runtime) {
		r.exposures = append(r.exposures, exposure{vocab: vocab, values: values})
	}
}
