// Package borth is the public API for the Borth interpreter: construct a
// Runtime, feed it source with Run/RunCard, and inspect or extend its
// vocabulary with Find/Def/Expose/AllWords (spec.md §6).
package borth

import (
	"context"
	"io"
	"strconv"

	"borth.dev/borth/internal/card"
	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/primitive"
	"borth.dev/borth/internal/runtime"
)

type exposure struct {
	vocab  string
	values map[string]lang.Value
}

// Runtime wraps the internal executor together with an optional card
// store, the way the teacher's pkg/losp.Runtime wraps internal/eval's
// Evaluator together with an optional store (pkg/losp/losp.go).
type Runtime struct {
	rt    *runtime.Runtime
	store card.Store

	rtOpts    []runtime.Option
	exposures []exposure
}

// New constructs a Runtime: installs the core vocabulary (internal/primitive
// Install), applies every Option, selects a default "user" vocabulary as
// current, and replays any WithExposed calls.
func New(opts ...Option) *Runtime {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}
	r.rt = runtime.New(r.rtOpts...)
	primitive.Install(r.rt)
	r.rt.SelectVocabulary("user")
	for _, e := range r.exposures {
		if e.vocab != "" {
			r.rt.SelectVocabulary(e.vocab)
		}
		r.rt.Expose(e.values)
	}
	r.rt.SelectVocabulary("user")
	return r
}

// Run evaluates source against the runtime with an empty provenance
// context (no card id, version 0) for any word defined while it runs
// (spec.md §4.1). RunCard/RunCardVersion stamp card provenance instead.
func (r *Runtime) Run(ctx context.Context, source string) error {
	return r.rt.Run(ctx, source, "", 0)
}

// RunReader evaluates source read from r in full.
func (r *Runtime) RunReader(ctx context.Context, src io.Reader) error {
	return r.rt.RunReader(ctx, src, "", 0)
}

// RunCard fetches cardID's current head version from the configured card
// store and runs it, stamping that card's id/version as the provenance of
// every word it defines. A later Recompile of those words (spec.md §4.2
// step 4) leaves that provenance unchanged.
func (r *Runtime) RunCard(ctx context.Context, cardID string) error {
	if r.store == nil {
		return errNoStore()
	}
	c, err := r.store.GetCard(cardID)
	if err != nil {
		return err
	}
	v, err := r.store.GetCardVersion(cardID, c.HeadVersion)
	if err != nil {
		return err
	}
	return r.rt.Run(ctx, v.Source, cardID, v.Version)
}

// RunCardVersion runs a specific historical version of a card, without
// touching its head pointer — useful for diffing or re-deriving state from
// an older snapshot (spec.md §4.6 history/rollback).
func (r *Runtime) RunCardVersion(ctx context.Context, cardID string, version int) error {
	if r.store == nil {
		return errNoStore()
	}
	v, err := r.store.GetCardVersion(cardID, version)
	if err != nil {
		return err
	}
	return r.rt.Run(ctx, v.Source, cardID, v.Version)
}

// Find resolves name the way the interpreter itself would (current
// vocabulary, then its imports, then numeric/raw-string fallback).
func (r *Runtime) Find(name string) (lang.Value, error) {
	return r.rt.Find(name)
}

// Def installs a host-provided primitive into the current vocabulary.
func (r *Runtime) Def(name string, arity int, immediate bool, fn lang.PrimitiveFunc) error {
	return r.rt.Def(name, arity, immediate, fn)
}

// Expose installs a batch of host values as literal words in current.
func (r *Runtime) Expose(values map[string]lang.Value) error {
	return r.rt.Expose(values)
}

// AllWords returns every word currently visible to the interpreter.
func (r *Runtime) AllWords() map[string]*lang.Word {
	return r.rt.AllWords()
}

// SelectVocabulary switches the current vocabulary (as if by in: name).
func (r *Runtime) SelectVocabulary(name string) error {
	return r.rt.SelectVocabulary(name)
}

// Stack returns the base value stack's contents, bottom to top — mainly
// useful for tests and REPL hosts that want to print interpreter state.
func (r *Runtime) Stack() []lang.Value {
	return r.rt.Target().(*runtime.Stack).Values()
}

// Cards returns the configured card store, or nil if none was set.
func (r *Runtime) Cards() card.Store {
	return r.store
}

// Close tears down background work (chrons) and the card store, if any.
func (r *Runtime) Close() error {
	r.rt.StopAllChrons()
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

func errNoStore() error {
	return &NoStoreError{}
}

// NoStoreError is returned by RunCard/RunCardVersion when no card store was
// configured via WithSQLiteStore/WithMemoryStore.
type NoStoreError struct{}

func (e *NoStoreError) Error() string { return "borth: no card store configured" }

// FormatValue renders v the way the REPL prints results (internal/lang's
// FormatValue, re-exported so hosts don't need to import internal/lang
// themselves just to print a value).
func FormatValue(v lang.Value) string { return lang.FormatValue(v) }

// ParseVersion is a small convenience used by cmd/borth's cards CLI to
// turn a flag value into a version number without hand-rolling strconv
// error wrapping at every call site.
func ParseVersion(s string) (int, error) {
	return strconv.Atoi(s)
}
