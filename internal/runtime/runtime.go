// Package runtime implements the Borth executor: the interpret/compile
// mode machine, the target stack, vocabulary and provenance management,
// and the two-level name resolution (current vocabulary + ordered
// imports) that Define/Recompile rides on.
package runtime

import (
	"strconv"
	"time"

	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/lexer"
)

// Mode is the executor's single active mode: interpret or compile
// (spec.md §4.4).
type Mode int

const (
	ModeInterp Mode = iota
	ModeCompile
)

const coreVocabularyName = "core"

// Runtime holds all single-writer interpreter state: the loaded
// vocabularies, the current definition target, the target stack, the
// active mode, the input cursor, option map, vocabulary resolver, and
// the provenance stack (spec.md §3 "Runtime state").
type Runtime struct {
	vocabs  []*lang.Vocabulary
	current *lang.Vocabulary

	targets []Target

	input *lexer.Stream

	compileStack []*compileFrame

	options  map[string]lang.Value
	resolver *Resolver

	provenance []lang.Provenance

	chrons *ChronRegistry

	logf func(format string, args ...any)
}

// Mode reports the executor's current mode, derived from whether any
// definition/quotation frame is open rather than tracked as a separate
// flag — entering and leaving compile mode is then just pushing and
// popping compileStack, with no risk of the two falling out of sync.
func (rt *Runtime) Mode() Mode {
	if len(rt.compileStack) > 0 {
		return ModeCompile
	}
	return ModeInterp
}

// New constructs a Runtime with the core vocabulary installed at position
// 0 and the base value stack as the sole target. current is left unset,
// matching create_runtime()'s documented contract (spec.md §6); the
// caller is expected to install the core primitives with
// primitive.Install (which writes into core directly, since Define
// refuses core) and then select a vocabulary with in:.
func New(opts ...Option) *Runtime {
	core := lang.NewVocabulary(coreVocabularyName)
	rt := &Runtime{
		vocabs:   []*lang.Vocabulary{core},
		targets:  []Target{NewStack()},
		options:  map[string]lang.Value{},
		resolver: NewResolver(),
		chrons:   NewChronRegistry(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Core returns the runtime's one permanent core vocabulary.
func (rt *Runtime) Core() *lang.Vocabulary {
	return rt.vocabs[0]
}

// Current returns the vocabulary new definitions install into, or nil if
// none has been selected yet.
func (rt *Runtime) Current() *lang.Vocabulary {
	return rt.current
}

// Vocabs returns the runtime's global load-ordered vocabulary list.
func (rt *Runtime) Vocabs() []*lang.Vocabulary {
	return rt.vocabs
}

func (rt *Runtime) logDebug(format string, args ...any) {
	if rt.logf != nil {
		rt.logf(format, args...)
	}
}

// Target returns the innermost target — the stack or compiled-body
// accumulator that reads and writes currently go to.
func (rt *Runtime) Target() Target {
	return rt.targets[len(rt.targets)-1]
}

// PushTarget directs subsequent reads/writes to t.
func (rt *Runtime) PushTarget(t Target) {
	rt.targets = append(rt.targets, t)
}

// PopTarget restores the prior target. Popping the base target is a
// programming error in any caller, not a recoverable Borth failure, since
// it can only happen from a mismatched compile-frame push/pop.
func (rt *Runtime) PopTarget() error {
	if len(rt.targets) <= 1 {
		return &ValidationError{Message: "cannot pop base target"}
	}
	rt.targets = rt.targets[:len(rt.targets)-1]
	return nil
}

// currentProvenance returns the provenance stamp to attach to a word
// defined right now — the top of the provenance stack, or nil if no run
// context is active.
func (rt *Runtime) currentProvenance() *lang.Provenance {
	if len(rt.provenance) == 0 {
		return nil
	}
	p := rt.provenance[len(rt.provenance)-1]
	return &p
}

// pushProvenance and popProvenance implement provenance as an explicit
// dynamic-scope stack rather than implicit scoping (spec.md §9): Run
// pushes on entry and pops on exit, so a nested Run call sees its own
// context and the outer one is restored afterward automatically.
func (rt *Runtime) pushProvenance(cardID string, version int) {
	rt.provenance = append(rt.provenance, lang.Provenance{
		CardID:    cardID,
		Version:   version,
		DefinedAt: time.Now(),
	})
}

func (rt *Runtime) popProvenance() {
	rt.provenance = rt.provenance[:len(rt.provenance)-1]
}

// SelectVocabulary implements in: — finds or creates name as current.
// Selecting core is forbidden since core must never be mutated after
// init (spec.md §3 invariant).
func (rt *Runtime) SelectVocabulary(name string) error {
	if name == coreVocabularyName {
		return errCannotModifyCore()
	}
	for _, v := range rt.vocabs {
		if v.Name == name {
			rt.current = v
			return nil
		}
	}
	v := lang.NewVocabulary(name)
	rt.vocabs = append(rt.vocabs, v)
	rt.current = v
	return nil
}

// ImportVocabulary implements one name of using: — resolves name (first
// against already-loaded vocabularies, then the resolver's factories),
// pushes it onto the global load list if new, and records the
// dependency/dependent edge from current.
func (rt *Runtime) ImportVocabulary(name string) error {
	if rt.current == nil {
		return errRequiresCurrent()
	}
	var dep *lang.Vocabulary
	for _, v := range rt.vocabs {
		if v.Name == name {
			dep = v
			break
		}
	}
	if dep == nil {
		resolved, known, err := rt.resolver.Resolve(rt, name)
		if err != nil {
			return err
		}
		if !known {
			return errUnknownVocabulary(name)
		}
		dep = resolved
		rt.vocabs = append(rt.vocabs, dep)
	}
	rt.current.Import(dep)
	rt.logDebug("using: %s (current=%s)", name, rt.current.Name)
	return nil
}

// Define installs w into the current vocabulary, triggering Recompile on
// every dependent of whatever binding it displaces (spec.md §4.2 step 4).
// It fails if current is unset or is core.
func (rt *Runtime) Define(w *lang.Word) error {
	if rt.current == nil {
		return errRequiresCurrent()
	}
	if rt.current == rt.Core() {
		return errCannotModifyCore()
	}
	old := rt.current.Define(w)
	if old == nil || old == w {
		return nil
	}
	if len(old.ReferencedBy) == 0 {
		return nil
	}
	dependents := make([]*lang.Word, 0, len(old.ReferencedBy))
	for d := range old.ReferencedBy {
		dependents = append(dependents, d)
	}
	for _, d := range dependents {
		rt.logDebug("recompile %q after redefinition of %s", d.Name, w.Name)
		lang.Recompile(d, rt.find)
	}
	return nil
}

// find is the word resolver Recompile and Find both call: current (with
// private visibility) first, then current's own imports from last-pushed
// to first, skipping privates, and finally core. It resolves words only;
// the numeric and raw-string fallbacks live in Find (spec.md §4.2).
func (rt *Runtime) find(name string) (*lang.Word, bool) {
	if rt.current != nil {
		if w, ok := rt.current.Lookup(name, true); ok {
			return w, true
		}
		imports := rt.current.Imports()
		for i := len(imports) - 1; i >= 0; i-- {
			if w, ok := imports[i].Lookup(name, false); ok {
				return w, true
			}
		}
	}
	if w, ok := rt.Core().Lookup(name, false); ok {
		return w, true
	}
	return nil, false
}

// Find is the host-facing counterpart of find used by runtime.find(name)
// in the external API (spec.md §6): same search, but also applies the
// numeric and raw-string fallbacks and returns a plain Value rather than
// requiring a *lang.Word.
func (rt *Runtime) Find(name string) (lang.Value, error) {
	if w, ok := rt.find(name); ok {
		return w, nil
	}
	if n, ok := parseNumber(name); ok {
		return n, nil
	}
	if b, ok := rt.options["unbound-word-as-string"]; ok {
		if bb, ok := b.(bool); ok && bb {
			return name, nil
		}
	}
	return nil, errUnknownWord(name)
}

// Def is a host extension point: installs a primitive word named name
// into current, wrapping fn as its PrimitiveFunc.
func (rt *Runtime) Def(name string, arity int, immediate bool, fn lang.PrimitiveFunc) error {
	w := lang.NewPrimitive(name, arity, fn)
	w.Immediate = immediate
	return rt.Define(w)
}

// Expose installs a batch of host values as literal words in current —
// the explicit, construct-and-pass replacement for host-visible
// singletons the source relies on implicitly (spec.md §9).
func (rt *Runtime) Expose(values map[string]lang.Value) error {
	for name, v := range values {
		if err := rt.Define(lang.NewLiteral(name, v)); err != nil {
			return err
		}
	}
	return nil
}

// AllWords returns a flattened name → word map of everything visible:
// each globally loaded vocabulary in load order, then current's own
// words last, so current shadows everything and later-loaded
// vocabularies shadow earlier ones (spec.md §6, §8 supplemented in
// SPEC_FULL.md §4 to state the flattening order explicitly).
func (rt *Runtime) AllWords() map[string]*lang.Word {
	out := map[string]*lang.Word{}
	for _, v := range rt.vocabs {
		for name, w := range v.Words() {
			if !w.Private {
				out[name] = w
			}
		}
	}
	if rt.current != nil {
		for name, w := range rt.current.Words() {
			out[name] = w
		}
	}
	return out
}

// SetOption implements opt: key val; val == nil deletes the option.
func (rt *Runtime) SetOption(key string, val lang.Value) {
	if val == nil {
		delete(rt.options, key)
		return
	}
	rt.options[key] = val
}

// Option reads an interpreter option (opt key).
func (rt *Runtime) Option(key string) (lang.Value, bool) {
	v, ok := rt.options[key]
	return v, ok
}

// Chrons returns the runtime's named-timer registry, for host code that
// wants to schedule or cancel background work tied to this interpreter.
func (rt *Runtime) Chrons() *ChronRegistry {
	return rt.chrons
}

// StopAllChrons is the idempotent teardown spec.md §5 calls
// stop_all_chrons(): cancels every outstanding chron and waits briefly
// for in-flight callbacks.
func (rt *Runtime) StopAllChrons() {
	rt.chrons.StopAll()
}

func parseNumber(raw string) (lang.Value, bool) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	return nil, false
}
