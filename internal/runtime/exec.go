package runtime

import (
	"context"
	"io"
	"strings"

	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/lexer"
	"borth.dev/borth/internal/token"
)

// frameKind distinguishes a ':'/':_'/'syn:' definition frame, whose
// closer is ';', from a '[' quotation frame, whose closer is ']' — each
// checks it's being closed by its own matching token.
type frameKind int

const (
	frameDef frameKind = iota
	frameQuote
)

type compileFrame struct {
	kind      frameKind
	name      string
	private   bool
	immediate bool
	acc       *bodyAccumulator
}

// Run replaces the runtime's input with source, stamps a provenance
// context for the duration, and executes every token in source order
// (spec.md §4.1, §4.4). Nested Run calls (from a host re-entering the
// interpreter mid-primitive) save and restore both the input cursor and
// the provenance context, per the explicit dynamic-scope stack design in
// spec.md §9.
func (rt *Runtime) Run(ctx context.Context, source, cardID string, version int) error {
	savedInput := rt.input
	rt.input = lexer.NewFromString(source)
	rt.pushProvenance(cardID, version)
	defer func() {
		rt.popProvenance()
		rt.input = savedInput
	}()
	return rt.runLoop(ctx)
}

// RunReader reads r fully and runs it, mirroring Run/RunReader pairing
// the teacher exposes on its evaluator.
func (rt *Runtime) RunReader(ctx context.Context, r io.Reader, cardID string, version int) error {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return err
	}
	return rt.Run(ctx, sb.String(), cardID, version)
}

func (rt *Runtime) runLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := rt.input.ReadToken()
		if err != nil {
			return err
		}
		if raw == "" {
			return nil
		}
		if err := rt.handleToken(ctx, raw); err != nil {
			return err
		}
	}
}

// handleToken classifies one raw token and either hands it to the mode
// machine's special forms or resolves it as an ordinary word/literal.
func (rt *Runtime) handleToken(ctx context.Context, raw string) error {
	// "" is the empty-literal sentinel (spec.md §6) — a single token
	// indistinguishable from a zero-length string parsed via '"' except
	// that there's no opening quote to trigger delimiter takeover at all.
	if raw == `""` {
		return rt.handleValue(ctx, "")
	}
	switch token.ClassifyWord(raw) {
	case token.Colon:
		return rt.beginDefinition(false)
	case token.ColonPrivate:
		return rt.beginDefinition(true)
	case token.Semi:
		return rt.endDefinition()
	case token.LBracket:
		return rt.beginQuotation()
	case token.RBracket:
		return rt.endQuotation()
	case token.LParen:
		return rt.skipComment()
	case token.RParen:
		return &ValidationError{Message: "unexpected )"}
	case token.Quote:
		s, err := rt.input.ParseWhileDelimiter(func(r rune) bool { return r == '"' })
		if err != nil {
			return err
		}
		return rt.handleValue(ctx, s)
	case token.Tick:
		s, err := rt.input.ReadToken()
		if err != nil {
			return err
		}
		return rt.handleValue(ctx, s)
	default:
		v, err := rt.Find(raw)
		if err != nil {
			return err
		}
		return rt.handleValue(ctx, v)
	}
}

// skipComment discards input up to the matching ')', per the Token
// Stream's delimiter-takeover contract (spec.md §4.1). Comments do not
// nest: the first ')' closes them, matching the "(" special token's
// single role in the source syntax table (spec.md §6).
func (rt *Runtime) skipComment() error {
	_, err := rt.input.ParseWhileDelimiter(func(r rune) bool { return r == ')' })
	return err
}

// handleValue is the mode machine: in compile mode, non-immediate values
// are appended to the open frame's accumulator unexecuted; immediate
// words (and anything outside any open frame) run right away.
func (rt *Runtime) handleValue(ctx context.Context, v lang.Value) error {
	if len(rt.compileStack) > 0 {
		if w, ok := v.(*lang.Word); ok && w.Immediate {
			return rt.execute(ctx, v)
		}
		rt.Target().Push(v)
		return nil
	}
	return rt.execute(ctx, v)
}

// execute runs v against the current target: a bare literal is pushed;
// a *lang.Word dispatches on its Kind (spec.md §9's "(kind, mode)"
// dispatch — mode has already been resolved by handleValue/handleToken
// by the time execute runs, so execute only ever runs in "interpret this
// now" semantics, whether that's top-level interpretation or a compiled
// body stepping through its own elements at call time).
func (rt *Runtime) execute(ctx context.Context, v lang.Value) error {
	w, ok := v.(*lang.Word)
	if !ok {
		rt.Target().Push(v)
		return nil
	}
	switch w.Kind {
	case lang.KindLiteral:
		rt.Target().Push(w.Literal)
		return nil
	case lang.KindVariable:
		rt.Target().Push(w.Read())
		return nil
	case lang.KindPrimitive:
		return rt.invokePrimitive(ctx, w)
	case lang.KindCompiled:
		for _, elem := range w.Body {
			if err := rt.execute(ctx, elem); err != nil {
				return err
			}
		}
		return nil
	}
	return &ValidationError{Message: "unknown word kind"}
}

// invocation binds a Runtime and a context.Context into the lang.Invoker
// a primitive receives for the duration of one call — ctx varies per Run,
// so it travels with the invocation rather than living on Runtime itself.
type invocation struct {
	rt  *Runtime
	ctx context.Context
}

func (iv *invocation) Execute(v lang.Value) error            { return iv.rt.execute(iv.ctx, v) }
func (iv *invocation) Push(v lang.Value)                     { iv.rt.Target().Push(v) }
func (iv *invocation) Pop() (lang.Value, error)              { return iv.rt.Target().Pop() }
func (iv *invocation) Context() context.Context              { return iv.ctx }

// invokePrimitive pops Arity values in push order, calls the wrapped Go
// function, awaits any suspending result, and pushes what comes back
// (spec.md §3 "Primitive function", §5 suspension).
func (rt *Runtime) invokePrimitive(ctx context.Context, w *lang.Word) error {
	args := make([]lang.Value, w.Arity)
	for i := w.Arity - 1; i >= 0; i-- {
		v, err := rt.Target().Pop()
		if err != nil {
			return err
		}
		args[i] = v
	}
	iv := &invocation{rt: rt, ctx: ctx}
	results, err := w.Fn(iv, args)
	if err != nil {
		return err
	}
	for _, r := range results {
		resolved, err := await(ctx, r)
		if err != nil {
			return err
		}
		rt.Target().Push(resolved)
	}
	return nil
}

// beginDefinition handles ':' and ':_'. The name is read directly off the
// input stream — it is not itself looked up as a word.
func (rt *Runtime) beginDefinition(private bool) error {
	if rt.current == nil {
		return errRequiresCurrent()
	}
	if rt.current == rt.Core() {
		return errCannotModifyCore()
	}
	name, err := rt.input.ReadToken()
	if err != nil {
		return err
	}
	if name == "" {
		return &ValidationError{Message: "expected a name after :"}
	}
	frame := &compileFrame{kind: frameDef, name: name, private: private, acc: &bodyAccumulator{}}
	rt.compileStack = append(rt.compileStack, frame)
	rt.PushTarget(frame.acc)
	return nil
}

// BeginSynonym handles syn: — same as beginDefinition but marks the result
// immediate. It is registered as an immediate primitive in
// internal/primitive rather than a lexer special form, since "syn:" is
// just a word name, not one of the fixed delimiter tokens.
func (rt *Runtime) BeginSynonym() error {
	if rt.current == nil {
		return errRequiresCurrent()
	}
	if rt.current == rt.Core() {
		return errCannotModifyCore()
	}
	name, err := rt.input.ReadToken()
	if err != nil {
		return err
	}
	if name == "" {
		return &ValidationError{Message: "expected a name after syn:"}
	}
	frame := &compileFrame{kind: frameDef, name: name, immediate: true, acc: &bodyAccumulator{}}
	rt.compileStack = append(rt.compileStack, frame)
	rt.PushTarget(frame.acc)
	return nil
}

func (rt *Runtime) endDefinition() error {
	if len(rt.compileStack) == 0 || rt.compileStack[len(rt.compileStack)-1].kind != frameDef {
		return &ValidationError{Message: "unexpected ;"}
	}
	frame := rt.compileStack[len(rt.compileStack)-1]
	rt.compileStack = rt.compileStack[:len(rt.compileStack)-1]
	if err := rt.PopTarget(); err != nil {
		return err
	}
	w := lang.NewCompiled(frame.name, frame.acc.body)
	w.Private = frame.private
	w.Immediate = frame.immediate
	w.Provenance = rt.currentProvenance()
	lang.AddReference(w, w.Body)
	return rt.Define(w)
}

func (rt *Runtime) beginQuotation() error {
	frame := &compileFrame{kind: frameQuote, acc: &bodyAccumulator{}}
	rt.compileStack = append(rt.compileStack, frame)
	rt.PushTarget(frame.acc)
	return nil
}

func (rt *Runtime) endQuotation() error {
	if len(rt.compileStack) == 0 || rt.compileStack[len(rt.compileStack)-1].kind != frameQuote {
		return &ValidationError{Message: "unexpected ]"}
	}
	frame := rt.compileStack[len(rt.compileStack)-1]
	rt.compileStack = rt.compileStack[:len(rt.compileStack)-1]
	if err := rt.PopTarget(); err != nil {
		return err
	}
	w := lang.NewCompiled("", frame.acc.body)
	lang.AddReference(w, w.Body)
	rt.Target().Push(w)
	return nil
}

// Do pops a quotation and executes it against the current target — a
// host-side equivalent of the do primitive, which internal/primitive
// installs separately (spec.md §4.4 "Quotations").
func (rt *Runtime) Do(ctx context.Context) error {
	v, err := rt.Target().Pop()
	if err != nil {
		return err
	}
	w, ok := v.(*lang.Word)
	if !ok || w.Kind != lang.KindCompiled {
		return &ValidationError{Message: "do requires a quotation"}
	}
	return rt.execute(ctx, w)
}

// Next implements next: consume exactly one more token from the live
// input and execute it in the current mode (spec.md §9 — deliberately
// not over-specified beyond this).
func (rt *Runtime) Next(ctx context.Context) error {
	raw, err := rt.input.ReadToken()
	if err != nil {
		return err
	}
	if raw == "" {
		return &ValidationError{Message: "next at end of input"}
	}
	return rt.handleToken(ctx, raw)
}
