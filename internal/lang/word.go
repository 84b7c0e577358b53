package lang

import (
	"context"
	"time"
)

// Kind discriminates the four shapes a Word can take. Borth deliberately
// represents all four as one tagged-sum struct rather than four types
// behind an interface, so the reference graph and the executor can type
// and kind-switch over a closed set instead of dispatching through
// polymorphism.
type Kind int

const (
	// KindPrimitive wraps a host-level Go function.
	KindPrimitive Kind = iota
	// KindVariable is a single mutable cell.
	KindVariable
	// KindLiteral is a constant value bound to a name.
	KindLiteral
	// KindCompiled is a sequence of values recorded between : and ;.
	KindCompiled
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindVariable:
		return "variable"
	case KindLiteral:
		return "literal"
	case KindCompiled:
		return "compiled"
	}
	return "unknown"
}

// Invoker is the capability a PrimitiveFunc gets back onto the executor:
// enough to run a quotation it was handed (Execute), and to manipulate
// the current target beyond its own fixed Arity (Push/Pop) — e.g. if's
// branch quotations, or each's per-element push. It is declared here
// rather than in package runtime so PrimitiveFunc can reference it
// without lang importing runtime; *runtime.Runtime satisfies it by
// duck typing.
type Invoker interface {
	Execute(v Value) error
	Push(v Value)
	Pop() (Value, error)
	Context() context.Context
}

// PrimitiveFunc is the host-level callable a KindPrimitive word wraps. It
// receives an Invoker bound to the current call, and exactly Arity
// values popped off the target in push order (args[0] is the deepest
// argument, i.e. the first one pushed), and returns the values to push
// back. A returned Value that implements Awaitable causes the executor
// to suspend the current definition until it resolves (spec.md §5)
// before the result is pushed.
type PrimitiveFunc func(inv Invoker, args []Value) ([]Value, error)

// Provenance records which card version a compiled word's body came from,
// stamped at definition time and preserved across Recompile — rebinding a
// dependency never counts as redefining the dependent itself.
type Provenance struct {
	CardID    string
	Version   int
	DefinedAt time.Time
}

// Word is a name bound in some Vocabulary, or an anonymous quotation
// (Name == "") produced by [ ... ] and held only as a Value on some stack
// or inside another word's Body.
type Word struct {
	Name      string
	Immediate bool
	Private   bool
	Vocab     *Vocabulary

	Kind Kind

	// KindPrimitive
	Arity int
	Fn    PrimitiveFunc

	// KindVariable
	Cell Value

	// KindLiteral
	Literal Value

	// KindCompiled
	Body []Value

	Provenance *Provenance

	// References holds every word this word's Body names directly.
	// ReferencedBy is the reverse edge: every word whose Body names this
	// one. Both are maintained by AddReference/RemoveAllReferences and
	// are the edges Recompile walks (spec.md §4.3).
	References   map[*Word]struct{}
	ReferencedBy map[*Word]struct{}
}

// NewPrimitive builds a KindPrimitive word.
func NewPrimitive(name string, arity int, fn PrimitiveFunc) *Word {
	return &Word{
		Name:         name,
		Kind:         KindPrimitive,
		Arity:        arity,
		Fn:           fn,
		References:   map[*Word]struct{}{},
		ReferencedBy: map[*Word]struct{}{},
	}
}

// NewVariable builds a KindVariable word initialized to v.
func NewVariable(name string, v Value) *Word {
	return &Word{
		Name:         name,
		Kind:         KindVariable,
		Cell:         v,
		References:   map[*Word]struct{}{},
		ReferencedBy: map[*Word]struct{}{},
	}
}

// NewLiteral builds a KindLiteral word.
func NewLiteral(name string, v Value) *Word {
	return &Word{
		Name:         name,
		Kind:         KindLiteral,
		Literal:      v,
		References:   map[*Word]struct{}{},
		ReferencedBy: map[*Word]struct{}{},
	}
}

// NewCompiled builds a KindCompiled word from a finished body. name is ""
// for an anonymous quotation.
func NewCompiled(name string, body []Value) *Word {
	return &Word{
		Name:         name,
		Kind:         KindCompiled,
		Body:         body,
		References:   map[*Word]struct{}{},
		ReferencedBy: map[*Word]struct{}{},
	}
}

// Read returns a variable's current value.
func (w *Word) Read() Value {
	return w.Cell
}

// Write sets a variable's current value.
func (w *Word) Write(v Value) {
	w.Cell = v
}

// IsAnonymous reports whether w is a quotation with no bound name.
func (w *Word) IsAnonymous() bool {
	return w.Name == ""
}
