// Package lang implements Borth's Value model, Word sum type, Vocabulary
// name resolution, and the reference graph / recompiler that rebinds
// compiled definitions when a name they used is redefined.
package lang

import (
	"context"
	"fmt"
)

// Value is anything that can live on a target stack or inside a compiled
// body. The structural walker used by Recompile (graph.go) switches on
// exactly these concrete shapes — int64, float64, string, bool, *Word,
// []Value, and map[string]Value — and treats everything else as an opaque
// literal it never introspects, per spec.md §4.3/§9.
type Value = interface{}

// Awaitable is implemented by a Value a primitive returns when it needs the
// executor to suspend until an async result resolves (spec.md §5).
type Awaitable interface {
	Await(ctx context.Context) (Value, error)
}

// FormatValue renders a Value the way Borth prints stack contents: ints and
// floats bare, strings unquoted (Borth has no reader syntax that requires
// re-escaping on print), booleans as true/false, words by name (or
// "<quotation>" if anonymous), arrays/records structurally.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case *Word:
		if x.Name != "" {
			return x.Name
		}
		return "<quotation>"
	case []Value:
		s := "("
		for i, e := range x {
			if i > 0 {
				s += " "
			}
			s += FormatValue(e)
		}
		return s + " )"
	case map[string]Value:
		s := "{"
		first := true
		for k, e := range x {
			if !first {
				s += " "
			}
			first = false
			s += k + ":" + FormatValue(e)
		}
		return s + "}"
	default:
		return fmt.Sprintf("%v", x)
	}
}
