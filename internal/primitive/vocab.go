package primitive

import (
	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/runtime"
)

// installRuntimeWords wires the handful of primitives that need direct
// access to the runtime beyond what lang.Invoker exposes — they read
// their own arguments off the live input stream rather than the target
// stack (in:, using:, variable, syn:, opt:, opt), change the definition
// under construction (immediate), or need the request context for a
// reentrant token read (next, and opt: for its value).
func installRuntimeWords(rt *runtime.Runtime, immediate func(name string, arity int, fn lang.PrimitiveFunc)) {
	immediate("in:", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.InVocabulary()
	})
	immediate("using:", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.UsingVocabularies()
	})
	immediate("variable", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.DefineVariable()
	})
	immediate("syn:", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.BeginSynonym()
	})
	immediate("immediate", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.MarkImmediate()
	})
	immediate("opt:", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.SetOptionStatement(inv.Context())
	})
	immediate("opt", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.GetOptionStatement()
	})
	immediate("next", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, rt.Next(inv.Context())
	})
}
