// Package primitive installs Borth's fixed core vocabulary: stack ops,
// arithmetic, comparisons, booleans, control flow, parsing/definition
// words, and the string/object/collection builders (spec.md §4.6, §6).
package primitive

import (
	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/runtime"
)

// Install populates rt's core vocabulary. It writes directly into
// rt.Core() rather than going through rt.Define (which refuses to touch
// core on purpose) since this bootstrap is exactly the one time core is
// allowed to change — create_runtime() calls this once, and the
// resulting core is never mutated again (spec.md §3 invariant).
func Install(rt *runtime.Runtime) {
	core := rt.Core()

	install := func(name string, arity int, fn lang.PrimitiveFunc) {
		core.Define(lang.NewPrimitive(name, arity, fn))
	}
	immediate := func(name string, arity int, fn lang.PrimitiveFunc) {
		w := lang.NewPrimitive(name, arity, fn)
		w.Immediate = true
		core.Define(w)
	}
	define := func(name string, v lang.Value) {
		core.Define(lang.NewLiteral(name, v))
	}

	define("nil", nil)

	installNumeric(install)
	installComparisons(install)
	installBooleans(install, define)
	installStack(install)
	installControl(install)
	installStrings(install)
	installObjects(install)
	installCollections(install)
	installRuntimeWords(rt, immediate)
}
