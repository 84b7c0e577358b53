package primitive

import "borth.dev/borth/internal/lang"

func installStack(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install("dup", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{args[0], args[0]}, nil
	})
	install("drop", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, nil
	})
	install("swap", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{args[1], args[0]}, nil
	})
	install("over", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{args[0], args[1], args[0]}, nil
	})
	install("rot", 3, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{args[1], args[2], args[0]}, nil
	})
}
