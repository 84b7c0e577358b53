package primitive

import (
	"fmt"

	"borth.dev/borth/internal/lang"
)

func toFloat(v lang.Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func bothInt(a, b lang.Value) (int64, int64, bool) {
	ai, aok := a.(int64)
	bi, bok := b.(int64)
	return ai, bi, aok && bok
}

// arith implements +, -, * with integer-preserving arithmetic when both
// operands are int64 and float64 promotion otherwise, so integer examples
// (spec.md §8) stay int64 without a custom bignum type while mixed-type
// math falls back to float64. / and mod are installed separately below.
func arith(op func(a, b float64) float64, iop func(a, b int64) (int64, bool)) lang.PrimitiveFunc {
	return func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		a, b := args[0], args[1]
		if ai, bi, ok := bothInt(a, b); ok && iop != nil {
			if r, exact := iop(ai, bi); exact {
				return []lang.Value{r}, nil
			}
		}
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return nil, fmt.Errorf("Invalid number")
		}
		return []lang.Value{op(af, bf)}, nil
	}
}

func installNumeric(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install("+", 2, arith(
		func(a, b float64) float64 { return a + b },
		func(a, b int64) (int64, bool) { return a + b, true },
	))
	install("-", 2, arith(
		func(a, b float64) float64 { return a - b },
		func(a, b int64) (int64, bool) { return a - b, true },
	))
	install("*", 2, arith(
		func(a, b float64) float64 { return a * b },
		func(a, b int64) (int64, bool) { return a * b, true },
	))
	install("/", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		a, b := args[0], args[1]
		if ai, bi, ok := bothInt(a, b); ok {
			if bi == 0 {
				return nil, fmt.Errorf("Invalid number")
			}
			if ai%bi == 0 {
				return []lang.Value{ai / bi}, nil
			}
		}
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return nil, fmt.Errorf("Invalid number")
		}
		if bf == 0 {
			return nil, fmt.Errorf("Invalid number")
		}
		return []lang.Value{af / bf}, nil
	})
	install("mod", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		ai, bi, ok := bothInt(args[0], args[1])
		if !ok {
			return nil, fmt.Errorf("Invalid number")
		}
		if bi == 0 {
			return nil, fmt.Errorf("Invalid number")
		}
		return []lang.Value{ai % bi}, nil
	})
}

func numCompare(cmp func(a, b float64) bool) lang.PrimitiveFunc {
	return func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		af, aok := toFloat(args[0])
		bf, bok := toFloat(args[1])
		if !aok || !bok {
			return nil, fmt.Errorf("Invalid number")
		}
		return []lang.Value{cmp(af, bf)}, nil
	}
}

func installComparisons(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install(">", 2, numCompare(func(a, b float64) bool { return a > b }))
	install(">=", 2, numCompare(func(a, b float64) bool { return a >= b }))
	install("<", 2, numCompare(func(a, b float64) bool { return a < b }))
	install("<=", 2, numCompare(func(a, b float64) bool { return a <= b }))
	install("=", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{valuesEqual(args[0], args[1])}, nil
	})
	install("0=", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{valuesEqual(args[0], int64(0))}, nil
	})
}

func valuesEqual(a, b lang.Value) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return a == b
}

func installBooleans(install func(name string, arity int, fn lang.PrimitiveFunc), define func(name string, v lang.Value)) {
	define("true", true)
	define("false", false)
	install("and", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		a, aok := args[0].(bool)
		b, bok := args[1].(bool)
		if !aok || !bok {
			return nil, fmt.Errorf("Invalid boolean")
		}
		return []lang.Value{a && b}, nil
	})
	install("or", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		a, aok := args[0].(bool)
		b, bok := args[1].(bool)
		if !aok || !bok {
			return nil, fmt.Errorf("Invalid boolean")
		}
		return []lang.Value{a || b}, nil
	})
	install("not", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		a, ok := args[0].(bool)
		if !ok {
			return nil, fmt.Errorf("Invalid boolean")
		}
		return []lang.Value{!a}, nil
	})
}
