package primitive

import (
	"fmt"

	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/runtime"
)

func asQuotation(v lang.Value) (*lang.Word, error) {
	w, ok := v.(*lang.Word)
	if !ok || w.Kind != lang.KindCompiled {
		return nil, fmt.Errorf("expected a quotation")
	}
	return w, nil
}

func asBool(v lang.Value) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("Invalid boolean")
	}
	return b, nil
}

// runsLoopBody executes quote once more, swallowing exactly one
// runtime.ExitSignal as "stop iterating" and letting any other error
// propagate — the shared core of times/map/filter/fold/each.
func runsLoopBody(inv lang.Invoker, quote *lang.Word) (bool, error) {
	err := inv.Execute(quote)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(runtime.ExitSignal); ok {
		return false, nil
	}
	return false, err
}

func installControl(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install("if", 3, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		cond, err := asBool(args[0])
		if err != nil {
			return nil, err
		}
		thenQ, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		elseQ, err := asQuotation(args[2])
		if err != nil {
			return nil, err
		}
		if cond {
			return nil, inv.Execute(thenQ)
		}
		return nil, inv.Execute(elseQ)
	})
	install("when", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		cond, err := asBool(args[0])
		if err != nil {
			return nil, err
		}
		thenQ, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		if !cond {
			return nil, nil
		}
		return nil, inv.Execute(thenQ)
	})
	install("unless", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		cond, err := asBool(args[0])
		if err != nil {
			return nil, err
		}
		thenQ, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		if cond {
			return nil, nil
		}
		return nil, inv.Execute(thenQ)
	})
	install("times", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		n, ok := args[0].(int64)
		if !ok {
			return nil, fmt.Errorf("Invalid number")
		}
		quote, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		for i := int64(0); i < n; i++ {
			inv.Push(i)
			cont, err := runsLoopBody(inv, quote)
			if err != nil {
				return nil, err
			}
			if !cont {
				break
			}
		}
		return nil, nil
	})
	install("map", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if !ok {
			return nil, fmt.Errorf("length mismatch")
		}
		quote, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		out := make([]lang.Value, 0, len(seq))
		for _, elem := range seq {
			inv.Push(elem)
			cont, err := runsLoopBody(inv, quote)
			if err != nil {
				return nil, err
			}
			if !cont {
				break
			}
			r, err := inv.Pop()
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return []lang.Value{out}, nil
	})
	install("filter", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if !ok {
			return nil, fmt.Errorf("length mismatch")
		}
		quote, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		out := make([]lang.Value, 0, len(seq))
		for _, elem := range seq {
			inv.Push(elem)
			cont, err := runsLoopBody(inv, quote)
			if err != nil {
				return nil, err
			}
			if !cont {
				break
			}
			r, err := inv.Pop()
			if err != nil {
				return nil, err
			}
			keep, err := asBool(r)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, elem)
			}
		}
		return []lang.Value{out}, nil
	})
	install("fold", 3, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if !ok {
			return nil, fmt.Errorf("length mismatch")
		}
		acc := args[1]
		quote, err := asQuotation(args[2])
		if err != nil {
			return nil, err
		}
		for _, elem := range seq {
			inv.Push(acc)
			inv.Push(elem)
			cont, err := runsLoopBody(inv, quote)
			if err != nil {
				return nil, err
			}
			if !cont {
				break
			}
			acc, err = inv.Pop()
			if err != nil {
				return nil, err
			}
		}
		return []lang.Value{acc}, nil
	})
	install("each", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if !ok {
			return nil, fmt.Errorf("length mismatch")
		}
		quote, err := asQuotation(args[1])
		if err != nil {
			return nil, err
		}
		for _, elem := range seq {
			inv.Push(elem)
			cont, err := runsLoopBody(inv, quote)
			if err != nil {
				return nil, err
			}
			if !cont {
				break
			}
		}
		return nil, nil
	})
	install("exit", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return nil, runtime.ExitSignal{}
	})
	install("err", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		msg, ok := args[0].(string)
		if !ok {
			msg = fmt.Sprint(args[0])
		}
		return nil, &runtime.UserError{Message: msg}
	})
	install("do", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		quote, err := asQuotation(args[0])
		if err != nil {
			return nil, err
		}
		return nil, inv.Execute(quote)
	})
}
