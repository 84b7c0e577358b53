package primitive

import (
	"fmt"
	"time"

	"borth.dev/borth/internal/lang"
)

// installCollections wires the collection builders (structure, extract,
// index, iota, quote) plus the scalar predicates/utilities that round
// out the fixed core vocabulary (now, length, nil?).
func installCollections(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install("iota", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		n, ok := args[0].(int64)
		if !ok {
			return nil, fmt.Errorf("Invalid number")
		}
		out := make([]lang.Value, n)
		for i := int64(0); i < n; i++ {
			out[i] = i
		}
		return []lang.Value{out}, nil
	})
	install("index", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if !ok {
			return nil, fmt.Errorf("expected an array")
		}
		i, ok := args[1].(int64)
		if !ok || i < 0 || int(i) >= len(seq) {
			return nil, fmt.Errorf("length mismatch")
		}
		return []lang.Value{seq[i]}, nil
	})
	// structure builds a plain record from alternating key/value pairs,
	// given as an array or as a quotation whose body holds them:
	// [ " a" 1 " b" 2 ] structure → {a:1 b:2}.
	install("structure", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if q, isQuote := args[0].(*lang.Word); isQuote && q.Kind == lang.KindCompiled {
			seq, ok = q.Body, true
		}
		if !ok || len(seq)%2 != 0 {
			return nil, fmt.Errorf("length mismatch")
		}
		out := make(map[string]lang.Value, len(seq)/2)
		for i := 0; i < len(seq); i += 2 {
			key, err := asString(seq[i])
			if err != nil {
				return nil, err
			}
			out[key] = seq[i+1]
		}
		return []lang.Value{out}, nil
	})
	// extract is structure's inverse for a chosen set of keys: a record
	// and an array (or quotation) of key names yields an array of the
	// matching values, in the order the keys were given.
	install("extract", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		rec, err := asRecord(args[0])
		if err != nil {
			return nil, err
		}
		keys, ok := args[1].([]lang.Value)
		if q, isQuote := args[1].(*lang.Word); isQuote && q.Kind == lang.KindCompiled {
			keys, ok = q.Body, true
		}
		if !ok {
			return nil, fmt.Errorf("expected an array of keys")
		}
		out := make([]lang.Value, len(keys))
		for i, k := range keys {
			key, err := asString(k)
			if err != nil {
				return nil, err
			}
			out[i] = rec[key]
		}
		return []lang.Value{out}, nil
	})
	// quote boxes a single value into a one-element array, the minimal
	// collection builder a literal participates in without a surrounding
	// [ ... ] (e.g. feeding a lone value into join, which expects an
	// array).
	install("quote", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{[]lang.Value{args[0]}}, nil
	})
	install("length", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		switch x := args[0].(type) {
		case []lang.Value:
			return []lang.Value{int64(len(x))}, nil
		case map[string]lang.Value:
			return []lang.Value{int64(len(x))}, nil
		case string:
			return []lang.Value{int64(len(x))}, nil
		}
		return nil, fmt.Errorf("length mismatch")
	})
	install("nil?", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{args[0] == nil}, nil
	})
	install("now", 0, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{time.Now().UnixMilli()}, nil
	})
}
