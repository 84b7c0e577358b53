package primitive

import (
	"fmt"

	"borth.dev/borth/internal/lang"
)

func asRecord(v lang.Value) (map[string]lang.Value, error) {
	m, ok := v.(map[string]lang.Value)
	if !ok {
		return nil, fmt.Errorf("expected a record")
	}
	return m, nil
}

// installObjects wires .get/.set/keys/values over plain records
// (map[string]Value) — one of the structural container kinds the
// reference graph walker also recognizes (internal/lang/graph.go).
func installObjects(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install(".get", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		rec, err := asRecord(args[0])
		if err != nil {
			return nil, err
		}
		key, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		return []lang.Value{rec[key]}, nil
	})
	install(".set", 3, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		rec, err := asRecord(args[0])
		if err != nil {
			return nil, err
		}
		key, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		out := make(map[string]lang.Value, len(rec)+1)
		for k, v := range rec {
			out[k] = v
		}
		out[key] = args[2]
		return []lang.Value{out}, nil
	})
	install("keys", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		rec, err := asRecord(args[0])
		if err != nil {
			return nil, err
		}
		out := make([]lang.Value, 0, len(rec))
		for k := range rec {
			out = append(out, k)
		}
		return []lang.Value{out}, nil
	})
	install("values", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		rec, err := asRecord(args[0])
		if err != nil {
			return nil, err
		}
		out := make([]lang.Value, 0, len(rec))
		for _, v := range rec {
			out = append(out, v)
		}
		return []lang.Value{out}, nil
	})
}
