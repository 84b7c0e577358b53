package lang

// AddReference records that the compiled word c's Body now contains v,
// walking v structurally so every *Word reachable inside it (including
// ones nested in arrays or records) becomes an edge: c.References gains
// the word, and the word's ReferencedBy gains c. The runtime calls it once
// with the finished body when ; or ] closes a definition or quotation.
func AddReference(c *Word, v Value) {
	for _, w := range collectWords(v) {
		c.References[w] = struct{}{}
		w.ReferencedBy[c] = struct{}{}
	}
}

// RemoveAllReferences tears down every outgoing edge c currently has,
// so Recompile can rebuild them from scratch against the new body.
func RemoveAllReferences(c *Word) {
	for w := range c.References {
		delete(w.ReferencedBy, c)
	}
	c.References = map[*Word]struct{}{}
}

// collectWords returns every *Word value reachable from v, recursing into
// arrays and records but not into a word's own Body — a nested word is a
// reference edge in its own right, not a container to flatten through.
func collectWords(v Value) []*Word {
	var out []*Word
	var walkCollect func(Value)
	walkCollect = func(v Value) {
		switch x := v.(type) {
		case *Word:
			out = append(out, x)
		case []Value:
			for _, e := range x {
				walkCollect(e)
			}
		case map[string]Value:
			for _, e := range x {
				walkCollect(e)
			}
		}
	}
	walkCollect(v)
	return out
}

// rewriteWords returns a copy of v with every named *Word it contains
// replaced by the result of resolve(name); anonymous quotations (Name ==
// "") keep their object identity untouched — they aren't redefinable by
// name, so nothing about them needs to change when some other name is
// rebound. Arrays and records are walked recursively and copied; any other
// value is returned as-is (an opaque literal).
func rewriteWords(v Value, resolve func(name string) (*Word, bool)) Value {
	switch x := v.(type) {
	case *Word:
		if x.Name == "" {
			return x
		}
		if nw, ok := resolve(x.Name); ok {
			return nw
		}
		return x
	case []Value:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = rewriteWords(e, resolve)
		}
		return out
	case map[string]Value:
		out := make(map[string]Value, len(x))
		for k, e := range x {
			out[k] = rewriteWords(e, resolve)
		}
		return out
	default:
		return v
	}
}

// Recompile rebuilds c's Body in place: every named word it mentions is
// re-resolved through resolve (the runtime's two-level lookup), and the
// reference graph edges are torn down and rebuilt to match. It never
// recurses into a referenced word's own Body, so execution of an
// unrelated dependent that merely holds a pointer to c needs no work at
// all — it follows the same pointer and sees the rebuilt Body for free
// (spec.md §4.3).
//
// A self-referencing word (c ∈ c.References, e.g. a recursive definition)
// is handled correctly by the same single pass: RemoveAllReferences
// deletes c from its own ReferencedBy before the rebuild re-adds it via
// the freshly resolved self-reference, so no separate cycle guard is
// needed beyond operating on one word's edges at a time.
func Recompile(c *Word, resolve func(name string) (*Word, bool)) {
	if c.Kind != KindCompiled {
		return
	}
	RemoveAllReferences(c)
	newBody := make([]Value, len(c.Body))
	for i, v := range c.Body {
		newBody[i] = rewriteWords(v, resolve)
	}
	c.Body = newBody
	AddReference(c, newBody)
}
