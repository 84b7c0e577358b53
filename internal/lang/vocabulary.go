package lang

// Vocabulary is a namespace of words, plus the set of vocabularies it
// imports (Dependencies) and the set that import it (Dependents) — the
// edges using: maintains so a vocabulary can be torn down or inspected
// as a graph node in its own right, independent of the word-level
// reference graph in graph.go.
type Vocabulary struct {
	Name string

	words map[string]*Word

	Dependencies map[*Vocabulary]struct{}
	Dependents   map[*Vocabulary]struct{}

	// imports preserves using: push order: find searches it last-pushed
	// first, so a later using: shadows an earlier one (spec.md §4.2).
	// Dependencies/Dependents above stay plain sets for graph-shape
	// queries (teardown, diagnostics) where order doesn't matter.
	imports []*Vocabulary
}

// NewVocabulary creates an empty, unimported vocabulary.
func NewVocabulary(name string) *Vocabulary {
	return &Vocabulary{
		Name:         name,
		words:        map[string]*Word{},
		Dependencies: map[*Vocabulary]struct{}{},
		Dependents:   map[*Vocabulary]struct{}{},
	}
}

// Define installs w under w.Name, returning the word it displaced (nil if
// none). The caller — the runtime, which alone knows how to resolve names
// across the current two-level search — is responsible for recompiling
// the displaced word's dependents afterward.
func (v *Vocabulary) Define(w *Word) *Word {
	old := v.words[w.Name]
	w.Vocab = v
	v.words[w.Name] = w
	return old
}

// Lookup finds a word by name. includePrivate controls whether a private
// word is visible; the runtime passes true only when v is the current
// vocabulary (the sole place a private word is visible from), and false
// when searching an imported vocabulary.
func (v *Vocabulary) Lookup(name string, includePrivate bool) (*Word, bool) {
	w, ok := v.words[name]
	if !ok {
		return nil, false
	}
	if w.Private && !includePrivate {
		return nil, false
	}
	return w, true
}

// Words returns every word installed directly in v, including private
// ones — used by AllWords() (spec.md §4.6 supplement) and by diagnostics.
func (v *Vocabulary) Words() map[string]*Word {
	return v.words
}

// Import pushes dep onto v's search path, recording both directions of
// the edge. Re-importing an already-imported vocabulary moves it to the
// top of the search order rather than duplicating it.
func (v *Vocabulary) Import(dep *Vocabulary) {
	if _, ok := v.Dependencies[dep]; ok {
		for i, d := range v.imports {
			if d == dep {
				v.imports = append(v.imports[:i], v.imports[i+1:]...)
				break
			}
		}
	}
	v.Dependencies[dep] = struct{}{}
	dep.Dependents[v] = struct{}{}
	v.imports = append(v.imports, dep)
}

// Imports returns v's imported vocabularies in push order, oldest first.
// The runtime's find searches this slice in reverse (last-pushed first).
func (v *Vocabulary) Imports() []*Vocabulary {
	return v.imports
}
