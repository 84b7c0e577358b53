package runtime

import (
	"context"

	"borth.dev/borth/internal/lang"
)

// ReadRawToken consumes and returns exactly one more raw token from the
// live input, bypassing resolution — the primitive-facing hook in:,
// using:, variable, opt: and opt use to read the name that follows them.
func (rt *Runtime) ReadRawToken() (string, error) {
	return rt.input.ReadToken()
}

func (rt *Runtime) consumeUntilSemi() error {
	for {
		tok, err := rt.input.ReadToken()
		if err != nil {
			return err
		}
		if tok == "" {
			return &ValidationError{Message: "expected ;"}
		}
		if tok == ";" {
			return nil
		}
	}
}

// InVocabulary implements "in: name ;": selects or creates name as
// current, then discards input up to the closing ';'.
func (rt *Runtime) InVocabulary() error {
	name, err := rt.ReadRawToken()
	if err != nil {
		return err
	}
	if name == "" {
		return &ValidationError{Message: "expected a name after in:"}
	}
	if err := rt.SelectVocabulary(name); err != nil {
		return err
	}
	return rt.consumeUntilSemi()
}

// UsingVocabularies implements "using: name [name…] ;": imports each
// named vocabulary into current in turn, in the order written, up to
// the closing ';'.
func (rt *Runtime) UsingVocabularies() error {
	for {
		tok, err := rt.ReadRawToken()
		if err != nil {
			return err
		}
		if tok == "" {
			return &ValidationError{Message: "expected ; to close using:"}
		}
		if tok == ";" {
			return nil
		}
		if err := rt.ImportVocabulary(tok); err != nil {
			return err
		}
	}
}

// DefineVariable implements "variable name": installs a fresh,
// nil-valued KindVariable word in current.
func (rt *Runtime) DefineVariable() error {
	name, err := rt.ReadRawToken()
	if err != nil {
		return err
	}
	if name == "" {
		return &ValidationError{Message: "expected a name after variable"}
	}
	w := lang.NewVariable(name, nil)
	w.Provenance = rt.currentProvenance()
	return rt.Define(w)
}

// MarkImmediate implements the bare "immediate" word: it marks the
// definition frame currently under construction as immediate, an
// alternative spelling to opening with syn: directly.
func (rt *Runtime) MarkImmediate() error {
	if len(rt.compileStack) == 0 {
		return &ValidationError{Message: "immediate outside a definition"}
	}
	rt.compileStack[len(rt.compileStack)-1].immediate = true
	return nil
}

// SetOptionStatement implements "opt: key val": val is the next token,
// evaluated normally (so "opt: x 5" stores 5, "opt: x nil" deletes via
// the nil literal word) and its result on the target is consumed into
// the option map rather than left for the rest of the program to see.
func (rt *Runtime) SetOptionStatement(ctx context.Context) error {
	key, err := rt.ReadRawToken()
	if err != nil {
		return err
	}
	if key == "" {
		return &ValidationError{Message: "expected a key after opt:"}
	}
	if err := rt.Next(ctx); err != nil {
		return err
	}
	v, err := rt.Target().Pop()
	if err != nil {
		return err
	}
	rt.SetOption(key, v)
	return nil
}

// GetOptionStatement implements "opt key": pushes the option's current
// value, or nil if unset.
func (rt *Runtime) GetOptionStatement() error {
	key, err := rt.ReadRawToken()
	if err != nil {
		return err
	}
	v, _ := rt.Option(key)
	rt.Target().Push(v)
	return nil
}
