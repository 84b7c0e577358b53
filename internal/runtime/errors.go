package runtime

import "fmt"

// ExitSignal is the Exit control signal: not an error, recognized and
// swallowed at loop boundaries (times/map/filter/fold/each) to break
// iteration early. It is carried as a Go error only so it can propagate
// through ordinary error returns; callers must check errors.Is/As for it
// before treating a returned error as a real failure.
type ExitSignal struct{}

func (ExitSignal) Error() string { return "exit" }

// UserError is raised by the err primitive with a caller-supplied message.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// ValidationError covers the fixed "requires current vocabulary" /
// "cannot modify core vocabulary" / "unknown vocabulary" / "unknown word"
// family (spec.md §7).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func errUnknownWord(name string) error {
	return &ValidationError{Message: fmt.Sprintf("unknown word: %s", name)}
}

func errUnknownVocabulary(name string) error {
	return &ValidationError{Message: fmt.Sprintf("unknown vocabulary: %s", name)}
}

func errRequiresCurrent() error {
	return &ValidationError{Message: "requires current vocabulary"}
}

func errCannotModifyCore() error {
	return &ValidationError{Message: "cannot modify core vocabulary"}
}
