// Package errs implements the small typed-failure taxonomy spec.md 7
// requires ("Errors are reported via a typed failure carrying a
// human-readable message and enough context ... to diagnose"): parse,
// validation, invariant, and resource errors. The teacher repo's own
// ambient style (bare errors.New/fmt.Errorf, see ntru/params.go) doesn't
// distinguish these, but the spec names the taxonomy as a hard
// requirement rather than a style choice — see DESIGN.md "Open Question
// decisions".
package errs

import "fmt"

// Kind classifies a failure per spec.md 7's taxonomy.
type Kind int

const (
	// KindParse is an ill-formed text error; no global state was mutated.
	KindParse Kind = iota
	// KindValidation is an out-of-range argument, incompatible target
	// kind, or other eagerly-checked append/dispatch-time rejection.
	KindValidation
	// KindInvariant is a broken structural invariant (e.g. a Tableau that
	// lost its commutation structure, or mismatched padded shapes).
	KindInvariant
	// KindResource is an allocation failure or other terminal fault.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindInvariant:
		return "invariant"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is a typed failure carrying a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Parse reports an ill-formed-text error.
func Parse(format string, args ...any) *Error { return newf(KindParse, format, args...) }

// Validation reports an out-of-range/incompatible-argument error.
func Validation(format string, args ...any) *Error { return newf(KindValidation, format, args...) }

// Invariant reports a broken structural invariant.
func Invariant(format string, args ...any) *Error { return newf(KindInvariant, format, args...) }

// Resource reports an allocation/terminal failure.
func Resource(format string, args ...any) *Error { return newf(KindResource, format, args...) }

// Is reports whether err is an *Error of the given Kind.
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
