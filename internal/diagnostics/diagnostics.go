// Package diagnostics defines the error taxonomy shared by the analyzer
// and the decoder: a single closed Code enum and one Diagnostic value
// type, never an exception.
package diagnostics

import "fmt"

// Code identifies the precise kind of failure. Codes are grouped by the
// phase that can produce them: grammar (static, analyzer), typ (static,
// inferencer), and decode (dynamic, decoder).
type Code int

const (
	_ Code = iota

	// GrammarError kinds (spec.md §7).
	LeftRecursion
	RepeatNullable
	AmbiguousFirst
	AmbiguousFollow
	MultiNullUnion

	// TypeError kinds.
	UnificationFailure
	UndefinedVariable
	ArityMismatch

	// DecodeError kinds.
	UnexpectedByte
	UnexpectedEndOfInput
	FailFormat
	PredicateFalse
	PeekNotMatched
	ArithmeticOverflow
	DivisionByZero
	BadHuffman
	IncompleteParse
)

func (c Code) String() string {
	switch c {
	case LeftRecursion:
		return "LeftRecursion"
	case RepeatNullable:
		return "RepeatNullable"
	case AmbiguousFirst:
		return "AmbiguousFirst"
	case AmbiguousFollow:
		return "AmbiguousFollow"
	case MultiNullUnion:
		return "MultiNullUnion"
	case UnificationFailure:
		return "UnificationFailure"
	case UndefinedVariable:
		return "UndefinedVariable"
	case ArityMismatch:
		return "ArityMismatch"
	case UnexpectedByte:
		return "UnexpectedByte"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case FailFormat:
		return "FailFormat"
	case PredicateFalse:
		return "PredicateFalse"
	case PeekNotMatched:
		return "PeekNotMatched"
	case ArithmeticOverflow:
		return "ArithmeticOverflow"
	case DivisionByZero:
		return "DivisionByZero"
	case BadHuffman:
		return "BadHuffman"
	case IncompleteParse:
		return "IncompleteParse"
	default:
		return "Unknown"
	}
}

// Pos is a byte offset into either a FormatModule's source-level
// production list (static errors) or the input buffer (decode errors).
// -1 means "no position".
type Pos int64

const NoPos Pos = -1

// Diagnostic is the single error value type for all three families
// named in spec.md §7. Fields beyond Code/Message are populated only
// where the corresponding Code calls for them.
type Diagnostic struct {
	Code    Code
	Message string
	Pos     Pos

	// Context, by the Code it belongs to. Only Cycle (set by
	// LeftRecursionError) and Expected/Got/HasGot (set by
	// UnexpectedByteError) are filled in; no code sets Left, Right or
	// Label, and ambiguity errors name the conflicting sets only in
	// Message.
	Cycle    []string // LeftRecursion: the cycle path, by production name
	Left     string   // AmbiguousFirst/AmbiguousFollow: left operand description
	Right    string   // AmbiguousFirst/AmbiguousFollow: right operand description
	Expected string   // UnexpectedByte: textual rendering of the expected ByteSet
	Got      byte     // UnexpectedByte: the byte actually read
	HasGot   bool
	Label    string // FailFormat: the label of the failing Fail node, if any
}

func (d *Diagnostic) Error() string {
	if d.Pos != NoPos {
		return fmt.Sprintf("%s at %d: %s", d.Code, d.Pos, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// New builds a Diagnostic with no position, for static (grammar/type)
// errors that are reported against a production rather than an offset.
func New(code Code, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Pos: NoPos}
}

// At builds a Diagnostic anchored to an input offset, for dynamic
// decode errors.
func At(code Code, pos Pos, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// LeftRecursionError reports a left-recursion cycle detected by the
// reentrance guard (spec.md §4.E).
func LeftRecursionError(top string, cycle []string) *Diagnostic {
	return &Diagnostic{
		Code:    LeftRecursion,
		Message: fmt.Sprintf("left recursion in %q: %v", top, cycle),
		Pos:     NoPos,
		Cycle:   cycle,
	}
}

// UnexpectedByteError reports a decode-time byte mismatch.
func UnexpectedByteError(pos Pos, got byte, expected string) *Diagnostic {
	return &Diagnostic{
		Code:     UnexpectedByte,
		Message:  fmt.Sprintf("unexpected byte 0x%02x, expected %s", got, expected),
		Pos:      pos,
		Got:      got,
		HasGot:   true,
		Expected: expected,
	}
}
