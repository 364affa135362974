package histerr

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies histogram errors. All kinds are construction- or
// argument-errors; query paths that accept any legal input never fail.
type Kind int

const (
	// TypeMismatch is raised when a variant tag disagrees with the
	// histogram's element type.
	TypeMismatch Kind = iota

	// InvalidAlphabet is raised when a supported-characters set is empty,
	// unsorted, or has gaps.
	InvalidAlphabet

	// PrefixTooLong is raised when the string prefix settings would
	// overflow the 64-bit number representation (K^L + L > 2^64 - 1).
	PrefixTooLong

	// UnsupportedCharacter is raised when a segment or query value contains
	// a character outside the supported set. Wildcards in (NOT) LIKE
	// patterns are exempt.
	UnsupportedCharacter

	// WildcardWhereForbidden is raised when '%' or '_' appears in a search
	// value for a predicate other than (NOT) LIKE.
	WildcardWhereForbidden

	// TooFewValues is raised when the requested bin count cannot be
	// satisfied by the value distribution.
	TooFewValues

	// EmptySlice is raised when slicing with a predicate that the
	// histogram can prune entirely.
	EmptySlice

	// UnsupportedSlice is raised when slicing with a predicate kind that
	// has no slice semantics, such as (NOT) LIKE.
	UnsupportedSlice

	// UnsupportedPredicate is raised when (NOT) LIKE is applied to a
	// non-string histogram.
	UnsupportedPredicate
)

// Code returns the stable identifier used in log output and error text.
func (k Kind) Code() string {
	switch k {
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case InvalidAlphabet:
		return "INVALID_ALPHABET"
	case PrefixTooLong:
		return "PREFIX_TOO_LONG"
	case UnsupportedCharacter:
		return "UNSUPPORTED_CHARACTER"
	case WildcardWhereForbidden:
		return "WILDCARD_WHERE_FORBIDDEN"
	case TooFewValues:
		return "TOO_FEW_VALUES"
	case EmptySlice:
		return "EMPTY_SLICE"
	case UnsupportedSlice:
		return "UNSUPPORTED_SLICE"
	case UnsupportedPredicate:
		return "UNSUPPORTED_PREDICATE"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) String() string {
	return k.Code()
}

// Error is a structured histogram error carrying a Kind, a human-readable
// message, an optional underlying cause, and the call stack at creation.
type Error struct {
	// Kind classifies the error for callers that dispatch on it.
	Kind Kind

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific instance,
	// e.g. the offending character or the requested bin count.
	Detail string

	// Cause is the underlying error, if any. It is reachable through
	// errors.Unwrap for chain traversal.
	Cause error

	// Stack contains the call stack where this error was created.
	Stack []uintptr
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Stack:   captureStack(),
	}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap attaches kind and message to an existing error. If err is already
// an *Error it is returned unchanged so the original kind survives.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	if herr, ok := err.(*Error); ok {
		return herr
	}
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   err,
		Stack:   captureStack(),
	}
}

// WithDetail returns e with its detail text set.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Error implements the standard error interface.
//
// The format follows the pattern:
// [KIND_CODE] Message: Detail caused by: underlying error
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Kind.Code(), e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	herr, ok := err.(*Error)
	return ok && herr.Kind == kind
}

// FormatStack returns a human-readable stack trace for debugging.
func (e *Error) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}

// captureStack captures the current call stack, skipping the first 3
// frames (runtime.Callers, captureStack, and New/Wrap) so the trace starts
// at the function that called New or Wrap.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}
