// Package errs defines the typed error taxonomy shared by every package in
// this module. Insertion failure and deletion miss are not modeled here:
// the filter and table report those as plain booleans, per the contract
// that only malformed input or malformed bytes are faults.
package errs

import "fmt"

// Code classifies why an operation failed.
type Code int

const (
	// InvalidArgument covers out-of-range configuration: bucket counts,
	// capacities, fingerprint widths, bit widths, array lengths, target
	// false-positive rates, unsatisfiable sizing input, an incompatible
	// semi-sorted request, a missing required config field, or an
	// out-of-bounds index.
	InvalidArgument Code = iota
	// ParseError covers a malformed serialized blob: too short, an
	// unknown table type, or a body that isn't a whole number of words.
	ParseError
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "invalid_argument"
	case ParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every package in this module for
// synchronous, non-data-carrying failures.
type Error struct {
	Code Code
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cuckoo: %s: %s: %s: %v", e.Code, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("cuckoo: %s: %s: %s", e.Code, e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid constructs an InvalidArgument error.
func Invalid(op, msg string) *Error {
	return &Error{Code: InvalidArgument, Op: op, Msg: msg}
}

// Invalidf constructs an InvalidArgument error with a formatted message.
func Invalidf(op, format string, args ...any) *Error {
	return &Error{Code: InvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Parse constructs a ParseError.
func Parse(op, msg string) *Error {
	return &Error{Code: ParseError, Op: op, Msg: msg}
}

// Parsef constructs a ParseError with a formatted message.
func Parsef(op, format string, args ...any) *Error {
	return &Error{Code: ParseError, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an InvalidArgument error that wraps an underlying cause.
func Wrap(op, msg string, cause error) *Error {
	return &Error{Code: InvalidArgument, Op: op, Msg: msg, Err: cause}
}
