// Package llerrors defines the structured error kinds the analyzer raises
// for the two failure modes that are not the ordinary falsy return of a
// rejected rule: unknown-symbol queries and ill-formed analysis requests.
//
// It follows the same shape as tqerrors in the reference codebase: a
// private struct implementing error and Unwrap, with constructor functions
// per kind rather than ad hoc fmt.Errorf calls, so callers can recover the
// kind with errors.As instead of string-matching a message.
package llerrors

import (
	"errors"
	"fmt"
)

// Kind distinguishes the structured error kinds raised by the analyzer.
type Kind int

const (
	// KindUnknownSymbol marks a FIRST/FOLLOW (or table) query against a name
	// that is neither a terminal nor a nonterminal.
	KindUnknownSymbol Kind = iota

	// KindIllFormed marks a request that requires an LL(1) grammar -
	// production_for or recognize - made against a grammar that either has
	// no productions at all or has been found not to be LL(1).
	KindIllFormed
)

func (k Kind) String() string {
	switch k {
	case KindUnknownSymbol:
		return "unknown symbol"
	case KindIllFormed:
		return "ill-formed analysis"
	default:
		return "unknown error kind"
	}
}

// llError is the concrete error type behind every constructor in this
// package.
type llError struct {
	kind Kind
	msg  string
	wrap error
}

func (e *llError) Error() string {
	return e.msg
}

// Kind reports which of the structured kinds e belongs to.
func (e *llError) Kind() Kind {
	return e.kind
}

func (e *llError) Unwrap() error {
	return e.wrap
}

// UnknownSymbol returns an error reporting that name is not a recognized
// terminal or nonterminal in the grammar being queried.
func UnknownSymbol(name string) error {
	return &llError{
		kind: KindUnknownSymbol,
		msg:  fmt.Sprintf("unknown symbol %q: not a terminal or nonterminal", name),
	}
}

// IllFormed returns an error reporting that an LL(1)-only operation was
// attempted against a grammar that cannot support it, with reason
// describing why (no productions, or not LL(1)).
func IllFormed(reason string) error {
	return &llError{
		kind: KindIllFormed,
		msg:  reason,
	}
}

// IsUnknownSymbol reports whether err (or something it wraps) is a
// KindUnknownSymbol error.
func IsUnknownSymbol(err error) bool {
	var e *llError
	return errors.As(err, &e) && e.kind == KindUnknownSymbol
}

// IsIllFormed reports whether err (or something it wraps) is a
// KindIllFormed error.
func IsIllFormed(err error) bool {
	var e *llError
	return errors.As(err, &e) && e.kind == KindIllFormed
}
