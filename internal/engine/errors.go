package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a handler failure the way spec.md §7 enumerates them.
// The teacher's own internal/errors package left this as a deferred TODO
// ("consider a custom error type... for now standard error variables");
// this is that type.
type Kind uint8

const (
	// BadParameters covers malformed input shape, invalid hex, an unknown
	// opcode/role, or a state-transition precondition violation.
	BadParameters Kind = iota + 1
	// NotFound covers an unknown repo_id.
	NotFound
	// AccessDenied covers a signer lacking the required role.
	AccessDenied
	// SecurityFailure covers a signature that fails to verify.
	SecurityFailure
	// CryptoFailure covers an underlying primitive error (key load, sign, decrypt).
	CryptoFailure
	// OutOfCapacity covers a full registry.
	OutOfCapacity
	// OutOfMemory covers an allocation failure.
	OutOfMemory
	// ShortBuffer covers a caller buffer smaller than the required output.
	ShortBuffer
	// BadFormat covers a PEM/hex parse failure.
	BadFormat
)

func (k Kind) String() string {
	switch k {
	case BadParameters:
		return "BadParameters"
	case NotFound:
		return "NotFound"
	case AccessDenied:
		return "AccessDenied"
	case SecurityFailure:
		return "SecurityFailure"
	case CryptoFailure:
		return "CryptoFailure"
	case OutOfCapacity:
		return "OutOfCapacity"
	case OutOfMemory:
		return "OutOfMemory"
	case ShortBuffer:
		return "ShortBuffer"
	case BadFormat:
		return "BadFormat"
	default:
		return "Unknown"
	}
}

// Error is a handler failure tagged with its Kind, so callers (the HTTP
// façade in particular) can map it to a transport-level status without
// string-matching error text.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// newErr builds an *Error, optionally wrapping a lower-level cause.
func newErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
