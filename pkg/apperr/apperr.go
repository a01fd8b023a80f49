// Package apperr carries the error taxonomy shared by every storefront
// operation. Handlers decide how to surface a failure from its Kind; the
// wrapped cause stays available through errors.Unwrap for logging.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthenticated
	KindNotFound
	KindProductUnavailable
	KindOutOfStock
	KindCartEmpty
	KindValidation
	KindConcurrentModification
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "NOT_AUTHENTICATED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindProductUnavailable:
		return "PRODUCT_UNAVAILABLE"
	case KindOutOfStock:
		return "OUT_OF_STOCK"
	case KindCartEmpty:
		return "CART_EMPTY"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConcurrentModification:
		return "CONCURRENT_MODIFICATION"
	case KindPersistence:
		return "PERSISTENCE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

type Error struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// KindOf reports the taxonomy kind of err, or KindUnknown when err did not
// originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
