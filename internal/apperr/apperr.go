package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the request boundary. Handlers map kinds to
// HTTP status codes; everything unclassified is a store failure.
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindNotFound
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Store(msg string, err error) error {
	return &Error{Kind: KindStore, Msg: msg, Err: err}
}

// KindOf returns the kind of err, defaulting to KindStore so that raw
// database and context errors surface as 500s.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// Message returns the client-facing message for err. Store internals are
// not leaked to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindStore {
		return e.Msg
	}
	return "internal server error"
}
