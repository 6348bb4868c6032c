package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindTransport  ErrorKind = "transport"
	KindRemote     ErrorKind = "remote"
	KindDecode     ErrorKind = "decode"
	KindUnexpected ErrorKind = "unexpected"
)

// RemoteError is the single error shape returned by remote-calling code.
type RemoteError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Result is either a value or a RemoteError, never both.
type Result[T any] struct {
	value T
	err   *RemoteError
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail builds a failed result.
func Fail[T any](kind ErrorKind, message string, cause error) Result[T] {
	return Result[T]{err: &RemoteError{Kind: kind, Message: message, Err: cause}}
}

// ResultOf adapts a (value, error) pair. Errors that are already RemoteErrors keep their kind,
// anything else is treated as a transport failure.
func ResultOf[T any](value T, err error) Result[T] {
	if err == nil {
		return Ok(value)
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return Result[T]{err: remoteErr}
	}
	return Fail[T](KindTransport, err.Error(), err)
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the wrapped value, the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns nil on success.
func (r Result[T]) Err() *RemoteError {
	return r.err
}

// Unwrap converts back into Go's (value, error) convention.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}
