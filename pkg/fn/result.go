// Package fn holds small generic combinators shared across the engine:
// result values, bounded parallelism, retry, and slice helpers.
package fn

import "fmt"

// Result carries either a value or the error that prevented it.
type Result[T any] struct {
	value T
	err   error
	valid bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, valid: true}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Errf wraps a failure built from a format string.
func Errf[T any](format string, args ...any) Result[T] {
	return Err[T](fmt.Errorf(format, args...))
}

// FromPair lifts a conventional (value, error) return into a Result.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

func (r Result[T]) IsOk() bool  { return r.valid }
func (r Result[T]) IsErr() bool { return !r.valid }

// Unwrap lowers the Result back to a (value, error) pair.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

// UnwrapOr returns the value, or fallback if the Result is an error.
func (r Result[T]) UnwrapOr(fallback T) T {
	if !r.valid {
		return fallback
	}
	return r.value
}
