package decode

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrNoValue is returned by [Source.Get] if an object does not contain the requested key.
var ErrNoValue = errors.New("no value")

// ErrNotSupported is returned by a [Source] if it can not be interpreted in the requested form.
var ErrNotSupported = errors.New("not supported")

type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}

// TypeError describes a value of the wrong kind, e.g. a number where a string was expected.
// It matches [ErrNotSupported] when checked with [errors.Is].
type TypeError struct {
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool {
	return target == ErrNotSupported
}

// FieldError reports a failure to decode the value of an object field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IndexError reports a failure to decode an element of an array.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d: %s", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// OneOfError is returned by [OneOf] if none of its decoders succeeded.
// It holds the errors of all decoders in order.
type OneOfError struct {
	Errs []error
}

func (e *OneOfError) Error() string {
	var sb strings.Builder
	sb.WriteString("no decoder succeeded")

	for idx, err := range e.Errs {
		sb.WriteString("; ")
		sb.WriteString(strconv.Itoa(idx))
		sb.WriteString(": ")
		sb.WriteString(ErrorToString(err))
	}

	return sb.String()
}

func (e *OneOfError) Unwrap() []error {
	return e.Errs
}

// ErrorToString renders an error returned by a [Decoder] for display. The chain of
// [FieldError] and [IndexError] values leading to the cause is collapsed into a path:
//
//	$.user.tags[2]: expected string, got number
func ErrorToString(err error) string {
	if err == nil {
		return ""
	}

	var path strings.Builder
	path.WriteString("$")

	cause := err
	for {
		switch e := cause.(type) {
		case *FieldError:
			path.WriteString(".")
			path.WriteString(e.Field)
			cause = e.Err
			continue

		case *IndexError:
			path.WriteString("[")
			path.WriteString(strconv.Itoa(e.Index))
			path.WriteString("]")
			cause = e.Err
			continue
		}

		break
	}

	if cause == err {
		return err.Error()
	}

	return path.String() + ": " + cause.Error()
}

// wrapPath wraps err into one FieldError per path segment, outermost segment first.
func wrapPath(path []string, err error) error {
	for idx := len(path) - 1; idx >= 0; idx-- {
		err = &FieldError{Field: path[idx], Err: err}
	}

	return err
}

// typeError is a shorthand for a *TypeError.
func typeError(expected string, actual string) error {
	return &TypeError{Expected: expected, Actual: actual}
}
