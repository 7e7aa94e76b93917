package decode

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Decoder describes how to produce a T from a [Source]. Decoders are plain function
// values: they are built once and can be run any number of times, also concurrently,
// against different sources.
type Decoder[T any] func(source Source) (T, error)

// Decode runs the decoder against the given source.
func (d Decoder[T]) Decode(source Source) (T, error) {
	return d(source)
}

// DecodeValue runs dec against the given source.
func DecodeValue[T any](dec Decoder[T], source Source) (T, error) {
	return dec(source)
}

// Raw returns a decoder that yields the source itself, without interpreting it.
func Raw() Decoder[Source] {
	return func(source Source) (Source, error) {
		return source, nil
	}
}

func String() Decoder[string] {
	return func(source Source) (string, error) {
		value, err := source.String()
		if err != nil {
			return "", fmt.Errorf("get string value: %w", err)
		}

		return value, nil
	}
}

func Bool() Decoder[bool] {
	return func(source Source) (bool, error) {
		value, err := source.Bool()
		if err != nil {
			return false, fmt.Errorf("get bool value: %w", err)
		}

		return value, nil
	}
}

// Int decodes a signed integer. Values that do not fit into T fail with strconv.ErrRange.
func Int[T constraints.Signed]() Decoder[T] {
	return func(source Source) (T, error) {
		intValue, err := source.Int()
		if err != nil {
			return 0, fmt.Errorf("get int value: %w", err)
		}

		value := T(intValue)
		if int64(value) != intValue {
			return 0, fmt.Errorf("invalid %T value %d: %w", value, intValue, strconv.ErrRange)
		}

		return value, nil
	}
}

// Uint decodes an unsigned integer. Values that do not fit into T fail with strconv.ErrRange.
func Uint[T constraints.Unsigned]() Decoder[T] {
	return func(source Source) (T, error) {
		uintValue, err := source.Uint()
		if err != nil {
			return 0, fmt.Errorf("get uint value: %w", err)
		}

		value := T(uintValue)
		if uint64(value) != uintValue {
			return 0, fmt.Errorf("invalid %T value %d: %w", value, uintValue, strconv.ErrRange)
		}

		return value, nil
	}
}

func Float[T constraints.Float]() Decoder[T] {
	return func(source Source) (T, error) {
		floatValue, err := source.Float()
		if err != nil {
			return 0, fmt.Errorf("get float value: %w", err)
		}

		value := T(floatValue)
		if math.IsInf(float64(value), 0) && !math.IsInf(floatValue, 0) {
			return 0, fmt.Errorf("invalid %T value %g: %w", value, floatValue, strconv.ErrRange)
		}

		return value, nil
	}
}

// Field decodes the value of the object field name using dec.
func Field[T any](name string, dec Decoder[T]) Decoder[T] {
	return At([]string{name}, dec)
}

// At decodes the value at the given path of nested object fields using dec.
// Failures are wrapped in one [FieldError] per path segment.
func At[T any](path []string, dec Decoder[T]) Decoder[T] {
	path = slices.Clone(path)

	return func(source Source) (T, error) {
		var tZero T

		child, err := lookup(source, path)
		if err != nil {
			return tZero, err
		}

		value, err := dec(child)
		if err != nil {
			return tZero, wrapPath(path, err)
		}

		return value, nil
	}
}

// lookup walks the path and returns the raw source found there.
func lookup(source Source, path []string) (Source, error) {
	for idx, key := range path {
		child, err := source.Get(key)
		if err != nil {
			return nil, wrapPath(path[:idx+1], err)
		}

		source = child
	}

	return source, nil
}

// Index decodes the element at position idx of an array using dec.
// Fails with ErrNoValue if the array is too short.
func Index[T any](idx int, dec Decoder[T]) Decoder[T] {
	return func(source Source) (T, error) {
		var tZero T

		elements, err := source.Iter()
		if err != nil {
			return tZero, fmt.Errorf("as iter: %w", err)
		}

		current := 0
		for element := range elements {
			if current == idx {
				value, err := dec(element)
				if err != nil {
					return tZero, &IndexError{Index: idx, Err: err}
				}

				return value, nil
			}

			current++
		}

		return tZero, &IndexError{Index: idx, Err: ErrNoValue}
	}
}

// List decodes an array, decoding every element using dec.
func List[T any](dec Decoder[T]) Decoder[[]T] {
	return func(source Source) ([]T, error) {
		elements, err := source.Iter()
		if err != nil {
			return nil, fmt.Errorf("as iter: %w", err)
		}

		values := []T{}

		idx := 0
		for element := range elements {
			value, err := dec(element)
			if err != nil {
				return nil, &IndexError{Index: idx, Err: err}
			}

			values = append(values, value)
			idx++
		}

		return values, nil
	}
}

// Dict decodes an object into a map, decoding every value using dec.
func Dict[T any](dec Decoder[T]) Decoder[map[string]T] {
	return func(source Source) (map[string]T, error) {
		keyValues, err := source.KeyValues()
		if err != nil {
			return nil, fmt.Errorf("iterate key/value pairs: %w", err)
		}

		values := map[string]T{}

		for keySource, valueSource := range keyValues {
			key, err := keySource.String()
			if err != nil {
				return nil, fmt.Errorf("get key: %w", err)
			}

			value, err := dec(valueSource)
			if err != nil {
				return nil, &FieldError{Field: key, Err: err}
			}

			values[key] = value
		}

		return values, nil
	}
}

// OneOf tries the decoders in order and returns the result of the first one that
// succeeds. If all of them fail, a [*OneOfError] with all errors is returned.
func OneOf[T any](decoders ...Decoder[T]) Decoder[T] {
	decoders = slices.Clone(decoders)

	return func(source Source) (T, error) {
		var errs []error

		for _, dec := range decoders {
			value, err := dec(source)
			if err == nil {
				return value, nil
			}

			errs = append(errs, err)
		}

		var tZero T
		return tZero, &OneOfError{Errs: errs}
	}
}

// Null succeeds with value if the source is an explicit null and fails otherwise.
func Null[T any](value T) Decoder[T] {
	return func(source Source) (T, error) {
		if err := source.Null(); err != nil {
			var tZero T
			return tZero, fmt.Errorf("get null value: %w", err)
		}

		return value, nil
	}
}

// Nullable decodes null to nil. Every other value is decoded using dec.
func Nullable[T any](dec Decoder[T]) Decoder[*T] {
	return OneOf(Null[*T](nil), Map(dec, pointerTo[T]))
}

func Succeed[T any](value T) Decoder[T] {
	return func(Source) (T, error) {
		return value, nil
	}
}

// Fail returns a decoder that always fails with the given message.
func Fail[T any](message string) Decoder[T] {
	err := errors.New(message)

	return func(Source) (T, error) {
		var tZero T
		return tZero, err
	}
}

// AndThen runs dec and passes its result to next. The decoder returned by next
// is then run against the same source. A failure of dec is returned unchanged
// and next is not called.
func AndThen[A, B any](dec Decoder[A], next func(A) Decoder[B]) Decoder[B] {
	return func(source Source) (B, error) {
		a, err := dec(source)
		if err != nil {
			var bZero B
			return bZero, err
		}

		return next(a)(source)
	}
}

// Map transforms the result of dec using fn.
func Map[A, B any](dec Decoder[A], fn func(A) B) Decoder[B] {
	return func(source Source) (B, error) {
		a, err := dec(source)
		if err != nil {
			var bZero B
			return bZero, err
		}

		return fn(a), nil
	}
}

func pointerTo[T any](value T) *T {
	return &value
}
