package decode

import (
	"errors"
	"slices"
)

// Default decodes the object field name using dec and falls back to fallback
// if the field is absent, or if it is null and dec does not accept null.
//
//	field state        | dec accepts it | result
//	-------------------+----------------+----------------------
//	absent             |                | fallback
//	null               | yes            | value decoded by dec
//	null               | no             | fallback
//	any other value    | yes            | value decoded by dec
//	any other value    | no             | error
//
// A present value that dec rejects is never replaced by the fallback.
func Default[T any](name string, dec Decoder[T], fallback T) Decoder[T] {
	return optionalDecoder([]string{name}, dec, fallback)
}

// DefaultAt works like [Default] for a path of nested object fields. The field is
// considered absent if any segment of the path is missing or if one of the
// intermediate values is not an object.
func DefaultAt[T any](path []string, dec Decoder[T], fallback T) Decoder[T] {
	return optionalDecoder(slices.Clone(path), dec, fallback)
}

// Optional decodes the object field name using dec. It yields nil in all cases
// where [Default] would use its fallback.
func Optional[T any](name string, dec Decoder[T]) Decoder[*T] {
	return optionalDecoder[*T]([]string{name}, Map(dec, pointerTo[T]), nil)
}

// OptionalAt works like [Optional] for a path of nested object fields.
func OptionalAt[T any](path []string, dec Decoder[T]) Decoder[*T] {
	return optionalDecoder[*T](slices.Clone(path), Map(dec, pointerTo[T]), nil)
}

func optionalDecoder[T any](path []string, dec Decoder[T], fallback T) Decoder[T] {
	return func(source Source) (T, error) {
		// locate the raw value first, so that an absent field can be told
		// apart from a field with an invalid value.
		raw, err := lookup(source, path)
		switch {
		case isAbsent(err):
			return fallback, nil
		case err != nil:
			var tZero T
			return tZero, err
		}

		// dec gets the first chance to handle null
		value, err := dec(raw)
		if err == nil {
			return value, nil
		}

		if raw.Null() == nil {
			return fallback, nil
		}

		var tZero T
		return tZero, wrapPath(path, err)
	}
}

func isAbsent(err error) bool {
	return errors.Is(err, ErrNoValue) || errors.Is(err, ErrNotSupported)
}
