package decode

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
)

// StringSource adapts a single `string` to a Source. Primitive values are parsed
// using strconv.ParseInt, strconv.ParseUint, strconv.ParseFloat and strconv.ParseBool.
// String values are returned as is. A StringSource is never null and has no children.
//
// Object keys produced by the JSON and YAML sources are StringSource values, as are
// the texts of `default` struct tags.
type StringSource string

var _ Source = StringSource("")
var _ SizedIntSource = StringSource("")

func (s StringSource) Int8() (int8, error) {
	return parseSigned[int8](string(s), 8)
}

func (s StringSource) Int16() (int16, error) {
	return parseSigned[int16](string(s), 16)
}

func (s StringSource) Int32() (int32, error) {
	return parseSigned[int32](string(s), 32)
}

func (s StringSource) Int64() (int64, error) {
	return parseSigned[int64](string(s), 64)
}

func (s StringSource) Uint8() (uint8, error) {
	return parseUnsigned[uint8](string(s), 8)
}

func (s StringSource) Uint16() (uint16, error) {
	return parseUnsigned[uint16](string(s), 16)
}

func (s StringSource) Uint32() (uint32, error) {
	return parseUnsigned[uint32](string(s), 32)
}

func (s StringSource) Uint64() (uint64, error) {
	return parseUnsigned[uint64](string(s), 64)
}

func (s StringSource) Bool() (bool, error) {
	parsedValue, err := strconv.ParseBool(string(s))
	return handleSyntaxErr(string(s), parsedValue, err)
}

func (s StringSource) Int() (int64, error) {
	return s.Int64()
}

func (s StringSource) Uint() (uint64, error) {
	return s.Uint64()
}

func (s StringSource) Float() (float64, error) {
	parsedValue, err := strconv.ParseFloat(string(s), 64)
	return handleSyntaxErr(string(s), parsedValue, err)
}

func (s StringSource) String() (string, error) {
	return string(s), nil
}

func (s StringSource) Null() error {
	return ErrNotSupported
}

func (s StringSource) Get(key string) (Source, error) {
	return EmptySource{}.Get(key)
}

func (s StringSource) KeyValues() (iter.Seq2[Source, Source], error) {
	return EmptySource{}.KeyValues()
}

func (s StringSource) Iter() (iter.Seq[Source], error) {
	return EmptySource{}.Iter()
}

func parseSigned[T int8 | int16 | int32 | int64](input string, bitSize int) (T, error) {
	parsedValue, err := strconv.ParseInt(input, 10, bitSize)
	return handleSyntaxErr(input, T(parsedValue), err)
}

func parseUnsigned[T uint8 | uint16 | uint32 | uint64](input string, bitSize int) (T, error) {
	parsedValue, err := strconv.ParseUint(input, 10, bitSize)
	return handleSyntaxErr(input, T(parsedValue), err)
}

// handleSyntaxErr maps a strconv syntax error to ErrNotSupported: the text is not
// a value of the requested kind. Range errors are passed through as is.
func handleSyntaxErr[T any](inputValue string, value T, err error) (T, error) {
	var zeroValue T
	if errors.Is(err, strconv.ErrSyntax) {
		err := fmt.Errorf("parse %q: %w", inputValue, err)
		return zeroValue, errors.Join(err, ErrNotSupported)
	}

	if err != nil {
		return zeroValue, err
	}

	return value, nil
}
