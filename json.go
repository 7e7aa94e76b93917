package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
)

// ParseJSON parses a JSON document into a [Source]. Numbers keep their textual
// representation until a decoder asks for a specific type, so large integers are not
// truncated by a round-trip through float64.
func ParseJSON(data []byte) (Source, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse json: unexpected data after top-level value")
	}

	return jsonSource{value: value}, nil
}

// DecodeJSON parses the given JSON document and runs dec against it.
func DecodeJSON[T any](dec Decoder[T], data []byte) (T, error) {
	source, err := ParseJSON(data)
	if err != nil {
		var tZero T
		return tZero, err
	}

	return dec(source)
}

// DecodeString parses the given JSON text and runs dec against it.
func DecodeString[T any](dec Decoder[T], text string) (T, error) {
	return DecodeJSON(dec, []byte(text))
}

// jsonSource is a node of a document decoded into go values: map[string]any, []any,
// string, json.Number, bool or nil.
type jsonSource struct {
	value any
}

var _ Source = jsonSource{}

func (s jsonSource) Bool() (bool, error) {
	if value, ok := s.value.(bool); ok {
		return value, nil
	}

	return false, typeError("bool", jsonKindOf(s.value))
}

func (s jsonSource) Int() (int64, error) {
	number, err := s.number()
	if err != nil {
		return 0, err
	}

	intValue, err := strconv.ParseInt(number, 10, 64)
	return handleSyntaxErr(number, intValue, err)
}

func (s jsonSource) Uint() (uint64, error) {
	number, err := s.number()
	if err != nil {
		return 0, err
	}

	uintValue, err := strconv.ParseUint(number, 10, 64)
	return handleSyntaxErr(number, uintValue, err)
}

func (s jsonSource) Float() (float64, error) {
	number, err := s.number()
	if err != nil {
		return 0, err
	}

	floatValue, err := strconv.ParseFloat(number, 64)
	return handleSyntaxErr(number, floatValue, err)
}

func (s jsonSource) number() (string, error) {
	switch value := s.value.(type) {
	case json.Number:
		return value.String(), nil
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	default:
		return "", typeError("number", jsonKindOf(s.value))
	}
}

func (s jsonSource) String() (string, error) {
	if value, ok := s.value.(string); ok {
		return value, nil
	}

	return "", typeError("string", jsonKindOf(s.value))
}

func (s jsonSource) Null() error {
	if s.value == nil {
		return nil
	}

	return typeError("null", jsonKindOf(s.value))
}

func (s jsonSource) Get(key string) (Source, error) {
	object, ok := s.value.(map[string]any)
	if !ok {
		return nil, typeError("object", jsonKindOf(s.value))
	}

	value, ok := object[key]
	if !ok {
		return nil, ErrNoValue
	}

	return jsonSource{value: value}, nil
}

func (s jsonSource) KeyValues() (iter.Seq2[Source, Source], error) {
	object, ok := s.value.(map[string]any)
	if !ok {
		return nil, typeError("object", jsonKindOf(s.value))
	}

	// iterate in key order to keep decoding deterministic
	keys := slices.Sorted(maps.Keys(object))

	it := func(yield func(Source, Source) bool) {
		for _, key := range keys {
			if !yield(StringSource(key), jsonSource{value: object[key]}) {
				return
			}
		}
	}

	return it, nil
}

func (s jsonSource) Iter() (iter.Seq[Source], error) {
	array, ok := s.value.([]any)
	if !ok {
		return nil, typeError("array", jsonKindOf(s.value))
	}

	it := func(yield func(Source) bool) {
		for _, value := range array {
			if !yield(jsonSource{value: value}) {
				return
			}
		}
	}

	return it, nil
}

func jsonKindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
