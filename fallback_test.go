package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pair struct {
	A string
	X string
}

func pairDecoder(a Decoder[string], x Decoder[string]) Decoder[pair] {
	return With(a, func(a string) Decoder[pair] {
		return With(x, func(x string) Decoder[pair] {
			return Succeed(pair{A: a, X: x})
		})
	})
}

var defaultPair = pairDecoder(
	Default("a", String(), "--"),
	Default("x", String(), "--"),
)

func TestDefault_MissingField(t *testing.T) {
	value, err := DecodeString(defaultPair, `{"x":"five"}`)
	require.NoError(t, err)
	require.Equal(t, pair{A: "--", X: "five"}, value)
}

func TestDefault_NullField(t *testing.T) {
	value, err := DecodeString(defaultPair, `{"a":null,"x":"five"}`)
	require.NoError(t, err)
	require.Equal(t, pair{A: "--", X: "five"}, value)
}

func TestDefault_NullAcceptedByDecoder(t *testing.T) {
	nullOrString := OneOf(Null("null"), String())

	dec := pairDecoder(
		Default("a", nullOrString, "--"),
		Default("x", String(), "--"),
	)

	value, err := DecodeString(dec, `{"a":null,"x":"five"}`)
	require.NoError(t, err)
	require.Equal(t, pair{A: "null", X: "five"}, value)
}

func TestDefault_PresentInvalidFails(t *testing.T) {
	_, err := DecodeString(Default("x", String(), "--"), `{"x":5}`)
	require.ErrorIs(t, err, ErrNotSupported)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "x", fieldErr.Field)

	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, &TypeError{Expected: "string", Actual: "number"}, typeErr)
}

func TestDefault_SourceNotAnObject(t *testing.T) {
	value, err := DecodeString(Default("x", String(), "--"), `[1, 2, 3]`)
	require.NoError(t, err)
	require.Equal(t, "--", value)
}

func TestDefaultAt_Nested(t *testing.T) {
	dec := pairDecoder(
		DefaultAt([]string{"a", "b"}, String(), "--"),
		DefaultAt([]string{"x", "y"}, String(), "--"),
	)

	value, err := DecodeString(dec, `{"a":{},"x":{"y":"bar"}}`)
	require.NoError(t, err)
	require.Equal(t, pair{A: "--", X: "bar"}, value)

	_, err = DecodeString(dec, `{"a":{},"x":{"y":5}}`)
	require.ErrorIs(t, err, ErrNotSupported)
	require.Equal(t, "$.x.y: get string value: expected string, got number", ErrorToString(err))
}

func TestDefaultAt_IntermediateNotAnObject(t *testing.T) {
	dec := DefaultAt([]string{"a", "b"}, Int[int](), 7)

	for _, input := range []string{`{"a":"text"}`, `{"a":null}`, `{"a":[1]}`, `{}`} {
		value, err := DecodeString(dec, input)
		require.NoError(t, err, input)
		require.Equal(t, 7, value, input)
	}
}

func TestDefaultAt_PathIsCopied(t *testing.T) {
	path := []string{"a", "b"}
	dec := DefaultAt(path, String(), "--")

	path[1] = "c"

	value, err := DecodeString(dec, `{"a":{"b":"bee","c":"sea"}}`)
	require.NoError(t, err)
	require.Equal(t, "bee", value)
}

func TestDefault_Idempotent(t *testing.T) {
	source, err := ParseJSON([]byte(`{"a":null,"x":"five"}`))
	require.NoError(t, err)

	first, firstErr := defaultPair(source)
	second, secondErr := defaultPair(source)

	require.Equal(t, first, second)
	require.Equal(t, firstErr, secondErr)
}

func TestOptional(t *testing.T) {
	dec := Optional("n", Int[int]())

	value, err := DecodeString(dec, `{}`)
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = DecodeString(dec, `{"n":null}`)
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = DecodeString(dec, `{"n":12}`)
	require.NoError(t, err)
	require.Equal(t, 12, *value)

	_, err = DecodeString(dec, `{"n":"12"}`)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestOptionalAt(t *testing.T) {
	dec := OptionalAt([]string{"server", "port"}, Uint[uint16]())

	value, err := DecodeString(dec, `{"server":{}}`)
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = DecodeString(dec, `{"server":{"port":8080}}`)
	require.NoError(t, err)
	require.Equal(t, uint16(8080), *value)
}

func TestDefault_YAML(t *testing.T) {
	dec := pairDecoder(
		Default("a", String(), "--"),
		DefaultAt([]string{"x", "y"}, String(), "--"),
	)

	value, err := DecodeYAML(dec, []byte("a: ~\nx:\n  y: bar\n"))
	require.NoError(t, err)
	require.Equal(t, pair{A: "--", X: "bar"}, value)

	_, err = DecodeYAML(dec, []byte("x:\n  y: 5\n"))
	require.ErrorIs(t, err, ErrNotSupported)
}
