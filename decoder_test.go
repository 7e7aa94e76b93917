package decode

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitives(t *testing.T) {
	str, err := DecodeString(String(), `"text"`)
	require.NoError(t, err)
	require.Equal(t, "text", str)

	boolean, err := DecodeString(Bool(), `true`)
	require.NoError(t, err)
	require.True(t, boolean)

	integer, err := DecodeString(Int[int64](), `-9223372036854775808`)
	require.NoError(t, err)
	require.Equal(t, int64(-9223372036854775808), integer)

	unsigned, err := DecodeString(Uint[uint64](), `18446744073709551615`)
	require.NoError(t, err)
	require.Equal(t, uint64(18446744073709551615), unsigned)

	float, err := DecodeString(Float[float64](), `1.5e3`)
	require.NoError(t, err)
	require.Equal(t, 1500.0, float)
}

func TestPrimitives_Range(t *testing.T) {
	_, err := DecodeString(Int[int8](), `128`)
	require.ErrorIs(t, err, strconv.ErrRange)

	_, err = DecodeString(Uint[uint8](), `256`)
	require.ErrorIs(t, err, strconv.ErrRange)

	_, err = DecodeString(Float[float32](), `1e300`)
	require.ErrorIs(t, err, strconv.ErrRange)

	_, err = DecodeString(Uint[uint](), `-1`)
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = DecodeString(Int[int](), `1.5`)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestPrimitives_WrongType(t *testing.T) {
	_, err := DecodeString(String(), `5`)
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = DecodeString(Bool(), `"true"`)
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = DecodeString(Int[int](), `"5"`)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestField(t *testing.T) {
	_, err := DecodeString(Field("a", String()), `{}`)
	require.ErrorIs(t, err, ErrNoValue)
	require.Equal(t, "$.a: no value", ErrorToString(err))

	_, err = DecodeString(Field("a", String()), `"not an object"`)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestAt(t *testing.T) {
	dec := At([]string{"a", "b", "c"}, Int[int]())

	value, err := DecodeString(dec, `{"a":{"b":{"c":3}}}`)
	require.NoError(t, err)
	require.Equal(t, 3, value)

	_, err = DecodeString(dec, `{"a":{"x":{}}}`)
	require.ErrorIs(t, err, ErrNoValue)
	require.Equal(t, "$.a.b: no value", ErrorToString(err))
}

func TestRaw(t *testing.T) {
	dec := Field("nested", Raw())

	raw, err := DecodeString(dec, `{"nested":{"a":"b"}}`)
	require.NoError(t, err)

	value, err := Field("a", String())(raw)
	require.NoError(t, err)
	require.Equal(t, "b", value)
}

func TestIndex(t *testing.T) {
	value, err := DecodeString(Index(1, String()), `["a", "b", "c"]`)
	require.NoError(t, err)
	require.Equal(t, "b", value)

	_, err = DecodeString(Index(3, String()), `["a", "b", "c"]`)
	require.ErrorIs(t, err, ErrNoValue)

	_, err = DecodeString(Index(0, String()), `[1]`)
	require.Equal(t, "$[0]: get string value: expected string, got number", ErrorToString(err))
}

func TestList(t *testing.T) {
	values, err := DecodeString(List(Int[int]()), `[1, 2, 3]`)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, values)

	values, err = DecodeString(List(Int[int]()), `[]`)
	require.NoError(t, err)
	require.Equal(t, []int{}, values)

	_, err = DecodeString(Field("tags", List(String())), `{"tags":["a", "b", 3]}`)
	require.Equal(t, "$.tags[2]: get string value: expected string, got number", ErrorToString(err))
}

func TestDict(t *testing.T) {
	values, err := DecodeString(Dict(Int[int]()), `{"one": 1, "two": 2}`)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"one": 1, "two": 2}, values)

	_, err = DecodeString(Dict(Int[int]()), `{"one": 1, "two": "2"}`)
	require.ErrorIs(t, err, ErrNotSupported)
	require.Equal(t, "$.two: get int value: expected number, got string", ErrorToString(err))
}

func TestOneOf(t *testing.T) {
	dec := OneOf(
		Map(Int[int](), strconv.Itoa),
		String(),
	)

	value, err := DecodeString(dec, `12`)
	require.NoError(t, err)
	require.Equal(t, "12", value)

	value, err = DecodeString(dec, `"twelve"`)
	require.NoError(t, err)
	require.Equal(t, "twelve", value)

	_, err = DecodeString(dec, `true`)

	var oneOfErr *OneOfError
	require.ErrorAs(t, err, &oneOfErr)
	require.Len(t, oneOfErr.Errs, 2)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestNull(t *testing.T) {
	value, err := DecodeString(Null(42), `null`)
	require.NoError(t, err)
	require.Equal(t, 42, value)

	_, err = DecodeString(Null(42), `0`)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestNullable(t *testing.T) {
	value, err := DecodeString(Nullable(String()), `null`)
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = DecodeString(Nullable(String()), `"text"`)
	require.NoError(t, err)
	require.Equal(t, "text", *value)
}

func TestSucceedAndFail(t *testing.T) {
	value, err := DecodeString(Succeed("constant"), `{"ignored": true}`)
	require.NoError(t, err)
	require.Equal(t, "constant", value)

	_, err = DecodeString(Fail[string]("nope"), `{}`)
	require.EqualError(t, err, "nope")
}

func TestAndThen_SelectsDecoderByTag(t *testing.T) {
	type Shape struct {
		Kind string
		Size float64
	}

	shape := AndThen(Field("kind", String()), func(kind string) Decoder[Shape] {
		switch kind {
		case "circle":
			return Map(Field("radius", Float[float64]()), func(r float64) Shape { return Shape{Kind: kind, Size: r} })
		case "square":
			return Map(Field("side", Float[float64]()), func(s float64) Shape { return Shape{Kind: kind, Size: s} })
		default:
			return Fail[Shape]("unknown shape " + strconv.Quote(kind))
		}
	})

	value, err := DecodeString(shape, `{"kind":"circle","radius":2}`)
	require.NoError(t, err)
	require.Equal(t, Shape{Kind: "circle", Size: 2}, value)

	_, err = DecodeString(shape, `{"kind":"hexagon"}`)
	require.EqualError(t, err, `unknown shape "hexagon"`)
}

func TestDecodeValue(t *testing.T) {
	value, err := DecodeValue(String(), StringSource("plain"))
	require.NoError(t, err)
	require.Equal(t, "plain", value)

	value, err = String().Decode(StringSource("method"))
	require.NoError(t, err)
	require.Equal(t, "method", value)
}
