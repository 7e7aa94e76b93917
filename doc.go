// Package decode provides composable decoders for serialized data such as JSON or YAML.
//
// A [Decoder] describes how to turn a [Source], one node of a parsed document, into a go
// value. Decoders for single values ([String], [Int], [Field], [At], [List], ...) are
// sequenced into decoders for whole records using [With]:
//
//	type Pair struct{ A, X string }
//
//	pair := decode.With(decode.Default("a", decode.String(), "--"), func(a string) decode.Decoder[Pair] {
//		return decode.With(decode.Field("x", decode.String()), func(x string) decode.Decoder[Pair] {
//			return decode.Succeed(Pair{A: a, X: x})
//		})
//	})
//
//	value, err := decode.DecodeString(pair, `{"x": "five"}`) // Pair{A: "--", X: "five"}
//
// [Default] and [DefaultAt] substitute a fallback value for fields that are absent or null,
// while still reporting fields that are present with an invalid value.
//
// The [Binder] type offers a reflection based alternative similar to [json.Unmarshal], with the
// same fallback rules applied to struct fields.
package decode
