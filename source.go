package decode

import "iter"

// Source is one node of serialized data, e.g. a value within a parsed JSON document.
// Decoders pull data out of a Source using the methods below.
//
// A [Source] can be interpreted in different forms:
//   - **Primitive types**: conversion to `bool`, `int64`, `uint64`, `float64` and `string`.
//   - **Null**: [Source.Null] reports whether the node is an explicit null.
//   - **Objects**: [Source.Get] looks up the child value for a key.
//   - **Arrays**: [Source.Iter] iterates over the elements.
//   - **Maps**: [Source.KeyValues] iterates over key/value pairs.
//
// If converting the [Source] into a particular form isn't possible, the method must return
// an error matching [ErrNotSupported]. Fallback decoders such as [Default] rely on the
// distinction between [ErrNoValue] (a key is absent) and [ErrNotSupported] (the node is
// not an object at all), so implementations must keep the two apart.
//
// Two ready-to-use implementations help with writing custom sources:
//
//  1. [StringSource] parses a single string into primitive values using `strconv`.
//  2. [EmptySource] returns [ErrNotSupported] for all methods and is meant to be embedded.
//
// Example:
//
//	type MySource struct {
//	    decode.EmptySource
//	}
//
//	func (m MySource) Get(key string) (decode.Source, error) {
//	    // Custom logic for handling object fields
//	}
type Source interface {
	// Bool returns the current value as a bool.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Bool() (bool, error)

	// Int returns the current value as an int64.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Int() (int64, error)

	// Uint returns the current value as an uint64.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Uint() (uint64, error)

	// Float returns the current value as a float64.
	// Returns error ErrNotSupported if the value can not be represented as such.
	Float() (float64, error)

	// String returns the current value as a string.
	// Returns error ErrNotSupported if the value can not be represented as such.
	String() (string, error)

	// Null returns nil if the current value is an explicit null.
	// Returns error ErrNotSupported for every other value.
	Null() error

	// Get returns a child value of this [Source] if it exists.
	// Returns error [ErrNotSupported] if the current [Source] does not have any
	// child values. If the [Source] does have children, but just not the
	// requested child, [ErrNoValue] must be returned.
	Get(key string) (Source, error)

	// KeyValues interprets the [Source] as a map and iterates over the
	// elements within. It yields a pair of key and value [Source] instances.
	// Returns [ErrNotSupported] if the [Source] is not iterable.
	KeyValues() (iter.Seq2[Source, Source], error)

	// Iter interprets the [Source] as a slice and iterates over the
	// elements within.
	// Returns [ErrNotSupported] if the [Source] is not iterable.
	Iter() (iter.Seq[Source], error)
}

// SizedIntSource extends the [Source] interface by adding methods for extracting
// integers of specific bit sizes. The [Binder] prefers these methods over
// [Source.Int] and [Source.Uint] when the target type has a fixed size, letting the
// source report overflow with its own precision.
type SizedIntSource interface {
	Int8() (int8, error)
	Int16() (int16, error)
	Int32() (int32, error)
	Int64() (int64, error)

	Uint8() (uint8, error)
	Uint16() (uint16, error)
	Uint32() (uint32, error)
	Uint64() (uint64, error)
}
