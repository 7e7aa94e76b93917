package decode

import (
	"encoding"
	"errors"
	"fmt"
	"iter"
	"math"
	"reflect"
	"strconv"
	"sync"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Unmarshal decodes source onto the value target points to, using the default [Binder].
func Unmarshal(source Source, target any) error {
	return defaultBinder.Unmarshal(source, target)
}

func UnmarshalNew[T any](source Source) (T, error) {
	return UnmarshalNewWith[T](&defaultBinder, source)
}

func UnmarshalNewWith[T any](b *Binder, source Source) (T, error) {
	var target T
	err := b.Unmarshal(source, &target)
	return target, err
}

// Into returns a [Decoder] that decodes a T using the default [Binder]. This allows
// mixing reflection based decoding of whole structs with decoder combinators:
//
//	decode.Default("address", decode.Into[Address](), Address{City: "unknown"})
func Into[T any]() Decoder[T] {
	return IntoWith[T](&defaultBinder)
}

// IntoWith returns a [Decoder] that decodes a T using the given [Binder].
func IntoWith[T any](b *Binder) Decoder[T] {
	return func(source Source) (T, error) {
		return UnmarshalNewWith[T](b, source)
	}
}

// A setter sets the reflect.Value to a value extracted from the given Source
type setter func(Source, reflect.Value) error

// A set of types that are currently in construction
type typeSet map[reflect.Type]struct{}

var tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
var tySource = reflect.TypeFor[Source]()

// The default Binder instance.
var defaultBinder Binder

// Binder decodes a [Source] onto go values (structs, slices, maps, strings, etc) by
// walking the target type using reflection, similar to [json.Unmarshal].
//
// Struct fields are decoded with the same fallback rules as [Default]: a field that is
// absent, or null while its type does not accept null, keeps its zero value or takes
// the value of its `default` struct tag. A present value of the wrong type is an error.
//
//	type Server struct {
//		Host string `json:"host" default:"localhost"`
//		Port int    `json:"port" default:"8080"`
//	}
//
// A Binder caches the setters it builds and is safe for concurrent use.
type Binder struct {
	// the struct tag that is used
	structTag string

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map

	// Require values for fields. Set to true to fail with ErrNoValue
	// if a field without a default is absent.
	requireValues bool
}

func NewBinder() *Binder {
	return &Binder{
		structTag: "json",
	}
}

// WithTag returns a Binder that reads field names from the given struct tag.
func (b *Binder) WithTag(structTag string) *Binder {
	if b.structTag == structTag {
		return b
	}

	return &Binder{
		structTag:     structTag,
		requireValues: b.requireValues,
	}
}

// RequireValues returns a Binder that fails with ErrNoValue if a
// struct field is absent and has no default.
func (b *Binder) RequireValues() *Binder {
	if b.requireValues {
		return b
	}

	return &Binder{
		structTag:     b.structTag,
		requireValues: true,
	}
}

func (b *Binder) Unmarshal(source Source, target any) error {
	pointer := reflect.ValueOf(target)
	if pointer.Kind() != reflect.Pointer || pointer.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, got %T", target)
	}

	targetValue := pointer.Elem()

	// build the setter for the targets type
	setter, err := b.setterOf(typeSet{}, targetValue.Type())
	if err != nil {
		return err
	}

	return setter(source, targetValue)
}

func (b *Binder) setterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if cached, ok := b.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a setter that does a cache lookup when executed.
		// we assume that the actual setter will be in the cache once this setter is executed.
		lazySetter := func(source Source, target reflect.Value) error {
			cached, _ := b.setterCache.Load(ty)
			return cached.(setter)(source, target)
		}

		return lazySetter, nil
	}

	inConstruction[ty] = struct{}{}

	setter, err := b.makeSetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	b.setterCache.Store(ty, setter)

	return setter, nil
}

func (b *Binder) makeSetterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if ty == tySource {
		return setSource, nil
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.Int:
		switch unsafe.Sizeof(int(0)) {
		case 4:
			return makeSetInt(SizedIntSource.Int32, Source.Int, reflect.Value.SetInt, math.MinInt, math.MaxInt), nil
		case 8:
			return makeSetInt(SizedIntSource.Int64, Source.Int, reflect.Value.SetInt, math.MinInt, math.MaxInt), nil
		default:
			panic("int must be 4 or 8 byte")
		}

	case reflect.Int8:
		return makeSetInt(SizedIntSource.Int8, Source.Int, reflect.Value.SetInt, math.MinInt8, math.MaxInt8), nil

	case reflect.Int16:
		return makeSetInt(SizedIntSource.Int16, Source.Int, reflect.Value.SetInt, math.MinInt16, math.MaxInt16), nil

	case reflect.Int32:
		return makeSetInt(SizedIntSource.Int32, Source.Int, reflect.Value.SetInt, math.MinInt32, math.MaxInt32), nil

	case reflect.Int64:
		return makeSetInt(SizedIntSource.Int64, Source.Int, reflect.Value.SetInt, math.MinInt64, math.MaxInt64), nil

	case reflect.Uint:
		switch unsafe.Sizeof(uint(0)) {
		case 4:
			return makeSetInt(SizedIntSource.Uint32, Source.Uint, reflect.Value.SetUint, 0, math.MaxUint), nil
		case 8:
			return makeSetInt(SizedIntSource.Uint64, Source.Uint, reflect.Value.SetUint, 0, math.MaxUint), nil
		default:
			panic("uint must be 4 or 8 byte")
		}

	case reflect.Uint8:
		return makeSetInt(SizedIntSource.Uint8, Source.Uint, reflect.Value.SetUint, 0, math.MaxUint8), nil

	case reflect.Uint16:
		return makeSetInt(SizedIntSource.Uint16, Source.Uint, reflect.Value.SetUint, 0, math.MaxUint16), nil

	case reflect.Uint32:
		return makeSetInt(SizedIntSource.Uint32, Source.Uint, reflect.Value.SetUint, 0, math.MaxUint32), nil

	case reflect.Uint64:
		return makeSetInt(SizedIntSource.Uint64, Source.Uint, reflect.Value.SetUint, 0, math.MaxUint64), nil

	case reflect.Float32, reflect.Float64:
		return setFloat, nil

	case reflect.String:
		return setString, nil

	case reflect.Pointer:
		return b.makeSetPointer(inConstruction, ty)

	case reflect.Struct:
		return b.makeSetStruct(inConstruction, ty)

	case reflect.Slice:
		return b.makeSetSlice(inConstruction, ty)

	case reflect.Array:
		return b.makeSetArray(inConstruction, ty)

	case reflect.Map:
		return b.makeSetMap(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

func (b *Binder) makeSetStruct(inConstruction typeSet, ty reflect.Type) (setter, error) {
	structTag := b.structTag
	if structTag == "" {
		structTag = "json"
	}

	fields := fieldsToDecode(ty, structTag)

	setters := make([]setter, len(fields))

	for idx, field := range fields {
		fieldSetter, err := b.setterOf(inConstruction, field.Type)
		if err != nil {
			return nil, fmt.Errorf("setter for field %q: %w", field.Name, err)
		}

		setters[idx] = fieldSetter

		// validate the default value now. Setters of types still in construction
		// are not cached yet, their defaults are only checked when applied.
		if _, built := b.setterCache.Load(field.Type); built && field.Default != nil {
			probe := reflect.New(field.Type).Elem()
			if err := fieldSetter(StringSource(*field.Default), probe); err != nil {
				return nil, fmt.Errorf("default for field %q: %w", field.Name, err)
			}
		}
	}

	setter := func(source Source, target reflect.Value) error {
		for idx, field := range fields {
			fieldValue := target.FieldByIndex(field.Index)

			fieldSource, err := source.Get(field.Name)
			switch {
			case errors.Is(err, ErrNoValue):
				if field.Default != nil {
					if err := setters[idx](StringSource(*field.Default), fieldValue); err != nil {
						return &FieldError{Field: field.Name, Err: fmt.Errorf("apply default: %w", err)}
					}

					continue
				}

				if b.requireValues {
					return &FieldError{Field: field.Name, Err: err}
				}

				// It is okay to not get a value at all,
				// in that case we just skip the field
				continue

			case err != nil:
				return fmt.Errorf("lookup child %q: %w", field.Name, err)
			}

			err = setters[idx](fieldSource, fieldValue)
			if err == nil {
				continue
			}

			if fieldSource.Null() != nil {
				return &FieldError{Field: field.Name, Err: err}
			}

			// the field is null but its type does not accept null. reset
			// whatever the setter might have written and fall back.
			fieldValue.SetZero()

			if field.Default != nil {
				if err := setters[idx](StringSource(*field.Default), fieldValue); err != nil {
					return &FieldError{Field: field.Name, Err: fmt.Errorf("apply default: %w", err)}
				}
			}
		}

		return nil
	}

	return setter, nil
}

func (b *Binder) makeSetMap(inConstruction typeSet, ty reflect.Type) (setter, error) {
	keySetter, err := b.setterOf(inConstruction, ty.Key())
	if err != nil {
		return nil, fmt.Errorf("setter for key type %q: %w", ty, err)
	}

	valueSetter, err := b.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for value type %q: %w", ty, err)
	}

	keyType := ty.Key()
	valueType := ty.Elem()

	setter := func(source Source, target reflect.Value) error {
		keyValues, err := source.KeyValues()
		if err != nil {
			return fmt.Errorf("iterate key/value pairs: %w", err)
		}

		mapTarget := reflect.MakeMap(ty)

		for keySource, valueSource := range keyValues {
			keyTarget := reflect.New(keyType).Elem()
			if err := keySetter(keySource, keyTarget); err != nil {
				return fmt.Errorf("set key: %w", err)
			}

			valueTarget := reflect.New(valueType).Elem()
			if err := valueSetter(valueSource, valueTarget); err != nil {
				return &FieldError{Field: fmt.Sprint(keyTarget.Interface()), Err: err}
			}

			mapTarget.SetMapIndex(keyTarget, valueTarget)
		}

		target.Set(mapTarget)

		return nil
	}

	return setter, nil
}

func (b *Binder) makeSetSlice(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := b.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// a empty element
	placeholderValue := reflect.New(ty.Elem()).Elem()

	setter := func(source Source, target reflect.Value) error {
		sourceIter, err := source.Iter()
		if err != nil {
			return fmt.Errorf("as iter: %w", err)
		}

		// always start with a fresh slice, the target might hold a default value
		sliceValue := reflect.MakeSlice(ty, 0, 0)

		for elementSource := range sourceIter {
			// add an empty element to grow the list
			sliceValue = reflect.Append(sliceValue, placeholderValue)

			idx := sliceValue.Len() - 1
			elementValue := sliceValue.Index(idx)
			if err := elementSetter(elementSource, elementValue); err != nil {
				return &IndexError{Index: idx, Err: err}
			}
		}

		target.Set(sliceValue)

		return nil
	}

	return setter, nil
}

func (b *Binder) makeSetArray(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := b.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// number of elements in the array
	elementCount := ty.Len()

	setter := func(source Source, target reflect.Value) error {
		sourceIter, err := source.Iter()
		if err != nil {
			return fmt.Errorf("as iter: %w", err)
		}

		next, stop := iter.Pull(sourceIter)
		defer stop()

		for idx := 0; idx < elementCount; idx++ {
			elementSource, ok := next()
			if !ok {
				break
			}

			elementValue := target.Index(idx)
			if err := elementSetter(elementSource, elementValue); err != nil {
				return &IndexError{Index: idx, Err: err}
			}
		}

		return nil
	}

	return setter, nil
}

func (b *Binder) makeSetPointer(inConstruction typeSet, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := b.setterOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	setter := func(source Source, target reflect.Value) error {
		// pointers accept null
		if source.Null() == nil {
			target.SetZero()
			return nil
		}

		// newValue is now a pointer to an instance of the pointeeType
		newValue := reflect.New(pointeeType)
		if err := pointeeSetter(source, newValue.Elem()); err != nil {
			return err
		}

		// set pointer to the new value
		target.Set(newValue)

		return nil
	}

	return setter, err
}

func setSource(source Source, target reflect.Value) error {
	target.Set(reflect.ValueOf(&source).Elem())
	return nil
}

func setBool(source Source, target reflect.Value) error {
	boolValue, err := source.Bool()
	if err != nil {
		return fmt.Errorf("get bool value: %w", err)
	}

	target.SetBool(boolValue)
	return nil
}

func makeSetInt[T constraints.Integer, V uint64 | int64](
	parse func(SizedIntSource) (T, error),
	parseFallback func(Source) (V, error),
	setValue func(reflect.Value, V),
	minValue, maxValue V,
) setter {
	return func(source Source, target reflect.Value) error {
		if intSource, ok := source.(SizedIntSource); ok {
			parsedValue, err := parse(intSource)
			if err != nil {
				return fmt.Errorf("get %T value: %w", parsedValue, err)
			}

			setValue(target, V(parsedValue))
			return nil
		}

		// no sized int source, need to fallback to Source.Int or Source.Uint
		intValue, err := parseFallback(source)
		if err != nil {
			return fmt.Errorf("get %T value: %w", intValue, err)
		}

		if intValue < minValue || intValue > maxValue {
			return fmt.Errorf("invalid %s value %d: %w", target.Type(), intValue, strconv.ErrRange)
		}

		setValue(target, intValue)
		return nil
	}
}

func setFloat(source Source, target reflect.Value) error {
	floatValue, err := source.Float()
	if err != nil {
		return fmt.Errorf("get float value: %w", err)
	}

	if target.OverflowFloat(floatValue) {
		return fmt.Errorf("invalid %s value %g: %w", target.Type(), floatValue, strconv.ErrRange)
	}

	target.SetFloat(floatValue)
	return nil
}

func setString(source Source, target reflect.Value) error {
	stringValue, err := source.String()
	if err != nil {
		return fmt.Errorf("get string value: %w", err)
	}

	target.SetString(stringValue)

	return nil
}

func setTextUnmarshaler(source Source, target reflect.Value) error {
	text, err := source.String()
	if err != nil {
		return fmt.Errorf("get string value: %w", err)
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	return m.UnmarshalText([]byte(text))
}
