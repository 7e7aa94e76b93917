package decode

import "iter"

// EmptySource is a Source that returns ErrNotSupported for all conversion functions.
// It is useful as an embedded base for your own custom Source implementation.
type EmptySource struct{}

var _ Source = EmptySource{}

func (EmptySource) Bool() (bool, error) {
	return false, ErrNotSupported
}

func (EmptySource) Int() (int64, error) {
	return 0, ErrNotSupported
}

func (EmptySource) Uint() (uint64, error) {
	return 0, ErrNotSupported
}

func (EmptySource) Float() (float64, error) {
	return 0, ErrNotSupported
}

func (EmptySource) String() (string, error) {
	return "", ErrNotSupported
}

func (EmptySource) Null() error {
	return ErrNotSupported
}

func (EmptySource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (EmptySource) KeyValues() (iter.Seq2[Source, Source], error) {
	return nil, ErrNotSupported
}

func (EmptySource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}
