package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYAMLSource_Scalars(t *testing.T) {
	source, err := ParseYAML([]byte(`
name: service
port: 8080
quoted: "8080"
ratio: 0.5
enabled: true
missing: null
`))
	require.NoError(t, err)

	name, err := Field("name", String())(source)
	require.NoError(t, err)
	require.Equal(t, "service", name)

	port, err := Field("port", Int[int]())(source)
	require.NoError(t, err)
	require.Equal(t, 8080, port)

	_, err = Field("quoted", Int[int]())(source)
	require.ErrorIs(t, err, ErrNotSupported)

	ratio, err := Field("ratio", Float[float64]())(source)
	require.NoError(t, err)
	require.Equal(t, 0.5, ratio)

	asFloat, err := Field("port", Float[float64]())(source)
	require.NoError(t, err)
	require.Equal(t, 8080.0, asFloat)

	enabled, err := Field("enabled", Bool())(source)
	require.NoError(t, err)
	require.True(t, enabled)

	_, err = Field("missing", Null(struct{}{}))(source)
	require.NoError(t, err)
}

func TestYAMLSource_Collections(t *testing.T) {
	source, err := ParseYAML([]byte(`
base: &base
  region: eu
servers:
  - name: a
  - name: b
override: *base
`))
	require.NoError(t, err)

	names, err := Field("servers", List(Field("name", String())))(source)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)

	region, err := At([]string{"override", "region"}, String())(source)
	require.NoError(t, err)
	require.Equal(t, "eu", region)

	labels, err := Field("base", Dict(String()))(source)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"region": "eu"}, labels)
}

func TestYAMLSource_EmptyDocumentIsNull(t *testing.T) {
	value, err := DecodeYAML(Default("anything", String(), "fallback"), []byte(""))
	require.NoError(t, err)
	require.Equal(t, "fallback", value)
}
