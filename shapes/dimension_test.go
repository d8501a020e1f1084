package shapes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	for _, test := range []struct {
		token string
		want  Dimension
	}{
		{"none", Dimension{Size: UnknownSize}},
		{"1", Dimension{Size: 1}},
		{"3", Dimension{Size: 3}},
		{"100", Dimension{Size: 100}},
		{"vector:none", Dimension{IsVector: true, Size: UnknownSize}},
		{"vector:1", Dimension{IsVector: true, Size: 1}},
		{"vector:10", Dimension{IsVector: true, Size: 10}},
	} {
		dim, err := ParseDimension(test.token)
		require.NoErrorf(t, err, "token %q", test.token)
		require.Equalf(t, test.want, dim, "token %q", test.token)

		// String re-serializes the token.
		require.Equal(t, test.token, dim.String())
	}
}

func TestParseDimensionErrors(t *testing.T) {
	for _, token := range []string{
		"", "abc", "-1", "+3", "07", "3.5", " 3", "3 ",
		"vector:", "vector:abc", "vector:07", "Vector:none", "none:vector",
		"vector:vector:3",
	} {
		_, err := ParseDimension(token)
		require.Errorf(t, err, "token %q should not parse", token)
	}

	// A zero size is grammatical but gets its own error, distinct from the
	// malformed-token one.
	_, err := ParseDimension("0")
	require.ErrorContains(t, err, "size must be > 0")
	_, err = ParseDimension("vector:0")
	require.ErrorContains(t, err, "size must be > 0")
	_, err = ParseDimension("07")
	require.NotContains(t, err.Error(), "size must be > 0")
}
