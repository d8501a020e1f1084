package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	U8  = dtypes.Uint8
	I8  = dtypes.Int8
	U16 = dtypes.Uint16
	I16 = dtypes.Int16
	I32 = dtypes.Int32
	F32 = dtypes.Float32
	F64 = dtypes.Float64
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestParseScenarios(t *testing.T) {
	// One runtime-sized block axis of 16-bit signed elements.
	s := must1(Parse([]string{"none", "16S"}))
	require.Equal(t, Block, s.Kind)
	require.Equal(t, 1, s.ArrayRank)
	require.Equal(t, 1, s.BlockRank)
	require.Equal(t, 0, s.VectorDims)
	require.Equal(t, 1, s.BlockDims)
	require.Equal(t, "Block", s.Declaration)
	require.Equal(t, "Block(none, 16S)", s.String())

	// A variable-length vector of doubles.
	s = must1(Parse([]string{"vector:none", "double"}))
	require.Equal(t, VectorOfPrimitive, s.Kind)
	require.Equal(t, 1, s.ArrayRank)
	require.Equal(t, 1, s.BlockRank)
	require.Equal(t, 1, s.VectorDims)
	require.Equal(t, 0, s.BlockDims)
	require.Equal(t, "vector<double>", s.Declaration)

	// A variable-length vector of 100-element blocks.
	s = must1(Parse([]string{"vector:none", "100", "8S"}))
	require.Equal(t, VectorOfBlock, s.Kind)
	require.Equal(t, 2, s.ArrayRank)
	require.Equal(t, 2, s.BlockRank)
	require.Equal(t, 1, s.VectorDims)
	require.Equal(t, 1, s.BlockDims)
	require.Equal(t, "Block", s.ElementDeclaration)
	require.Equal(t, "vector<Block>", s.Declaration)
	require.Equal(t, []Dimension{{Size: 100}}, s.BlockDimensions())

	// A 3x3 fixed matrix of floats.
	s = must1(Parse([]string{"3", "3", "32F:FixedMatrix"}))
	require.Equal(t, Block, s.Kind)
	require.Equal(t, 2, s.ArrayRank)
	require.Equal(t, "FixedMatrix<float,3,3>", s.Declaration)

	// Primitive scalars.
	s = must1(Parse([]string{"double"}))
	require.Equal(t, Scalar, s.Kind)
	require.Equal(t, 0, s.ArrayRank)
	require.Equal(t, 0, s.BlockRank)
	require.Equal(t, "double", s.Declaration)

	// Channels add one array axis on top of the block rank.
	s = must1(Parse([]string{"none", "none", "8UC3"}))
	require.Equal(t, Block, s.Kind)
	require.Equal(t, 3, s.ArrayRank)
	require.Equal(t, 2, s.BlockRank)

	// One block axis as a single-row fixed matrix.
	s = must1(Parse([]string{"3", "64F:FixedMatrix"}))
	require.Equal(t, "FixedMatrix<double,1,3>", s.Declaration)

	// Fixed vector element inside a vector.
	s = must1(Parse([]string{"vector:none", "3", "16S:FixedVector"}))
	require.Equal(t, VectorOfBlock, s.Kind)
	require.Equal(t, "FixedVector<int16_t,3>", s.ElementDeclaration)
	require.Equal(t, "vector<FixedVector<int16_t,3>>", s.Declaration)
}

func TestParseStructuralErrors(t *testing.T) {
	// Block axis before a vector axis.
	_, err := Parse([]string{"3", "vector:10", "16U"})
	require.ErrorContains(t, err, "contiguous")

	// Structured data with no axes, multi-channel or not.
	_, err = Parse([]string{"8UC3"})
	require.ErrorContains(t, err, "structured scalar")
	_, err = Parse([]string{"8U"})
	require.ErrorContains(t, err, "structured scalar")

	// Primitive data cannot fill a block.
	_, err = Parse([]string{"none", "double"})
	require.ErrorContains(t, err, "primitive data")
	_, err = Parse([]string{"vector:none", "none", "float"})
	require.ErrorContains(t, err, "primitive data")

	// Structured data cannot fill a pure vector stack.
	_, err = Parse([]string{"vector:none", "8U"})
	require.ErrorContains(t, err, "pure vector stack")

	// Fixed containers need literal sizes and have axis limits.
	_, err = Parse([]string{"none", "32F:FixedMatrix"})
	require.ErrorContains(t, err, "literal size")
	_, err = Parse([]string{"3", "3", "32F:FixedVector"})
	require.ErrorContains(t, err, "single axis")
	_, err = Parse([]string{"2", "2", "2", "64F:FixedMatrix"})
	require.ErrorContains(t, err, "at most two axes")

	// Empty descriptor.
	_, err = Parse(nil)
	require.Error(t, err)

	// Axis count cap.
	tokens := make([]string, 0, MaxAxes+2)
	for i := 0; i <= MaxAxes; i++ {
		tokens = append(tokens, "none")
	}
	tokens = append(tokens, "8U")
	_, err = Parse(tokens)
	require.ErrorContains(t, err, "maximum")
}

func TestShapeInvariants(t *testing.T) {
	valid := [][]string{
		{"bool"}, {"int"}, {"float"}, {"double"},
		{"vector:none", "double"},
		{"vector:none", "vector:none", "float"},
		{"vector:3", "int"},
		{"none", "16S"},
		{"none", "none", "8UC3"},
		{"3", "3", "64F"},
		{"none", "none", "32FC2"},
		{"vector:none", "100", "8S"},
		{"vector:none", "none", "none", "8UC4"},
		{"3", "64F:FixedVector"},
		{"3", "3", "32F:FixedMatrix"},
		{"vector:none", "3", "16S:FixedVector"},
		{"vector:10", "2", "2", "64F:FixedMatrix"},
	}
	for _, tokens := range valid {
		s := must1(Parse(tokens))
		require.Equalf(t, len(tokens)-1, s.BlockRank, "tokens %v", tokens)
		require.Equalf(t, s.BlockRank, s.VectorDims+s.BlockDims, "tokens %v", tokens)
		require.GreaterOrEqualf(t, s.ArrayRank, s.BlockRank, "tokens %v", tokens)
		if s.Data.Domain == Primitive || s.Data.Channels == 1 {
			require.Equalf(t, s.BlockRank, s.ArrayRank, "tokens %v", tokens)
		} else {
			require.Equalf(t, s.BlockRank+1, s.ArrayRank, "tokens %v", tokens)
		}
		require.Len(t, s.BlockDimensions(), s.BlockDims)

		// Classifying twice yields structurally equal shapes.
		require.Equalf(t, s, must1(Parse(tokens)), "tokens %v", tokens)
	}
}
