package casing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToCamel(t *testing.T) {
	require.Equal(t, "WarpPerspective", ToCamel("warp_perspective"))
	require.Equal(t, "Resize", ToCamel("resize"))
	require.Equal(t, "FindContours2", ToCamel("find_contours2"))
	require.Equal(t, "A", ToCamel("a"))
}

func TestToSnake(t *testing.T) {
	require.Equal(t, "warp_perspective", ToSnake("WarpPerspective"))
	require.Equal(t, "resize", ToSnake("resize"))
	require.Equal(t, "resize", ToSnake("Resize"))
}

func TestIsSnakeIdent(t *testing.T) {
	for _, s := range []string{"a", "warp_perspective", "find_contours2", "x_1"} {
		require.Truef(t, IsSnakeIdent(s), "%q", s)
	}
	for _, s := range []string{"", "WarpPerspective", "_warp", "1warp", "warp perspective", "warp-perspective", "ä"} {
		require.Falsef(t, IsSnakeIdent(s), "%q", s)
	}
}
