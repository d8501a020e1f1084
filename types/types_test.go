package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := MakeSet[string](4)
	require.Empty(t, s)

	s.Insert("resize", "warp_perspective")
	require.Len(t, s, 2)
	require.True(t, s.Has("resize"))
	require.False(t, s.Has("threshold"))

	// Re-inserting is a no-op.
	s.Insert("resize")
	require.Len(t, s, 2)

	s2 := SetWith("resize", "threshold")
	require.True(t, s2.Has("threshold"))

	sub := s.Sub(s2)
	require.Len(t, sub, 1)
	require.True(t, sub.Has("warp_perspective"))

	require.Empty(t, s.Sub(s))
}

func TestSorted(t *testing.T) {
	s := SetWith("warp_perspective", "resize", "threshold")
	require.Equal(t, []string{"resize", "threshold", "warp_perspective"}, Sorted(s))
	require.Empty(t, Sorted(MakeSet[int]()))
}
