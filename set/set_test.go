package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	require := require.New(t)

	s := make(Set[string])
	require.Len(s, 0)

	// Add single element
	s.Add("a")
	require.Len(s, 1)
	require.True(s.Contains("a"))

	// Add multiple elements
	s.Add("b", "c")
	require.Len(s, 3)
	require.True(s.Contains("b"))
	require.True(s.Contains("c"))

	// Add duplicate
	s.Add("a")
	require.Len(s, 3)
}

func TestContains(t *testing.T) {
	require := require.New(t)

	s := make(Set[string])
	s.Add("a", "b", "c")
	require.True(s.Contains("a"))
	require.True(s.Contains("b"))
	require.True(s.Contains("c"))
	require.False(s.Contains("d"))
}

func TestRemove(t *testing.T) {
	require := require.New(t)

	s := make(Set[int])
	s.Add(1, 2, 3, 4, 5)

	// Remove single element
	s.Remove(3)
	require.Len(s, 4)
	require.False(s.Contains(3))

	// Remove multiple elements
	s.Remove(1, 5)
	require.Len(s, 2)
	require.False(s.Contains(1))
	require.False(s.Contains(5))
	require.True(s.Contains(2))
	require.True(s.Contains(4))

	// Remove non-existent element
	s.Remove(10)
	require.Len(s, 2)
}

func TestClone(t *testing.T) {
	require := require.New(t)

	s1 := make(Set[int])
	s1.Add(1, 2, 3)
	s2 := s1.Clone()

	// Should start equal
	require.Len(s2, 3)
	require.True(s2.Contains(1))
	require.True(s2.Contains(2))
	require.True(s2.Contains(3))

	// But independent
	s2.Add(4)
	require.Len(s1, 3)
	require.Len(s2, 4)
	require.False(s1.Contains(4))

	// Clone of empty set
	s3 := make(Set[string])
	s4 := s3.Clone()
	require.Len(s4, 0)
}
