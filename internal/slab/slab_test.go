package slab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlabInsertGetRemove(t *testing.T) {
	s := New[string]()

	a := s.Insert("a")
	b := s.Insert("b")
	require.Equal(t, 0, a)
	require.Equal(t, 1, b)
	require.Equal(t, 2, s.Len())

	v, ok := s.Get(a)
	require.True(t, ok)
	require.Equal(t, "a", v)

	removed, ok := s.Remove(a)
	require.True(t, ok)
	require.Equal(t, "a", removed)
	require.Equal(t, 1, s.Len())

	_, ok = s.Get(a)
	require.False(t, ok)
}

func TestSlabTokenReuse(t *testing.T) {
	s := New[int]()

	a := s.Insert(1)
	_, ok := s.Remove(a)
	require.True(t, ok)

	b := s.Insert(2)
	require.Equal(t, a, b, "freed token should be reused before growing the arena")
}

func TestSlabRemoveUnknownToken(t *testing.T) {
	s := New[int]()
	_, ok := s.Remove(42)
	require.False(t, ok)

	s.Insert(1)
	_, ok = s.Remove(-1)
	require.False(t, ok)
}

func TestSlabEach(t *testing.T) {
	s := New[int]()
	s.Insert(10)
	s.Insert(20)
	mid := s.Insert(30)
	s.Remove(mid)

	seen := map[int]int{}
	s.Each(func(token int, value int) {
		seen[token] = value
	})
	require.Equal(t, map[int]int{0: 10, 1: 20}, seen)
}
