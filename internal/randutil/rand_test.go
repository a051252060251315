package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for range 100 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestSeed(t *testing.T) {
	a, err := Seed()
	require.NoError(t, err)
	b, err := Seed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDerive(t *testing.T) {
	seen := make(map[int64]bool)
	for i := range 1000 {
		s := Derive(7, i)
		require.False(t, seen[s], "stream %d repeats a seed", i)
		seen[s] = true
	}
	assert.Equal(t, Derive(7, 3), Derive(7, 3))
	assert.NotEqual(t, Derive(7, 3), Derive(8, 3))
}
