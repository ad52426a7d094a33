package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomUint32(t *testing.T) {
	seed := []byte{1, 0, 0, 0, 2, 0, 0, 0}

	v, err := RandomUint32(seed, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)

	v, err = RandomUint32(seed, 4)
	require.NoError(t, err)
	require.Equal(t, uint32(2), v)

	// Rotation wraps around the seed length.
	v, err = RandomUint32(seed, 12)
	require.NoError(t, err)
	require.Equal(t, uint32(2), v)
}

func TestRandomUint64(t *testing.T) {
	seed := []byte{0xff, 0, 0, 0, 0, 0, 0, 0x01, 0xaa}

	v, err := RandomUint64(seed, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x01000000000000ff), v)

	_, err = RandomUint64(seed[:4], 0)
	require.Error(t, err)
}

func TestSeededSource(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)

	for i := 0; i < 3; i++ {
		seedA, err := a.Seed()
		require.NoError(t, err)
		seedB, err := b.Seed()
		require.NoError(t, err)
		require.Len(t, seedA, SeedLength)
		require.Equal(t, seedA, seedB)
	}
}

func TestCryptoSeedSource(t *testing.T) {
	seed, err := NewCryptoSeedSource().Seed()
	require.NoError(t, err)
	require.Len(t, seed, SeedLength)
}
