package spinwheel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeights(t *testing.T) {
	require.Equal(t, [6]uint32{50, 80, 70, 20, 10, 2}, Weights(0))
	require.Equal(t, [6]uint32{50, 80, 70, 23, 12, 3}, Weights(10))
	require.Equal(t, [6]uint32{50, 80, 70, 21, 10, 2}, Weights(4))
	require.Equal(t, [6]uint32{50, 80, 70, 96, 61, 27}, Weights(255))
}

func TestCumulative(t *testing.T) {
	require.Equal(t, [6]uint32{50, 130, 200, 220, 230, 232}, Cumulative(Weights(0)))
}

func TestSpin_HalfOpen(t *testing.T) {
	w := New(HalfOpen)

	tests := []struct {
		name   string
		random uint32
		want   uint64
	}{
		{name: "first value", random: 0, want: 1},
		{name: "last value of first bucket", random: 49, want: 1},
		{name: "boundary goes to next bucket", random: 50, want: 3},
		{name: "third bucket", random: 130, want: 7},
		{name: "fourth bucket", random: 219, want: 9},
		{name: "fifth bucket", random: 225, want: 12},
		{name: "last value", random: 231, want: 15},
		{name: "wraps around the total", random: 232 + 50, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := w.Spin(tt.random, 0)
			require.Equal(t, tt.want, result.Payout)
			require.Equal(t, uint32(232), result.Total)
		})
	}
}

func TestSpin_Legacy(t *testing.T) {
	w := New(Legacy)

	// Draws equal to a cumulative boundary land in the lower bucket.
	require.Equal(t, uint64(1), w.Spin(50, 0).Payout)
	require.Equal(t, uint64(3), w.Spin(51, 0).Payout)
	require.Equal(t, uint64(3), w.Spin(130, 0).Payout)
	require.Equal(t, uint64(15), w.Spin(231, 0).Payout)
	require.Equal(t, uint64(1), w.Spin(0, 0).Payout)
}

func TestSpin_PityChangesTotal(t *testing.T) {
	w := New(HalfOpen)

	result := w.Spin(231, 10)
	require.Equal(t, uint32(238), result.Total)
	require.Equal(t, uint64(12), result.Payout)
}

func TestNextStreak(t *testing.T) {
	streak := uint8(0)
	for i := 1; i <= 10; i++ {
		payout := uint64(1)
		if i%2 == 0 {
			payout = 3
		}

		streak = NextStreak(streak, payout)
		require.Equal(t, uint8(i), streak)
	}

	for _, payout := range []uint64{7, 9, 12, 15} {
		require.Equal(t, uint8(0), NextStreak(42, payout))
	}

	require.Equal(t, uint8(255), NextStreak(255, 1))
}

func TestSpin_StreakFollowsPayout(t *testing.T) {
	w := New(HalfOpen)

	small := w.Spin(10, 3)
	require.Equal(t, uint64(1), small.Payout)
	require.Equal(t, uint8(4), small.Streak)

	big := w.Spin(150, 3)
	require.Equal(t, uint64(7), big.Payout)
	require.Equal(t, uint8(0), big.Streak)
}

func TestParseBucketing(t *testing.T) {
	b, err := ParseBucketing("legacy")
	require.NoError(t, err)
	require.Equal(t, Legacy, b)

	b, err = ParseBucketing("half_open")
	require.NoError(t, err)
	require.Equal(t, HalfOpen, b)

	_, err = ParseBucketing("other")
	require.Error(t, err)
}
