package ticketrange

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_Example(t *testing.T) {
	idx := New()

	first, err := idx.Append("alice", 5)
	require.NoError(t, err)
	require.Equal(t, Range{Start: 0, Amount: 5, Owner: "alice"}, first)

	second, err := idx.Append("bob", 3)
	require.NoError(t, err)
	require.Equal(t, Range{Start: 5, Amount: 3, Owner: "bob"}, second)
	require.Equal(t, uint64(8), idx.Total())

	winner, ticket, err := idx.Draw(6)
	require.NoError(t, err)
	require.Equal(t, uint64(6), ticket)
	require.Equal(t, "bob", winner.Owner)
	require.Equal(t, uint64(5), winner.Start)

	winner, ticket, err = idx.Draw(8 + 4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), ticket)
	require.Equal(t, "alice", winner.Owner)
}

func TestIndex_Coverage(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	owners := []string{"alice", "bob", "carol"}

	for round := 0; round < 50; round++ {
		idx := New()
		var total uint64
		for i := 0; i < 1+r.Intn(20); i++ {
			amount := uint64(1 + r.Intn(10))
			_, err := idx.Append(owners[r.Intn(len(owners))], amount)
			require.NoError(t, err)
			total += amount
		}

		require.Equal(t, total, idx.Total())

		// Ranges are contiguous, without gap or overlap, from 0 to total.
		var next uint64
		for _, rg := range idx.Ranges() {
			require.Equal(t, next, rg.Start)
			next = rg.End()
		}
		require.Equal(t, total, next)

		// Every ticket resolves to the range containing it.
		for ticket := uint64(0); ticket < total; ticket++ {
			rg, ok := idx.Floor(ticket)
			require.True(t, ok)
			require.True(t, rg.Contains(ticket))
		}
	}
}

func TestIndex_SameOwnerNotMerged(t *testing.T) {
	idx := New()
	_, err := idx.Append("alice", 2)
	require.NoError(t, err)
	_, err = idx.Append("alice", 2)
	require.NoError(t, err)

	require.Len(t, idx.Ranges(), 2)
}

func TestIndex_Empty(t *testing.T) {
	idx := New()
	_, _, err := idx.Draw(10)
	require.ErrorIs(t, err, ErrEmpty)

	_, err = idx.Append("alice", 0)
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	idx, err := Load([]Range{
		{Start: 0, Amount: 5, Owner: "alice"},
		{Start: 5, Amount: 3, Owner: "bob"},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(8), idx.Total())

	_, err = Load([]Range{
		{Start: 0, Amount: 5, Owner: "alice"},
		{Start: 6, Amount: 3, Owner: "bob"},
	})
	require.Error(t, err)
}
