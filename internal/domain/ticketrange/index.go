package ticketrange

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

var ErrEmpty = errors.New("no ticket has been sold")

// Range is the half-open ticket interval [Start, Start+Amount) owned by one
// purchase.
type Range struct {
	Start  uint64
	Amount uint64
	Owner  string
}

func (r Range) End() uint64 {
	return r.Start + r.Amount
}

func (r Range) Contains(ticket uint64) bool {
	return r.Start <= ticket && ticket < r.End()
}

// Index is an append-only list of ranges ordered by Start. Ranges are
// contiguous: each one starts where the previous one ends.
type Index struct {
	ranges []Range
	total  uint64
}

func New() *Index {
	return &Index{}
}

// Load builds an index from persisted ranges, which must be sorted by Start.
func Load(ranges []Range) (*Index, error) {
	idx := &Index{ranges: make([]Range, 0, len(ranges))}
	for _, r := range ranges {
		if r.Start != idx.total {
			return nil, fmt.Errorf("range starting at %d does not follow total %d", r.Start, idx.total)
		}

		if _, err := idx.Append(r.Owner, r.Amount); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Append records a purchase of amount tickets and returns its range.
func (idx *Index) Append(owner string, amount uint64) (Range, error) {
	if amount == 0 {
		return Range{}, errors.New("amount must be positive")
	}

	if idx.total+amount < idx.total {
		return Range{}, errors.New("ticket count overflows")
	}

	r := Range{Start: idx.total, Amount: amount, Owner: owner}
	idx.ranges = append(idx.ranges, r)
	idx.total += amount
	return r, nil
}

func (idx *Index) Total() uint64 {
	return idx.total
}

func (idx *Index) Ranges() []Range {
	return slices.Clone(idx.ranges)
}

// Floor returns the range with the greatest start which is not greater than
// ticket. The returned range contains ticket whenever ticket < Total().
func (idx *Index) Floor(ticket uint64) (Range, bool) {
	i := sort.Search(len(idx.ranges), func(i int) bool {
		return idx.ranges[i].Start > ticket
	})
	if i == 0 {
		return Range{}, false
	}

	return idx.ranges[i-1], true
}

// Draw resolves a raw random value into the winning range.
func (idx *Index) Draw(random uint64) (Range, uint64, error) {
	if idx.total == 0 {
		return Range{}, 0, ErrEmpty
	}

	ticket := random % idx.total
	r, ok := idx.Floor(ticket)
	if !ok {
		return Range{}, 0, fmt.Errorf("no range covers ticket %d", ticket)
	}

	return r, ticket, nil
}
