package spinwheel

import "fmt"

type Bucketing int

const (
	// HalfOpen maps r to the index i with cumulative[i-1] <= r < cumulative[i].
	HalfOpen Bucketing = iota

	// Legacy maps r to the first index i with cumulative[i] >= r.
	Legacy
)

func ParseBucketing(s string) (Bucketing, error) {
	switch s {
	case "half_open", "":
		return HalfOpen, nil
	case "legacy":
		return Legacy, nil
	default:
		return 0, fmt.Errorf("unknown bucketing %q", s)
	}
}

// BigPayoutThreshold is the highest payout which still grows the streak.
const BigPayoutThreshold = 5

const outcomes = 6

var (
	payouts     = [outcomes]uint64{1, 3, 7, 9, 12, 15}
	baseWeights = [outcomes]uint32{50, 80, 70, 20, 10, 2}

	// Numerators of the pity bonus, divided by 10 after multiplying by the
	// streak counter.
	pityFactors = [outcomes]uint32{0, 0, 0, 3, 2, 1}
)

type Wheel struct {
	bucketing Bucketing
}

func New(bucketing Bucketing) *Wheel {
	return &Wheel{bucketing: bucketing}
}

// Payouts returns the outcomes of the wheel in ascending order.
func Payouts() [outcomes]uint64 {
	return payouts
}

// Weights returns the weight of every outcome for the given streak counter.
func Weights(streak uint8) [outcomes]uint32 {
	var weights [outcomes]uint32
	for i := range weights {
		weights[i] = baseWeights[i] + uint32(streak)*pityFactors[i]/10
	}

	return weights
}

// Cumulative returns the prefix sums of the weights.
func Cumulative(weights [outcomes]uint32) [outcomes]uint32 {
	var cumulative [outcomes]uint32
	cumulative[0] = weights[0]
	for i := 1; i < outcomes; i++ {
		cumulative[i] = cumulative[i-1] + weights[i]
	}

	return cumulative
}

type Result struct {
	Index  int
	Payout uint64
	Draw   uint32
	Total  uint32

	// Streak is the counter value after this spin.
	Streak uint8
}

// Spin resolves one play of the wheel from a raw 32-bit random value and the
// current streak counter.
func (w *Wheel) Spin(random uint32, streak uint8) Result {
	cumulative := Cumulative(Weights(streak))
	total := cumulative[outcomes-1]
	r := random % total

	index := w.pick(cumulative, r)
	payout := payouts[index]

	return Result{
		Index:  index,
		Payout: payout,
		Draw:   r,
		Total:  total,
		Streak: NextStreak(streak, payout),
	}
}

func (w *Wheel) pick(cumulative [outcomes]uint32, r uint32) int {
	for i, c := range cumulative {
		switch w.bucketing {
		case Legacy:
			if c >= r {
				return i
			}
		default:
			if r < c {
				return i
			}
		}
	}

	// Unreachable since r < total.
	return outcomes - 1
}

// NextStreak returns the streak counter after a spin with the given payout. It
// resets on a big payout and otherwise grows by one, saturating at 255.
func NextStreak(streak uint8, payout uint64) uint8 {
	if payout > BigPayoutThreshold {
		return 0
	}

	if streak == ^uint8(0) {
		return streak
	}

	return streak + 1
}
