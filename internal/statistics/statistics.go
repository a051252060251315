package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single blackjack round, measured in
// units of the opening bet
type RoundResult struct {
	Net       float64 // Net result in bet units (hands plus insurance)
	HandNet   float64 // Net from the hands alone
	Insurance float64 // Net from the insurance side bet
	Seed      int64   // Session seed the round came from (for replay)
	Hands     int     // Hands settled, more than one after a split
	Wins      int
	Losses    int
	Pushes    int
	Busts     int
	Natural   bool // Hand paid out as a natural
	Doubles   int
	Splits    int
}

// OutcomeCounts tallies settled hands by outcome
type OutcomeCounts struct {
	Wins     int
	Losses   int
	Pushes   int
	Busts    int
	Naturals int
}

// Total returns the number of hands counted
func (o OutcomeCounts) Total() int {
	return o.Wins + o.Losses + o.Pushes + o.Busts + o.Naturals
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	// Where the money came from
	HandUnits      float64 // Units from the hands (wins AND losses)
	InsuranceUnits float64 // Units from insurance (payouts AND forfeits)
	AllUnits       float64 // Total units for sanity check

	Outcomes OutcomeCounts
	Hands    int
	Doubles  int
	Splits   int

	InsuranceTaken int
	MaxWin         float64 // Best single round in units
	MaxLoss        float64 // Worst single round in units, as a negative number
}

// Mean returns the arithmetic mean of all results in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.Sum += net
	s.Sum2 += net * net
	s.Values = append(s.Values, net)

	s.HandUnits += result.HandNet
	s.InsuranceUnits += result.Insurance
	s.AllUnits += net
	if result.Insurance != 0 {
		s.InsuranceTaken++
	}

	s.Hands += result.Hands
	s.Outcomes.Wins += result.Wins
	s.Outcomes.Losses += result.Losses
	s.Outcomes.Pushes += result.Pushes
	s.Outcomes.Busts += result.Busts
	if result.Natural {
		s.Outcomes.Naturals++
	}
	s.Doubles += result.Doubles
	s.Splits += result.Splits

	if net > s.MaxWin {
		s.MaxWin = net
	}
	if net < s.MaxLoss {
		s.MaxLoss = net
	}
}

// Merge folds other into s. Worker goroutines each keep their own Statistics
// and merge once they finish.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Values = append(s.Values, other.Values...)

	s.HandUnits += other.HandUnits
	s.InsuranceUnits += other.InsuranceUnits
	s.AllUnits += other.AllUnits
	s.InsuranceTaken += other.InsuranceTaken

	s.Hands += other.Hands
	s.Outcomes.Wins += other.Outcomes.Wins
	s.Outcomes.Losses += other.Outcomes.Losses
	s.Outcomes.Pushes += other.Outcomes.Pushes
	s.Outcomes.Busts += other.Outcomes.Busts
	s.Outcomes.Naturals += other.Outcomes.Naturals
	s.Doubles += other.Doubles
	s.Splits += other.Splits

	s.MaxWin = max(s.MaxWin, other.MaxWin)
	s.MaxLoss = min(s.MaxLoss, other.MaxLoss)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the share of settled hands that won, naturals included
func (s *Statistics) WinRate() float64 {
	total := s.Outcomes.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Outcomes.Wins+s.Outcomes.Naturals) / float64(total)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllUnits-s.HandUnits-s.InsuranceUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllUnits=%.6f, HandUnits=%.6f, InsuranceUnits=%.6f",
			s.AllUnits, s.HandUnits, s.InsuranceUnits)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if counted := s.Outcomes.Total(); counted != s.Hands {
		return fmt.Errorf("outcome total (%d) does not match hands count (%d)", counted, s.Hands)
	}

	if s.Hands < s.Rounds {
		return fmt.Errorf("hands (%d) fewer than rounds (%d)", s.Hands, s.Rounds)
	}

	return nil
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}
