package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Net         int         // Balance change across the round, in chips
	Bet         int         // Chips wagered
	Result      game.Result // Final result
	PlayerValue int         // Final player total
	DealerValue int         // Final dealer total
	Seed        int64       // RNG seed of the worker that played it (for replay)
}

// Statistics accumulates round results. The zero value is ready to use.
type Statistics struct {
	Rounds int
	SumNet float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // All net results for median/percentile calculation

	Wins        int
	Losses      int
	Pushes      int
	Blackjacks  int
	PlayerBusts int
	DealerBusts int

	TotalWagered int
}

// Add incorporates a round result
func (s *Statistics) Add(r RoundResult) {
	net := float64(r.Net)
	s.Rounds++
	s.SumNet += net
	s.SumSq += net * net
	s.Values = append(s.Values, net)
	s.TotalWagered += r.Bet

	switch r.Result {
	case game.PlayerWin:
		s.Wins++
		if r.DealerValue > game.BlackjackValue {
			s.DealerBusts++
		}
	case game.Blackjack:
		s.Wins++
		s.Blackjacks++
	case game.DealerWin:
		s.Losses++
		if r.PlayerValue > game.BlackjackValue {
			s.PlayerBusts++
		}
	case game.Push:
		s.Pushes++
	}
}

// Merge folds other into s. Used to combine per-worker results.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumSq += other.SumSq
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.TotalWagered += other.TotalWagered
}

// Mean returns the average net chips per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of the net results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
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

// ReturnOnWager is the net result as a fraction of chips wagered
func (s *Statistics) ReturnOnWager() float64 {
	if s.TotalWagered == 0 {
		return 0
	}
	return s.SumNet / float64(s.TotalWagered)
}

// Rate returns count as a fraction of rounds played
func (s *Statistics) Rate(count int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(count) / float64(s.Rounds)
}

// Median returns the median net result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0), linearly
// interpolated between neighbours
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if outcomes := s.Wins + s.Losses + s.Pushes; outcomes != s.Rounds {
		return fmt.Errorf("outcomes (%d) do not add up to rounds (%d)", outcomes, s.Rounds)
	}
	if s.Blackjacks > s.Wins || s.DealerBusts > s.Wins || s.PlayerBusts > s.Losses {
		return fmt.Errorf("sub-counts exceed their totals: blackjacks=%d dealer busts=%d wins=%d player busts=%d losses=%d",
			s.Blackjacks, s.DealerBusts, s.Wins, s.PlayerBusts, s.Losses)
	}

	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-s.SumNet) > 1e-6 {
		return fmt.Errorf("ledger mismatch: values sum %.2f, SumNet %.2f", sum, s.SumNet)
	}
	return nil
}
