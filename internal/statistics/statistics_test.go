package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestStatisticsEmpty(t *testing.T) {
	s := &Statistics{}

	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.ReturnOnWager())
	assert.Zero(t, s.Rate(3))
	assert.Error(t, s.Validate())
}

func TestStatisticsAdd(t *testing.T) {
	s := &Statistics{}
	results := []RoundResult{
		{Net: 10, Bet: 10, Result: game.PlayerWin, PlayerValue: 20, DealerValue: 18},
		{Net: 10, Bet: 10, Result: game.PlayerWin, PlayerValue: 15, DealerValue: 24},
		{Net: -10, Bet: 10, Result: game.DealerWin, PlayerValue: 25, DealerValue: 17},
		{Net: -10, Bet: 10, Result: game.DealerWin, PlayerValue: 18, DealerValue: 20},
		{Net: 0, Bet: 10, Result: game.Push, PlayerValue: 19, DealerValue: 19},
		{Net: 15, Bet: 10, Result: game.Blackjack, PlayerValue: 21, DealerValue: 10},
	}
	for _, r := range results {
		s.Add(r)
	}

	require.NoError(t, s.Validate())
	assert.Equal(t, 6, s.Rounds)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.Equal(t, 1, s.Pushes)
	assert.Equal(t, 1, s.Blackjacks)
	assert.Equal(t, 1, s.PlayerBusts)
	assert.Equal(t, 1, s.DealerBusts)
	assert.Equal(t, 60, s.TotalWagered)

	assert.InDelta(t, 2.5, s.Mean(), 1e-9)
	assert.InDelta(t, 15.0/60.0, s.ReturnOnWager(), 1e-9)
	assert.InDelta(t, 0.5, s.Rate(s.Wins), 1e-9)
	assert.InDelta(t, 5.0, s.Median(), 1e-9)

	// sample variance of {10,10,-10,-10,0,15}
	mean := 2.5
	var ss float64
	for _, v := range []float64{10, 10, -10, -10, 0, 15} {
		ss += (v - mean) * (v - mean)
	}
	assert.InDelta(t, ss/5, s.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(ss/5), s.StdDev(), 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())
	assert.InDelta(t, 1.96*s.StdError(), hi-s.Mean(), 1e-9)
}

func TestStatisticsPercentile(t *testing.T) {
	s := &Statistics{}
	for _, v := range []int{-10, 0, 10, 20} {
		s.Add(RoundResult{Net: v, Bet: 10, Result: game.Push})
	}
	assert.Equal(t, -10.0, s.Percentile(0))
	assert.Equal(t, 20.0, s.Percentile(1))
	assert.InDelta(t, 5.0, s.Median(), 1e-9)
}

func TestStatisticsMerge(t *testing.T) {
	a := &Statistics{}
	b := &Statistics{}
	a.Add(RoundResult{Net: 10, Bet: 10, Result: game.PlayerWin})
	b.Add(RoundResult{Net: -10, Bet: 10, Result: game.DealerWin})
	b.Add(RoundResult{Net: 15, Bet: 10, Result: game.Blackjack})

	total := &Statistics{}
	total.Merge(a)
	total.Merge(b)

	require.NoError(t, total.Validate())
	assert.Equal(t, 3, total.Rounds)
	assert.Equal(t, 2, total.Wins)
	assert.InDelta(t, 5.0, total.Mean(), 1e-9)
	assert.Len(t, total.Values, 3)
}

func TestStatisticsValidateDetectsMismatch(t *testing.T) {
	s := &Statistics{}
	s.Add(RoundResult{Net: 10, Bet: 10, Result: game.PlayerWin})
	s.Wins = 0
	assert.ErrorContains(t, s.Validate(), "outcomes")

	s = &Statistics{}
	s.Add(RoundResult{Net: 10, Bet: 10, Result: game.PlayerWin})
	s.SumNet = 99
	assert.ErrorContains(t, s.Validate(), "ledger")
}
