package game

import (
	"sync"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deal order for every stacked engine below:
// player, dealer up, player, dealer hole, then draws.

func TestInitialState(t *testing.T) {
	e := NewStackedEngine("")
	s := e.State()

	assert.Equal(t, Betting, s.Phase)
	assert.Equal(t, NoResult, s.Result)
	assert.Equal(t, DefaultStartingBalance, s.PlayerBalance)
	assert.Zero(t, s.CurrentBet)
	assert.Zero(t, s.PlayerHand.Len())
	assert.Zero(t, s.DealerHand.Len())
	assert.Equal(t, WelcomeMessage, s.Message)
	require.NotNil(t, s.Deck)
	assert.Equal(t, 52, s.Deck.CardsRemaining())
}

func TestPlaceBetRejections(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		message string
	}{
		{name: "more than balance", amount: 1001, message: InsufficientMessage},
		{name: "zero", amount: 0, message: InvalidBetMessage},
		{name: "negative", amount: -10, message: InvalidBetMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewStackedEngine("9h 7c 8d 4s")
			before := e.State()

			e.PlaceBet(tt.amount)
			after := e.State()

			assert.Equal(t, tt.message, after.Message)
			assert.Equal(t, before.PlayerBalance, after.PlayerBalance)
			assert.Equal(t, before.Phase, after.Phase)
			assert.Equal(t, before.CurrentBet, after.CurrentBet)
			assert.Zero(t, after.PlayerHand.Len())
			assert.Zero(t, after.DealerHand.Len())
		})
	}
}

func TestValidateBet(t *testing.T) {
	assert.NoError(t, ValidateBet(100, 1000))
	assert.NoError(t, ValidateBet(1000, 1000))
	assert.ErrorIs(t, ValidateBet(1001, 1000), ErrInsufficientBalance)
	assert.ErrorIs(t, ValidateBet(0, 1000), ErrInvalidBet)
	assert.ErrorIs(t, ValidateBet(0, 0), ErrInvalidBet)
}

func TestPlaceBetDealsRound(t *testing.T) {
	e := NewStackedEngine("9h 7c 8d 4s")
	e.PlaceBet(100)
	s := e.State()

	assert.Equal(t, PlayerTurn, s.Phase)
	assert.Equal(t, NoResult, s.Result)
	assert.Equal(t, 900, s.PlayerBalance)
	assert.Equal(t, 100, s.CurrentBet)
	assert.Equal(t, PlayerTurnMessage, s.Message)
	assert.NotEmpty(t, s.RoundID)

	assert.Equal(t, "[9♥ 8♦]", s.PlayerHand.String())
	assert.Equal(t, "[7♣ ??]", s.DealerHand.String())
	assert.Equal(t, 17, s.PlayerHand.Value())
	assert.Equal(t, 7, s.DealerHand.Value(), "hole card must not count")
}

func TestPlaceBetBlackjackPaysThreeToTwo(t *testing.T) {
	tests := []struct {
		bet     int
		balance int
	}{
		{bet: 50, balance: 1075},
		{bet: 25, balance: 1037},
		{bet: 1, balance: 1001},
	}

	for _, tt := range tests {
		e := NewStackedEngine("Ah 9c Kd 7s")
		e.PlaceBet(tt.bet)
		s := e.State()

		assert.Equal(t, GameOver, s.Phase)
		assert.Equal(t, Blackjack, s.Result)
		assert.Equal(t, tt.balance, s.PlayerBalance)
		assert.Equal(t, tt.bet, s.CurrentBet)
		assert.True(t, s.DealerHand.AllFaceUp())
		assert.Equal(t, 16, s.DealerHand.Value())
		assert.Contains(t, s.Message, "Blackjack")
	}
}

func TestHitKeepsPlaying(t *testing.T) {
	e := NewStackedEngine("2h Kc 3d 7s 4c")
	e.PlaceBet(50)
	e.Hit()
	s := e.State()

	assert.Equal(t, PlayerTurn, s.Phase)
	assert.Equal(t, 3, s.PlayerHand.Len())
	assert.Equal(t, 9, s.PlayerHand.Value())
	assert.Equal(t, "You have 9. Hit again?", s.Message)
	assert.Equal(t, 950, s.PlayerBalance)
}

func TestHitBustScenario(t *testing.T) {
	e := NewStackedEngine("2h Kc 3d 7s Qh Jd")
	e.PlaceBet(50)
	postBet := e.State().PlayerBalance
	require.Equal(t, 950, postBet)
	require.Equal(t, 5, e.State().PlayerHand.Value())

	e.Hit()
	require.Equal(t, PlayerTurn, e.State().Phase)
	require.Equal(t, 15, e.State().PlayerHand.Value())

	e.Hit()
	s := e.State()
	assert.Equal(t, 25, s.PlayerHand.Value())
	assert.Equal(t, GameOver, s.Phase)
	assert.Equal(t, DealerWin, s.Result)
	assert.Equal(t, postBet, s.PlayerBalance, "no further deduction on bust")
	assert.True(t, s.DealerHand.AllFaceUp())
	assert.Equal(t, 17, s.DealerHand.Value())
	assert.Equal(t, "Bust! You lost 50 chips", s.Message)
	assert.Equal(t, -50, s.Net())
}

func TestStandDealerWins(t *testing.T) {
	e := NewStackedEngine("Th 6c 8d 4s Ks")
	e.PlaceBet(50)
	require.Equal(t, 18, e.State().PlayerHand.Value())

	e.Stand()
	s := e.State()

	assert.Equal(t, GameOver, s.Phase)
	assert.Equal(t, DealerWin, s.Result)
	assert.Equal(t, 20, s.DealerHand.Value())
	assert.Equal(t, 950, s.PlayerBalance)
	assert.Equal(t, "You lose. 18 vs 20. -50 chips", s.Message)
}

func TestStandDealerDrawsFromSixteen(t *testing.T) {
	e := NewStackedEngine("Th Tc 9d 6s 2h")
	e.PlaceBet(100)
	require.Equal(t, 16, e.State().DealerHand.WithAllRevealed().Value())

	e.Stand()
	s := e.State()

	assert.GreaterOrEqual(t, s.DealerHand.Len(), 3)
	assert.Equal(t, 18, s.DealerHand.Value())
	assert.Equal(t, PlayerWin, s.Result)
	assert.Equal(t, 1100, s.PlayerBalance)
	assert.Equal(t, "You win! 19 vs 18. +100 chips", s.Message)
}

func TestStandDealerKeepsDrawingUntilSeventeen(t *testing.T) {
	e := NewStackedEngine("Th 2c 7d 3s 2h Ac 2d 5h")
	e.PlaceBet(10)
	e.Stand()
	s := e.State()

	// 2 + 3 + 2 + A(11) = 18, stops before the 2d
	assert.Equal(t, 4, s.DealerHand.Len())
	assert.Equal(t, 18, s.DealerHand.Value())
	assert.Equal(t, DealerWin, s.Result)
}

func TestStandDealerStandsOnSoftSeventeen(t *testing.T) {
	e := NewStackedEngine("Th Ac 8d 6s 5h")
	e.PlaceBet(100)
	e.Stand()
	s := e.State()

	assert.Equal(t, 2, s.DealerHand.Len())
	assert.Equal(t, 17, s.DealerHand.Value())
	assert.True(t, s.DealerHand.IsSoft())
	assert.Equal(t, PlayerWin, s.Result)
}

func TestStandDealerBusts(t *testing.T) {
	e := NewStackedEngine("Th Tc 2d 6s Kh")
	e.PlaceBet(100)
	e.Stand()
	s := e.State()

	assert.True(t, s.DealerHand.IsBusted())
	assert.Equal(t, PlayerWin, s.Result)
	assert.Equal(t, 1100, s.PlayerBalance)
	assert.Equal(t, "Dealer busts! You won 100 chips", s.Message)
	assert.Equal(t, 100, s.Net())
}

func TestStandPush(t *testing.T) {
	e := NewStackedEngine("Th Tc 7d 7s")
	e.PlaceBet(100)
	e.Stand()
	s := e.State()

	assert.Equal(t, Push, s.Result)
	assert.Equal(t, 1000, s.PlayerBalance)
	assert.Equal(t, "Push! 17 vs 17. Your bet is returned", s.Message)
	assert.Zero(t, s.Net())
}

func TestActionsOutsidePlayerTurnAreIgnored(t *testing.T) {
	e := NewStackedEngine("Th Tc 7d 7s")

	before := e.State()
	e.Hit()
	e.Stand()
	assert.Equal(t, before, e.State(), "betting phase")

	e.PlaceBet(100)
	e.Stand()
	over := e.State()
	require.Equal(t, GameOver, over.Phase)

	e.Hit()
	e.Stand()
	assert.Equal(t, over, e.State(), "game over phase")
}

func TestPlaceBetIsNotGatedByPhase(t *testing.T) {
	e := NewStackedEngine("9h 7c 8d 4s")
	e.PlaceBet(100)
	first := e.State()

	e.PlaceBet(100)
	second := e.State()

	assert.Equal(t, PlayerTurn, second.Phase)
	assert.Equal(t, 800, second.PlayerBalance)
	assert.NotEqual(t, first.RoundID, second.RoundID)
}

func TestNewRoundCarriesBalance(t *testing.T) {
	e := NewStackedEngine("Th 6c 8d 4s Ks")
	e.PlaceBet(50)
	e.Stand()
	e.NewRound()
	s := e.State()

	assert.Equal(t, Betting, s.Phase)
	assert.Equal(t, NoResult, s.Result)
	assert.Equal(t, 950, s.PlayerBalance)
	assert.Zero(t, s.CurrentBet)
	assert.Zero(t, s.PlayerHand.Len())
	assert.Zero(t, s.DealerHand.Len())
	assert.Equal(t, NextRoundMessage, s.Message)
	assert.Empty(t, s.RoundID)
}

func TestNewRoundWithEmptyBalanceStartsOver(t *testing.T) {
	e := NewStackedEngine("Th 6c 8d 4s Ks")
	e.PlaceBet(1000)
	e.Stand()
	require.Equal(t, 0, e.State().PlayerBalance)

	e.NewRound()
	s := e.State()

	assert.Equal(t, 1000, s.PlayerBalance)
	assert.Equal(t, Betting, s.Phase)
	assert.Contains(t, s.Message, "New game")
}

func TestResetGame(t *testing.T) {
	e := NewStackedEngine("9h 7c 8d 4s", WithStartingBalance(500))
	e.PlaceBet(100)
	e.ResetGame()
	s := e.State()

	assert.Equal(t, 500, s.PlayerBalance)
	assert.Equal(t, Betting, s.Phase)
	assert.Equal(t, WelcomeMessage, s.Message)
	assert.Zero(t, s.PlayerHand.Len())
}

func TestSnapshotsAreNotMutatedByLaterOperations(t *testing.T) {
	e := NewStackedEngine("2h Kc 3d 7s Qh Jd")
	e.PlaceBet(50)
	afterBet := e.State()
	remaining := afterBet.Deck.CardsRemaining()

	e.Hit()
	e.Hit()

	assert.Equal(t, 2, afterBet.PlayerHand.Len())
	assert.Equal(t, remaining, afterBet.Deck.CardsRemaining())
	assert.Equal(t, PlayerTurn, afterBet.Phase)
	assert.False(t, afterBet.DealerHand.AllFaceUp())
}

func TestApply(t *testing.T) {
	e := NewStackedEngine("Th Tc 7d 7s")

	require.NoError(t, e.Apply(Bet, 100))
	assert.Equal(t, PlayerTurn, e.State().Phase)
	require.NoError(t, e.Apply(Stand, 0))
	assert.Equal(t, Push, e.State().Result)
	require.NoError(t, e.Apply(NewRound, 0))
	assert.Equal(t, Betting, e.State().Phase)

	assert.Error(t, e.Apply(Action(99), 0))
}

func TestConcurrentReaders(t *testing.T) {
	e := NewStackedEngine("", WithClock(quartz.NewMock(t)))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s := e.State()
					_ = s.PlayerHand.Value()
					_ = s.DealerHand.Value()
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		e.PlaceBet(10)
		e.Hit()
		e.Stand()
		e.NewRound()
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, Betting, e.State().Phase)
}
