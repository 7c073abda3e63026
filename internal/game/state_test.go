package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidActions(t *testing.T) {
	tests := []struct {
		phase   Phase
		actions []Action
	}{
		{Betting, []Action{Bet, Reset}},
		{PlayerTurn, []Action{Hit, Stand, Reset}},
		{DealerTurn, nil},
		{GameOver, []Action{NewRound, Reset}},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			s := RoundState{Phase: tt.phase}
			assert.Equal(t, tt.actions, s.ValidActions())
			for _, a := range tt.actions {
				assert.True(t, s.Allows(a))
			}
		})
	}

	assert.False(t, RoundState{Phase: Betting}.Allows(Hit))
}

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"bet":       Bet,
		"hit":       Hit,
		"stand":     Stand,
		"new_round": NewRound,
		"next":      NewRound,
		"reset":     Reset,
	}
	for input, want := range tests {
		got, err := ParseAction(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
		if input != "next" {
			assert.Equal(t, input, got.String())
		}
	}

	_, err := ParseAction("double")
	assert.Error(t, err)
}

func TestNet(t *testing.T) {
	tests := []struct {
		name  string
		state RoundState
		net   int
	}{
		{"in play", RoundState{Phase: PlayerTurn, CurrentBet: 100}, 0},
		{"win", RoundState{Phase: GameOver, Result: PlayerWin, CurrentBet: 100}, 100},
		{"loss", RoundState{Phase: GameOver, Result: DealerWin, CurrentBet: 100}, -100},
		{"push", RoundState{Phase: GameOver, Result: Push, CurrentBet: 100}, 0},
		{"blackjack rounds down", RoundState{Phase: GameOver, Result: Blackjack, CurrentBet: 25}, 37},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.net, tt.state.Net())
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "player_turn", PlayerTurn.String())
	assert.Equal(t, "game_over", GameOver.String())
	assert.Equal(t, "blackjack", Blackjack.String())
	assert.Equal(t, "none", NoResult.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
