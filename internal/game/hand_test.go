package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
)

func hand(s string) Hand {
	return NewHand(deck.MustParseCards(s)...)
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name      string
		cards     string
		value     int
		blackjack bool
		busted    bool
		soft      bool
	}{
		{name: "empty", cards: "", value: 0},
		{name: "pair of aces", cards: "Ah As", value: 12, soft: true},
		{name: "ace king", cards: "As Kh", value: 21, blackjack: true, soft: true},
		{name: "ten ace", cards: "10d Ac", value: 21, blackjack: true, soft: true},
		{name: "king queen two", cards: "Kh Qs 2d", value: 22, busted: true},
		{name: "three card 21 is not blackjack", cards: "7h 7d 7c", value: 21},
		{name: "two aces and nine", cards: "Ah Ad 9c", value: 21, soft: true},
		{name: "four aces and seven", cards: "Ah Ad Ac As 7c", value: 21, soft: true},
		{name: "hard ace", cards: "Ah 9d 5c", value: 15},
		{name: "soft seventeen", cards: "Ah 6d", value: 17, soft: true},
		{name: "face cards", cards: "Jh Qd", value: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hand(tt.cards)
			assert.Equal(t, tt.value, h.Value())
			assert.Equal(t, tt.blackjack, h.IsBlackjack())
			assert.Equal(t, tt.busted, h.IsBusted())
			assert.Equal(t, tt.soft, h.IsSoft())
		})
	}
}

func TestHandValueIsIdempotent(t *testing.T) {
	h := hand("Ah Ad 9c 5s")
	first := h.Value()
	assert.Equal(t, first, h.Value())
	assert.Equal(t, 16, first)
}

func TestHandValueIgnoresFaceDownCards(t *testing.T) {
	h := hand("Kh 7s").WithFirstCardHidden()
	assert.Equal(t, 7, h.Value())
	assert.False(t, h.AllFaceUp())

	revealed := h.WithAllRevealed()
	assert.Equal(t, 17, revealed.Value())
	assert.True(t, revealed.AllFaceUp())
}

func TestHiddenBlackjackNeedsBothCardsVisible(t *testing.T) {
	h := hand("As Kh").WithFirstCardHidden()
	assert.False(t, h.IsBlackjack())
	assert.True(t, h.WithAllRevealed().IsBlackjack())
}

func TestHandUpdatesArePure(t *testing.T) {
	base := hand("2h 3d")
	withFour := base.WithCard(deck.NewCard(deck.Clubs, deck.Four))
	withFive := base.WithCard(deck.NewCard(deck.Clubs, deck.Five))

	assert.Equal(t, 2, base.Len())
	assert.Equal(t, 9, withFour.Value())
	assert.Equal(t, 10, withFive.Value())

	hidden := base.WithFirstCardHidden()
	assert.True(t, base.AllFaceUp())
	assert.False(t, hidden.Cards()[0].FaceUp)
	assert.True(t, hidden.Cards()[1].FaceUp)

	cards := base.Cards()
	cards[0] = deck.NewCard(deck.Spades, deck.King)
	assert.Equal(t, 5, base.Value(), "Cards must return a copy")
}

func TestEmptyHandTransforms(t *testing.T) {
	empty := NewHand()
	assert.Equal(t, 0, empty.WithFirstCardHidden().Len())
	assert.Equal(t, 0, empty.WithAllRevealed().Len())
	assert.Equal(t, "[]", empty.String())
}

func TestHandString(t *testing.T) {
	h := hand("10h Ks").WithFirstCardHidden()
	assert.Equal(t, "[?? K♠]", h.String())
}

func TestCardScoringAgreesWithHandForTrailingAce(t *testing.T) {
	for _, cards := range []string{"Kh 5d Ac", "5d Ac", "9h Ac", "2c 3c Ah"} {
		t.Run(cards, func(t *testing.T) {
			h := hand(cards)
			total := 0
			for _, c := range h.Cards() {
				total += c.ScoringValue(total)
			}
			assert.Equal(t, h.Value(), total)
		})
	}
}
