package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// BlackjackValue is the best possible hand total
	BlackjackValue = 21
	// DealerStandValue is the total at which the dealer stops drawing.
	// The dealer stands on every 17, soft or hard.
	DealerStandValue = 17
)

// Hand is an ordered, immutable collection of cards. Every method that
// changes the cards returns a new Hand and leaves the receiver untouched.
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand holding the given cards in order
func NewHand(cards ...deck.Card) Hand {
	h := Hand{cards: make([]deck.Card, len(cards))}
	copy(h.cards, cards)
	return h
}

// Cards returns a copy of the cards in deal order
func (h Hand) Cards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.cards)
}

// Value returns the hand total counting face-up cards only. Aces start at 11
// and drop to 1, one at a time, while the total is over 21.
func (h Hand) Value() int {
	total, _ := h.score()
	return total
}

// IsSoft reports whether the total still counts an ace as 11
func (h Hand) IsSoft() bool {
	_, softAces := h.score()
	return softAces > 0
}

func (h Hand) score() (total, softAces int) {
	for _, card := range h.cards {
		if !card.FaceUp {
			continue
		}
		total += card.Rank.BaseValue()
		if card.IsAce() {
			softAces++
		}
	}

	for total > BlackjackValue && softAces > 0 {
		total -= 10
		softAces--
	}
	return total, softAces
}

// IsBlackjack reports a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == BlackjackValue
}

// IsBusted reports a total over 21
func (h Hand) IsBusted() bool {
	return h.Value() > BlackjackValue
}

// AllFaceUp reports whether every card is visible. An empty hand is all face up.
func (h Hand) AllFaceUp() bool {
	for _, card := range h.cards {
		if !card.FaceUp {
			return false
		}
	}
	return true
}

// WithCard returns a new hand with card appended
func (h Hand) WithCard(card deck.Card) Hand {
	cards := make([]deck.Card, len(h.cards), len(h.cards)+1)
	copy(cards, h.cards)
	return Hand{cards: append(cards, card)}
}

// WithFirstCardHidden returns a new hand whose first card is face down
func (h Hand) WithFirstCardHidden() Hand {
	if len(h.cards) == 0 {
		return h
	}
	cards := h.Cards()
	cards[0] = cards[0].WithFaceUp(false)
	return Hand{cards: cards}
}

// WithAllRevealed returns a new hand with every card face up
func (h Hand) WithAllRevealed() Hand {
	cards := h.Cards()
	for i := range cards {
		cards[i] = cards[i].WithFaceUp(true)
	}
	return Hand{cards: cards}
}

// String renders the hand with face-down cards as "??"
func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, card := range h.cards {
		if card.FaceUp {
			parts[i] = card.String()
		} else {
			parts[i] = "??"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
