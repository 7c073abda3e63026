package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the name of the suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "?"
	}
}

// Symbol returns the unicode pip for the suit
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Two through Ten equal their pip value.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in deck order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Label returns the display label of the rank ("A", "2".."10", "J", "Q", "K")
func (r Rank) Label() string {
	switch {
	case r == Ace:
		return "A"
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	default:
		return "?"
	}
}

// String returns the display label of the rank
func (r Rank) String() string {
	return r.Label()
}

// BaseValue returns the blackjack value of the rank with aces counted high.
func (r Rank) BaseValue() int {
	switch {
	case r == Ace:
		return 11
	case r >= Two && r <= Ten:
		return int(r)
	case r >= Jack && r <= King:
		return 10
	default:
		return 0
	}
}

// Color is the display color of a card
type Color int

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Card represents a playing card. FaceUp is part of the value: a hidden card
// and the revealed copy of it are different cards.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// NewCard creates a new face-up card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, FaceUp: true}
}

// String returns the string representation of a card (e.g., "10♥")
func (c Card) String() string {
	return c.Rank.Label() + c.Suit.Symbol()
}

// WithFaceUp returns a copy of the card with the given visibility
func (c Card) WithFaceUp(faceUp bool) Card {
	c.FaceUp = faceUp
	return c
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Color returns Red for hearts and diamonds, Black otherwise
func (c Card) Color() Color {
	if c.IsRed() {
		return Red
	}
	return Black
}

// ScoringValue returns the card's contribution given the hand total counted
// before it. An ace drops to 1 when 11 would take the total past 21.
// Hands score themselves with game.Hand.Value; this is the single-card view.
func (c Card) ScoringValue(totalBefore int) int {
	if c.Rank == Ace && totalBefore+c.Rank.BaseValue() > 21 {
		return 1
	}
	return c.Rank.BaseValue()
}

// SameFace reports whether two cards have the same suit and rank regardless
// of visibility.
func (c Card) SameFace(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// ParseCard parses a single token such as "Ah", "10d", "Td" or "ks".
func ParseCard(token string) (Card, error) {
	token = strings.TrimSpace(token)
	if len(token) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", token)
	}

	rank, err := parseRank(token[:len(token)-1])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", token, err)
	}
	suit, err := parseSuit(token[len(token)-1])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", token, err)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses whitespace separated cards, e.g. "Ah Kd 10c 2s".
// All cards are face up.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for i, field := range fields {
		card, err := ParseCard(field)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "T", "10":
		return Ten, nil
	case "9":
		return Nine, nil
	case "8":
		return Eight, nil
	case "7":
		return Seven, nil
	case "6":
		return Six, nil
	case "5":
		return Five, nil
	case "4":
		return Four, nil
	case "3":
		return Three, nil
	case "2":
		return Two, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", s)
	}
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	case 's', 'S':
		return Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit '%c'", c)
	}
}
