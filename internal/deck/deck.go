package deck

import (
	rand "math/rand/v2"

	"github.com/lox/blackjack/internal/randutil"
)

// Size is the number of cards in a complete deck
const Size = 52

// Deck represents a single 52-card deck. Dealing from an empty deck refills
// and reshuffles it first, so a Deck never runs out.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full, shuffled deck. A nil rng uses a time-seeded generator.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.New(randutil.Seed(nil))
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// NewStacked creates a deck that deals the given cards in order. Once they are
// used up the deck resets to a full shuffled deck like any other.
func NewStacked(rng *rand.Rand, cards ...Card) *Deck {
	if rng == nil {
		rng = randutil.New(randutil.Seed(nil))
	}
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked, rng: rng}
}

// Reset replaces the contents with all 52 cards and shuffles them.
// A new backing array is allocated so clones never observe the reset.
func (d *Deck) Reset() {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	d.cards = cards
	d.Shuffle()
}

// Shuffle randomizes the order of the remaining cards using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the front card with its visibility forced to
// faceUp. An empty deck is reset before dealing; the bool is false only if the
// deck is still empty afterwards, which cannot happen.
func (d *Deck) Deal(faceUp bool) (Card, bool) {
	if len(d.cards) == 0 {
		d.Reset()
	}
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card.WithFaceUp(faceUp), true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in deal order
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

// Clone returns an independent copy of the deck sharing the same random source
func (d *Deck) Clone() *Deck {
	return &Deck{cards: d.Cards(), rng: d.rng}
}
