package game

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// NewStackedEngine returns a quiet engine whose rounds are dealt from cards in
// order: player, dealer up, player, dealer hole, then hits and dealer draws.
// Every round restarts from the same cards; once they run out the deck falls
// back to seeded shuffles. An empty cards string deals ordinary seeded decks.
// Options are applied after the defaults.
func NewStackedEngine(cards string, opts ...Option) *Engine {
	stacked := deck.MustParseCards(cards)
	rng := randutil.New(1)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	base := []Option{
		WithLogger(logger),
		WithRNG(rng),
		WithDeckSource(func() *deck.Deck {
			if len(stacked) == 0 {
				return deck.New(rng)
			}
			return deck.NewStacked(rng, stacked...)
		}),
	}
	return NewEngine(append(base, opts...)...)
}
