package simulator

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Decision is what a strategy wants to do with its hand
type Decision int

const (
	Stand Decision = iota
	Hit
)

func (d Decision) String() string {
	if d == Hit {
		return "hit"
	}
	return "stand"
}

// Strategy decides between hitting and standing
type Strategy interface {
	Name() string
	Decide(player game.Hand, dealerUp deck.Card) Decision
}

// StrategyByName returns a built-in strategy
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "basic":
		return BasicStrategy{}, nil
	case "dealer":
		return DealerStrategy{}, nil
	case "never-bust":
		return NeverBustStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}

// BasicStrategy is hit/stand basic strategy without doubles or splits
type BasicStrategy struct{}

func (BasicStrategy) Name() string { return "basic" }

func (BasicStrategy) Decide(player game.Hand, dealerUp deck.Card) Decision {
	total := player.Value()
	up := dealerUp.Rank.BaseValue()

	if player.IsSoft() {
		switch {
		case total <= 17:
			return Hit
		case total == 18 && up >= 9:
			return Hit
		default:
			return Stand
		}
	}

	switch {
	case total <= 11:
		return Hit
	case total == 12:
		if up >= 4 && up <= 6 {
			return Stand
		}
		return Hit
	case total <= 16:
		if up >= 7 {
			return Hit
		}
		return Stand
	default:
		return Stand
	}
}

// DealerStrategy mimics the dealer: hit below 17
type DealerStrategy struct{}

func (DealerStrategy) Name() string { return "dealer" }

func (DealerStrategy) Decide(player game.Hand, _ deck.Card) Decision {
	if player.Value() < game.DealerStandValue {
		return Hit
	}
	return Stand
}

// NeverBustStrategy only hits when no card can bust the hand
type NeverBustStrategy struct{}

func (NeverBustStrategy) Name() string { return "never-bust" }

func (NeverBustStrategy) Decide(player game.Hand, _ deck.Card) Decision {
	if player.Value() <= 11 || (player.IsSoft() && player.Value() < game.DealerStandValue) {
		return Hit
	}
	return Stand
}

// dealerUpCard returns the dealer's first face-up card
func dealerUpCard(h game.Hand) (deck.Card, bool) {
	for _, c := range h.Cards() {
		if c.FaceUp {
			return c, true
		}
	}
	return deck.Card{}, false
}
