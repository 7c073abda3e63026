// Package game implements a single-player blackjack round against a dealer.
//
// The main type is Engine, which owns exactly one RoundState snapshot and
// replaces it on every operation. Snapshots are values: a RoundState read
// before an operation never changes afterwards.
//
// # Basic Usage
//
//	e := game.NewEngine()
//	e.PlaceBet(100)
//	e.Hit()
//	e.Stand()
//	s := e.State()
//	fmt.Println(s.Result, s.PlayerBalance, s.Message)
//	e.NewRound()
//
// Operations never return errors. A rejected bet leaves the round untouched
// and explains itself in RoundState.Message, and Hit or Stand outside the
// player's turn do nothing.
//
// # Rules
//
// Aces count 11 and drop to 1 while the hand is over 21. The dealer's second
// card is dealt face down and does not count until it is revealed. The dealer
// draws to 17 and stands on soft 17. A two-card 21 pays 3:2 rounded down.
//
// # Events
//
// Subscribers registered with Engine.Subscribe receive a StateChangedEvent for
// every new snapshot and a RoundEndEvent when a round is settled. Events are
// delivered after the engine lock is released, on the calling goroutine.
//
// # Deterministic Testing
//
// NewStackedEngine deals from a fixed card order:
//
//	e := game.NewStackedEngine("Th 6c 8d 4s Ks")
//	e.PlaceBet(50) // player 18, dealer 6 + hidden 4
//	e.Stand()      // dealer draws K for 20
package game
