package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// Messages shown to the player
const (
	WelcomeMessage       = "Welcome to Blackjack!"
	InsufficientMessage  = "Insufficient balance!"
	InvalidBetMessage    = "Bet must be greater than 0!"
	PlayerTurnMessage    = "Your turn. Hit or stand?"
	NextRoundMessage     = "Place your bet for the next round"
	newGameMessageFormat = "Out of chips! New game started with %d chips"
)

var (
	ErrInsufficientBalance = errors.New("bet exceeds balance")
	ErrInvalidBet          = errors.New("bet must be positive")
)

// ValidateBet checks a bet against the balance. The balance check wins when
// both apply.
func ValidateBet(amount, balance int) error {
	if amount > balance {
		return fmt.Errorf("%w: bet %d, balance %d", ErrInsufficientBalance, amount, balance)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBet, amount)
	}
	return nil
}

func blackjackPayout(bet int) int {
	return bet * 3 / 2
}

// Engine is the blackjack state machine. It holds exactly one RoundState and
// replaces it on every operation. Operations never fail: rejected input shows
// up as a message on the new snapshot. Engine is safe for concurrent use,
// although callers are expected to drive it from a single goroutine.
type Engine struct {
	mu    sync.RWMutex
	state RoundState

	startingBalance int
	rng             *rand.Rand
	newDeck         func() *deck.Deck
	newID           func() string
	logger          *log.Logger
	clock           quartz.Clock
	bus             *SimpleEventBus
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRNG sets the random source used to shuffle new decks
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithDeckSource overrides how a fresh deck is built for each round.
// Tests use it to stack the cards.
func WithDeckSource(newDeck func() *deck.Deck) Option {
	return func(e *Engine) {
		e.newDeck = newDeck
	}
}

// WithClock sets the clock used for event timestamps
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithStartingBalance sets the balance of a new game
func WithStartingBalance(balance int) Option {
	return func(e *Engine) {
		e.startingBalance = balance
	}
}

// NewEngine creates an engine holding the initial snapshot
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		startingBalance: DefaultStartingBalance,
		newID:           uuid.NewString,
		clock:           quartz.NewReal(),
		bus:             NewEventBus(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.logger = e.logger.WithPrefix("engine")
	if e.rng == nil {
		e.rng = randutil.New(randutil.Seed(nil))
	}
	if e.newDeck == nil {
		e.newDeck = func() *deck.Deck { return deck.New(e.rng) }
	}

	e.state = e.initialState()
	return e
}

// State returns the current snapshot
func (e *Engine) State() RoundState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// StartingBalance returns the balance a new game starts with
func (e *Engine) StartingBalance() int {
	return e.startingBalance
}

// Subscribe registers a subscriber for engine events
func (e *Engine) Subscribe(subscriber EventSubscriber) {
	e.bus.Subscribe(subscriber)
}

// Unsubscribe removes a subscriber
func (e *Engine) Unsubscribe(subscriber EventSubscriber) {
	e.bus.Unsubscribe(subscriber)
}

// PlaceBet starts a round with the given bet. It is not restricted to the
// betting phase: a valid bet always deals a brand new round.
func (e *Engine) PlaceBet(amount int) {
	e.transition(Bet, func(s RoundState) (RoundState, bool) {
		return e.placeBet(s, amount)
	})
}

// Hit deals the player one card. It does nothing outside the player's turn.
func (e *Engine) Hit() {
	e.transition(Hit, e.hit)
}

// Stand plays the dealer out and settles the round. It does nothing outside
// the player's turn.
func (e *Engine) Stand() {
	e.transition(Stand, e.stand)
}

// NewRound keeps the balance and returns to betting. A player with no chips
// left starts over with the starting balance.
func (e *Engine) NewRound() {
	e.transition(NewRound, e.newRound)
}

// ResetGame discards everything and returns to the initial snapshot
func (e *Engine) ResetGame() {
	e.transition(Reset, func(RoundState) (RoundState, bool) {
		return e.initialState(), true
	})
}

// Apply dispatches an action by value. amount is only used by Bet.
func (e *Engine) Apply(action Action, amount int) error {
	switch action {
	case Bet:
		e.PlaceBet(amount)
	case Hit:
		e.Hit()
	case Stand:
		e.Stand()
	case NewRound:
		e.NewRound()
	case Reset:
		e.ResetGame()
	default:
		return fmt.Errorf("unknown action: %v", action)
	}
	return nil
}

// transition swaps in the snapshot computed by step and notifies subscribers
// once the lock is released, so subscribers may read State.
func (e *Engine) transition(action Action, step func(RoundState) (RoundState, bool)) {
	e.mu.Lock()
	prev := e.state
	next, changed := step(prev)
	if changed {
		e.state = next
	}
	e.mu.Unlock()

	if !changed {
		return
	}

	now := e.clock.Now()
	e.bus.Publish(NewStateChangedEvent(action, next, now))

	if next.Phase == GameOver && (prev.Phase != GameOver || prev.RoundID != next.RoundID) {
		e.logger.Info("Round complete",
			"round", next.RoundID,
			"result", next.Result,
			"player", next.PlayerHand.Value(),
			"dealer", next.DealerHand.Value(),
			"net", next.Net(),
			"balance", next.PlayerBalance)
		e.bus.Publish(NewRoundEndEvent(next, now))
	}
}

func (e *Engine) initialState() RoundState {
	return newState(e.startingBalance, WelcomeMessage, e.newDeck())
}

func (e *Engine) placeBet(s RoundState, amount int) (RoundState, bool) {
	if err := ValidateBet(amount, s.PlayerBalance); err != nil {
		e.logger.Debug("Bet rejected", "amount", amount, "balance", s.PlayerBalance, "error", err)
		if errors.Is(err, ErrInsufficientBalance) {
			s.Message = InsufficientMessage
		} else {
			s.Message = InvalidBetMessage
		}
		return s, true
	}

	d := e.newDeck()
	var dealt [4]deck.Card
	for i, faceUp := range []bool{true, true, true, false} {
		card, ok := d.Deal(faceUp)
		if !ok {
			e.logger.Error("Deck failed to deal", "dealt", i)
			return s, false
		}
		dealt[i] = card
	}

	player := NewHand(dealt[0], dealt[2])
	dealer := NewHand(dealt[1], dealt[3])

	next := RoundState{
		RoundID:    e.newID(),
		PlayerHand: player,
		DealerHand: dealer,
		CurrentBet: amount,
		Deck:       d,
	}

	e.logger.Debug("Bet placed",
		"round", next.RoundID,
		"amount", amount,
		"player", player,
		"dealer", dealer)

	if player.IsBlackjack() {
		payout := blackjackPayout(amount)
		next.DealerHand = dealer.WithAllRevealed()
		next.Phase = GameOver
		next.Result = Blackjack
		next.PlayerBalance = s.PlayerBalance + payout
		next.Message = fmt.Sprintf("Blackjack! You won %d chips", payout)
		return next, true
	}

	next.Phase = PlayerTurn
	next.Result = NoResult
	next.PlayerBalance = s.PlayerBalance - amount
	next.Message = PlayerTurnMessage
	return next, true
}

func (e *Engine) hit(s RoundState) (RoundState, bool) {
	if s.Phase != PlayerTurn {
		e.logger.Debug("Ignoring hit outside player turn", "phase", s.Phase)
		return s, false
	}

	d := s.Deck.Clone()
	card, ok := d.Deal(true)
	if !ok {
		e.logger.Error("Deck failed to deal", "round", s.RoundID)
		return s, false
	}

	next := s
	next.Deck = d
	next.PlayerHand = s.PlayerHand.WithCard(card)
	value := next.PlayerHand.Value()

	e.logger.Debug("Player hits", "round", s.RoundID, "card", card, "value", value)

	if next.PlayerHand.IsBusted() {
		next.DealerHand = s.DealerHand.WithAllRevealed()
		next.Phase = GameOver
		next.Result = DealerWin
		next.Message = fmt.Sprintf("Bust! You lost %d chips", s.CurrentBet)
		return next, true
	}

	next.Message = fmt.Sprintf("You have %d. Hit again?", value)
	return next, true
}

func (e *Engine) stand(s RoundState) (RoundState, bool) {
	if s.Phase != PlayerTurn {
		e.logger.Debug("Ignoring stand outside player turn", "phase", s.Phase)
		return s, false
	}

	d := s.Deck.Clone()
	dealer := s.DealerHand.WithAllRevealed()
	for dealer.Value() < DealerStandValue {
		card, ok := d.Deal(true)
		if !ok {
			e.logger.Error("Deck failed to deal", "round", s.RoundID)
			break
		}
		dealer = dealer.WithCard(card)
	}

	playerValue := s.PlayerHand.Value()
	dealerValue := dealer.Value()
	bet := s.CurrentBet

	next := s
	next.Deck = d
	next.DealerHand = dealer
	next.Phase = GameOver

	switch {
	case dealer.IsBusted():
		next.Result = PlayerWin
		next.PlayerBalance += bet * 2
		next.Message = fmt.Sprintf("Dealer busts! You won %d chips", bet)
	case playerValue > dealerValue:
		next.Result = PlayerWin
		next.PlayerBalance += bet * 2
		next.Message = fmt.Sprintf("You win! %d vs %d. +%d chips", playerValue, dealerValue, bet)
	case playerValue < dealerValue:
		next.Result = DealerWin
		next.Message = fmt.Sprintf("You lose. %d vs %d. -%d chips", playerValue, dealerValue, bet)
	default:
		next.Result = Push
		next.PlayerBalance += bet
		next.Message = fmt.Sprintf("Push! %d vs %d. Your bet is returned", playerValue, dealerValue)
	}

	e.logger.Debug("Player stands", "round", s.RoundID, "dealer", dealer, "result", next.Result)
	return next, true
}

func (e *Engine) newRound(s RoundState) (RoundState, bool) {
	if s.PlayerBalance <= 0 {
		e.logger.Info("Player out of chips, starting a new game", "balance", s.PlayerBalance)
		return newState(e.startingBalance, fmt.Sprintf(newGameMessageFormat, e.startingBalance), e.newDeck()), true
	}
	return newState(s.PlayerBalance, NextRoundMessage, e.newDeck()), true
}
