package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// DefaultStartingBalance is the balance of a new game
const DefaultStartingBalance = 1000

// Phase is the stage of a round
type Phase int

const (
	Betting Phase = iota
	PlayerTurn
	// DealerTurn is never observable: Stand plays the dealer out and
	// finishes in GameOver within the same transition.
	DealerTurn
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Result is the outcome of a round
type Result int

const (
	NoResult Result = iota
	PlayerWin
	DealerWin
	Push
	Blackjack
)

func (r Result) String() string {
	switch r {
	case NoResult:
		return "none"
	case PlayerWin:
		return "player_win"
	case DealerWin:
		return "dealer_win"
	case Push:
		return "push"
	case Blackjack:
		return "blackjack"
	default:
		return "unknown"
	}
}

// Action is a user intent the engine accepts
type Action int

const (
	Bet Action = iota
	Hit
	Stand
	NewRound
	Reset
)

func (a Action) String() string {
	switch a {
	case Bet:
		return "bet"
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case NewRound:
		return "new_round"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseAction converts an action name into an Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "bet":
		return Bet, nil
	case "hit":
		return Hit, nil
	case "stand":
		return Stand, nil
	case "new_round", "new-round", "next":
		return NewRound, nil
	case "reset":
		return Reset, nil
	default:
		return 0, fmt.Errorf("unknown action: %q", s)
	}
}

// RoundState is an immutable snapshot of the whole game. The engine replaces
// it wholesale on every operation.
type RoundState struct {
	RoundID       string
	PlayerHand    Hand
	DealerHand    Hand
	Phase         Phase
	Result        Result
	PlayerBalance int
	CurrentBet    int
	Message       string

	// Deck is shared with the engine and must be treated as read-only.
	// The engine clones it before dealing.
	Deck *deck.Deck
}

// ValidActions returns the actions that change the game in the current phase
func (s RoundState) ValidActions() []Action {
	switch s.Phase {
	case Betting:
		return []Action{Bet, Reset}
	case PlayerTurn:
		return []Action{Hit, Stand, Reset}
	case DealerTurn:
		return nil
	case GameOver:
		return []Action{NewRound, Reset}
	default:
		return nil
	}
}

// Allows reports whether action is valid in the current phase
func (s RoundState) Allows(action Action) bool {
	for _, a := range s.ValidActions() {
		if a == action {
			return true
		}
	}
	return false
}

// Net returns the balance change the round produced, measured from before the
// bet was placed. It is zero until the round is over.
func (s RoundState) Net() int {
	if s.Phase != GameOver {
		return 0
	}
	switch s.Result {
	case Blackjack:
		return blackjackPayout(s.CurrentBet)
	case PlayerWin:
		return s.CurrentBet
	case DealerWin:
		return -s.CurrentBet
	case Push, NoResult:
		return 0
	default:
		return 0
	}
}

func newState(balance int, message string, d *deck.Deck) RoundState {
	return RoundState{
		Deck:          d,
		Phase:         Betting,
		Result:        NoResult,
		PlayerBalance: balance,
		Message:       message,
	}
}
