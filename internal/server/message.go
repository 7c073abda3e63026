package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with at
func NewMessage(messageType MessageType, data any, at time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: at,
	}, nil
}

// Client → Server Messages

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client Messages

type SessionData struct {
	SessionID string `json:"sessionId"`
	Resumed   bool   `json:"resumed"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CardData is a card as the client sees it. Rank and suit are omitted while
// the card is face down.
type CardData struct {
	Rank   string `json:"rank,omitempty"`
	Suit   string `json:"suit,omitempty"`
	Text   string `json:"text"`
	FaceUp bool   `json:"faceUp"`
}

type HandData struct {
	Cards       []CardData `json:"cards"`
	Value       int        `json:"value"` // face-up cards only
	HiddenCards int        `json:"hiddenCards,omitempty"`
	Soft        bool       `json:"soft,omitempty"`
	Blackjack   bool       `json:"blackjack,omitempty"`
	Busted      bool       `json:"busted,omitempty"`
}

type StateData struct {
	SessionID      string   `json:"sessionId"`
	RoundID        string   `json:"roundId,omitempty"`
	Phase          string   `json:"phase"`
	Result         string   `json:"result"`
	Balance        int      `json:"balance"`
	Bet            int      `json:"bet"`
	Message        string   `json:"message"`
	Player         HandData `json:"player"`
	Dealer         HandData `json:"dealer"`
	ValidActions   []string `json:"validActions"`
	CardsRemaining int      `json:"cardsRemaining"`
}

type RoundEndData struct {
	SessionID   string `json:"sessionId"`
	RoundID     string `json:"roundId"`
	Result      string `json:"result"`
	Bet         int    `json:"bet"`
	Net         int    `json:"net"`
	PlayerValue int    `json:"playerValue"`
	DealerValue int    `json:"dealerValue"`
	Balance     int    `json:"balance"`
}

// RulesData is served from /api/rules
type RulesData struct {
	StartingBalance  int    `json:"startingBalance"`
	ChipValues       []int  `json:"chipValues"`
	DealerStandsOn   int    `json:"dealerStandsOn"`
	BlackjackPayout  string `json:"blackjackPayout"`
	IdleTimeoutSecs  int    `json:"idleTimeoutSeconds"`
	DecksPerRound    int    `json:"decksPerRound"`
	DealerHitsSoft17 bool   `json:"dealerHitsSoft17"`
}

// CardDataFromDeck masks face-down cards
func CardDataFromDeck(c deck.Card) CardData {
	if !c.FaceUp {
		return CardData{Text: "??"}
	}
	return CardData{
		Rank:   c.Rank.Label(),
		Suit:   c.Suit.String(),
		Text:   c.String(),
		FaceUp: true,
	}
}

// HandDataFromGame converts a hand for the wire
func HandDataFromGame(h game.Hand) HandData {
	cards := h.Cards()
	data := HandData{
		Cards:     make([]CardData, len(cards)),
		Value:     h.Value(),
		Soft:      h.IsSoft(),
		Blackjack: h.IsBlackjack(),
		Busted:    h.IsBusted(),
	}
	for i, c := range cards {
		data.Cards[i] = CardDataFromDeck(c)
		if !c.FaceUp {
			data.HiddenCards++
		}
	}
	return data
}

// StateDataFromGame converts a snapshot for the wire
func StateDataFromGame(sessionID string, s game.RoundState) StateData {
	actions := s.ValidActions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}

	remaining := 0
	if s.Deck != nil {
		remaining = s.Deck.CardsRemaining()
	}

	return StateData{
		SessionID:      sessionID,
		RoundID:        s.RoundID,
		Phase:          s.Phase.String(),
		Result:         s.Result.String(),
		Balance:        s.PlayerBalance,
		Bet:            s.CurrentBet,
		Message:        s.Message,
		Player:         HandDataFromGame(s.PlayerHand),
		Dealer:         HandDataFromGame(s.DealerHand),
		ValidActions:   names,
		CardsRemaining: remaining,
	}
}

// RoundEndDataFromGame converts a round end event for the wire
func RoundEndDataFromGame(sessionID string, e game.RoundEndEvent) RoundEndData {
	return RoundEndData{
		SessionID:   sessionID,
		RoundID:     e.RoundID,
		Result:      e.Result.String(),
		Bet:         e.Bet,
		Net:         e.Net,
		PlayerValue: e.PlayerValue,
		DealerValue: e.DealerValue,
		Balance:     e.Balance,
	}
}
