package game

import (
	"sync"
	"time"
)

// GameEvent represents anything the engine announces to subscribers
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// StateChangedEvent is published after an operation replaced the snapshot
type StateChangedEvent struct {
	Action    Action
	State     RoundState
	timestamp time.Time
}

func (e StateChangedEvent) EventType() EventType { return EventTypeStateChanged }
func (e StateChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewStateChangedEvent creates a new state change event
func NewStateChangedEvent(action Action, state RoundState, at time.Time) StateChangedEvent {
	return StateChangedEvent{
		Action:    action,
		State:     state,
		timestamp: at,
	}
}

// RoundEndEvent is published when a round reaches GameOver
type RoundEndEvent struct {
	RoundID     string
	Result      Result
	Bet         int
	Net         int // balance change across the whole round
	PlayerValue int
	DealerValue int
	Balance     int
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEndEvent summarises a finished round
func NewRoundEndEvent(state RoundState, at time.Time) RoundEndEvent {
	return RoundEndEvent{
		RoundID:     state.RoundID,
		Result:      state.Result,
		Bet:         state.CurrentBet,
		Net:         state.Net(),
		PlayerValue: state.PlayerHand.Value(),
		DealerValue: state.DealerHand.Value(),
		Balance:     state.PlayerBalance,
		timestamp:   at,
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is an in-memory event bus safe for concurrent use
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to every subscriber in subscription order.
// Subscribers run on the publishing goroutine.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subscribers := make([]EventSubscriber, len(bus.subscribers))
	copy(subscribers, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.OnEvent(event)
	}
}
