package game

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeStateChanged EventType = "state_changed"
	EventTypeRoundEnd     EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}
