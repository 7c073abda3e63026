package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeAction MessageType = "action"
	MessageTypeState  MessageType = "state"

	// Server to client messages. state doubles as the reply to both client
	// messages.
	MessageTypeSession  MessageType = "session"
	MessageTypeRoundEnd MessageType = "round_end"
	MessageTypeError    MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeInvalidAction  = "invalid_action"
)
