package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 64
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client playing a session
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	session   *Session
	sessions  *SessionManager
	clock     quartz.Clock
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper bound to a session
func NewConnection(conn *websocket.Conn, session *Session, sessions *SessionManager, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan *Message, sendBufferSize),
		session:  session,
		sessions: sessions,
		clock:    clock,
		logger:   logger.WithPrefix("conn").With("session", session.ID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the session's engine and begins pumping messages
func (c *Connection) Start(resumed bool) {
	c.sendData(MessageTypeSession, SessionData{SessionID: c.session.ID, Resumed: resumed}, "")
	c.sendState("")
	c.session.Engine.Subscribe(c)

	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection and detaches it from its session
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.session.Engine.Unsubscribe(c)
		c.sessions.Detach(c.session)
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// OnEvent forwards settled rounds to the client
func (c *Connection) OnEvent(event game.GameEvent) {
	if e, ok := event.(game.RoundEndEvent); ok {
		c.sendData(MessageTypeRoundEnd, RoundEndDataFromGame(c.session.ID, e), "")
	}
}

// SendMessage queues a message for the client. A full buffer closes the
// connection.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError(ErrCodeInvalidMessage, "Malformed JSON", "")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)
	c.sessions.Touch(c.session)

	switch msg.Type {
	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(ErrCodeInvalidMessage, "Failed to parse action data", msg.RequestID)
			return
		}
		c.handleAction(data, msg.RequestID)

	case MessageTypeState:
		c.sendState(msg.RequestID)

	default:
		c.sendError(ErrCodeUnknownType, "Unknown message type: "+msg.Type.String(), msg.RequestID)
	}
}

// handleAction applies an action and replies with the resulting state. Actions
// the current phase ignores still get a state reply.
func (c *Connection) handleAction(data ActionData, requestID string) {
	action, err := game.ParseAction(data.Action)
	if err != nil {
		c.sendError(ErrCodeInvalidAction, err.Error(), requestID)
		return
	}

	c.logger.Info("Player action", "action", action, "amount", data.Amount)
	if err := c.session.Engine.Apply(action, data.Amount); err != nil {
		c.sendError(ErrCodeInvalidAction, err.Error(), requestID)
		return
	}
	c.sendState(requestID)
}

func (c *Connection) sendState(requestID string) {
	c.sendData(MessageTypeState, StateDataFromGame(c.session.ID, c.session.Engine.State()), requestID)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message, requestID string) {
	c.sendData(MessageTypeError, ErrorData{Code: code, Message: message}, requestID)
}

func (c *Connection) sendData(messageType MessageType, data any, requestID string) {
	msg, err := NewMessage(messageType, data, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}
