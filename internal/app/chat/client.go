/*
Package chat contains the core logic for realtime message delivery.

This file defines the Client struct, representing one active websocket
connection. It owns the read/write pumps, the per-connection quota session,
and the inbound frame flow: quota gate first, then type dispatch.
*/
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// capacity of the buffered outbound queue per connection.
	sendQueueSize = 256

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// Client represents an active websocket connection and its authenticated user.
type Client struct {
	conn *websocket.Conn

	user    user.User
	session *Session

	registry   *Registry
	dispatcher *Dispatcher
	gate       *Gate

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. The session must
// already be seeded from the store.
func NewClient(conn *websocket.Conn, u user.User, session *Session, registry *Registry, dispatcher *Dispatcher, gate *Gate) *Client {
	clientLogger := logx.Logger().With().
		Str("user_id", u.ID).
		Str("username", u.Username).
		Logger()

	return &Client{
		conn:       conn,
		user:       u,
		session:    session,
		registry:   registry,
		dispatcher: dispatcher,
		gate:       gate,
		send:       make(chan []byte, sendQueueSize),
		logger:     clientLogger,
	}
}

// ReadPump reads frames from the websocket connection until it closes.
// It handles heartbeats (Pong) and performs registry cleanup on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect removes the registry entry and closes the socket when
// the ReadPump terminates. The registry guard ignores the call if this
// connection was already replaced by a newer one.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.registry.Unregister(c.user.ID, c)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage handles one raw frame received from the client.
// The quota gate is evaluated before any dispatch; a rejected frame never
// reaches a handler and never touches the counter.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var probe struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(messageBytes, &probe); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		c.enqueueError(NewErrorFrame(CodeBadRequest, "Invalid JSON message."))
		return
	}

	if !c.gate.Admit(c.session) {
		c.logger.Info().Int("message_count", c.session.MessageCount).Msg("Send rejected by quota gate")
		c.enqueueError(NewErrorFrame(CodeQuotaExceeded, "You have reached your free message limit."))
		return
	}

	ctx := context.Background()

	// The authenticated identity is combined with the session cache so
	// handlers see the plan status seeded at connect time.
	sender := c.user
	sender.IsPremium = c.session.IsPremium
	sender.MessageCount = c.session.MessageCount

	success, info, handled := c.dispatcher.Dispatch(ctx, probe.Type, sender, messageBytes)
	if !handled {
		c.logger.Warn().Str("msg_type", probe.Type).Msg("Client sent unsupported message type")
		c.enqueueError(NewErrorFrame(CodeUnknownType, "Unsupported message type %q.", probe.Type))
		return
	}

	if !success {
		c.logger.Debug().Str("msg_type", probe.Type).Str("info", info).Msg("Handler rejected message")
		return
	}

	if info == InfoIncremented {
		c.gate.RecordSend(ctx, c.session)
	}
}

// enqueueError queues an error frame for this connection only.
// Error frames are never broadcast.
func (c *Client) enqueueError(frame []byte) {
	if !c.deliver(frame) {
		c.logger.Warn().Msg("Failed to queue error frame, send queue saturated.")
	}
}

// deliver places payload on the outbound queue without blocking.
// It returns false when the queue is full or closed, which the registry treats
// as a failed write.
func (c *Client) deliver(payload []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case c.send <- payload:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping message")
		return false
	}
}

// kick closes the connection with a session-replaced close frame (code 4001).
// It is called by the registry when a newer connection takes this user's slot.
func (c *Client) kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Sending WS Kick message and closing connection.")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send WS 4001 Close Message.")
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to close kicked connection.")
	}
}

// WritePump writes queued messages to the websocket connection and keeps the
// heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued message to the websocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic websocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
