package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Call signaling frames carry SDP offers, so the limit is generous
	maxMessageSize = 64 * 1024
)

// MembershipChecker authorizes join_room requests against the data store.
// Room-group membership is a session-level client action, not derived from
// store membership, but non-members must not be able to join.
type MembershipChecker interface {
	IsMember(roomID, userID int64) (bool, error)
}

// Client represents a single WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	membership MembershipChecker
	// rooms joined this session; owned by the hub's run loop
	joined   map[int64]bool
	userID   int64
	username string
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID int64, username string, membership MembershipChecker) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		membership: membership,
		joined:     make(map[int64]bool),
		userID:     userID,
		username:   username,
	}
}

// clientFrame is a client-initiated message
type clientFrame struct {
	Event   string          `json:"event"`
	RoomID  int64           `json:"room_id,omitempty"`
	To      int64           `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ReadPump reads client frames (room joins, call signaling) until the
// connection drops
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		c.handleFrame(&frame)
	}
}

func (c *Client) handleFrame(frame *clientFrame) {
	switch frame.Event {
	case "join_room":
		if frame.RoomID == 0 {
			return
		}
		ok, err := c.membership.IsMember(frame.RoomID, c.userID)
		if err != nil || !ok {
			if err != nil {
				logger.GetLogger().Warn().Err(err).Msg("join_room membership check failed")
			}
			return
		}
		c.hub.joins <- roomChange{client: c, roomID: frame.RoomID}

	case "leave_room":
		if frame.RoomID != 0 {
			c.hub.leaves <- roomChange{client: c, roomID: frame.RoomID}
		}

	case "send_message":
		// Legacy relay path: forward a client-persisted message to the room
		// group verbatim. The REST send path is the one that persists.
		if frame.RoomID == 0 {
			return
		}
		if ok, err := c.membership.IsMember(frame.RoomID, c.userID); err != nil || !ok {
			return
		}
		c.hub.ToRoom(frame.RoomID, &events.Event{
			Type:    events.ReceiveMessage,
			Payload: frame.Payload,
		})

	case "call_user":
		c.relayCall(frame, events.CallIncoming)
	case "answer_call":
		c.relayCall(frame, events.CallAccepted)
	case "ice_candidate":
		c.relayCall(frame, events.IceCandidate)
	case "end_call":
		c.relayCall(frame, events.CallEnded)
	}
}

// relayCall forwards call signaling verbatim to the target's personal group.
// The hub never interprets offer/answer/candidate payloads and keeps no call
// state; timeout and cancellation are client-driven.
func (c *Client) relayCall(frame *clientFrame, eventType string) {
	if frame.To == 0 {
		return
	}
	c.hub.ToUser(frame.To, &events.Event{
		Type: eventType,
		Payload: map[string]interface{}{
			"from":          c.userID,
			"from_username": c.username,
			"payload":       frame.Payload,
		},
	})
}

// WritePump sends hub events to the WebSocket
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
