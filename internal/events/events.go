// Package events defines the fan-out seam between services and the live
// delivery layer. Services publish through the Publisher interface instead of
// importing the WebSocket hub, which keeps the dependency one-directional.
package events

// Server-to-client event names. These are the wire contract with the SPA.
const (
	ReceiveMessage      = "receive_message"
	NewMessageAlert     = "new_message_alert"
	MessagesRead        = "messages_read"
	RefreshUnread       = "refresh_unread"
	MessageUpdated      = "message_updated"
	MessageDeleted      = "message_deleted"
	ConversationDeleted = "conversation_deleted"
	NewNotification     = "new_notification"

	CallIncoming = "call_incoming"
	CallAccepted = "call_accepted"
	CallEnded    = "call_ended"
	IceCandidate = "ice_candidate"
)

// Event is a single real-time event
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Publisher delivers events to live connections. Delivery is fire-and-forget:
// there is no error channel back from a failed emit, clients recover by
// re-fetching REST state.
type Publisher interface {
	// ToUser sends to every connection in the user's personal group
	ToUser(userID int64, event *Event)
	// ToRoom sends to every connection that joined the room's group
	ToRoom(roomID int64, event *Event)
}

// NopPublisher discards all events. Used in tests and before the hub is wired.
type NopPublisher struct{}

func (NopPublisher) ToUser(int64, *Event) {}
func (NopPublisher) ToRoom(int64, *Event) {}
