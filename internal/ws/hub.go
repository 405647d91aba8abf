package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "fanout"

// Delivery target kinds
const (
	kindUser = "user"
	kindRoom = "room"
)

// Hub maintains the per-user personal groups and per-room groups and relays
// events to their live connections. Group state is process-local and rebuilt
// from scratch on restart; it is never authoritative for anything except
// live delivery.
type Hub struct {
	// Personal groups: every connection of a user
	users map[int64]map[*Client]bool
	// Room groups: connections that explicitly joined a room this session
	rooms map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	joins      chan roomChange
	leaves     chan roomChange
	broadcast  chan *targetedEvent

	mu          sync.Mutex
	instanceID  string
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type roomChange struct {
	client *Client
	roomID int64
}

type targetedEvent struct {
	Kind   string        `json:"kind"`
	ID     int64         `json:"id"`
	Origin string        `json:"origin,omitempty"`
	Event  *events.Event `json:"event"`
}

// NewHub creates a new Hub. redisClient may be nil for single-instance mode.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		users:       make(map[int64]map[*Client]bool),
		rooms:       make(map[int64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		joins:       make(chan roomChange),
		leaves:      make(chan roomChange),
		broadcast:   make(chan *targetedEvent, 256),
		instanceID:  uuid.NewString(),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to its personal group
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.users[client.userID] == nil {
				h.users[client.userID] = make(map[*Client]bool)
			}
			h.users[client.userID][client] = true
			h.mu.Unlock()
			metrics.WsConnections.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case change := <-h.joins:
			h.mu.Lock()
			if h.rooms[change.roomID] == nil {
				h.rooms[change.roomID] = make(map[*Client]bool)
			}
			h.rooms[change.roomID][change.client] = true
			change.client.joined[change.roomID] = true
			h.mu.Unlock()

		case change := <-h.leaves:
			h.mu.Lock()
			h.dropFromRoom(change.roomID, change.client)
			delete(change.client.joined, change.roomID)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.ctx.Done():
			return
		}
	}
}

// dropFromRoom must be called with h.mu held
func (h *Hub) dropFromRoom(roomID int64, client *Client) {
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// removeLocked detaches a client from every group and closes its send channel
// exactly once. Must be called with h.mu held.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.users[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.users, client.userID)
	}
	for roomID := range client.joined {
		h.dropFromRoom(roomID, client)
	}
	close(client.send)
	metrics.WsConnections.Dec()
}

func (h *Hub) deliver(msg *targetedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var clients map[*Client]bool
	if msg.Kind == kindUser {
		clients = h.users[msg.ID]
	} else {
		clients = h.rooms[msg.ID]
	}
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(msg.Event)
	if err != nil {
		return
	}
	metrics.WsEvents.WithLabelValues(msg.Event.Type).Inc()
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop the connection entirely
			h.removeLocked(client)
		}
	}
}

// ToUser sends an event to every connection in the user's personal group
// (local + Redis publish for other instances)
func (h *Hub) ToUser(userID int64, event *events.Event) {
	h.emit(&targetedEvent{Kind: kindUser, ID: userID, Event: event})
}

// ToRoom sends an event to every connection that joined the room's group
func (h *Hub) ToRoom(roomID int64, event *events.Event) {
	h.emit(&targetedEvent{Kind: kindRoom, ID: roomID, Event: event})
}

func (h *Hub) emit(msg *targetedEvent) {
	// Local broadcast
	h.broadcast <- msg

	// Publish to Redis for multi-instance support
	if h.redisClient != nil {
		msg.Origin = h.instanceID
		data, err := json.Marshal(msg)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// subscribeRedis listens for events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var te targetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &te); err == nil && te.Origin != h.instanceID {
				// Only local broadcast (don't re-publish to Redis)
				h.deliver(&te)
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
