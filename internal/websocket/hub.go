package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/thereayou/watchparty/internal/events"
)

type MessageType string

const (
	// TypeRoomSnapshot carries the complete current room document,
	// including the member list. TypeCommentsSnapshot carries the full
	// ordered comment list. Subscribers always receive the whole
	// materialized view, never a delta.
	TypeRoomSnapshot     MessageType = "room_snapshot"
	TypeCommentsSnapshot MessageType = "comments_snapshot"
	TypeError            MessageType = "error"
)

type Message struct {
	Type      MessageType     `json:"type"`
	RoomID    string          `json:"roomId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// SnapshotSource materializes the current view of a room for pushing to
// subscribers.
type SnapshotSource interface {
	RoomSnapshot(ctx context.Context, roomID string) (json.RawMessage, error)
	CommentsSnapshot(ctx context.Context, roomID string) (json.RawMessage, error)
}

const snapshotTimeout = 5 * time.Second

// Hub owns all live subscriptions. Each client subscribes to exactly one
// room; on every change event the hub re-reads the affected view and pushes
// it to the room's subscribers.
type Hub struct {
	clients map[uuid.UUID]*Client
	rooms   map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	events <-chan events.Event
	source SnapshotSource

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(source SnapshotSource, eventc <-chan events.Event) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     eventc,
		source:     source,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev, ok := <-h.events:
			if !ok {
				return
			}
			h.pushSnapshot(ev)
		}
	}
}

// Stop tears down every live subscription and releases the push channels.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[string]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	if _, ok := h.rooms[client.Room]; !ok {
		h.rooms[client.Room] = make(map[uuid.UUID]*Client)
	}
	h.rooms[client.Room][client.ID] = client
	h.mu.Unlock()

	log.Debugf("subscriber registered: %s (room %s)", client.ID, client.Room)

	// New subscribers immediately get the current state of both views.
	h.sendSnapshot(client, TypeRoomSnapshot)
	h.sendSnapshot(client, TypeCommentsSnapshot)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if room, ok := h.rooms[client.Room]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, client.Room)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Debugf("subscriber unregistered: %s (room %s)", client.ID, client.Room)
}

// pushSnapshot re-materializes the changed view once and fans it out to
// every subscriber of the room.
func (h *Hub) pushSnapshot(ev events.Event) {
	msgType := TypeRoomSnapshot
	if ev.Kind == events.KindComments {
		msgType = TypeCommentsSnapshot
	}

	data, err := h.snapshotMessage(msgType, ev.RoomID)
	if err != nil {
		log.Errorf("snapshot for room %s failed: %v", ev.RoomID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[ev.RoomID] {
		select {
		case client.Send <- data:
		default:
			log.Warnf("subscriber %s send queue full, dropping snapshot", client.ID)
		}
	}
}

func (h *Hub) sendSnapshot(client *Client, msgType MessageType) {
	data, err := h.snapshotMessage(msgType, client.Room)
	if err != nil {
		log.Errorf("initial snapshot for room %s failed: %v", client.Room, err)
		client.SendError("failed to load room state")
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Warnf("subscriber %s send queue full, dropping snapshot", client.ID)
	}
}

func (h *Hub) snapshotMessage(msgType MessageType, roomID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(h.ctx, snapshotTimeout)
	defer cancel()

	var (
		payload json.RawMessage
		err     error
	)
	if msgType == TypeCommentsSnapshot {
		payload, err = h.source.CommentsSnapshot(ctx, roomID)
	} else {
		payload, err = h.source.RoomSnapshot(ctx, roomID)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{
		Type:      msgType,
		RoomID:    roomID,
		Data:      payload,
		Timestamp: time.Now(),
	})
}

// RoomSubscribers returns the number of live subscriptions for a room.
func (h *Hub) RoomSubscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
