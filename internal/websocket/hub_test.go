package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/watchparty/internal/events"
)

type fakeSource struct{}

func (fakeSource) RoomSnapshot(_ context.Context, roomID string) (json.RawMessage, error) {
	return json.RawMessage(`{"id":"` + roomID + `"}`), nil
}

func (fakeSource) CommentsSnapshot(_ context.Context, roomID string) (json.RawMessage, error) {
	return json.RawMessage(`[{"roomId":"` + roomID + `"}]`), nil
}

func newTestClient(room string) *Client {
	return &Client{
		ID:   uuid.New(),
		Room: room,
		Send: make(chan []byte, 8),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatalf("send channel closed")
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("invalid message json: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for push")
	}
	return Message{}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if ok {
			t.Fatalf("unexpected push: %s", data)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegisterDeliversInitialSnapshots(t *testing.T) {
	eventc := make(chan events.Event)
	hub := NewHub(fakeSource{}, eventc)
	go hub.Run()
	defer hub.cancel()

	client := newTestClient("r1")
	hub.Register(client)

	first := receive(t, client)
	if first.Type != TypeRoomSnapshot || first.RoomID != "r1" {
		t.Fatalf("first push = %s/%s, want room_snapshot/r1", first.Type, first.RoomID)
	}
	second := receive(t, client)
	if second.Type != TypeCommentsSnapshot || second.RoomID != "r1" {
		t.Fatalf("second push = %s/%s, want comments_snapshot/r1", second.Type, second.RoomID)
	}

	if got := hub.RoomSubscribers("r1"); got != 1 {
		t.Fatalf("RoomSubscribers = %d, want 1", got)
	}
}

func TestChangeEventFansOutToRoomOnly(t *testing.T) {
	eventc := make(chan events.Event)
	hub := NewHub(fakeSource{}, eventc)
	go hub.Run()
	defer hub.cancel()

	inRoom := newTestClient("r1")
	other := newTestClient("r2")
	hub.Register(inRoom)
	hub.Register(other)

	// Drain the initial snapshots.
	receive(t, inRoom)
	receive(t, inRoom)
	receive(t, other)
	receive(t, other)

	eventc <- events.Event{Kind: events.KindComments, RoomID: "r1"}

	msg := receive(t, inRoom)
	if msg.Type != TypeCommentsSnapshot || msg.RoomID != "r1" {
		t.Fatalf("push = %s/%s, want comments_snapshot/r1", msg.Type, msg.RoomID)
	}
	var payload []map[string]string
	if err := json.Unmarshal(msg.Data, &payload); err != nil || len(payload) != 1 || payload[0]["roomId"] != "r1" {
		t.Fatalf("payload = %s, want full r1 comment list", msg.Data)
	}

	// Cross-room isolation: the r2 subscriber must see nothing.
	expectSilence(t, other)
}

func TestUnregisterCancelsSubscription(t *testing.T) {
	eventc := make(chan events.Event)
	hub := NewHub(fakeSource{}, eventc)
	go hub.Run()
	defer hub.cancel()

	client := newTestClient("r1")
	hub.Register(client)
	receive(t, client)
	receive(t, client)

	hub.Unregister(client)

	// The push channel is released on cancellation.
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatalf("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("send channel not closed after unregister")
	}

	if got := hub.RoomSubscribers("r1"); got != 0 {
		t.Fatalf("RoomSubscribers = %d, want 0", got)
	}
}
