package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"netcontrol/internal/domain/record"
	"netcontrol/internal/infrastructure/bus"
)

func setupSocket(t *testing.T, hub *bus.Hub, name string) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(NewHandler(hub))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "?name=" + name
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// waitForSubscribers blocks until the server side of the socket has
// registered its bus subscription.
func waitForSubscribers(t *testing.T, hub *bus.Hub) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("socket subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) record.ChangeEvent {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event record.ChangeEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event frame: %v", err)
	}
	return event
}

func TestChangeEventsReachSocket(t *testing.T) {
	hub := bus.NewHub()
	conn := setupSocket(t, hub, "net1")

	waitForSubscribers(t, hub)
	if err := hub.Publish(context.Background(), record.ChangeEvent{
		Type:    "new_event",
		Payload: map[string]any{"id": "abc", "bib": "42"},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	event := readEvent(t, conn)
	if event.Type != "new_event" {
		t.Fatalf("event type = %q, want new_event", event.Type)
	}
	if event.Payload["bib"] != "42" {
		t.Fatalf("payload bib = %v", event.Payload["bib"])
	}
}

func TestChatRoomFlow(t *testing.T) {
	hub := bus.NewHub()
	conn := setupSocket(t, hub, "net1")

	if err := conn.WriteJSON(map[string]any{"action": "joined"}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	joined := readEvent(t, conn)
	if joined.Type != "status" {
		t.Fatalf("join frame type = %q, want status", joined.Type)
	}
	if joined.Room != "chat" {
		t.Fatalf("join frame room = %q, want chat", joined.Room)
	}
	if joined.Payload["msg"] != "net1 has entered the room." {
		t.Fatalf("join msg = %v", joined.Payload["msg"])
	}

	if err := conn.WriteJSON(map[string]any{"action": "text", "msg": "bib 42 at MM5"}); err != nil {
		t.Fatalf("send text: %v", err)
	}
	message := readEvent(t, conn)
	if message.Type != "message" {
		t.Fatalf("text frame type = %q, want message", message.Type)
	}
	if message.Payload["msg"] != "net1: bib 42 at MM5" {
		t.Fatalf("text msg = %v", message.Payload["msg"])
	}

	if err := conn.WriteJSON(map[string]any{"action": "left"}); err != nil {
		t.Fatalf("send leave: %v", err)
	}
	left := readEvent(t, conn)
	if left.Payload["msg"] != "net1 has left the room." {
		t.Fatalf("leave msg = %v", left.Payload["msg"])
	}
}

func TestRoomMessagesSkipNonMembers(t *testing.T) {
	hub := bus.NewHub()
	conn := setupSocket(t, hub, "net2")
	waitForSubscribers(t, hub)

	// Never joined the chat room, so room-scoped frames must not arrive.
	sub := hub.Subscribe(8)
	defer sub.Close()
	sub.Join("chat")
	if err := hub.Publish(context.Background(), record.ChangeEvent{
		Type:    "message",
		Room:    "chat",
		Payload: map[string]any{"msg": "net3: checking in"},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var event record.ChangeEvent
	if err := conn.ReadJSON(&event); err == nil {
		t.Fatalf("non-member received room frame: %+v", event)
	}
}
