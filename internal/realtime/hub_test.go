package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"taskhive/internal/models"
)

type fakeMessageStore struct {
	saved []models.Message
	err   error
}

func (s *fakeMessageStore) SaveMessage(ctx context.Context, groupID, username, text string) (models.Message, error) {
	if s.err != nil {
		return models.Message{}, s.err
	}
	message := models.Message{
		GroupID:   groupID,
		Username:  username,
		Message:   text,
		Timestamp: time.Now(),
	}
	s.saved = append(s.saved, message)
	return message, nil
}

func newTestClient(id string) *Client {
	return &Client{
		id:   id,
		send: make(chan Event, sendBufferSize),
		done: make(chan struct{}),
	}
}

func makeEvent(t *testing.T, name string, payload interface{}) Event {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return Event{Event: name, Data: data}
}

func drainEvents(client *Client) []Event {
	var events []Event
	for {
		select {
		case event := <-client.send:
			events = append(events, event)
		default:
			return events
		}
	}
}

func joinGroup(t *testing.T, hub *Hub, client *Client, groupID, email string) {
	t.Helper()
	hub.HandleEvent(context.Background(), client, makeEvent(t, EventJoinGroup, JoinGroupPayload{
		GroupID: groupID,
		Email:   email,
	}))
}

func TestMessageBroadcastIncludesSender(t *testing.T) {
	store := &fakeMessageStore{}
	hub := NewHub(store)

	a := newTestClient("a")
	b := newTestClient("b")
	c := newTestClient("c")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, b, "g1", "b@example.com")
	joinGroup(t, hub, c, "g1", "c@example.com")

	hub.HandleEvent(context.Background(), a, makeEvent(t, EventMessage, MessagePayload{
		GroupID: "g1",
		Email:   "a@example.com",
		Message: "hi",
	}))

	if len(store.saved) != 1 {
		t.Fatalf("Expected 1 persisted message, got %d", len(store.saved))
	}

	for _, client := range []*Client{a, b, c} {
		events := drainEvents(client)
		if len(events) != 1 {
			t.Fatalf("Expected exactly 1 event for %s, got %d", client.id, len(events))
		}
		if events[0].Event != EventMessage {
			t.Errorf("Expected %s event, got %s", EventMessage, events[0].Event)
		}

		var broadcast MessageBroadcast
		if err := json.Unmarshal(events[0].Data, &broadcast); err != nil {
			t.Fatalf("Failed to decode broadcast: %v", err)
		}
		if broadcast.GroupID != "g1" || broadcast.Username != "a@example.com" || broadcast.Message != "hi" {
			t.Errorf("Unexpected broadcast payload: %+v", broadcast)
		}
		if broadcast.Timestamp.IsZero() {
			t.Error("Expected a server-assigned timestamp")
		}
	}
}

func TestDoubleJoinDeliversOnce(t *testing.T) {
	hub := NewHub(&fakeMessageStore{})

	a := newTestClient("a")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, a, "g1", "a@example.com")

	hub.HandleEvent(context.Background(), a, makeEvent(t, EventMessage, MessagePayload{
		GroupID: "g1",
		Email:   "a@example.com",
		Message: "hello",
	}))

	if events := drainEvents(a); len(events) != 1 {
		t.Errorf("Expected exactly 1 delivery after double join, got %d", len(events))
	}
}

func TestTypingExcludesSender(t *testing.T) {
	hub := NewHub(&fakeMessageStore{})

	a := newTestClient("a")
	b := newTestClient("b")
	c := newTestClient("c")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, b, "g1", "b@example.com")
	joinGroup(t, hub, c, "g1", "c@example.com")

	hub.HandleEvent(context.Background(), a, makeEvent(t, EventTyping, TypingPayload{
		GroupID:  "g1",
		IsTyping: true,
		Username: "a@example.com",
	}))

	if events := drainEvents(a); len(events) != 0 {
		t.Errorf("Sender should not receive its own typing event, got %d", len(events))
	}
	for _, client := range []*Client{b, c} {
		events := drainEvents(client)
		if len(events) != 1 {
			t.Fatalf("Expected 1 typing event for %s, got %d", client.id, len(events))
		}

		var payload TypingPayload
		if err := json.Unmarshal(events[0].Data, &payload); err != nil {
			t.Fatalf("Failed to decode typing payload: %v", err)
		}
		if !payload.IsTyping || payload.Username != "a@example.com" {
			t.Errorf("Unexpected typing payload: %+v", payload)
		}
	}
}

func TestInvalidMessageDropped(t *testing.T) {
	store := &fakeMessageStore{}
	hub := NewHub(store)

	a := newTestClient("a")
	b := newTestClient("b")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, b, "g1", "b@example.com")

	// Missing groupId
	hub.HandleEvent(context.Background(), a, makeEvent(t, EventMessage, MessagePayload{
		Email:   "a@example.com",
		Message: "hi",
	}))
	// Missing message text
	hub.HandleEvent(context.Background(), a, makeEvent(t, EventMessage, MessagePayload{
		GroupID: "g1",
		Email:   "a@example.com",
	}))

	if len(store.saved) != 0 {
		t.Errorf("Expected no persisted messages, got %d", len(store.saved))
	}
	if events := drainEvents(a); len(events) != 0 {
		t.Errorf("Expected no broadcasts, got %d", len(events))
	}
	if events := drainEvents(b); len(events) != 0 {
		t.Errorf("Expected no broadcasts, got %d", len(events))
	}
}

func TestStoreFailureSuppressesBroadcast(t *testing.T) {
	store := &fakeMessageStore{err: errors.New("connection reset")}
	hub := NewHub(store)

	a := newTestClient("a")
	b := newTestClient("b")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, b, "g1", "b@example.com")

	hub.HandleEvent(context.Background(), a, makeEvent(t, EventMessage, MessagePayload{
		GroupID: "g1",
		Email:   "a@example.com",
		Message: "hi",
	}))

	if events := drainEvents(a); len(events) != 0 {
		t.Errorf("Expected no delivery to sender on store failure, got %d", len(events))
	}
	if events := drainEvents(b); len(events) != 0 {
		t.Errorf("Expected no delivery to room on store failure, got %d", len(events))
	}
}

func TestReactionRelayedToOthersOnly(t *testing.T) {
	hub := NewHub(&fakeMessageStore{})

	a := newTestClient("a")
	b := newTestClient("b")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, b, "g1", "b@example.com")

	hub.HandleEvent(context.Background(), a, makeEvent(t, EventReaction, ReactionPayload{
		GroupID:   "g1",
		MessageID: "m1",
		Emoji:     "👍",
	}))

	if events := drainEvents(a); len(events) != 0 {
		t.Errorf("Sender should not receive its own reaction, got %d", len(events))
	}

	events := drainEvents(b)
	if len(events) != 1 {
		t.Fatalf("Expected 1 reaction event, got %d", len(events))
	}
	var payload ReactionPayload
	if err := json.Unmarshal(events[0].Data, &payload); err != nil {
		t.Fatalf("Failed to decode reaction payload: %v", err)
	}
	if payload.MessageID != "m1" || payload.Emoji != "👍" {
		t.Errorf("Unexpected reaction payload: %+v", payload)
	}
}

func TestJoinValidation(t *testing.T) {
	hub := NewHub(&fakeMessageStore{})

	a := newTestClient("a")
	hub.HandleEvent(context.Background(), a, makeEvent(t, EventJoinGroup, JoinGroupPayload{GroupID: "g1"}))
	hub.HandleEvent(context.Background(), a, makeEvent(t, EventJoinGroup, JoinGroupPayload{Email: "a@example.com"}))

	if count := hub.registry.RoomCount(); count != 0 {
		t.Errorf("Expected no rooms after invalid joins, got %d", count)
	}
}

func TestDisconnectStopsDelivery(t *testing.T) {
	hub := NewHub(&fakeMessageStore{})

	a := newTestClient("a")
	b := newTestClient("b")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, b, "g1", "b@example.com")

	hub.Disconnect(b)

	hub.HandleEvent(context.Background(), a, makeEvent(t, EventMessage, MessagePayload{
		GroupID: "g1",
		Email:   "a@example.com",
		Message: "hi",
	}))

	if events := drainEvents(b); len(events) != 0 {
		t.Errorf("Disconnected client should receive nothing, got %d", len(events))
	}
	if events := drainEvents(a); len(events) != 1 {
		t.Errorf("Remaining member should still receive the message, got %d", len(events))
	}
}

func TestJoinMultipleRooms(t *testing.T) {
	hub := NewHub(&fakeMessageStore{})

	a := newTestClient("a")
	b := newTestClient("b")
	joinGroup(t, hub, a, "g1", "a@example.com")
	joinGroup(t, hub, a, "g2", "a@example.com")
	joinGroup(t, hub, b, "g2", "b@example.com")

	hub.HandleEvent(context.Background(), b, makeEvent(t, EventMessage, MessagePayload{
		GroupID: "g2",
		Email:   "b@example.com",
		Message: "second room",
	}))

	if events := drainEvents(a); len(events) != 1 {
		t.Errorf("Expected delivery via second room, got %d events", len(events))
	}
}
