package realtime

import (
	"context"

	"taskhive/internal/metrics"
	"taskhive/internal/models"

	"github.com/sirupsen/logrus"
)

// MessageStore persists chat messages. The returned message carries the
// server-assigned id and timestamp.
type MessageStore interface {
	SaveMessage(ctx context.Context, groupID, username, text string) (models.Message, error)
}

// Hub routes realtime events between connected clients. Delivery is
// best-effort: events with missing required fields are dropped with a log
// line, and no error is ever sent back to the originating client.
//
// One hub instance exists per process. The room registry is owned by the hub
// and populated on join, pruned on disconnect.
type Hub struct {
	registry *Registry
	store    MessageStore
}

// NewHub creates a hub persisting messages through the given store
func NewHub(store MessageStore) *Hub {
	return &Hub{
		registry: NewRegistry(),
		store:    store,
	}
}

// HandleEvent dispatches one inbound event from a client. Events for a single
// connection arrive serially from its read loop; events from different
// connections may interleave.
func (h *Hub) HandleEvent(ctx context.Context, client *Client, event Event) {
	switch event.Event {
	case EventJoinGroup:
		var payload JoinGroupPayload
		if err := unmarshalPayload(event, &payload); err != nil {
			logrus.Warnf("Malformed %s payload from %s: %v", event.Event, client.id, err)
			metrics.EventsDropped.WithLabelValues("malformed").Inc()
			return
		}
		h.handleJoin(client, payload)
	case EventMessage:
		var payload MessagePayload
		if err := unmarshalPayload(event, &payload); err != nil {
			logrus.Warnf("Malformed %s payload from %s: %v", event.Event, client.id, err)
			metrics.EventsDropped.WithLabelValues("malformed").Inc()
			return
		}
		h.handleMessage(ctx, client, payload)
	case EventTyping:
		var payload TypingPayload
		if err := unmarshalPayload(event, &payload); err != nil {
			logrus.Warnf("Malformed %s payload from %s: %v", event.Event, client.id, err)
			metrics.EventsDropped.WithLabelValues("malformed").Inc()
			return
		}
		h.handleTyping(client, payload)
	case EventReaction:
		var payload ReactionPayload
		if err := unmarshalPayload(event, &payload); err != nil {
			logrus.Warnf("Malformed %s payload from %s: %v", event.Event, client.id, err)
			metrics.EventsDropped.WithLabelValues("malformed").Inc()
			return
		}
		h.handleReaction(client, payload)
	default:
		logrus.Warnf("Unknown event %q from %s", event.Event, client.id)
		metrics.EventsDropped.WithLabelValues("unknown_event").Inc()
	}
}

// handleJoin adds the client to the room named by the group id
func (h *Hub) handleJoin(client *Client, payload JoinGroupPayload) {
	if payload.GroupID == "" || payload.Email == "" {
		logrus.Warn("Missing groupId or email in joinGroup event")
		metrics.EventsDropped.WithLabelValues("validation").Inc()
		return
	}

	h.registry.Join(payload.GroupID, client)
	logrus.Infof("User %s joined group %s", payload.Email, payload.GroupID)
}

// handleMessage persists the message and fans it out to every room member,
// including the sender. On a store failure the message is silently lost from
// the client's perspective.
func (h *Hub) handleMessage(ctx context.Context, client *Client, payload MessagePayload) {
	if payload.GroupID == "" || payload.Email == "" || payload.Message == "" {
		logrus.Warn("Invalid message event: groupId, email, and message are required")
		metrics.EventsDropped.WithLabelValues("validation").Inc()
		return
	}

	saved, err := h.store.SaveMessage(ctx, payload.GroupID, payload.Email, payload.Message)
	if err != nil {
		logrus.Errorf("Failed to save message for group %s: %v", payload.GroupID, err)
		metrics.EventsDropped.WithLabelValues("store_error").Inc()
		return
	}

	broadcast := newEvent(EventMessage, MessageBroadcast{
		GroupID:   saved.GroupID,
		Username:  saved.Username,
		Message:   saved.Message,
		Timestamp: saved.Timestamp,
	})

	for _, member := range h.registry.Members(payload.GroupID) {
		member.deliver(broadcast)
	}
	metrics.MessagesBroadcast.Inc()
}

// handleTyping relays the typing flag to every other room member
func (h *Hub) handleTyping(client *Client, payload TypingPayload) {
	if payload.GroupID == "" || payload.Username == "" {
		logrus.Warn("Missing groupId or username in typing event")
		metrics.EventsDropped.WithLabelValues("validation").Inc()
		return
	}

	event := newEvent(EventTyping, payload)
	for _, member := range h.registry.Members(payload.GroupID) {
		if member == client {
			continue
		}
		member.deliver(event)
	}
}

// handleReaction relays an emoji reaction to every other room member. There
// is no server-side persistence; reactions do not survive a reload.
func (h *Hub) handleReaction(client *Client, payload ReactionPayload) {
	if payload.GroupID == "" || payload.MessageID == "" {
		logrus.Warn("Missing groupId or messageId in reaction event")
		metrics.EventsDropped.WithLabelValues("validation").Inc()
		return
	}

	event := newEvent(EventReaction, payload)
	for _, member := range h.registry.Members(payload.GroupID) {
		if member == client {
			continue
		}
		member.deliver(event)
	}
}

// Disconnect removes the client from every room it joined. Other room
// members are not notified.
func (h *Hub) Disconnect(client *Client) {
	h.registry.Remove(client)
	logrus.Infof("User disconnected: %s", client.id)
}
