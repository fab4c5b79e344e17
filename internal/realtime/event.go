package realtime

import (
	"encoding/json"
	"time"
)

// Event names exchanged over the realtime channel
const (
	EventJoinGroup = "joinGroup"
	EventMessage   = "message"
	EventTyping    = "typing"
	EventReaction  = "reaction"
)

// Event is the envelope for every frame on the realtime channel
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinGroupPayload is sent by a client to enter a group room
type JoinGroupPayload struct {
	GroupID string `json:"groupId"`
	Email   string `json:"email"`
}

// MessagePayload is sent by a client to post a chat message
type MessagePayload struct {
	GroupID string `json:"groupId"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MessageBroadcast is the persisted message echoed to every room member
type MessageBroadcast struct {
	GroupID   string    `json:"groupId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingPayload carries a typing indicator; relayed to other room members
type TypingPayload struct {
	GroupID  string `json:"groupId"`
	IsTyping bool   `json:"isTyping"`
	Username string `json:"username"`
}

// ReactionPayload carries an emoji reaction; relay-only, never persisted
type ReactionPayload struct {
	GroupID   string `json:"groupId"`
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
}

// unmarshalPayload decodes the envelope data into a payload struct. An empty
// body decodes to the zero payload, which field validation then drops.
func unmarshalPayload(event Event, v interface{}) error {
	if len(event.Data) == 0 {
		return nil
	}
	return json.Unmarshal(event.Data, v)
}

// newEvent wraps a payload in the event envelope. Marshal errors cannot occur
// for the fixed payload types above, so the error is swallowed here.
func newEvent(name string, payload interface{}) Event {
	data, _ := json.Marshal(payload)
	return Event{Event: name, Data: data}
}
