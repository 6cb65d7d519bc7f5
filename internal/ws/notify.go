package ws

import (
	"encoding/json"
	"time"

	"cinda/internal/domain/mentorship"
)

const EventMessageSent = "mentorship_message"

type MessageEvent struct {
	Type         string             `json:"type"`
	MentorshipID string             `json:"mentorshipId"`
	Message      mentorship.Message `json:"message"`
	Timestamp    string             `json:"timestamp"`
}

// Notifier publishes mentorship events to the hub rooms.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) MessageSent(mentorshipID string, msg mentorship.Message) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(MessageEvent{
		Type:         EventMessageSent,
		MentorshipID: mentorshipID,
		Message:      msg,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.hub.logger.Error("encode message event", "error", err)
		return
	}
	n.hub.Broadcast(mentorshipID, b)
}
