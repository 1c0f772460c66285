package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusNone    Status = ""
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

type idKind uint8

const (
	provisionalID idKind = iota + 1
	durableID
)

// MessageID is either a locally generated provisional id or a backend assigned durable id.
// Ids from different universes never compare equal.
type MessageID struct {
	kind  idKind
	value string
}

func Provisional(value string) MessageID {
	return MessageID{kind: provisionalID, value: value}
}

func Durable(value string) MessageID {
	return MessageID{kind: durableID, value: value}
}

func (id MessageID) IsProvisional() bool { return id.kind == provisionalID }

func (id MessageID) IsDurable() bool { return id.kind == durableID }

func (id MessageID) IsZero() bool { return id.kind == 0 }

func (id MessageID) Value() string { return id.value }

func (id MessageID) String() string {
	switch id.kind {
	case provisionalID:
		return "tmp:" + id.value
	case durableID:
		return id.value
	default:
		return ""
	}
}

type Message struct {
	ID          MessageID
	SenderID    string
	RecipientID string
	Content     string
	Timestamp   time.Time
	Status      Status
}

// DurableMessage is a persisted row of chat_messages, also the payload of insert events.
type DurableMessage struct {
	ID          string    `db:"id" json:"id"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Content     string    `db:"content" json:"content"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
}

// NewMessage holds the fields sent to the durable store on write.
type NewMessage struct {
	SenderID    string `db:"sender_id" json:"sender_id"`
	RecipientID string `db:"recipient_id" json:"recipient_id"`
	Content     string `db:"content" json:"content"`
}

// SameKey reports whether a local entry and a durable message describe the same send.
// Timestamps are not compared: the backend assigns its own.
func (m Message) SameKey(d DurableMessage) bool {
	return m.SenderID == d.SenderID &&
		m.RecipientID == d.RecipientID &&
		strings.TrimSpace(m.Content) == strings.TrimSpace(d.Content)
}

// Pair identifies an open conversation.
type Pair struct {
	CurrentUserID string
	PeerID        string
}

func (p Pair) Contains(senderID, recipientID string) bool {
	return (senderID == p.CurrentUserID && recipientID == p.PeerID) ||
		(senderID == p.PeerID && recipientID == p.CurrentUserID)
}

func (p Pair) String() string {
	return p.CurrentUserID + "<->" + p.PeerID
}
