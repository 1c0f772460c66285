package conversation

import "github.com/s21platform/chat-client/internal/model"

type Outcome int

const (
	// OutcomeDuplicate means the durable id was already in the list.
	OutcomeDuplicate Outcome = iota
	// OutcomeConfirmed means a local provisional entry took over the durable id.
	OutcomeConfirmed
	// OutcomeAppended means no local entry matched and the message was added at the end.
	OutcomeAppended
	// OutcomeForeign means the message does not belong to the conversation.
	OutcomeForeign
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeAppended:
		return "appended"
	case OutcomeForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Reconcile merges a durably confirmed message into list and returns the new list.
// list is never modified. The oldest unconfirmed local entry with the same sender,
// recipient and trimmed content is confirmed; otherwise the message is appended.
func Reconcile(list []model.Message, incoming model.DurableMessage, localUserID string) ([]model.Message, Outcome) {
	durable := model.Durable(incoming.ID)

	match := -1
	for i, msg := range list {
		if msg.ID == durable {
			return list, OutcomeDuplicate
		}

		if match < 0 && awaitsEcho(msg, localUserID) && msg.SameKey(incoming) {
			match = i
		}
	}

	out := make([]model.Message, len(list), len(list)+1)
	copy(out, list)

	if match >= 0 {
		confirmed := out[match]
		confirmed.ID = durable
		confirmed.Timestamp = incoming.Timestamp
		confirmed.Status = model.StatusSent
		out[match] = confirmed

		return out, OutcomeConfirmed
	}

	return append(out, fromDurable(incoming, model.StatusNone)), OutcomeAppended
}

// awaitsEcho reports whether msg is a local send that has not been matched to a durable row yet.
// A provisional entry may already be sent when acknowledged on write.
func awaitsEcho(msg model.Message, localUserID string) bool {
	if !msg.ID.IsProvisional() || msg.SenderID != localUserID {
		return false
	}

	return msg.Status == model.StatusSending || msg.Status == model.StatusSent
}

func fromDurable(d model.DurableMessage, status model.Status) model.Message {
	return model.Message{
		ID:          model.Durable(d.ID),
		SenderID:    d.SenderID,
		RecipientID: d.RecipientID,
		Content:     d.Content,
		Timestamp:   d.Timestamp,
		Status:      status,
	}
}
