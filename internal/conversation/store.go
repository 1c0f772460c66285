package conversation

import (
	"sort"
	"sync"

	"github.com/s21platform/chat-client/internal/model"
)

// Store holds the ordered message list of one conversation. It is the only owner of the list.
type Store struct {
	pair model.Pair

	mu       sync.RWMutex
	messages []model.Message
	changes  chan struct{}
}

func NewStore(pair model.Pair) *Store {
	return &Store{
		pair:    pair,
		changes: make(chan struct{}, 1),
	}
}

func (s *Store) Pair() model.Pair {
	return s.pair
}

// Changes signals after every mutation. Signals are coalesced: a reader that falls behind sees one.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Messages returns a copy of the current list.
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)

	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}

func (s *Store) Get(id model.MessageID) (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.messages[i], true
	}

	return model.Message{}, false
}

// Seed installs history sorted by timestamp. Entries already in the list that the history
// does not contain (in-flight sends, live arrivals) are kept after it, except local sends
// whose durable row the history already carries: those are represented by that row.
func (s *Store) Seed(history []model.Message) {
	seeded := make([]model.Message, len(history))
	copy(seeded, history)
	sort.SliceStable(seeded, func(i, j int) bool {
		return seeded[i].Timestamp.Before(seeded[j].Timestamp)
	})

	known := make(map[model.MessageID]struct{}, len(seeded))
	for _, msg := range seeded {
		known[msg.ID] = struct{}{}
	}

	s.mu.Lock()
	// a history row the list already holds cannot confirm another entry
	claimed := make([]bool, len(seeded))
	present := make(map[model.MessageID]struct{}, len(s.messages))
	for _, msg := range s.messages {
		present[msg.ID] = struct{}{}
	}
	for i, msg := range seeded {
		if _, ok := present[msg.ID]; ok {
			claimed[i] = true
		}
	}

	history = seeded
	for _, msg := range s.messages {
		if _, ok := known[msg.ID]; ok {
			continue
		}

		if i := echoInHistory(history, claimed, msg, s.pair.CurrentUserID); i >= 0 {
			claimed[i] = true
			continue
		}

		seeded = append(seeded, msg)
	}
	s.messages = seeded
	s.mu.Unlock()

	s.notify()
}

// echoInHistory returns the oldest unclaimed history row that confirms the local send msg, or -1.
func echoInHistory(history []model.Message, claimed []bool, msg model.Message, localUserID string) int {
	if !awaitsEcho(msg, localUserID) {
		return -1
	}

	for i, row := range history {
		if claimed[i] || !row.ID.IsDurable() {
			continue
		}

		if msg.SameKey(model.DurableMessage{
			SenderID:    row.SenderID,
			RecipientID: row.RecipientID,
			Content:     row.Content,
		}) {
			return i
		}
	}

	return -1
}

func (s *Store) Append(msg model.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.notify()
}

// UpdateStatus moves a sending entry to sent or failed.
func (s *Store) UpdateStatus(id model.MessageID, status model.Status) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrMessageNotFound
	}

	if !validTransition(s.messages[i].Status, status) {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	s.messages[i].Status = status
	s.mu.Unlock()

	s.notify()

	return nil
}

func (s *Store) Reconcile(incoming model.DurableMessage) Outcome {
	if !s.pair.Contains(incoming.SenderID, incoming.RecipientID) {
		return OutcomeForeign
	}

	s.mu.Lock()
	var outcome Outcome
	s.messages, outcome = Reconcile(s.messages, incoming, s.pair.CurrentUserID)
	s.mu.Unlock()

	if outcome != OutcomeDuplicate {
		s.notify()
	}

	return outcome
}

func (s *Store) Remove(id model.MessageID) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	s.messages = append(s.messages[:i:i], s.messages[i+1:]...)
	s.mu.Unlock()

	s.notify()

	return true
}

func (s *Store) indexOf(id model.MessageID) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}

	return -1
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func validTransition(from, to model.Status) bool {
	return from == model.StatusSending && (to == model.StatusSent || to == model.StatusFailed)
}
