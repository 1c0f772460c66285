package conversation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/model"
)

var loadFailedNotification = model.Notification{
	Level:       model.NotificationError,
	Title:       "Error",
	Description: "Failed to load messages. Please try again.",
}

// HistoryLoader seeds stores with durable history. Only the most recent Load may seed.
type HistoryLoader struct {
	durable  DurableStore
	notifier Notifier
	logger   logger_lib.LoggerInterface

	mu         sync.Mutex
	generation uint64
}

func NewHistoryLoader(durable DurableStore, notifier Notifier, logger logger_lib.LoggerInterface) *HistoryLoader {
	return &HistoryLoader{
		durable:  durable,
		notifier: notifier,
		logger:   logger,
	}
}

func (l *HistoryLoader) Load(ctx context.Context, store *Store) error {
	pair := store.Pair()
	generation := l.begin()

	rows, err := l.durable.QueryConversation(ctx, pair)
	if !l.isCurrent(generation) {
		l.logger.Info(fmt.Sprintf("discarding stale history of %s", pair))
		return ErrStaleHistory
	}

	if err != nil {
		storeErr := &StoreError{Op: OpQuery, Err: err}
		l.logger.Error(fmt.Sprintf("failed to fetch messages of %s: %v", pair, storeErr))
		l.notifier.Notify(loadFailedNotification)
		return storeErr
	}

	store.Seed(Normalize(rows, pair))

	return nil
}

func (l *HistoryLoader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++

	return l.generation
}

// Invalidate makes every running Load stale.
func (l *HistoryLoader) Invalidate() {
	l.begin()
}

func (l *HistoryLoader) isCurrent(generation uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.generation == generation
}

// Normalize keeps the pair's rows, orders them by timestamp and marks the local user's rows sent.
func Normalize(rows []model.DurableMessage, pair model.Pair) []model.Message {
	out := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		if !pair.Contains(row.SenderID, row.RecipientID) {
			continue
		}

		status := model.StatusNone
		if row.SenderID == pair.CurrentUserID {
			status = model.StatusSent
		}

		out = append(out, fromDurable(row, status))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out
}
