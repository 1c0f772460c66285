package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/model"
)

// AckPolicy decides when a successful write turns a message into sent.
type AckPolicy int

const (
	// AckOnEcho waits for the push channel to deliver the inserted row.
	AckOnEcho AckPolicy = iota
	// AckOnWrite marks the message sent as soon as the insert returns.
	AckOnWrite
)

func ParseAckPolicy(raw string) (AckPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "echo":
		return AckOnEcho, nil
	case "write":
		return AckOnWrite, nil
	default:
		return AckOnEcho, fmt.Errorf("unsupported ack policy: %s", raw)
	}
}

var (
	sendFailedNotification = model.Notification{
		Level:       model.NotificationError,
		Title:       "Error",
		Description: "Failed to send message. You can try again.",
	}
	resendFailedNotification = model.Notification{
		Level:       model.NotificationError,
		Title:       "Error",
		Description: "Failed to resend message. You can try again.",
	}
)

// Coordinator drives outgoing messages of one conversation through optimistic append,
// remote write and terminal status.
type Coordinator struct {
	store     *Store
	durable   DurableStore
	validator Validator
	notifier  Notifier
	logger    logger_lib.LoggerInterface
	policy    AckPolicy

	newID func() string
	now   func() time.Time

	wg     sync.WaitGroup
	closed atomic.Bool
}

func NewCoordinator(
	store *Store,
	durable DurableStore,
	validator Validator,
	notifier Notifier,
	logger logger_lib.LoggerInterface,
	policy AckPolicy,
) *Coordinator {
	return &Coordinator{
		store:     store,
		durable:   durable,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		policy:    policy,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Send appends a sending message and writes it in the background.
// It returns false when the content is empty or the coordinator is closed.
func (c *Coordinator) Send(content string) (model.MessageID, bool) {
	return c.send(content, sendFailedNotification)
}

// Retry discards a failed message and sends its content again under a new provisional id.
func (c *Coordinator) Retry(failed model.Message) (model.MessageID, bool) {
	current, ok := c.store.Get(failed.ID)
	if !ok {
		c.logger.Warn(fmt.Sprintf("retry of unknown message %s", failed.ID))
		return model.MessageID{}, false
	}

	if current.Status != model.StatusFailed {
		c.logger.Warn(fmt.Sprintf("retry of message %s in status %q", failed.ID, current.Status))
		return model.MessageID{}, false
	}

	if c.closed.Load() {
		return model.MessageID{}, false
	}

	if !c.store.Remove(current.ID) {
		c.logger.Warn(fmt.Sprintf("message %s was already retried", failed.ID))
		return model.MessageID{}, false
	}

	return c.send(current.Content, resendFailedNotification)
}

// Close stops applying write completions. In-flight writes still finish.
func (c *Coordinator) Close() {
	c.closed.Store(true)
}

// Wait blocks until every in-flight write has completed.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) send(content string, onFailure model.Notification) (model.MessageID, bool) {
	text, err := c.validator.ValidateContent(content)
	if err != nil {
		return model.MessageID{}, false
	}

	if c.closed.Load() {
		c.logger.Warn("send on closed conversation")
		return model.MessageID{}, false
	}

	pair := c.store.Pair()
	msg := model.Message{
		ID:          model.Provisional(c.newID()),
		SenderID:    pair.CurrentUserID,
		RecipientID: pair.PeerID,
		Content:     text,
		Timestamp:   c.now(),
		Status:      model.StatusSending,
	}
	c.store.Append(msg)

	c.wg.Add(1)
	go c.write(msg, onFailure)

	return msg.ID, true
}

func (c *Coordinator) write(msg model.Message, onFailure model.Notification) {
	defer c.wg.Done()

	err := c.durable.InsertMessage(context.Background(), model.NewMessage{
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Content:     msg.Content,
	})

	if c.closed.Load() {
		c.logger.Info(fmt.Sprintf("dropping late write completion of %s", msg.ID))
		return
	}

	if err != nil {
		storeErr := &StoreError{Op: OpInsert, Err: err}
		c.logger.Error(fmt.Sprintf("failed to send message %s: %v", msg.ID, storeErr))

		if err := c.store.UpdateStatus(msg.ID, model.StatusFailed); err != nil {
			// The echo can win the race against a write reported as failed.
			c.logger.Warn(fmt.Sprintf("failed to mark message %s failed: %v", msg.ID, err))
			return
		}

		c.notifier.Notify(onFailure)
		return
	}

	if c.policy != AckOnWrite {
		return
	}

	if err := c.store.UpdateStatus(msg.ID, model.StatusSent); err != nil && !errors.Is(err, ErrMessageNotFound) {
		c.logger.Warn(fmt.Sprintf("failed to mark message %s sent: %v", msg.ID, err))
	}
}
