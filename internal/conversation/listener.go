package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/model"
)

const defaultResubscribeDelay = 2 * time.Second

var (
	subscriptionLostNotification = model.Notification{
		Level:       model.NotificationError,
		Title:       "Connection lost",
		Description: "Live updates were interrupted. Reconnecting...",
	}
	subscriptionResetNotification = model.Notification{
		Level:       model.NotificationInfo,
		Title:       "Reconnected",
		Description: "Live updates were briefly interrupted. Refreshing messages...",
	}
	subscriptionClosedNotification = model.Notification{
		Level:       model.NotificationError,
		Title:       "Connection closed",
		Description: "Live updates are no longer available.",
	}
)

// Listener keeps one push subscription for an open conversation and forwards member events.
type Listener struct {
	push     PushChannel
	notifier Notifier
	logger   logger_lib.LoggerInterface
	delay    time.Duration

	// deliverMu is held while an event is delivered so Stop can wait for it.
	deliverMu sync.Mutex

	mu            sync.Mutex
	pair          model.Pair
	deliver       func(model.DurableMessage)
	onReset       func()
	unsubscribe   func()
	cancel        context.CancelFunc
	started       bool
	stopped       bool
	resubscribing bool
}

func NewListener(push PushChannel, notifier Notifier, logger logger_lib.LoggerInterface, resubscribeDelay time.Duration) *Listener {
	if resubscribeDelay <= 0 {
		resubscribeDelay = defaultResubscribeDelay
	}

	return &Listener{
		push:     push,
		notifier: notifier,
		logger:   logger,
		delay:    resubscribeDelay,
	}
}

// OnReset registers fn to run when the push channel reports that events may have been
// missed while the subscription stayed open. It must be called before Start.
func (l *Listener) OnReset(fn func()) {
	l.mu.Lock()
	l.onReset = fn
	l.mu.Unlock()
}

// Start subscribes for pair. When the first attempt fails the error is returned and
// resubscription continues in the background until Stop.
func (l *Listener) Start(ctx context.Context, pair model.Pair, deliver func(model.DurableMessage)) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("listener for %s already started", l.pair)
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.pair = pair
	l.deliver = deliver
	l.started = true
	l.mu.Unlock()

	if err := l.subscribe(ctx); err != nil {
		if !errors.Is(err, model.ErrPushClosed) {
			l.scheduleResubscribe(ctx)
		}
		return err
	}

	return nil
}

// Stop unsubscribes. No event is delivered after Stop returns.
func (l *Listener) Stop() {
	l.deliverMu.Lock()
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.deliverMu.Unlock()
		return
	}
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
	}
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()
	l.deliverMu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (l *Listener) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.stopped
}

func (l *Listener) subscribe(ctx context.Context) error {
	unsubscribe, err := l.push.Subscribe(ctx, l.handleInsert, func(err error) {
		l.handleError(ctx, err)
	})
	if err != nil {
		subErr := &SubscriptionError{Err: err}
		l.logger.Error(fmt.Sprintf("failed to subscribe for %s: %v", l.pair, subErr))
		return subErr
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		unsubscribe()
		return ErrConversationClosed
	}
	previous := l.unsubscribe
	l.unsubscribe = unsubscribe
	l.mu.Unlock()

	if previous != nil {
		previous()
	}

	l.logger.Info(fmt.Sprintf("subscribed to inserts for %s", l.pair))

	return nil
}

func (l *Listener) handleInsert(msg model.DurableMessage) {
	if !l.pair.Contains(msg.SenderID, msg.RecipientID) {
		return
	}

	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	if l.isStopped() {
		return
	}

	l.deliver(msg)
}

func (l *Listener) handleError(ctx context.Context, err error) {
	if errors.Is(err, model.ErrPushReset) {
		l.handleReset(err)
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	l.logger.Error(fmt.Sprintf("subscription for %s dropped: %v", l.pair, &SubscriptionError{Err: err}))

	if errors.Is(err, model.ErrPushClosed) {
		l.notifier.Notify(subscriptionClosedNotification)
		return
	}

	l.notifier.Notify(subscriptionLostNotification)
	l.scheduleResubscribe(ctx)
}

// handleReset keeps the subscription: it is already receiving again.
func (l *Listener) handleReset(err error) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	onReset := l.onReset
	l.mu.Unlock()

	l.logger.Warn(fmt.Sprintf("subscription for %s was reset: %v", l.pair, err))
	l.notifier.Notify(subscriptionResetNotification)

	if onReset != nil {
		onReset()
	}
}

// scheduleResubscribe starts at most one background resubscription loop.
func (l *Listener) scheduleResubscribe(ctx context.Context) {
	l.mu.Lock()
	if l.stopped || l.resubscribing {
		l.mu.Unlock()
		return
	}
	l.resubscribing = true
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			l.resubscribing = false
			l.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.delay):
			}

			err := l.subscribe(ctx)
			if err == nil || errors.Is(err, ErrConversationClosed) || errors.Is(err, model.ErrPushClosed) {
				return
			}
		}
	}()
}
