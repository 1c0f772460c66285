package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/model"
)

const defaultResubscribeDelay = 2 * time.Second

const (
	metricPublished = "relay_publish_ok"
	metricFailed    = "relay_publish_failed"
	metricReset     = "relay_stream_reset"
	metricDropped   = "relay_stream_dropped"
)

// Relay republishes every inserted message to the personal channels of both participants.
type Relay struct {
	push      PushChannel
	publisher Publisher
	metrics   Metrics
	logger    logger_lib.LoggerInterface
	delay     time.Duration
}

func New(push PushChannel, publisher Publisher, metrics Metrics, logger logger_lib.LoggerInterface, resubscribeDelay time.Duration) *Relay {
	if resubscribeDelay <= 0 {
		resubscribeDelay = defaultResubscribeDelay
	}

	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Relay{
		push:      push,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		delay:     resubscribeDelay,
	}
}

// Run keeps a subscription open until ctx is done, resubscribing after every drop.
// It fails once the push channel is closed for good.
func (r *Relay) Run(ctx context.Context) error {
	for {
		err := r.follow(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if errors.Is(err, model.ErrPushClosed) {
			return fmt.Errorf("failed to relay inserts: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.delay):
		}
	}
}

// follow holds one subscription until it drops or ctx is done.
func (r *Relay) follow(ctx context.Context) error {
	dropped := make(chan error, 4)

	unsubscribe, err := r.push.Subscribe(ctx, func(msg model.DurableMessage) {
		r.forward(ctx, msg)
	}, func(err error) {
		select {
		case dropped <- err:
		default:
		}
	})
	if err != nil {
		r.logger.Error(fmt.Sprintf("failed to subscribe to inserts: %v", err))
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-dropped:
			if errors.Is(err, model.ErrPushReset) {
				// still subscribed; inserts during the outage are not replayed
				r.metrics.Increment(metricReset)
				r.logger.Warn(fmt.Sprintf("insert stream reset: %v", err))
				continue
			}

			r.metrics.Increment(metricDropped)
			r.logger.Warn(fmt.Sprintf("insert subscription dropped: %v", err))
			return err
		}
	}
}

func (r *Relay) forward(ctx context.Context, msg model.DurableMessage) {
	for _, channel := range Channels(msg) {
		if err := r.publisher.Publish(ctx, channel, msg); err != nil {
			r.metrics.Increment(metricFailed)
			r.logger.Error(fmt.Sprintf("failed to publish message %s to %s: %v", msg.ID, channel, err))
			continue
		}

		r.metrics.Increment(metricPublished)
	}
}

// Channels lists the personal channels a message is published to.
func Channels(msg model.DurableMessage) []string {
	if msg.SenderID == msg.RecipientID {
		return []string{model.PersonalChannel(msg.SenderID)}
	}

	return []string{
		model.PersonalChannel(msg.SenderID),
		model.PersonalChannel(msg.RecipientID),
	}
}

type nopMetrics struct{}

func (nopMetrics) Increment(string) {}
