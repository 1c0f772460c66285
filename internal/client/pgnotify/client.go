package pgnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/config"
	"github.com/s21platform/chat-client/internal/model"
)

var (
	ErrClosed          = fmt.Errorf("notify client: %w", model.ErrPushClosed)
	ErrConnectionReset = fmt.Errorf("notify connection was re-established: %w", model.ErrPushReset)
)

type subscriber struct {
	onInsert func(model.DurableMessage)
	onError  func(error)
}

// Client fans chat_messages insert notifications out to any number of subscribers.
type Client struct {
	listener     Listener
	channel      string
	pingInterval time.Duration
	logger       logger_lib.LoggerInterface

	mu     sync.Mutex
	subs   map[uint64]subscriber
	next   uint64
	closed bool
}

func New(cfg *config.Config, logger logger_lib.LoggerInterface) *Client {
	c := newClient(nil, cfg.Notify.Channel, cfg.Notify.PingInterval, logger)
	c.listener = pq.NewListener(
		cfg.PostgresDSN(),
		cfg.Notify.MinReconnectInterval,
		cfg.Notify.MaxReconnectInterval,
		c.handleEvent,
	)

	return c
}

func newClient(listener Listener, channel string, pingInterval time.Duration, logger logger_lib.LoggerInterface) *Client {
	return &Client{
		listener:     listener,
		channel:      channel,
		pingInterval: pingInterval,
		logger:       logger,
		subs:         make(map[uint64]subscriber),
	}
}

// Run listens on the channel and dispatches notifications until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	if err := c.listener.Listen(c.channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.channel, err)
	}

	c.logger.Info(fmt.Sprintf("listening on %s", c.channel))

	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	notifications := c.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return ErrClosed
			}
			if n == nil {
				c.logger.Warn("notify connection re-established")
				c.broadcastError(ErrConnectionReset)
				continue
			}
			c.dispatch(n)
		case <-ticker.C:
			if err := c.listener.Ping(); err != nil {
				c.logger.Warn(fmt.Sprintf("notify ping failed: %v", err))
			}
		}
	}
}

// Subscribe registers handlers for insert events. The returned func is idempotent.
func (c *Client) Subscribe(ctx context.Context, onInsert func(model.DurableMessage), onError func(error)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	id := c.next
	c.next++
	c.subs[id] = subscriber{onInsert: onInsert, onError: onError}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}, nil
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.snapshot()
	c.subs = make(map[uint64]subscriber)
	c.mu.Unlock()

	for _, sub := range subs {
		if sub.onError != nil {
			sub.onError(ErrClosed)
		}
	}

	if err := c.listener.Close(); err != nil {
		c.logger.Warn(fmt.Sprintf("failed to close notify listener: %v", err))
	}
}

func (c *Client) dispatch(n *pq.Notification) {
	var msg model.DurableMessage
	if err := json.Unmarshal([]byte(n.Extra), &msg); err != nil {
		c.logger.Error(fmt.Sprintf("failed to decode %s payload: %v", n.Channel, err))
		return
	}

	if msg.ID == "" {
		c.logger.Warn(fmt.Sprintf("skipping %s payload without id", n.Channel))
		return
	}

	c.mu.Lock()
	subs := c.snapshot()
	c.mu.Unlock()

	for _, sub := range subs {
		sub.onInsert(msg)
	}
}

func (c *Client) broadcastError(err error) {
	c.mu.Lock()
	subs := c.snapshot()
	c.mu.Unlock()

	for _, sub := range subs {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

// snapshot must be called with mu held.
func (c *Client) snapshot() []subscriber {
	out := make([]subscriber, 0, len(c.subs))
	for _, sub := range c.subs {
		out = append(out, sub)
	}

	return out
}

func (c *Client) handleEvent(event pq.ListenerEventType, err error) {
	switch event {
	case pq.ListenerEventConnected:
		c.logger.Info("notify listener connected")
	case pq.ListenerEventDisconnected:
		c.logger.Warn(fmt.Sprintf("notify listener disconnected: %v", err))
	case pq.ListenerEventReconnected:
		c.logger.Info("notify listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		c.logger.Error(fmt.Sprintf("notify connection attempt failed: %v", err))
	}
}
