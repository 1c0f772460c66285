package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/model"
)

var stillLoadingNotification = model.Notification{
	Level:       model.NotificationInfo,
	Title:       "Please wait",
	Description: "Messages are still loading.",
}

type Deps struct {
	Durable   DurableStore
	Push      PushChannel
	Validator Validator
	Notifier  Notifier
	Logger    logger_lib.LoggerInterface
}

type Options struct {
	AckPolicy        AckPolicy
	ResubscribeDelay time.Duration
}

// Session owns the conversation currently open for one identity.
type Session struct {
	identity model.Identity
	deps     Deps
	opts     Options
	loader   *HistoryLoader

	mu      sync.Mutex
	current *Conversation
	closed  bool
}

func NewSession(identity model.Identity, deps Deps, opts Options) *Session {
	return &Session{
		identity: identity,
		deps:     deps,
		opts:     opts,
		loader:   NewHistoryLoader(deps.Durable, deps.Notifier, deps.Logger),
	}
}

func (s *Session) Identity() model.Identity {
	return s.identity
}

// Open closes the current conversation and opens one with peer. History loads in the background.
func (s *Session) Open(ctx context.Context, peer model.Identity) (*Conversation, error) {
	if peer.ID == s.identity.ID {
		return nil, ErrSelfConversation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrConversationClosed
	}

	if s.current != nil {
		s.current.Close()
	}

	conv := s.newConversation(peer)
	s.current = conv

	conv.listener.OnReset(func() {
		go conv.refresh(ctx)
	})
	if err := conv.listener.Start(ctx, conv.Pair(), conv.deliver); err != nil {
		s.deps.Logger.Warn(fmt.Sprintf("live updates for %s unavailable: %v", conv.Pair(), err))
	}

	go func() {
		defer close(conv.loaded)
		_ = conv.Reload(ctx)
	}()

	return conv, nil
}

func (s *Session) Current() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Close tears down the open conversation and waits for its in-flight writes.
func (s *Session) Close() {
	s.mu.Lock()
	conv := s.current
	s.current = nil
	s.closed = true
	s.mu.Unlock()

	s.loader.Invalidate()

	if conv != nil {
		conv.Close()
		conv.Wait()
	}
}

func (s *Session) newConversation(peer model.Identity) *Conversation {
	store := NewStore(model.Pair{CurrentUserID: s.identity.ID, PeerID: peer.ID})

	conv := &Conversation{
		peer:     peer,
		store:    store,
		loader:   s.loader,
		notifier: s.deps.Notifier,
		logger:   s.deps.Logger,
		coordinator: NewCoordinator(
			store,
			s.deps.Durable,
			s.deps.Validator,
			s.deps.Notifier,
			s.deps.Logger,
			s.opts.AckPolicy,
		),
		listener: NewListener(s.deps.Push, s.deps.Notifier, s.deps.Logger, s.opts.ResubscribeDelay),
		loaded:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	conv.loading.Store(true)

	return conv
}

// Conversation is the open (current user, peer) conversation.
type Conversation struct {
	peer        model.Identity
	store       *Store
	coordinator *Coordinator
	listener    *Listener
	loader      *HistoryLoader
	notifier    Notifier
	logger      logger_lib.LoggerInterface

	loading atomic.Bool
	closed  atomic.Bool
	loaded  chan struct{}
	done    chan struct{}
}

func (c *Conversation) Peer() model.Identity { return c.peer }

func (c *Conversation) Pair() model.Pair { return c.store.Pair() }

func (c *Conversation) Messages() []model.Message { return c.store.Messages() }

func (c *Conversation) Changes() <-chan struct{} { return c.store.Changes() }

func (c *Conversation) Loading() bool { return c.loading.Load() }

// Loaded is closed once the initial history load has finished, successfully or not.
func (c *Conversation) Loaded() <-chan struct{} { return c.loaded }

// Done is closed when the conversation is closed.
func (c *Conversation) Done() <-chan struct{} { return c.done }

func (c *Conversation) Send(content string) (model.MessageID, bool) {
	if c.loading.Load() {
		c.notifier.Notify(stillLoadingNotification)
		return model.MessageID{}, false
	}

	return c.coordinator.Send(content)
}

// Retry resends the failed message with the given id.
func (c *Conversation) Retry(id model.MessageID) (model.MessageID, bool) {
	msg, ok := c.store.Get(id)
	if !ok {
		return model.MessageID{}, false
	}

	return c.coordinator.Retry(msg)
}

// LastFailed returns the most recent failed message, if any.
func (c *Conversation) LastFailed() (model.Message, bool) {
	messages := c.store.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Status == model.StatusFailed {
			return messages[i], true
		}
	}

	return model.Message{}, false
}

// Reload fetches the durable history and seeds the store.
func (c *Conversation) Reload(ctx context.Context) error {
	if c.closed.Load() {
		return ErrConversationClosed
	}

	c.loading.Store(true)

	err := c.loader.Load(ctx, c.store)
	if errors.Is(err, ErrStaleHistory) {
		// a newer load owns the flag
		return err
	}
	c.loading.Store(false)

	if err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf("loaded %d messages for %s", c.store.Len(), c.Pair()))

	return nil
}

// refresh reloads history after the push channel may have missed events.
func (c *Conversation) refresh(ctx context.Context) {
	err := c.Reload(ctx)
	if err != nil && !errors.Is(err, ErrStaleHistory) && !errors.Is(err, ErrConversationClosed) {
		c.logger.Warn(fmt.Sprintf("failed to refresh %s after reset: %v", c.Pair(), err))
	}
}

// Close stops live updates and drops later write completions.
func (c *Conversation) Close() {
	if c.closed.Swap(true) {
		return
	}

	c.listener.Stop()
	c.coordinator.Close()
	close(c.done)
}

// Wait blocks until every in-flight write has completed.
func (c *Conversation) Wait() {
	c.coordinator.Wait()
}

func (c *Conversation) deliver(msg model.DurableMessage) {
	outcome := c.store.Reconcile(msg)
	if outcome == OutcomeDuplicate {
		c.logger.Info(fmt.Sprintf("ignoring duplicate event %s", msg.ID))
	}
}
