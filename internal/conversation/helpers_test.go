package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-client/internal/model"
)

const (
	userA = "user-a"
	userB = "user-b"
	userC = "user-c"
)

var (
	pairAB = model.Pair{CurrentUserID: userA, PeerID: userB}
	baseTS = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newTestLogger(t *testing.T) logger_lib.LoggerInterface {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := logger_lib.NewMockLoggerInterface(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	return logger
}

func at(minutes int) time.Time {
	return baseTS.Add(time.Duration(minutes) * time.Minute)
}

func sending(id, content string, ts time.Time) model.Message {
	return model.Message{
		ID:          model.Provisional(id),
		SenderID:    userA,
		RecipientID: userB,
		Content:     content,
		Timestamp:   ts,
		Status:      model.StatusSending,
	}
}

func durable(id, sender, recipient, content string, ts time.Time) model.DurableMessage {
	return model.DurableMessage{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Content:     content,
		Timestamp:   ts,
	}
}

type fakeDurable struct {
	mu      sync.Mutex
	inserts []model.NewMessage
	queries int

	query  func(ctx context.Context, pair model.Pair) ([]model.DurableMessage, error)
	insert func(ctx context.Context, msg model.NewMessage) error
}

func (f *fakeDurable) QueryConversation(ctx context.Context, pair model.Pair) ([]model.DurableMessage, error) {
	f.mu.Lock()
	f.queries++
	query := f.query
	f.mu.Unlock()

	if query == nil {
		return nil, nil
	}

	return query(ctx, pair)
}

func (f *fakeDurable) InsertMessage(ctx context.Context, msg model.NewMessage) error {
	f.mu.Lock()
	f.inserts = append(f.inserts, msg)
	insert := f.insert
	f.mu.Unlock()

	if insert == nil {
		return nil
	}

	return insert(ctx, msg)
}

func (f *fakeDurable) Inserts() []model.NewMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]model.NewMessage(nil), f.inserts...)
}

type fakeSubscriber struct {
	onInsert func(model.DurableMessage)
	onError  func(error)
}

type fakePush struct {
	mu             sync.Mutex
	subs           map[int]fakeSubscriber
	next           int
	subscribeCalls int
	failures       []error
}

func newFakePush() *fakePush {
	return &fakePush{subs: map[int]fakeSubscriber{}}
}

// FailNext makes the next n Subscribe calls fail.
func (p *fakePush) FailNext(n int) {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = context.DeadlineExceeded
	}
	p.FailWith(errs...)
}

// FailWith makes the next Subscribe calls fail with errs, in order.
func (p *fakePush) FailWith(errs ...error) {
	p.mu.Lock()
	p.failures = append(p.failures, errs...)
	p.mu.Unlock()
}

func (p *fakePush) Subscribe(_ context.Context, onInsert func(model.DurableMessage), onError func(error)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribeCalls++
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		return nil, err
	}

	id := p.next
	p.next++
	p.subs[id] = fakeSubscriber{onInsert: onInsert, onError: onError}

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}, nil
}

func (p *fakePush) snapshot() []fakeSubscriber {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]fakeSubscriber, 0, len(p.subs))
	for _, sub := range p.subs {
		out = append(out, sub)
	}

	return out
}

func (p *fakePush) Emit(msg model.DurableMessage) {
	for _, sub := range p.snapshot() {
		sub.onInsert(msg)
	}
}

func (p *fakePush) Drop(err error) {
	for _, sub := range p.snapshot() {
		sub.onError(err)
	}
}

func (p *fakePush) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.subs)
}

func (p *fakePush) SubscribeCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.subscribeCalls
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []model.Notification
}

func (n *recordingNotifier) Notify(item model.Notification) {
	n.mu.Lock()
	n.items = append(n.items, item)
	n.mu.Unlock()
}

func (n *recordingNotifier) All() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]model.Notification(nil), n.items...)
}
