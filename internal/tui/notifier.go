package tui

import "github.com/s21platform/chat-client/internal/model"

const noticeBuffer = 16

// Notifier hands notifications to the view. Notify never blocks; overflow is dropped.
type Notifier struct {
	ch chan model.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan model.Notification, noticeBuffer)}
}

func (n *Notifier) Notify(item model.Notification) {
	select {
	case n.ch <- item:
	default:
	}
}

func (n *Notifier) C() <-chan model.Notification {
	return n.ch
}
