package model

import "errors"

// Errors a push channel reports to its subscribers.
var (
	// ErrPushReset means the subscription is still live but events may have been missed.
	ErrPushReset = errors.New("push stream was reset")
	// ErrPushClosed means the channel accepts no more subscriptions.
	ErrPushClosed = errors.New("push stream is closed")
)
