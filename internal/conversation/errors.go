package conversation

import (
	"errors"
	"fmt"
)

var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStaleHistory       = errors.New("history result is stale")
	ErrConversationClosed = errors.New("conversation is closed")
	ErrSelfConversation   = errors.New("cannot open a conversation with yourself")
)

type Op string

const (
	OpQuery  Op = "query"
	OpInsert Op = "insert"
)

// StoreError is a recoverable durable store failure.
type StoreError struct {
	Op  Op
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// SubscriptionError reports a dropped or failed push channel subscription.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription failed: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }
