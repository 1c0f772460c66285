//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package conversation

import (
	"context"

	"github.com/s21platform/chat-client/internal/model"
)

type DurableStore interface {
	QueryConversation(ctx context.Context, pair model.Pair) ([]model.DurableMessage, error)
	InsertMessage(ctx context.Context, msg model.NewMessage) error
}

// PushChannel delivers every inserted message system-wide. The returned unsubscribe func is idempotent.
type PushChannel interface {
	Subscribe(ctx context.Context, onInsert func(model.DurableMessage), onError func(error)) (func(), error)
}

type Validator interface {
	ValidateContent(content string) (string, error)
}

type Notifier interface {
	Notify(n model.Notification)
}
