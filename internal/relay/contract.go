//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package relay

import (
	"context"

	"github.com/s21platform/chat-client/internal/model"
)

type PushChannel interface {
	Subscribe(ctx context.Context, onInsert func(model.DurableMessage), onError func(error)) (func(), error)
}

type Publisher interface {
	Publish(ctx context.Context, channel string, msg model.DurableMessage) error
}

type Metrics interface {
	Increment(name string)
}
