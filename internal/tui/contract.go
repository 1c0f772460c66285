//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package tui

import (
	"context"

	"github.com/s21platform/chat-client/internal/conversation"
	"github.com/s21platform/chat-client/internal/model"
)

type PeerSearcher interface {
	SearchPeers(ctx context.Context, query, excludeID string, limit uint64) (model.IdentityList, error)
}

type Opener interface {
	Open(ctx context.Context, peer model.Identity) (*conversation.Conversation, error)
}
