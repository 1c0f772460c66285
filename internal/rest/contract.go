//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/s21platform/chat-client/internal/model"
)

type DBRepo interface {
	QueryConversation(ctx context.Context, pair model.Pair) ([]model.DurableMessage, error)
	InsertMessage(ctx context.Context, msg model.NewMessage) error
	SearchPeers(ctx context.Context, query, excludeID string, limit uint64) (model.IdentityList, error)
}

type Validator interface {
	ValidateContent(content string) (string, error)
	ValidatePeer(currentUserID, peerID string) error
}

type JWTGenerator interface {
	GenerateConnectToken(userID string) (string, int64, error)
	GenerateSubscribeToken(userID string) (string, string, int64, error)
}
