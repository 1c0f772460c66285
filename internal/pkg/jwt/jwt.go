package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/s21platform/chat-client/internal/model"
)

const tokenTTL = 30 * time.Minute

type Generator struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Generator {
	return &Generator{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// GenerateConnectToken issues a Centrifugo connection token for userID.
func (g *Generator) GenerateConnectToken(userID string) (string, int64, error) {
	now := g.now()
	expiresAt := now.Add(tokenTTL)

	claims := model.CentrifugoConnectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(g.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign connect JWT token: %w", err)
	}

	return tokenString, expiresAt.Unix(), nil
}

// GenerateSubscribeToken issues a token for the personal channel of userID.
func (g *Generator) GenerateSubscribeToken(userID string) (string, string, int64, error) {
	now := g.now()
	expiresAt := now.Add(tokenTTL)
	channel := model.PersonalChannel(userID)

	claims := model.CentrifugoSubscribeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Channel: channel,
		UserID:  userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(g.secret)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to sign subscribe JWT token: %w", err)
	}

	return tokenString, channel, expiresAt.Unix(), nil
}
