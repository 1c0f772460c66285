package model

import "github.com/golang-jwt/jwt/v5"

const PersonalChannelPrefix = "personal:"

type CentrifugoEvent struct {
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

type CentrifugoEventParams struct {
	Channel string         `json:"channel"`
	Data    DurableMessage `json:"data"`
}

type CentrifugoConnectClaims struct {
	jwt.RegisteredClaims
}

type CentrifugoSubscribeClaims struct {
	jwt.RegisteredClaims

	Channel string `json:"channel"`
	Client  string `json:"client,omitempty"`

	UserID string `json:"user_id"`
}

// PersonalChannel is the Centrifugo channel that carries every message addressed to or from userID.
func PersonalChannel(userID string) string {
	return PersonalChannelPrefix + userID
}
