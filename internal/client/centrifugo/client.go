package centrifugo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/s21platform/chat-client/internal/config"
	"github.com/s21platform/chat-client/internal/model"
)

const (
	publishMethod = "publish"
	apiPath       = "/api"
)

// APIError is an error returned in the body of a Centrifugo server API reply.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("centrifugo error %d: %s", e.Code, e.Message)
}

type publishReply struct {
	Error *APIError `json:"error"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Centrifuge.BaseURL,
		apiKey:  cfg.Centrifuge.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Centrifuge.Timeout,
		},
	}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Publish delivers a durable chat message to subscribers of channel.
func (c *Client) Publish(ctx context.Context, channel string, msg model.DurableMessage) error {
	body, err := json.Marshal(model.CentrifugoEvent{
		Method: publishMethod,
		Params: model.CentrifugoEventParams{
			Channel: channel,
			Data:    msg,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build publish request for %s: %w", channel, err)
	}
	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish message %s to %s: %w", msg.ID, channel, err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to publish message %s to %s: unexpected status code %d", msg.ID, channel, resp.StatusCode)
	}

	var reply publishReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("failed to decode publish reply for message %s: %w", msg.ID, err)
	}

	if reply.Error != nil {
		return fmt.Errorf("failed to publish message %s to %s: %w", msg.ID, channel, reply.Error)
	}

	return nil
}
