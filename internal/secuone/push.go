// ABOUTME: Push notification client for token, multi-token and topic sends
// ABOUTME: Thin wrapper over the backend's FCM gateway endpoints

package secuone

import (
	"context"
	"fmt"
	"net/http"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// PushMessage is the notification content shared by all send modes.
type PushMessage struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Priority string            `json:"priority,omitempty"` // high | normal
	Data     map[string]string `json:"data,omitempty"`
}

// PushResult is the single-send outcome.
type PushResult struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
}

// BulkPushResult is the multi-token outcome.
type BulkPushResult struct {
	Status        string   `json:"status"`
	Success       int      `json:"success"`
	Failure       int      `json:"failure"`
	InvalidTokens []string `json:"invalidTokens,omitempty"`
}

// Push sends notifications through the backend's push endpoints. These
// are fixed paths, not resolved.
type Push struct {
	transport *api.Transport
}

func (p *Push) validate(msg PushMessage) error {
	if msg.Title == "" || msg.Body == "" {
		return fmt.Errorf("push title and body are required")
	}
	return nil
}

// SendToken delivers to a single device token.
func (p *Push) SendToken(ctx context.Context, token string, msg PushMessage) (*PushResult, error) {
	if err := p.validate(msg); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("device token is required")
	}
	body := struct {
		Token string `json:"token"`
		PushMessage
	}{Token: token, PushMessage: msg}
	resp, err := p.transport.Do(ctx, http.MethodPost, "/api/push/token", nil, body, nil)
	if err != nil {
		return nil, err
	}
	var result PushResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendTokens delivers to many device tokens at once.
func (p *Push) SendTokens(ctx context.Context, tokens []string, msg PushMessage) (*BulkPushResult, error) {
	if err := p.validate(msg); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("at least one device token is required")
	}
	body := struct {
		Tokens []string `json:"tokens"`
		PushMessage
	}{Tokens: tokens, PushMessage: msg}
	resp, err := p.transport.Do(ctx, http.MethodPost, "/api/push/tokens", nil, body, nil)
	if err != nil {
		return nil, err
	}
	var result BulkPushResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendTopic delivers to everyone subscribed to a topic.
func (p *Push) SendTopic(ctx context.Context, topic string, msg PushMessage) (*PushResult, error) {
	if err := p.validate(msg); err != nil {
		return nil, err
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	body := struct {
		Topic string `json:"topic"`
		PushMessage
	}{Topic: topic, PushMessage: msg}
	resp, err := p.transport.Do(ctx, http.MethodPost, "/api/push/topic", nil, body, nil)
	if err != nil {
		return nil, err
	}
	var result PushResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
