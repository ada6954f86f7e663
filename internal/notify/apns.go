package notify

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNsOptions configures token-based (.p8) authentication with Apple
type APNsOptions struct {
	KeyPath    string
	KeyID      string
	TeamID     string
	Topic      string
	Production bool
}

// APNsSender sends notifications straight to Apple for native iOS builds
type APNsSender struct {
	client *apns2.Client
	topic  string
}

// NewAPNsSender loads the signing key and creates an HTTP/2 APNs client
func NewAPNsSender(opts APNsOptions) (*APNsSender, error) {
	authKey, err := token.AuthKeyFromFile(opts.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load apns auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   opts.KeyID,
		TeamID:  opts.TeamID,
	})
	if opts.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNsSender{client: client, topic: opts.Topic}, nil
}

// Send implements Sender
func (s *APNsSender) Send(ctx context.Context, deviceToken string, msg Message) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     buildAPNsPayload(msg),
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push to apns: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("apns rejected notification: %d %s", res.StatusCode, res.Reason)
	}
	return nil
}

func buildAPNsPayload(msg Message) *payload.Payload {
	p := payload.NewPayload().
		AlertTitle(msg.Title).
		AlertBody(msg.Body).
		Sound("default")
	for k, v := range msg.Data {
		p.Custom(k, v)
	}
	return p
}
