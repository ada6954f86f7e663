// Package notify delivers push notifications to partners.
//
// Transports (Expo, APNs) implement Sender. Callers go through a Dispatcher,
// which runs each delivery in the background so that a slow or failing push
// provider never delays or fails the request that triggered it.
package notify

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoToken is reported for users without a registered push token
	ErrNoToken = errors.New("no push token")
	// ErrNoTransport is reported when no configured sender accepts the token
	ErrNoTransport = errors.New("no push transport for token")
	// ErrClosed is reported for deliveries requested after shutdown began
	ErrClosed = errors.New("dispatcher closed")
)

// Message is a single push notification
type Message struct {
	Title string
	Body  string
	Data  map[string]any
}

// Sender delivers a message to one device
type Sender interface {
	Send(ctx context.Context, token string, msg Message) error
}

// IsExpoToken reports whether token was issued by Expo rather than APNs
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}

// Router picks the transport by token format
type Router struct {
	Expo Sender
	APNs Sender
}

// Send implements Sender
func (r *Router) Send(ctx context.Context, token string, msg Message) error {
	sender := r.route(token)
	if sender == nil {
		return ErrNoTransport
	}
	return sender.Send(ctx, token, msg)
}

func (r *Router) route(token string) Sender {
	if IsExpoToken(token) {
		return r.Expo
	}
	return r.APNs
}

func transportOf(token string) string {
	if IsExpoToken(token) {
		return "expo"
	}
	return "apns"
}

func maskToken(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
