package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultExpoURL is Expo's push send endpoint
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// ExpoSender sends notifications through the Expo push service
type ExpoSender struct {
	url         string
	accessToken string
	client      *http.Client
}

// NewExpoSender creates an Expo sender. accessToken is optional and only
// needed when enhanced push security is enabled for the Expo project.
func NewExpoSender(url, accessToken string) *ExpoSender {
	if url == "" {
		url = DefaultExpoURL
	}
	return &ExpoSender{
		url:         url,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type expoMessage struct {
	To    string         `json:"to"`
	Sound string         `json:"sound"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

type expoResponse struct {
	Data []struct {
		Status  string `json:"status"`
		ID      string `json:"id"`
		Message string `json:"message"`
		Details struct {
			Error string `json:"error"`
		} `json:"details"`
	} `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Send implements Sender
func (s *ExpoSender) Send(ctx context.Context, token string, msg Message) error {
	body, err := json.Marshal([]expoMessage{{
		To:    token,
		Sound: "default",
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal expo message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build expo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call expo: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read expo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo returned status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var parsed expoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed to parse expo response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("expo request error %s: %s", parsed.Errors[0].Code, parsed.Errors[0].Message)
	}
	if len(parsed.Data) == 0 {
		return fmt.Errorf("expo returned no ticket")
	}
	if ticket := parsed.Data[0]; ticket.Status != "ok" {
		return fmt.Errorf("expo rejected notification (%s): %s", ticket.Details.Error, ticket.Message)
	}
	return nil
}
