package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultEncouragement is sent when the sender typed nothing and no
// generated text is available
const DefaultEncouragement = "You got this! Keep going! 🌱"

const maxEncouragementRunes = 120

// Encourager writes a short supportive message from one partner to the other
type Encourager interface {
	Encouragement(ctx context.Context, senderName, partnerName string, partnerIsSmoker bool) (string, error)
}

// LLMEncourager generates encouragement through an OpenAI-compatible
// chat completion API (OpenRouter in production)
type LLMEncourager struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewLLMEncourager creates an encourager. baseURL may be empty for api.openai.com.
func NewLLMEncourager(apiKey, baseURL, model string, timeout time.Duration) *LLMEncourager {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LLMEncourager{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Encouragement implements Encourager
func (e *LLMEncourager) Encouragement(ctx context.Context, senderName, partnerName string, partnerIsSmoker bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	goal := "build healthy daily habits"
	if partnerIsSmoker {
		goal = "quit smoking"
	}
	prompt := fmt.Sprintf(
		"Write one short, warm push notification from %s to their accountability partner %s, who is trying to %s. "+
			"Under 120 characters. Return only the message text.",
		senderName, partnerName, goal,
	)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a supportive health coach writing push notifications."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   60,
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate encouragement: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	text := cleanEncouragement(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("llm returned empty encouragement")
	}
	return text, nil
}

func cleanEncouragement(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxEncouragementRunes {
		s = strings.TrimSpace(string(r[:maxEncouragementRunes]))
	}
	return s
}
