// Package reply produces the assistant's conversational answer for a single
// user message. Each call is independent: no history is carried over.
package reply

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moodmate/internal/llm"
)

// Fallback is shown to the user whenever Generate fails.
const Fallback = "I'm having trouble responding at the moment."

var (
	ErrNotConfigured = errors.New("chat completion is not configured")
	ErrEmptyReply    = errors.New("chat completion returned an empty reply")
)

type Generator struct {
	client  llm.Client
	persona string
}

// New returns a generator. A nil client yields ErrNotConfigured on every call.
func New(client llm.Client, persona string) *Generator {
	return &Generator{client: client, persona: persona}
}

func (g *Generator) Generate(ctx context.Context, input string) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}
	resp, err := g.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: g.persona},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
