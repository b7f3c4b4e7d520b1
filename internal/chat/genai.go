package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kopimi-kafe/backend/internal/domain"
)

// GenAI answers through the Gemini API.
type GenAI struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGenAI(ctx context.Context, apiKey, model string, temperature float32) (*GenAI, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GenAI{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func contents(history []Message, question string) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return append(out, genai.NewContentFromText(question, genai.RoleUser))
}

func (g *GenAI) Reply(ctx context.Context, barista domain.Barista, history []Message, question string) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(barista), genai.RoleUser),
		Temperature:       &temperature,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents(history, question), config)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
