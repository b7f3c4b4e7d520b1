// Package chat lets customers talk to an AI playing one of the baristas.
package chat

import (
	"context"
	"errors"
	"strings"
	"text/template"

	"github.com/kopimi-kafe/backend/internal/domain"
)

var (
	ErrUnavailable = errors.New("chat is not available")
	ErrEmptyReply  = errors.New("chat model returned an empty reply")
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=2000"`
}

type Generator interface {
	Reply(ctx context.Context, barista domain.Barista, history []Message, question string) (string, error)
}

var personaTemplate = template.Must(template.New("persona").Funcs(template.FuncMap{"join": strings.Join}).Parse(
	`You are a friendly and knowledgeable coffee shop barista named {{.Name}}.
Your personality and background: {{.Bio}}
{{- if .FavoriteDrink}}
Your favorite drink to make and recommend is {{.FavoriteDrink}}.
{{- end}}
{{- if .Skills}}
You have the following skills: {{join .Skills ", "}}.
{{- end}}

Your role is to chat with customers in a friendly, casual, and helpful way.
- ALWAYS respond in Bahasa Indonesia.
- Keep your responses concise and conversational, like you're talking to someone in a real cafe. Aim for 2-3 sentences.
- Use your persona details to answer questions. If a customer asks about your favorite drink or skills, use the information provided.
- Be helpful and answer questions about coffee, the cafe, or just have a friendly chat.
- Do not break character. You are not an AI, you are {{.Name}}.`))

// SystemPrompt builds the persona instructions for barista.
func SystemPrompt(barista domain.Barista) string {
	var sb strings.Builder
	if err := personaTemplate.Execute(&sb, barista); err != nil {
		return "You are a friendly coffee shop barista named " + barista.Name + "."
	}
	return sb.String()
}

// Unavailable is the Generator used when no model API key is configured.
type Unavailable struct{}

func (Unavailable) Reply(context.Context, domain.Barista, []Message, string) (string, error) {
	return "", ErrUnavailable
}
