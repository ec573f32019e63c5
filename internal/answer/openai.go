package answer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"turnera/internal/dialog"
)

// OpenAIAnswerer answers via the OpenAI chat completions API.
type OpenAIAnswerer struct {
	client    *openai.Client
	model     string
	knowledge string
}

func NewOpenAIAnswerer(apiKey, model, knowledge string) *OpenAIAnswerer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIAnswerer{
		client:    openai.NewClient(apiKey),
		model:     model,
		knowledge: knowledge,
	}
}

func (a *OpenAIAnswerer) Answer(ctx context.Context, prompt string, history []dialog.Turn) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemWithKnowledge(a.knowledge)},
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
