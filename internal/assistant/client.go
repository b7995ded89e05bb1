package assistant

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionClient talks to an OpenAI-compatible chat-completions API. A
// custom BaseURL points it at any compatible gateway.
type CompletionClient struct {
	client *openai.Client
	model  string
}

// NewCompletionClient builds the client. An empty API key is allowed so the
// binary boots in dev; calls then fail at request time.
func NewCompletionClient(baseURL, apiKey, model string) *CompletionClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &CompletionClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *CompletionClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if strings.TrimSpace(c.model) == "" {
		return "", errors.New("assistant: model is required")
	}
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("assistant: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
