package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.aimuz.me/deeplocal/internal/types"
)

// ollamaAPIKey is accepted and ignored by Ollama's OpenAI-compatible API.
const ollamaAPIKey = "ollama"

// openaiCompleter implements Completer for OpenAI-compatible servers.
type openaiCompleter struct {
	cfg    completerConfig
	client openai.Client
}

func newOpenAICompleter(cfg completerConfig) *openaiCompleter {
	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = ollamaAPIKey
	}
	client := openai.NewClient(
		option.WithBaseURL(cfg.host+"/v1/"),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.http),
		option.WithMaxRetries(0), // retries live in the transport
	)
	return &openaiCompleter{cfg: cfg, client: client}
}

func (c *openaiCompleter) Complete(ctx context.Context, messages []Message) (string, types.Usage, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			if m.Content != "" {
				msgs = append(msgs, openai.SystemMessage(m.Content))
			}
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.cfg.model,
		Messages: msgs,
	}
	if c.cfg.temperature > 0 {
		params.Temperature = openai.Float(c.cfg.temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", types.Usage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", types.Usage{}, fmt.Errorf("no choices")
	}

	usage := types.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, usage, nil
}
