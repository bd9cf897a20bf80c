package llm

import (
	"context"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/scenlens/matrixer/helper"
)

// CompletionRequest describes a single chat completion call
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	JSONOnly    bool
}

// Completer produces a text completion for a prompt. Implementations must
// honor context cancellation and deadlines.
type Completer interface {
	Complete(ctx context.Context, request CompletionRequest) (string, error)
}

// OpenAIClient is a Completer backed by the OpenAI chat completions API
type OpenAIClient struct {
	*openai.Client
}

// NewOpenAIClient creates a client from an explicit API key, falling back
// to the OPENAI_API_KEY environment variable
func NewOpenAIClient(apiKey string) *OpenAIClient {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &OpenAIClient{Client: openai.NewClient(apiKey)}
}

// Complete runs a single chat completion and returns the raw message content
func (c *OpenAIClient) Complete(ctx context.Context, request CompletionRequest) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       request.Model,
		Temperature: request.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: request.System},
			{Role: openai.ChatMessageRoleUser, Content: request.Prompt},
		},
	}
	if request.JSONOnly {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// Reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(request.Model, "o1") || strings.HasPrefix(request.Model, "o3") ||
		strings.HasPrefix(request.Model, "o4") || strings.HasPrefix(request.Model, "gpt-5") {
		req.MaxCompletionTokens = request.MaxTokens
	} else {
		req.MaxTokens = request.MaxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", helper.NewError("creating chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", helper.NewError("creating chat completion", errors.New("response contains no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}
