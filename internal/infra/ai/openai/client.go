package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	domai "github.com/rivalradar/rivalradar/internal/domain/ai"
)

const (
	defaultModel = "gpt-4o-mini"
	maxTokens    = 2048
	// callTimeout bounds one completion call; the provider sets none itself.
	callTimeout = 30 * time.Second
)

type Client struct {
	api   *openai.Client
	model string
}

var _ domai.Client = (*Client)(nil)

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

// Complete sends one chat completion request. Single attempt, no retry, no
// backoff; every failure comes back as *ai.UpstreamError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(c.model, "o1") || strings.HasPrefix(c.model, "o3") ||
		strings.HasPrefix(c.model, "o4") || strings.HasPrefix(c.model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &domai.UpstreamError{Kind: domai.KindUpstream, Err: errors.New("completion response has no choices")}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", &domai.UpstreamError{Kind: domai.KindBlocked, Err: errors.New("completion blocked by provider content filter")}
	}
	return choice.Message.Content, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domai.UpstreamError{Kind: domai.KindTimeout, Err: err}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &domai.UpstreamError{Kind: domai.KindQuota, Err: err}
	}
	return &domai.UpstreamError{Kind: domai.KindUpstream, Err: err}
}
