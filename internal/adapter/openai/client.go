package openai

import (
	"context"

	"github.com/pkg/errors"
	openaiapi "github.com/sashabaranov/go-openai"

	"support-chat/internal/domain"
	"support-chat/internal/usecase/chat"
)

type Client struct {
	api *openaiapi.Client
}

// NewClient talks to any OpenAI-compatible endpoint rooted at baseURL.
func NewClient(token, baseURL string) *Client {
	cfg := openaiapi.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api: openaiapi.NewClientWithConfig(cfg),
	}
}

func (c *Client) Stream(ctx context.Context, req chat.CompletionRequest) (chat.Stream, error) {
	apiReq := openaiapi.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
		Messages:    toAPIMessages(req.Messages),
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, errors.Wrap(err, "open completion stream")
	}
	return &deltaStream{stream: stream}, nil
}

// deltaStream narrows a go-openai stream to the first choice's content.
type deltaStream struct {
	stream *openaiapi.ChatCompletionStream
}

func (s *deltaStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *deltaStream) Close() error {
	return s.stream.Close()
}

func toAPIMessages(msgs []domain.Message) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}
