package chat

//go:generate mockgen -destination=./service_mock_test.go -package=chat -source=service.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"support-chat/internal/config"
	"support-chat/internal/domain"
)

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrCompletionFailed = errors.New("completion failed")
)

// Client opens a streaming chat completion.
type Client interface {
	Stream(ctx context.Context, req CompletionRequest) (Stream, error)
}

// Stream yields response deltas. Recv returns io.EOF once the upstream
// stream has closed normally.
type Stream interface {
	Recv() (string, error)
	Close() error
}

type CompletionRequest struct {
	Model       string
	Messages    []domain.Message
	Temperature float32
	MaxTokens   int
}

type Service struct {
	client Client
	cfg    config.Config
}

func NewService(client Client, cfg config.Config) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
	}
}

// Complete sends text as a single-turn request behind the configured system
// prompt and returns the streamed response.
func (s *Service) Complete(ctx context.Context, text string) (*Completion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	stream, err := s.client.Stream(ctx, CompletionRequest{
		Model: s.cfg.Model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: s.cfg.SystemPrompt},
			{Role: domain.RoleUser, Content: text},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	return &Completion{stream: stream}, nil
}

// Completion is a finite, single-use sequence over a streamed response.
// Each call to Next that returns true has appended one non-empty delta to
// the accumulated text.
type Completion struct {
	stream    Stream
	text      strings.Builder
	delta     string
	err       error
	done      bool
	closeOnce sync.Once
}

func (c *Completion) Next() bool {
	if c.done {
		return false
	}
	for {
		delta, err := c.stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.err = fmt.Errorf("%w: %w", ErrCompletionFailed, err)
			}
			c.finish()
			return false
		}
		if delta == "" {
			continue
		}
		c.delta = delta
		c.text.WriteString(delta)
		return true
	}
}

// Delta is the fragment received by the last successful Next.
func (c *Completion) Delta() string {
	return c.delta
}

// Text is everything received so far.
func (c *Completion) Text() string {
	return c.text.String()
}

func (c *Completion) Err() error {
	return c.err
}

// Close releases the upstream stream early. It is safe to call more than once.
func (c *Completion) Close() error {
	c.finish()
	return nil
}

func (c *Completion) finish() {
	c.done = true
	c.closeOnce.Do(func() {
		_ = c.stream.Close()
	})
}
