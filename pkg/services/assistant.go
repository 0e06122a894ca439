package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vmkteam/embedlog"
)

// ChatMessage is one turn in a model conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assistant handles AI completions: streamed chat, one-shot completion
// and file analysis.
type Assistant interface {
	CompleteStream(ctx context.Context, messages []ChatMessage, model string) (<-chan string, <-chan error)
	Complete(ctx context.Context, messages []ChatMessage, model string) (string, error)
	AnalyzeImage(ctx context.Context, data []byte, fileName, mode, targetLang string) (string, error)
	AnalyzeDocument(ctx context.Context, data []byte, fileName, mode, targetLang string) (string, error)
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// MockAssistant is a mock implementation of Assistant
type MockAssistant struct {
	logger embedlog.Logger
}

// NewMockAssistant creates a new mock assistant
func NewMockAssistant(logger embedlog.Logger) *MockAssistant {
	return &MockAssistant{logger: logger}
}

// CompleteStream mocks a streamed reply, emitting the answer word by word.
func (m *MockAssistant) CompleteStream(ctx context.Context, messages []ChatMessage, model string) (<-chan string, <-chan error) {
	m.logger.Print(ctx, "mock assistant stream", "model", model, "messages", len(messages))

	tokens := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(tokens)
		defer close(errc)

		reply, err := m.Complete(ctx, messages, model)
		if err != nil {
			errc <- err
			return
		}
		for _, word := range strings.SplitAfter(reply, " ") {
			select {
			case tokens <- word:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	return tokens, errc
}

// Complete mocks a one-shot completion echoing the last user message.
func (m *MockAssistant) Complete(ctx context.Context, messages []ChatMessage, model string) (string, error) {
	last := ""
	for _, msg := range messages {
		if msg.Role == "user" {
			last = msg.Content
		}
	}
	return fmt.Sprintf("Mock reply (%s): %s", model, last), nil
}

// AnalyzeImage mocks photo analysis.
func (m *MockAssistant) AnalyzeImage(ctx context.Context, data []byte, fileName, mode, targetLang string) (string, error) {
	m.logger.Print(ctx, "mock assistant analyze image", "file", fileName, "mode", mode, "size", len(data))
	return fmt.Sprintf("Mock %s of image %s (%d bytes)", mode, fileName, len(data)), nil
}

// AnalyzeDocument mocks document analysis.
func (m *MockAssistant) AnalyzeDocument(ctx context.Context, data []byte, fileName, mode, targetLang string) (string, error) {
	m.logger.Print(ctx, "mock assistant analyze document", "file", fileName, "mode", mode, "size", len(data))
	return fmt.Sprintf("Mock %s of document %s (%d bytes)", mode, fileName, len(data)), nil
}

// Translate mocks text translation.
func (m *MockAssistant) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}
