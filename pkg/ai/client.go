// Package ai is a thin client for an OpenAI-compatible chat completions
// API, covering one-shot completions, SSE streaming and vision requests.
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kdziekansky/telegram3333/pkg/services"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	visionModel    = "gpt-4o"

	// documents are inlined into the prompt, capped to keep requests sane
	maxDocumentChars = 24000
)

type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 5 * time.Minute},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *Client) newRequest(ctx context.Context, body chatRequest) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	return req, nil
}

func convert(messages []services.ChatMessage) []chatMessage {
	out := make([]chatMessage, len(messages))
	for i, m := range messages {
		out[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// Complete runs a one-shot chat completion.
func (c *Client) Complete(ctx context.Context, messages []services.ChatMessage, model string) (string, error) {
	return c.complete(ctx, convert(messages), model)
}

func (c *Client) complete(ctx context.Context, messages []chatMessage, model string) (string, error) {
	req, err := c.newRequest(ctx, chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error: %s", string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no response from model")
	}

	return result.Choices[0].Message.Content, nil
}

// CompleteStream runs a streamed chat completion. Tokens arrive on the
// first channel as they are generated; the error channel carries at most
// one error and both channels close when the stream ends.
func (c *Client) CompleteStream(ctx context.Context, messages []services.ChatMessage, model string) (<-chan string, <-chan error) {
	tokens := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(tokens)
		defer close(errc)

		req, err := c.newRequest(ctx, chatRequest{Model: model, Messages: convert(messages), Stream: true})
		if err != nil {
			errc <- err
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpc.Do(req)
		if err != nil {
			errc <- fmt.Errorf("api request failed: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errc <- fmt.Errorf("api error: %s", string(body))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}

			select {
			case tokens <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("read stream: %w", err)
		}
	}()

	return tokens, errc
}

// AnalyzeImage sends a vision request. Mode "translate" extracts and
// translates visible text into targetLang, anything else describes the
// image content.
func (c *Client) AnalyzeImage(ctx context.Context, data []byte, fileName, mode, targetLang string) (string, error) {
	instruction := imageAnalyzePrompt
	if mode == "translate" {
		instruction = fmt.Sprintf(imageTranslatePrompt, targetLang)
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	messages := []chatMessage{
		{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: instruction},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		},
	}

	return c.complete(ctx, messages, visionModel)
}

// AnalyzeDocument inlines the document text into an analysis or
// translation prompt. Binary files are rejected.
func (c *Client) AnalyzeDocument(ctx context.Context, data []byte, fileName, mode, targetLang string) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not a text document", fileName)
	}

	text := string(data)
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	instruction := fmt.Sprintf(documentAnalyzePrompt, fileName)
	if mode == "translate" {
		instruction = fmt.Sprintf(documentTranslatePrompt, fileName, targetLang)
	}

	messages := []chatMessage{
		{Role: "system", Content: instruction},
		{Role: "user", Content: text},
	}

	return c.complete(ctx, messages, visionModel)
}

// Translate translates plain text into targetLang.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: fmt.Sprintf(textTranslatePrompt, targetLang)},
		{Role: "user", Content: text},
	}
	return c.complete(ctx, messages, DefaultModel)
}

var _ services.Assistant = (*Client)(nil)
