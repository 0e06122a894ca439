package telegram

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/vmkteam/embedlog"
)

const (
	streamCursor      = "▌"
	streamInterval    = time.Second
	streamBufferLimit = 100
)

// StreamRenderer displays a growing response text. Render uses rich
// formatting; RenderPlain is the fallback when formatting is rejected.
type StreamRenderer interface {
	Render(ctx context.Context, text string) error
	RenderPlain(ctx context.Context, text string) error
}

// StreamAggregator drains a token stream into periodic renders: a
// render happens when at least one interval passed since the last one
// or the unrendered buffer outgrew the limit. Intermediate renders
// carry a trailing cursor; the final render does not.
type StreamAggregator struct {
	embedlog.Logger
	interval time.Duration
	limit    int
	now      func() time.Time
}

func NewStreamAggregator(logger embedlog.Logger) *StreamAggregator {
	return &StreamAggregator{
		Logger:   logger,
		interval: streamInterval,
		limit:    streamBufferLimit,
		now:      time.Now,
	}
}

// Consume reads tokens until the stream is exhausted and returns the
// full accumulated text. A render failure never aborts the stream: the
// rich render falls back to plain, and a failed plain render just waits
// for the next render point. The stream error, if any, is returned with
// whatever text accumulated before it.
func (a *StreamAggregator) Consume(ctx context.Context, tokens <-chan string, errc <-chan error, r StreamRenderer) (string, error) {
	var (
		full       string
		buffered   int
		lastRender = a.now()
	)

	render := func(text string) {
		if err := r.Render(ctx, text); err != nil {
			if err := r.RenderPlain(ctx, text); err != nil {
				a.Error(ctx, "stream render failed, text not updated", "err", err)
				return
			}
		}
		buffered = 0
		lastRender = a.now()
	}

	for token := range tokens {
		full += token
		buffered += utf8.RuneCountInString(token)

		if a.now().Sub(lastRender) >= a.interval || buffered > a.limit {
			render(full + streamCursor)
		}
	}

	if err, ok := <-errc; ok && err != nil {
		return full, err
	}

	if full != "" {
		render(full)
	}
	return full, nil
}
