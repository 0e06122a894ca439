package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/embedlog"
)

type fakeRenderer struct {
	renders    []string
	plains     []string
	failRich   bool
	failPlain  bool
	richErrors int
}

func (f *fakeRenderer) Render(ctx context.Context, text string) error {
	if f.failRich {
		f.richErrors++
		return errors.New("bad markup")
	}
	f.renders = append(f.renders, text)
	return nil
}

func (f *fakeRenderer) RenderPlain(ctx context.Context, text string) error {
	if f.failPlain {
		return errors.New("still bad")
	}
	f.plains = append(f.plains, text)
	return nil
}

func feedTokens(tokens ...string) (<-chan string, <-chan error) {
	tc := make(chan string, len(tokens))
	ec := make(chan error, 1)
	for _, t := range tokens {
		tc <- t
	}
	close(tc)
	close(ec)
	return tc, ec
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestAggregator(clock *fakeClock) *StreamAggregator {
	a := NewStreamAggregator(embedlog.NewLogger(false, false))
	a.now = clock.Now
	return a
}

func TestStreamFinalRenderHasNoCursor(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{}

	tc, ec := feedTokens("Hello, ", "world")
	full, err := a.Consume(context.Background(), tc, ec, r)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", full)

	require.NotEmpty(t, r.renders)
	last := r.renders[len(r.renders)-1]
	assert.Equal(t, "Hello, world", last)
	assert.False(t, strings.HasSuffix(last, streamCursor))
}

func TestStreamIntermediateRendersCarryCursor(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{}

	tc := make(chan string)
	ec := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := a.Consume(context.Background(), tc, ec, r)
		assert.NoError(t, err)
	}()

	tc <- "first "
	clock.Advance(2 * time.Second) // interval elapsed, next token triggers a render
	tc <- "second "
	tc <- "third"
	close(tc)
	close(ec)
	<-done

	require.GreaterOrEqual(t, len(r.renders), 2)
	for _, text := range r.renders[:len(r.renders)-1] {
		assert.True(t, strings.HasSuffix(text, streamCursor), "intermediate render %q must end with cursor", text)
	}
	assert.False(t, strings.HasSuffix(r.renders[len(r.renders)-1], streamCursor))
}

func TestStreamBufferLimitTriggersRender(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{}

	// clock never advances; only the buffer size can force a render
	big := strings.Repeat("x", streamBufferLimit+1)
	tc, ec := feedTokens(big, "tail")
	full, err := a.Consume(context.Background(), tc, ec, r)
	require.NoError(t, err)
	assert.Equal(t, big+"tail", full)

	require.GreaterOrEqual(t, len(r.renders), 2)
	assert.Equal(t, big+streamCursor, r.renders[0])
}

func TestStreamBufferCountsRunes(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{}

	// 60 cyrillic characters are 120 bytes but stay under the 100
	// character limit, so no intermediate render happens
	token := strings.Repeat("ж", 60)
	tc, ec := feedTokens(token)
	full, err := a.Consume(context.Background(), tc, ec, r)
	require.NoError(t, err)
	assert.Equal(t, token, full)

	require.Len(t, r.renders, 1)
	assert.Equal(t, token, r.renders[0])
}

func TestStreamSmallFastTokensDoNotRender(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{}

	tc, ec := feedTokens("a", "b", "c")
	_, err := a.Consume(context.Background(), tc, ec, r)
	require.NoError(t, err)

	// only the final render, no intermediate ones
	require.Len(t, r.renders, 1)
	assert.Equal(t, "abc", r.renders[0])
}

func TestStreamFallsBackToPlain(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{failRich: true}

	tc, ec := feedTokens("some *broken markdown")
	full, err := a.Consume(context.Background(), tc, ec, r)
	require.NoError(t, err)
	assert.Equal(t, "some *broken markdown", full)

	require.NotEmpty(t, r.plains)
	assert.Equal(t, "some *broken markdown", r.plains[len(r.plains)-1])
}

func TestStreamSurvivesDoubleRenderFailure(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{failRich: true, failPlain: true}

	big := strings.Repeat("y", streamBufferLimit+1)
	tc, ec := feedTokens(big, "more")
	full, err := a.Consume(context.Background(), tc, ec, r)
	require.NoError(t, err)
	assert.Equal(t, big+"more", full)
}

func TestStreamReturnsPartialOnError(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	a := newTestAggregator(clock)
	r := &fakeRenderer{}

	tc := make(chan string, 2)
	ec := make(chan error, 1)
	tc <- "partial "
	tc <- "text"
	close(tc)
	ec <- errors.New("stream broke")
	close(ec)

	full, err := a.Consume(context.Background(), tc, ec, r)
	require.Error(t, err)
	assert.Equal(t, "partial text", full)
}
