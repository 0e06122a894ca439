// Package history persists per-user conversation history in Redis.
// Each user has an active-conversation pointer; messages live in a list
// keyed by conversation id with a sliding TTL.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyLimit = 40

// Message is one stored conversation turn.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Model   string    `json:"model,omitempty"`
	At      time.Time `json:"at"`
}

type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) activeKey(userID int64) string {
	return fmt.Sprintf("user:%d:conversation", userID)
}

func (s *Store) messagesKey(convID string) string {
	return fmt.Sprintf("conversation:%s:messages", convID)
}

// ActiveConversation returns the user's current conversation id,
// creating a fresh one when none exists.
func (s *Store) ActiveConversation(ctx context.Context, userID int64) (string, error) {
	id, err := s.rdb.Get(ctx, s.activeKey(userID)).Result()
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get active conversation: %w", err)
	}
	return s.NewConversation(ctx, userID)
}

// NewConversation starts a fresh conversation and makes it active.
func (s *Store) NewConversation(ctx context.Context, userID int64) (string, error) {
	seq, err := s.rdb.Incr(ctx, "conversation:seq").Result()
	if err != nil {
		return "", fmt.Errorf("next conversation id: %w", err)
	}
	id := fmt.Sprintf("%d-%d", userID, seq)

	if err := s.rdb.Set(ctx, s.activeKey(userID), id, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("set active conversation: %w", err)
	}
	return id, nil
}

// SaveMessage appends a message and extends the conversation TTL.
func (s *Store) SaveMessage(ctx context.Context, convID string, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := s.messagesKey(convID)
	if err := s.rdb.RPush(ctx, key, b).Err(); err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	if err := s.rdb.LTrim(ctx, key, -historyLimit, -1).Err(); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("touch ttl: %w", err)
		}
	}
	return nil
}

// History loads up to limit latest messages, oldest first.
func (s *Store) History(ctx context.Context, convID string, limit int) ([]Message, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}

	rows, err := s.rdb.LRange(ctx, s.messagesKey(convID), int64(-limit), -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load history: %w", err)
	}

	msgs := make([]Message, 0, len(rows))
	for i, row := range rows {
		var m Message
		if err := json.Unmarshal([]byte(row), &m); err != nil {
			return nil, fmt.Errorf("unmarshal message %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Clear removes a conversation's messages.
func (s *Store) Clear(ctx context.Context, convID string) error {
	if err := s.rdb.Del(ctx, s.messagesKey(convID)).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
