package telegram

import (
	"context"
	"errors"

	"github.com/go-telegram/bot/models"
)

// getOrCreateUser gets user by Telegram ID or creates a new one, and
// hydrates the in-memory session from the stored profile.
func (b *Bot) getOrCreateUser(ctx context.Context, tgUser *models.User) (*User, error) {
	if tgUser == nil {
		return nil, errors.New("telegram user is nil")
	}

	dbUser, err := b.users.GetOrCreateByTelegramID(ctx, tgUser.ID, tgUser.Username, tgUser.FirstName)
	if err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		return nil, err
	}

	user := NewUser(dbUser)
	b.sessions.Update(user.TelegramID, func(s *Session) {
		s.Language = user.Language
		s.Mode = user.ChatMode
		s.Model = user.Model
		s.Name = user.Name
		s.ChatInitialized = user.Initialized
	})

	return user, nil
}
