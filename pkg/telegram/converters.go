package telegram

import (
	"github.com/kdziekansky/telegram3333/pkg/ai"
	"github.com/kdziekansky/telegram3333/pkg/db"
	"github.com/kdziekansky/telegram3333/pkg/i18n"
)

// NewUser converts db.User to telegram.User, filling defaults for
// fields the user never set.
func NewUser(u *db.User) *User {
	if u == nil {
		return nil
	}

	lang := u.LanguageCode
	if !i18n.Known(lang) {
		lang = i18n.DefaultLanguage
	}
	model := u.Model
	if model == "" {
		model = ai.DefaultModel
	}
	mode := u.ChatMode
	if mode == "" {
		mode = "no_mode"
	}
	name := u.FirstName
	if name == "" {
		name = u.Username
	}

	return &User{
		ID:            u.ID,
		TelegramID:    u.TelegramID,
		Username:      u.Username,
		Name:          name,
		Language:      lang,
		ChatMode:      mode,
		Model:         model,
		Initialized:   u.ChatInitialized,
		CreditBalance: u.CreditBalance,
	}
}
