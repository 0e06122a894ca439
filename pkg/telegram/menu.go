package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kdziekansky/telegram3333/pkg/ai"
	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/i18n"
)

// Menu screens.
const (
	screenMain      = "main"
	screenChatModes = "chat_modes"
	screenCredits   = "credits"
	screenHistory   = "history"
	screenSettings  = "settings"
	screenImage     = "image"
	screenHelp      = "help"
	screenModels    = "models"
	screenLanguages = "languages"
	screenPackages  = "packages"
)

const menuBannerURL = "https://i.imgur.com/YPubLDE.png?v-1123"

// renderMenuScreen updates the tracked menu message in place, falling
// back to delete-and-resend when the edit is rejected, and records the
// new screen state.
func (b *Bot) renderMenuScreen(ctx context.Context, chatID, userID int64, messageID int, screen, text string, kb models.ReplyMarkup) {
	if messageID != 0 {
		_, err := b.api.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: kb,
		})
		if err == nil {
			b.sessions.SetMenu(userID, MenuState{Screen: screen, MessageID: messageID})
			return
		}
		_ = b.ui(chatID).DeleteMessage(ctx, messageID)
	}

	id, err := b.ui(chatID).SendText(ctx, text, kb)
	if err != nil {
		b.logger.Error(ctx, "failed to render menu screen", "screen", screen, "err", err)
		return
	}
	b.sessions.SetMenu(userID, MenuState{Screen: screen, MessageID: id})
}

// backToMain returns to the main menu through a degrading chain: edit
// the current message, then banner photo plus fresh message, then a
// plain message, then a minimal text-only one.
func (b *Bot) backToMain(ctx context.Context, chatID, userID int64, messageID int) {
	lang := b.sessions.Get(userID).Language
	text := b.mainMenuText(userID)
	kb := mainMenuKeyboard(lang)

	if messageID != 0 {
		_, err := b.api.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: kb,
		})
		if err == nil {
			b.sessions.SetMenu(userID, MenuState{Screen: screenMain, MessageID: messageID})
			return
		}
		_ = b.ui(chatID).DeleteMessage(ctx, messageID)
	}

	_, err := b.api.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: menuBannerURL},
	})
	if err == nil {
		if id, err := b.ui(chatID).SendText(ctx, text, kb); err == nil {
			b.sessions.SetMenu(userID, MenuState{Screen: screenMain, MessageID: id})
			return
		}
	}

	if id, err := b.ui(chatID).SendText(ctx, text, kb); err == nil {
		b.sessions.SetMenu(userID, MenuState{Screen: screenMain, MessageID: id})
		return
	}

	// minimal fallback, no keyboard
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "main_menu_title"), nil)
}

func (b *Bot) mainMenuText(userID int64) string {
	s := b.sessions.Get(userID)
	mode := ai.ModeByID(s.Mode)
	return fmt.Sprintf("%s\n\n🧠 %s | 🤖 %s",
		i18n.Get(s.Language, "main_menu_title"), mode.Name, ai.ModelName(s.Model))
}

// showMenuSection renders one menu section by name. Unknown section
// names fall back to the recovery screen.
func (b *Bot) showMenuSection(ctx context.Context, chatID, userID int64, messageID int, section string) {
	s := b.sessions.Get(userID)
	lang := s.Language

	switch section {
	case screenChatModes:
		b.renderMenuScreen(ctx, chatID, userID, messageID, screenChatModes,
			i18n.Get(lang, "section_chat_modes"), chatModesKeyboard(lang, s.Model))

	case screenCredits:
		balance, err := b.credits.Balance(ctx, userID)
		if err != nil {
			errorsTotal.WithLabelValues("database").Inc()
			b.logger.Error(ctx, "failed to read balance", "user", userID, "err", err)
			return
		}
		b.renderMenuScreen(ctx, chatID, userID, messageID, screenCredits,
			i18n.Get(lang, "section_credits", balance), creditsMenuKeyboard(lang))

	case screenHistory:
		b.renderMenuScreen(ctx, chatID, userID, messageID, screenHistory,
			i18n.Get(lang, "section_history"), historyKeyboard(lang))

	case screenSettings:
		b.renderMenuScreen(ctx, chatID, userID, messageID, screenSettings,
			i18n.Get(lang, "section_settings", ai.ModelName(s.Model), lang, s.Name), settingsKeyboard(lang))

	case screenImage:
		b.renderMenuScreen(ctx, chatID, userID, messageID, screenImage,
			i18n.Get(lang, "section_image", credits.CostPhotoAnalyze, credits.CostPhotoTranslate),
			backKeyboard(lang, "menu_back_main"))

	default:
		b.recoveryScreen(ctx, chatID, userID)
	}
}

// recoveryScreen is shown for unknown or stale callbacks.
func (b *Bot) recoveryScreen(ctx context.Context, chatID, userID int64) {
	lang := b.sessions.Get(userID).Language
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "unknown_action"), backToMainKeyboard(lang))
}

// showHelp renders the command reference.
func (b *Bot) showHelp(ctx context.Context, chatID, userID int64, messageID int) {
	lang := b.sessions.Get(userID).Language
	b.renderMenuScreen(ctx, chatID, userID, messageID, screenHelp,
		i18n.Get(lang, "help_text"), backToMainKeyboard(lang))
}

// showPackages renders the purchasable credit bundles.
func (b *Bot) showPackages(ctx context.Context, chatID, userID int64, messageID int) {
	lang := b.sessions.Get(userID).Language
	b.renderMenuScreen(ctx, chatID, userID, messageID, screenPackages,
		i18n.Get(lang, "credits_packages"), packagesKeyboard(lang))
}

// showCreditHistory renders recent ledger entries.
func (b *Bot) showCreditHistory(ctx context.Context, chatID, userID int64, messageID int) {
	lang := b.sessions.Get(userID).Language

	list, err := b.users.Transactions(ctx, userID, 10)
	if err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		b.logger.Error(ctx, "failed to read transactions", "user", userID, "err", err)
		return
	}

	text := i18n.Get(lang, "credits_history_empty")
	if len(list) > 0 {
		var sb strings.Builder
		sb.WriteString(i18n.Get(lang, "credits_history_title"))
		for _, trx := range list {
			fmt.Fprintf(&sb, "\n%s: %+d → %d", trx.Operation, trx.Amount, trx.BalanceAfter)
		}
		text = sb.String()
	}

	b.renderMenuScreen(ctx, chatID, userID, messageID, screenCredits,
		text, backKeyboard(lang, "menu_section_credits"))
}

// showModelSelection renders the model picker.
func (b *Bot) showModelSelection(ctx context.Context, chatID, userID int64, messageID int) {
	lang := b.sessions.Get(userID).Language
	b.renderMenuScreen(ctx, chatID, userID, messageID, screenModels,
		i18n.Get(lang, "settings_choose_model"), modelSelectionKeyboard(lang))
}

// showLanguageSelection renders the language picker inside settings.
func (b *Bot) showLanguageSelection(ctx context.Context, chatID, userID int64, messageID int) {
	lang := b.sessions.Get(userID).Language
	b.renderMenuScreen(ctx, chatID, userID, messageID, screenLanguages,
		i18n.Get(lang, "settings_choose_language"), settingsLanguageKeyboard())
}
