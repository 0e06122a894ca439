package telegram

import (
	"context"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kdziekansky/telegram3333/pkg/ai"
	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/i18n"
)

// handleCallback acknowledges and routes every inline button press. The
// raw identifier is parsed once; everything downstream works with the
// typed action.
func (b *Bot) handleCallback(ctx context.Context, api *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	// always acknowledge so the client stops its spinner
	_, _ = b.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	user, err := b.getOrCreateUser(ctx, &cb.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}

	var (
		chatID    int64
		messageID int
	)
	if cb.Message.Message != nil {
		chatID = cb.Message.Message.Chat.ID
		messageID = cb.Message.Message.ID
	} else {
		chatID = user.TelegramID
	}

	action := ParseAction(cb.Data)
	callbacksProcessed.WithLabelValues(action.Kind.String()).Inc()
	if b.debug {
		b.logger.Print(ctx, "callback", "data", cb.Data, "action", action.Kind.String(), "user", user.TelegramID)
	}

	b.dispatch(ctx, user, chatID, messageID, action)
}

func (b *Bot) dispatch(ctx context.Context, user *User, chatID int64, messageID int, action Action) {
	lang := user.Language

	switch action.Kind {
	case ActionQuickNewChat:
		b.startNewChat(ctx, chatID, user)

	case ActionQuickLastChat:
		b.resumeLastChat(ctx, chatID, user)

	case ActionQuickBuyCredits:
		b.showPackages(ctx, chatID, user.TelegramID, messageID)

	case ActionMenuSection:
		b.showMenuSection(ctx, chatID, user.TelegramID, messageID, action.Arg)

	case ActionMenuHelp:
		b.showHelp(ctx, chatID, user.TelegramID, messageID)

	case ActionMenuBackMain:
		b.backToMain(ctx, chatID, user.TelegramID, messageID)

	case ActionCredits:
		switch action.Arg {
		case "buy":
			b.showPackages(ctx, chatID, user.TelegramID, messageID)
		case "history":
			b.showCreditHistory(ctx, chatID, user.TelegramID, messageID)
		default:
			b.showMenuSection(ctx, chatID, user.TelegramID, messageID, screenCredits)
		}

	case ActionPayment:
		b.handlePurchase(ctx, user, chatID, messageID, action.Arg)

	case ActionHistory:
		switch action.Arg {
		case "new":
			b.startNewChat(ctx, chatID, user)
		case "delete":
			b.clearHistory(ctx, chatID, user)
		default:
			b.showMenuSection(ctx, chatID, user.TelegramID, messageID, screenHistory)
		}

	case ActionSettings:
		switch action.Arg {
		case "model":
			b.showModelSelection(ctx, chatID, user.TelegramID, messageID)
		case "language":
			b.showLanguageSelection(ctx, chatID, user.TelegramID, messageID)
		case "name":
			_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "settings_set_name"), nil)
		default:
			b.showMenuSection(ctx, chatID, user.TelegramID, messageID, screenSettings)
		}

	case ActionLanguage:
		b.selectLanguage(ctx, user, chatID, messageID, action.Arg)

	case ActionModel:
		b.selectModel(ctx, user, chatID, messageID, action.Arg)

	case ActionMode:
		b.selectMode(ctx, user, chatID, messageID, action.Arg)

	case ActionOnboarding:
		b.finishOnboarding(ctx, user, chatID, messageID)

	case ActionConfirmImage:
		// image generation is not offered; point back at the info screen
		b.showMenuSection(ctx, chatID, user.TelegramID, messageID, screenImage)

	case ActionConfirmDoc:
		b.runStoredUpload(ctx, user, chatID, documentUpload, action.Arg)

	case ActionConfirmPhoto:
		b.runStoredUpload(ctx, user, chatID, photoUpload, action.Arg)

	case ActionConfirmMessage:
		b.confirmPending(ctx, user, chatID, "message")

	case ActionCancelOperation:
		if _, ok := b.cancelPending(user.TelegramID); ok {
			_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "op_cancelled"), nil)
		} else {
			_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "op_none_pending"), nil)
		}

	case ActionConfirmOperation:
		b.confirmPending(ctx, user, chatID, action.Arg)

	default:
		b.recoveryScreen(ctx, chatID, user.TelegramID)
	}
}

// confirmPending resolves the stored pending operation: the descriptor
// name must match exactly and the confirmation window must still be
// open, otherwise the user is told to start over.
func (b *Bot) confirmPending(ctx context.Context, user *User, chatID int64, name string) {
	lang := user.Language

	pending, status := b.sessions.ResolvePending(user.TelegramID, name, time.Now())
	switch status {
	case pendingMissing:
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "op_none_pending"), nil)
		return
	case pendingMismatch, pendingExpired:
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "op_expired"), nil)
		return
	}

	op, ok := b.operationForPending(user, chatID, pending)
	if !ok {
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "op_expired"), nil)
		return
	}

	if err := b.executor.RunConfirmed(ctx, b.ui(chatID), user.TelegramID, lang, op); err != nil {
		b.logger.Error(ctx, "confirmed operation failed", "operation", op.Name, "user", user.TelegramID, "err", err)
	}
}

// cancelPending declines whatever operation awaited confirmation.
func (b *Bot) cancelPending(userID int64) (PendingOperation, bool) {
	pending, ok := b.sessions.TakePending(userID)
	if ok {
		operationsExecuted.WithLabelValues(pending.Name, "declined").Inc()
	}
	return pending, ok
}

// operationForPending rebuilds the runnable operation from the stored
// kind and arguments, so a confirm re-invokes the original work.
func (b *Bot) operationForPending(user *User, chatID int64, p PendingOperation) (Operation, bool) {
	switch p.Kind {
	case OpMessage:
		return b.messageOperation(user, chatID, p.Args.Text), true
	case OpDocumentAnalyze:
		return b.documentOperation(user, p.Args, "analyze"), true
	case OpDocumentTranslate:
		return b.documentOperation(user, p.Args, "translate"), true
	case OpPhotoAnalyze:
		return b.photoOperation(user, p.Args, "analyze"), true
	case OpPhotoTranslate:
		return b.photoOperation(user, p.Args, "translate"), true
	case OpTextTranslate:
		return b.translateOperation(user, p.Args.Text, p.Args.TargetLang), true
	default:
		return Operation{}, false
	}
}

// handlePurchase credits a bought package. Anything that is not a
// concrete package lands on the package list.
func (b *Bot) handlePurchase(ctx context.Context, user *User, chatID int64, messageID int, arg string) {
	lang := user.Language

	id, err := strconv.Atoi(arg)
	if err != nil {
		b.showPackages(ctx, chatID, user.TelegramID, messageID)
		return
	}
	pack, ok := credits.PackageByID(id)
	if !ok {
		b.showPackages(ctx, chatID, user.TelegramID, messageID)
		return
	}

	balance, err := b.users.Grant(ctx, user.TelegramID, pack.Credits, "purchase")
	if err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		b.logger.Error(ctx, "failed to credit purchase", "user", user.TelegramID, "err", err)
		return
	}

	b.logger.Print(ctx, "package purchased", "user", user.TelegramID, "package", pack.ID, "credits", pack.Credits)
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "credits_purchased", pack.Credits, balance), backToMainKeyboard(lang))
}

func (b *Bot) selectLanguage(ctx context.Context, user *User, chatID int64, messageID int, code string) {
	if !i18n.Known(code) {
		b.recoveryScreen(ctx, chatID, user.TelegramID)
		return
	}

	if err := b.users.UpdateLanguage(ctx, user.TelegramID, code); err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		b.logger.Error(ctx, "failed to save language", "user", user.TelegramID, "err", err)
		return
	}
	b.sessions.Update(user.TelegramID, func(s *Session) { s.Language = code })
	user.Language = code

	if !user.Initialized {
		b.renderMenuScreen(ctx, chatID, user.TelegramID, messageID, screenMain,
			i18n.Get(code, "onboarding_intro"), onboardingKeyboard(code))
		return
	}
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(code, "language_set", i18n.LanguageName(code)), nil)
	b.backToMain(ctx, chatID, user.TelegramID, messageID)
}

func (b *Bot) selectModel(ctx context.Context, user *User, chatID int64, messageID int, id string) {
	lang := user.Language
	if !ai.KnownModel(id) {
		b.recoveryScreen(ctx, chatID, user.TelegramID)
		return
	}

	if err := b.users.UpdateModel(ctx, user.TelegramID, id); err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		b.logger.Error(ctx, "failed to save model", "user", user.TelegramID, "err", err)
		return
	}
	b.sessions.Update(user.TelegramID, func(s *Session) { s.Model = id })

	b.renderMenuScreen(ctx, chatID, user.TelegramID, messageID, screenSettings,
		i18n.Get(lang, "model_selected", ai.ModelName(id), credits.MessageCost(id)),
		backKeyboard(lang, "menu_section_settings"))
}

func (b *Bot) selectMode(ctx context.Context, user *User, chatID int64, messageID int, id string) {
	lang := user.Language
	if !ai.KnownMode(id) {
		b.recoveryScreen(ctx, chatID, user.TelegramID)
		return
	}

	if err := b.users.UpdateChatMode(ctx, user.TelegramID, id); err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		b.logger.Error(ctx, "failed to save chat mode", "user", user.TelegramID, "err", err)
		return
	}
	b.sessions.Update(user.TelegramID, func(s *Session) { s.Mode = id })
	b.markInitialized(ctx, user)

	mode := ai.ModeByID(id)
	b.renderMenuScreen(ctx, chatID, user.TelegramID, messageID, screenChatModes,
		i18n.Get(lang, "mode_selected", mode.Name, mode.MessageCost(b.sessions.Get(user.TelegramID).Model)),
		backToMainKeyboard(lang))
}

func (b *Bot) finishOnboarding(ctx context.Context, user *User, chatID int64, messageID int) {
	b.markInitialized(ctx, user)
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(user.Language, "onboarding_done"), nil)
	b.backToMain(ctx, chatID, user.TelegramID, messageID)
}

func (b *Bot) markInitialized(ctx context.Context, user *User) {
	if user.Initialized {
		return
	}
	if err := b.users.MarkChatInitialized(ctx, user.TelegramID); err != nil {
		b.logger.Error(ctx, "failed to mark chat initialized", "user", user.TelegramID, "err", err)
		return
	}
	user.Initialized = true
	b.sessions.Update(user.TelegramID, func(s *Session) { s.ChatInitialized = true })
}
