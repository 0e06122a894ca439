package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kdziekansky/telegram3333/pkg/ai"
	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/history"
	"github.com/kdziekansky/telegram3333/pkg/i18n"
	"github.com/kdziekansky/telegram3333/pkg/services"
)

type uploadKind int

const (
	documentUpload uploadKind = iota
	photoUpload
)

// handleStart greets the user and opens the language picker.
func (b *Bot) handleStart(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("start").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}

	b.logger.Print(ctx, "user started bot", "user_id", user.ID, "telegram_user_id", user.TelegramID, "username", user.Username)

	_, _ = b.ui(update.Message.Chat.ID).SendText(ctx,
		i18n.Get(user.Language, "welcome", user.Name), languageKeyboard())
}

// handleMenu opens the main menu.
func (b *Bot) handleMenu(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("menu").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	b.backToMain(ctx, update.Message.Chat.ID, user.TelegramID, 0)
}

// handleHelp shows the command reference.
func (b *Bot) handleHelp(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("help").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	b.showHelp(ctx, update.Message.Chat.ID, user.TelegramID, 0)
}

// handleNewChat starts a fresh conversation.
func (b *Bot) handleNewChat(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("newchat").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	b.startNewChat(ctx, update.Message.Chat.ID, user)
}

// handleCancelCommand cancels the pending operation, if any.
func (b *Bot) handleCancelCommand(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("cancel").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}

	key := "op_none_pending"
	if _, ok := b.cancelPending(user.TelegramID); ok {
		key = "op_cancelled"
	}
	_, _ = b.ui(update.Message.Chat.ID).SendText(ctx, i18n.Get(user.Language, key), nil)
}

// handleSetNameCommand stores the user's display name.
func (b *Bot) handleSetNameCommand(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("setname").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	chatID := update.Message.Chat.ID

	name := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/setname"))
	if name == "" {
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(user.Language, "settings_set_name"), nil)
		return
	}

	if err := b.users.UpdateName(ctx, user.TelegramID, name); err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		b.logger.Error(ctx, "failed to save name", "user", user.TelegramID, "err", err)
		return
	}
	b.sessions.Update(user.TelegramID, func(s *Session) { s.Name = name })
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(user.Language, "settings_name_set", name), nil)
}

// handleTranslateCommand translates inline text or the replied-to message.
func (b *Bot) handleTranslateCommand(ctx context.Context, api *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("translate").Inc()

	user, err := b.getOrCreateUser(ctx, update.Message.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	chatID := update.Message.Chat.ID
	lang := user.Language

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/translate"))
	target, text, _ := strings.Cut(args, " ")
	text = strings.TrimSpace(text)

	// with a reply, the target language alone is enough
	if text == "" && update.Message.ReplyToMessage != nil {
		text = update.Message.ReplyToMessage.Text
	}
	if target == "" || text == "" {
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "translate_usage"), nil)
		return
	}

	op := b.translateOperation(user, text, target)
	if err := b.executor.Run(ctx, b.ui(chatID), user.TelegramID, lang, op); err != nil {
		b.logOperationOutcome(ctx, op.Name, user.TelegramID, err)
	}
}

// handleMessage routes plain text into the streamed chat pipeline.
func (b *Bot) handleMessage(ctx context.Context, api *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || strings.HasPrefix(msg.Text, "/") {
		return
	}
	messagesProcessed.WithLabelValues("text").Inc()

	user, err := b.getOrCreateUser(ctx, msg.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}

	b.runChatMessage(ctx, msg.Chat.ID, user, msg.Text)
}

// runChatMessage runs one chat turn behind the credit gates, with the
// chat-initialized gate in front.
func (b *Bot) runChatMessage(ctx context.Context, chatID int64, user *User, text string) {
	lang := user.Language

	if !user.Initialized {
		kb := &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: i18n.Get(lang, "btn_new_chat"), CallbackData: "quick_new_chat"}},
			},
		}
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "chat_start_hint"), kb)
		return
	}

	op := b.messageOperation(user, chatID, text)
	if err := b.executor.Run(ctx, b.ui(chatID), user.TelegramID, lang, op); err != nil {
		b.logOperationOutcome(ctx, op.Name, user.TelegramID, err)
	}
}

// handleDocument gates an uploaded document and offers its operations.
// The size check runs before anything touches the ledger.
func (b *Bot) handleDocument(ctx context.Context, msg *models.Message) {
	messagesProcessed.WithLabelValues("document").Inc()

	user, err := b.getOrCreateUser(ctx, msg.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	chatID := msg.Chat.ID
	lang := user.Language
	doc := msg.Document

	if warn, reject := oversizedUpload(lang, doc.FileSize); reject {
		_, _ = b.ui(chatID).SendText(ctx, warn, nil)
		return
	}

	args := OpArgs{
		FileID:     doc.FileID,
		FileName:   doc.FileName,
		FileSize:   doc.FileSize,
		TargetLang: i18n.LanguageName(lang),
	}
	b.sessions.Update(user.TelegramID, func(s *Session) { s.LastDocument = &args })

	// a caption picks the operation without the options screen
	if mode := captionMode(msg.Caption); mode != "" {
		op := b.documentOperation(user, args, mode)
		if err := b.executor.Run(ctx, b.ui(chatID), user.TelegramID, lang, op); err != nil {
			b.logOperationOutcome(ctx, op.Name, user.TelegramID, err)
		}
		return
	}

	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "document_options", doc.FileName), documentOptionsKeyboard(lang))
}

// handlePhoto gates an uploaded photo and offers its operations.
func (b *Bot) handlePhoto(ctx context.Context, msg *models.Message) {
	messagesProcessed.WithLabelValues("photo").Inc()

	user, err := b.getOrCreateUser(ctx, msg.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	chatID := msg.Chat.ID
	lang := user.Language

	photo := msg.Photo[len(msg.Photo)-1] // largest size last
	if warn, reject := oversizedUpload(lang, int64(photo.FileSize)); reject {
		_, _ = b.ui(chatID).SendText(ctx, warn, nil)
		return
	}

	args := OpArgs{
		FileID:     photo.FileID,
		FileName:   "photo.jpg",
		FileSize:   int64(photo.FileSize),
		TargetLang: i18n.LanguageName(lang),
	}
	b.sessions.Update(user.TelegramID, func(s *Session) { s.LastPhoto = &args })

	if mode := captionMode(msg.Caption); mode != "" {
		op := b.photoOperation(user, args, mode)
		if err := b.executor.Run(ctx, b.ui(chatID), user.TelegramID, lang, op); err != nil {
			b.logOperationOutcome(ctx, op.Name, user.TelegramID, err)
		}
		return
	}

	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "photo_options"), photoOptionsKeyboard(lang))
}

// oversizedUpload rejects a file above the upload limit with the
// localized message. It consults no ledger, so an oversized upload
// never reaches the credit gates.
func oversizedUpload(lang string, size int64) (string, bool) {
	if size <= credits.MaxFileSize {
		return "", false
	}
	return i18n.Get(lang, "file_too_big", credits.MaxFileSize/(1024*1024), float64(size)/(1024*1024)), true
}

// captionMode maps an upload caption to an operation mode.
func captionMode(caption string) string {
	c := strings.ToLower(strings.TrimSpace(caption))
	switch {
	case strings.HasPrefix(c, "translate"), strings.HasPrefix(c, "tłumacz"), strings.HasPrefix(c, "перевод"):
		return "translate"
	case strings.HasPrefix(c, "analyze"), strings.HasPrefix(c, "analiz"):
		return "analyze"
	default:
		return ""
	}
}

// handleVoice transcribes a voice note and feeds it into the chat pipeline.
func (b *Bot) handleVoice(ctx context.Context, msg *models.Message) {
	messagesProcessed.WithLabelValues("voice").Inc()

	user, err := b.getOrCreateUser(ctx, msg.From)
	if err != nil {
		b.logger.Error(ctx, "failed to load user", "err", err)
		return
	}
	chatID := msg.Chat.ID
	lang := user.Language

	data, err := b.downloadFile(ctx, msg.Voice.FileID)
	if err != nil {
		errorsTotal.WithLabelValues("download_file").Inc()
		b.logger.Error(ctx, "failed to download voice", "user", user.TelegramID, "err", err)
		return
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("voice_%d_%d.ogg", user.TelegramID, time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		b.logger.Error(ctx, "failed to store voice file", "err", err)
		return
	}
	defer os.Remove(tmp)

	started := time.Now()
	text, err := b.transcriber.Transcribe(ctx, tmp)
	transcriptionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		errorsTotal.WithLabelValues("transcription").Inc()
		b.logger.Error(ctx, "failed to transcribe voice", "user", user.TelegramID, "err", err)
		return
	}
	if text == "" {
		return
	}

	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "voice_transcribed", text), nil)
	b.runChatMessage(ctx, chatID, user, text)
}

// runStoredUpload resolves a document/photo options button against the
// stored upload.
func (b *Bot) runStoredUpload(ctx context.Context, user *User, chatID int64, kind uploadKind, mode string) {
	lang := user.Language
	if mode != "analyze" && mode != "translate" {
		b.recoveryScreen(ctx, chatID, user.TelegramID)
		return
	}

	s := b.sessions.Get(user.TelegramID)
	var args *OpArgs
	switch kind {
	case documentUpload:
		args = s.LastDocument
	case photoUpload:
		args = s.LastPhoto
	}
	if args == nil {
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "op_expired"), nil)
		return
	}

	var op Operation
	if kind == documentUpload {
		op = b.documentOperation(user, *args, mode)
	} else {
		op = b.photoOperation(user, *args, mode)
	}

	if err := b.executor.Run(ctx, b.ui(chatID), user.TelegramID, lang, op); err != nil {
		b.logOperationOutcome(ctx, op.Name, user.TelegramID, err)
	}
}

// startNewChat opens a fresh conversation and unlocks the chat gate.
func (b *Bot) startNewChat(ctx context.Context, chatID int64, user *User) {
	lang := user.Language

	if _, err := b.history.NewConversation(ctx, user.TelegramID); err != nil {
		b.logger.Error(ctx, "failed to start conversation", "user", user.TelegramID, "err", err)
		return
	}
	b.markInitialized(ctx, user)

	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "new_chat_started"), nil)
}

// resumeLastChat surfaces the tail of the active conversation.
func (b *Bot) resumeLastChat(ctx context.Context, chatID int64, user *User) {
	lang := user.Language

	convID, err := b.history.ActiveConversation(ctx, user.TelegramID)
	if err != nil {
		b.logger.Error(ctx, "failed to resolve conversation", "user", user.TelegramID, "err", err)
		return
	}
	msgs, err := b.history.History(ctx, convID, 5)
	if err != nil {
		b.logger.Error(ctx, "failed to load history", "user", user.TelegramID, "err", err)
		return
	}
	b.markInitialized(ctx, user)

	var lastReply string
	for _, m := range msgs {
		if m.Role == "assistant" {
			lastReply = m.Content
		}
	}
	if lastReply == "" {
		_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "history_empty"), nil)
		return
	}
	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "last_chat_resumed", lastReply), nil)
}

// clearHistory wipes the active conversation and starts a new one.
func (b *Bot) clearHistory(ctx context.Context, chatID int64, user *User) {
	lang := user.Language

	convID, err := b.history.ActiveConversation(ctx, user.TelegramID)
	if err == nil {
		err = b.history.Clear(ctx, convID)
	}
	if err == nil {
		_, err = b.history.NewConversation(ctx, user.TelegramID)
	}
	if err != nil {
		b.logger.Error(ctx, "failed to clear history", "user", user.TelegramID, "err", err)
		return
	}

	_, _ = b.ui(chatID).SendText(ctx, i18n.Get(lang, "history_cleared"), nil)
}

func (b *Bot) logOperationOutcome(ctx context.Context, name string, userID int64, err error) {
	if errors.Is(err, ErrAwaitingConfirmation) || errors.Is(err, credits.ErrInsufficientCredits) {
		return // both already answered in chat
	}
	b.logger.Error(ctx, "operation failed", "operation", name, "user", userID, "err", err)
}

// messageOperation builds the streamed chat turn for text.
func (b *Bot) messageOperation(user *User, chatID int64, text string) Operation {
	s := b.sessions.Get(user.TelegramID)
	mode := ai.ModeByID(s.Mode)
	model := mode.Model
	if model == "" {
		model = s.Model
	}

	return Operation{
		Kind:  OpMessage,
		Name:  "message",
		Label: i18n.Get(user.Language, "opname_message"),
		Cost:  mode.MessageCost(s.Model),
		Args:  OpArgs{Text: text},
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			convID, err := b.history.ActiveConversation(ctx, user.TelegramID)
			if err != nil {
				return "", false, fmt.Errorf("resolve conversation: %w", err)
			}

			past, err := b.history.History(ctx, convID, 20)
			if err != nil {
				return "", false, fmt.Errorf("load history: %w", err)
			}

			messages := make([]services.ChatMessage, 0, len(past)+2)
			messages = append(messages, services.ChatMessage{Role: "system", Content: mode.Prompt})
			for _, m := range past {
				messages = append(messages, services.ChatMessage{Role: m.Role, Content: m.Content})
			}
			messages = append(messages, services.ChatMessage{Role: "user", Content: text})

			tokens, errc := b.assistant.CompleteStream(ctx, messages, model)
			renderer := messageRenderer{b: b, chatID: chatID, messageID: progressID}
			full, err := NewStreamAggregator(b.logger).Consume(ctx, tokens, errc, renderer)
			if err != nil {
				errorsTotal.WithLabelValues("assistant").Inc()
				return "", false, err
			}
			if full == "" {
				return "", false, errors.New("empty response")
			}

			now := time.Now()
			if err := b.history.SaveMessage(ctx, convID, history.Message{Role: "user", Content: text, At: now}); err != nil {
				b.logger.Error(ctx, "failed to save user message", "err", err)
			}
			if err := b.history.SaveMessage(ctx, convID, history.Message{Role: "assistant", Content: full, Model: model, At: now}); err != nil {
				b.logger.Error(ctx, "failed to save assistant message", "err", err)
			}

			return full, true, nil
		},
	}
}

// documentOperation builds document analysis or translation.
func (b *Bot) documentOperation(user *User, args OpArgs, mode string) Operation {
	kind, name, cost := OpDocumentAnalyze, "document_analyze", credits.CostDocumentAnalyze
	if mode == "translate" {
		kind, name, cost = OpDocumentTranslate, "document_translate", credits.CostDocumentTranslate
	}

	return Operation{
		Kind:  kind,
		Name:  name,
		Label: i18n.Get(user.Language, "opname_"+name),
		Cost:  cost,
		Args:  args,
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			data, err := b.downloadFile(ctx, args.FileID)
			if err != nil {
				errorsTotal.WithLabelValues("download_file").Inc()
				return "", false, err
			}
			result, err := b.assistant.AnalyzeDocument(ctx, data, args.FileName, mode, args.TargetLang)
			if err != nil {
				errorsTotal.WithLabelValues("assistant").Inc()
				return "", false, err
			}
			return result, false, nil
		},
	}
}

// photoOperation builds photo analysis or translation.
func (b *Bot) photoOperation(user *User, args OpArgs, mode string) Operation {
	kind, name, cost := OpPhotoAnalyze, "photo_analyze", credits.CostPhotoAnalyze
	if mode == "translate" {
		kind, name, cost = OpPhotoTranslate, "photo_translate", credits.CostPhotoTranslate
	}

	return Operation{
		Kind:  kind,
		Name:  name,
		Label: i18n.Get(user.Language, "opname_"+name),
		Cost:  cost,
		Args:  args,
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			data, err := b.downloadFile(ctx, args.FileID)
			if err != nil {
				errorsTotal.WithLabelValues("download_file").Inc()
				return "", false, err
			}
			result, err := b.assistant.AnalyzeImage(ctx, data, args.FileName, mode, args.TargetLang)
			if err != nil {
				errorsTotal.WithLabelValues("assistant").Inc()
				return "", false, err
			}
			return result, false, nil
		},
	}
}

// translateOperation builds plain text translation.
func (b *Bot) translateOperation(user *User, text, targetLang string) Operation {
	return Operation{
		Kind:  OpTextTranslate,
		Name:  "text_translate",
		Label: i18n.Get(user.Language, "opname_text_translate"),
		Cost:  credits.CostTextTranslate,
		Args:  OpArgs{Text: text, TargetLang: targetLang},
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			result, err := b.assistant.Translate(ctx, text, targetLang)
			if err != nil {
				errorsTotal.WithLabelValues("assistant").Inc()
				return "", false, err
			}
			return i18n.Get(user.Language, "translate_result", targetLang, result), false, nil
		},
	}
}
