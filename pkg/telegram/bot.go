package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vmkteam/embedlog"

	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/db"
	"github.com/kdziekansky/telegram3333/pkg/history"
	"github.com/kdziekansky/telegram3333/pkg/services"
)

type Bot struct {
	api         *bot.Bot
	logger      embedlog.Logger
	users       db.UsersRepo
	credits     *credits.Manager
	history     *history.Store
	assistant   services.Assistant
	transcriber services.Transcriber
	sessions    *SessionStore
	executor    *Executor
	debug       bool
}

type Config struct {
	Token string
	Debug bool
}

// Deps are the services the bot routes updates to.
type Deps struct {
	Users       db.UsersRepo
	Credits     *credits.Manager
	History     *history.Store
	Assistant   services.Assistant
	Transcriber services.Transcriber
}

// New creates a new Telegram bot instance
func New(cfg Config, deps Deps, logger embedlog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}

	sessions := NewSessionStore()
	b := &Bot{
		logger:      logger,
		users:       deps.Users,
		credits:     deps.Credits,
		history:     deps.History,
		assistant:   deps.Assistant,
		transcriber: deps.Transcriber,
		sessions:    sessions,
		executor:    NewExecutor(deps.Credits, sessions, logger),
		debug:       cfg.Debug,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.handleDefault),
	}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	api, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	b.api = api

	b.registerHandlers()

	return b, nil
}

// Start starts the bot with long polling
func (b *Bot) Start(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	b.logger.Print(ctx, "telegram bot started", "username", me.Username, "id", me.ID)
	b.api.Start(ctx)

	return nil
}

// Stop gracefully stops the bot
func (b *Bot) Stop(ctx context.Context) {
	b.logger.Print(ctx, "stopping telegram bot")
}

// registerHandlers registers all command handlers
func (b *Bot) registerHandlers() {
	// Command handlers
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.handleStart)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/menu", bot.MatchTypeExact, b.handleMenu)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, b.handleHelp)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/newchat", bot.MatchTypeExact, b.handleNewChat)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, b.handleCancelCommand)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/translate", bot.MatchTypePrefix, b.handleTranslateCommand)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/setname", bot.MatchTypePrefix, b.handleSetNameCommand)

	// Callback query handler for inline keyboards
	b.api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, b.handleCallback)

	// Text message handler for chat input
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, b.handleMessage)
}

// handleDefault routes non-text updates: documents, photos and voice
// notes arrive here because text handlers never match them.
func (b *Bot) handleDefault(ctx context.Context, api *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.Document != nil:
		b.handleDocument(ctx, msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	case msg.Voice != nil:
		b.handleVoice(ctx, msg)
	}
}

// chatUI binds the executor's output surface to one chat.
type chatUI struct {
	b      *Bot
	chatID int64
}

func (b *Bot) ui(chatID int64) chatUI {
	return chatUI{b: b, chatID: chatID}
}

func (u chatUI) SendText(ctx context.Context, text string, kb models.ReplyMarkup) (int, error) {
	msg, err := u.b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      u.chatID,
		Text:        clampMessage(text),
		ReplyMarkup: kb,
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (u chatUI) EditText(ctx context.Context, messageID int, text string) error {
	_, err := u.b.api.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    u.chatID,
		MessageID: messageID,
		Text:      clampMessage(text),
	})
	return err
}

func (u chatUI) DeleteMessage(ctx context.Context, messageID int) error {
	_, err := u.b.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    u.chatID,
		MessageID: messageID,
	})
	return err
}

// maxMessageLen keeps edits under Telegram's 4096-char message cap.
const maxMessageLen = 4000

func clampMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return text
	}
	return string(runes[:maxMessageLen]) + "…"
}

// messageRenderer draws streamed output into a single message,
// markdown first, plain on fallback.
type messageRenderer struct {
	b         *Bot
	chatID    int64
	messageID int
}

func (r messageRenderer) Render(ctx context.Context, text string) error {
	_, err := r.b.api.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    r.chatID,
		MessageID: r.messageID,
		Text:      clampMessage(text),
		ParseMode: models.ParseModeMarkdown,
	})
	return err
}

func (r messageRenderer) RenderPlain(ctx context.Context, text string) error {
	_, err := r.b.api.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    r.chatID,
		MessageID: r.messageID,
		Text:      clampMessage(text),
	})
	return err
}

// downloadFile fetches a Telegram file's content by file id.
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.api.FileDownloadLink(file), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
