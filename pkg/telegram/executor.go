package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/vmkteam/embedlog"

	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/i18n"
)

// ErrAwaitingConfirmation signals that the operation was parked behind
// a cost confirmation instead of running.
var ErrAwaitingConfirmation = errors.New("operation awaits confirmation")

// UI is the slice of chat output the executor needs. The bot provides a
// real implementation bound to a chat; tests provide fakes.
type UI interface {
	SendText(ctx context.Context, text string, kb models.ReplyMarkup) (int, error)
	EditText(ctx context.Context, messageID int, text string) error
	DeleteMessage(ctx context.Context, messageID int) error
}

// LedgerGateway is the credits surface the executor meters against.
type LedgerGateway interface {
	CheckAffordable(ctx context.Context, userID int64, cost int) (bool, int, error)
	Deduct(ctx context.Context, userID int64, cost int, operation string) (credits.UsageReport, error)
}

// Operation is one billable unit of work. Run receives the id of the
// in-progress message; it reports rendered=true when it already drew
// its output there (streaming), otherwise the executor renders result.
type Operation struct {
	Kind  OpKind
	Name  string // descriptor bound into confirm_operation_<name>
	Label string // localized, shown in warnings and reports
	Cost  int
	Args  OpArgs
	Run   func(ctx context.Context, progressID int) (result string, rendered bool, err error)
}

// Executor drives the lifecycle of credit-gated operations: check the
// balance, maybe ask for confirmation, show progress, run, debit only
// after success, report usage.
type Executor struct {
	embedlog.Logger
	ledger   LedgerGateway
	sessions *SessionStore
	now      func() time.Time
}

func NewExecutor(ledger LedgerGateway, sessions *SessionStore, logger embedlog.Logger) *Executor {
	return &Executor{
		Logger:   logger,
		ledger:   ledger,
		sessions: sessions,
		now:      time.Now,
	}
}

// Run takes an operation through the full gate sequence.
func (e *Executor) Run(ctx context.Context, ui UI, userID int64, lang string, op Operation) error {
	balance, err := e.gateAffordable(ctx, ui, userID, lang, op)
	if err != nil {
		return err
	}

	if warning := credits.Evaluate(op.Cost, balance, op.Label); warning.RequiresConfirmation {
		e.sessions.SetPending(userID, PendingOperation{
			Kind:      op.Kind,
			Name:      op.Name,
			Cost:      op.Cost,
			Args:      op.Args,
			CreatedAt: e.now(),
		})

		kb := confirmOperationKeyboard(lang, op.Name)
		if op.Kind == OpMessage {
			kb = confirmMessageKeyboard(lang)
		}
		if _, err := ui.SendText(ctx, i18n.Get(lang, "cost_confirm_prompt", warning.Message), kb); err != nil {
			return fmt.Errorf("send confirmation prompt: %w", err)
		}
		return ErrAwaitingConfirmation
	}

	return e.execute(ctx, ui, userID, lang, op)
}

// RunConfirmed executes an operation the user already confirmed. The
// balance is re-checked because it may have changed since the prompt.
func (e *Executor) RunConfirmed(ctx context.Context, ui UI, userID int64, lang string, op Operation) error {
	if _, err := e.gateAffordable(ctx, ui, userID, lang, op); err != nil {
		return err
	}
	return e.execute(ctx, ui, userID, lang, op)
}

func (e *Executor) gateAffordable(ctx context.Context, ui UI, userID int64, lang string, op Operation) (int, error) {
	ok, balance, err := e.ledger.CheckAffordable(ctx, userID, op.Cost)
	if err != nil {
		errorsTotal.WithLabelValues("database").Inc()
		return 0, fmt.Errorf("check balance: %w", err)
	}
	if !ok {
		operationsExecuted.WithLabelValues(op.Name, "insufficient").Inc()
		_, _ = ui.SendText(ctx, i18n.Get(lang, "credits_insufficient", op.Cost, balance, op.Cost-balance), buyCreditsKeyboard(lang))
		return 0, credits.ErrInsufficientCredits
	}
	return balance, nil
}

func (e *Executor) execute(ctx context.Context, ui UI, userID int64, lang string, op Operation) error {
	progressID, err := ui.SendText(ctx, i18n.Get(lang, "op_in_progress"), nil)
	if err != nil {
		return fmt.Errorf("send progress message: %w", err)
	}

	started := e.now()
	result, rendered, err := op.Run(ctx, progressID)
	operationDuration.WithLabelValues(op.Name).Observe(e.now().Sub(started).Seconds())
	if err == nil && result == "" && !rendered {
		err = errors.New("empty response")
	}
	if err != nil {
		operationsExecuted.WithLabelValues(op.Name, "failed").Inc()
		e.Error(ctx, "operation failed", "operation", op.Name, "user", userID, "err", err)
		_ = ui.EditText(ctx, progressID, i18n.Get(lang, "op_failed", err.Error()))
		return fmt.Errorf("%s: %w", op.Name, err)
	}

	report, err := e.ledger.Deduct(ctx, userID, op.Cost, op.Name)
	if err != nil {
		// completed but not billable; surface as a failure without retrying
		operationsExecuted.WithLabelValues(op.Name, "failed").Inc()
		e.Error(ctx, "deduct after success failed", "operation", op.Name, "user", userID, "err", err)
		_ = ui.EditText(ctx, progressID, i18n.Get(lang, "op_failed", err.Error()))
		return fmt.Errorf("deduct for %s: %w", op.Name, err)
	}

	if !rendered {
		if err := ui.EditText(ctx, progressID, result); err != nil {
			_, _ = ui.SendText(ctx, result, nil)
		}
	}

	operationsExecuted.WithLabelValues(op.Name, "ok").Inc()
	creditsSpent.Add(float64(op.Cost))

	_, _ = ui.SendText(ctx, i18n.Get(lang, "credits_usage_report", op.Label, report.Cost, report.Before, report.After), nil)
	if report.LowBalance() {
		_, _ = ui.SendText(ctx, i18n.Get(lang, "credits_low_balance", report.After), buyCreditsKeyboard(lang))
	}

	return nil
}
