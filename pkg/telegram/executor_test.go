package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/embedlog"

	"github.com/kdziekansky/telegram3333/pkg/credits"
)

type sentMessage struct {
	ID   int
	Text string
	KB   models.ReplyMarkup
}

type fakeUI struct {
	nextID  int
	sent    []sentMessage
	edits   map[int][]string
	deleted []int
}

func newFakeUI() *fakeUI {
	return &fakeUI{edits: map[int][]string{}}
}

func (f *fakeUI) SendText(ctx context.Context, text string, kb models.ReplyMarkup) (int, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{ID: f.nextID, Text: text, KB: kb})
	return f.nextID, nil
}

func (f *fakeUI) EditText(ctx context.Context, messageID int, text string) error {
	f.edits[messageID] = append(f.edits[messageID], text)
	return nil
}

func (f *fakeUI) DeleteMessage(ctx context.Context, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeUI) sentTexts() []string {
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Text
	}
	return out
}

type fakeLedger struct {
	balance   int
	deducts   []int
	deductErr error
}

func (f *fakeLedger) CheckAffordable(ctx context.Context, userID int64, cost int) (bool, int, error) {
	return f.balance >= cost, f.balance, nil
}

func (f *fakeLedger) Deduct(ctx context.Context, userID int64, cost int, operation string) (credits.UsageReport, error) {
	if f.deductErr != nil {
		return credits.UsageReport{}, f.deductErr
	}
	before := f.balance
	f.balance -= cost
	f.deducts = append(f.deducts, cost)
	return credits.UsageReport{Operation: operation, Cost: cost, Before: before, After: f.balance}, nil
}

func newTestExecutor(ledger *fakeLedger) (*Executor, *SessionStore) {
	sessions := NewSessionStore()
	return NewExecutor(ledger, sessions, embedlog.NewLogger(false, false)), sessions
}

func textOp(cost int, result string, err error) Operation {
	return Operation{
		Kind:  OpTextTranslate,
		Name:  "text_translate",
		Label: "Text translation",
		Cost:  cost,
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			return result, false, err
		},
	}
}

func TestExecutorNoChargeOnFailure(t *testing.T) {
	ledger := &fakeLedger{balance: 100}
	e, _ := newTestExecutor(ledger)
	ui := newFakeUI()

	err := e.Run(context.Background(), ui, 1, "en", textOp(3, "", errors.New("model down")))
	require.Error(t, err)

	assert.Empty(t, ledger.deducts, "failed operation must not be charged")
	assert.Equal(t, 100, ledger.balance)

	// the in-progress indicator is replaced by the error report
	require.Len(t, ui.sent, 1)
	edits := ui.edits[ui.sent[0].ID]
	require.NotEmpty(t, edits)
	assert.Contains(t, edits[len(edits)-1], "model down")
}

func TestExecutorDebitsAfterSuccess(t *testing.T) {
	ledger := &fakeLedger{balance: 100}
	e, _ := newTestExecutor(ledger)
	ui := newFakeUI()

	err := e.Run(context.Background(), ui, 1, "en", textOp(3, "done", nil))
	require.NoError(t, err)

	require.Equal(t, []int{3}, ledger.deducts)
	assert.Equal(t, 97, ledger.balance)

	// progress message replaced with the result
	edits := ui.edits[ui.sent[0].ID]
	require.NotEmpty(t, edits)
	assert.Equal(t, "done", edits[len(edits)-1])

	// usage report mentions cost and both balances
	reports := ui.sentTexts()
	joined := strings.Join(reports, "\n")
	assert.Contains(t, joined, "100")
	assert.Contains(t, joined, "97")
}

func TestExecutorInsufficientCredits(t *testing.T) {
	ledger := &fakeLedger{balance: 2}
	e, _ := newTestExecutor(ledger)
	ui := newFakeUI()

	ran := false
	op := textOp(5, "x", nil)
	op.Run = func(ctx context.Context, progressID int) (string, bool, error) {
		ran = true
		return "x", false, nil
	}

	err := e.Run(context.Background(), ui, 1, "en", op)
	require.ErrorIs(t, err, credits.ErrInsufficientCredits)
	assert.False(t, ran, "operation must not run without funds")
	assert.Empty(t, ledger.deducts)

	require.Len(t, ui.sent, 1)
	assert.Contains(t, ui.sent[0].Text, "5")
	assert.Contains(t, ui.sent[0].Text, "2")
	assert.Contains(t, ui.sent[0].Text, "3", "message states the exact shortfall")
	assert.NotNil(t, ui.sent[0].KB, "shortfall message offers a buy button")
}

func TestExecutorCheapOperationSkipsConfirmation(t *testing.T) {
	ledger := &fakeLedger{balance: 100}
	e, sessions := newTestExecutor(ledger)
	ui := newFakeUI()

	err := e.Run(context.Background(), ui, 1, "en", textOp(3, "ok", nil))
	require.NoError(t, err)

	_, pending := sessions.TakePending(1)
	assert.False(t, pending, "3 of 100 credits must not require confirmation")
}

func TestExecutorExpensiveOperationParksPending(t *testing.T) {
	ledger := &fakeLedger{balance: 10}
	e, sessions := newTestExecutor(ledger)
	ui := newFakeUI()

	ran := false
	op := Operation{
		Kind:  OpDocumentTranslate,
		Name:  "document_translate",
		Label: "Document translation",
		Cost:  8,
		Args:  OpArgs{FileID: "f123", FileName: "notes.txt", TargetLang: "pl"},
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			ran = true
			return "x", false, nil
		},
	}

	err := e.Run(context.Background(), ui, 1, "en", op)
	require.ErrorIs(t, err, ErrAwaitingConfirmation)
	assert.False(t, ran)
	assert.Empty(t, ledger.deducts)

	pending, ok := sessions.TakePending(1)
	require.True(t, ok)
	assert.Equal(t, OpDocumentTranslate, pending.Kind)
	assert.Equal(t, "document_translate", pending.Name)
	assert.Equal(t, 8, pending.Cost)
	assert.Equal(t, "f123", pending.Args.FileID)
	assert.Equal(t, "pl", pending.Args.TargetLang)
	assert.False(t, pending.CreatedAt.IsZero())
}

func TestExecutorRunConfirmedSkipsWarningGate(t *testing.T) {
	ledger := &fakeLedger{balance: 10}
	e, sessions := newTestExecutor(ledger)
	ui := newFakeUI()

	op := Operation{
		Kind:  OpPhotoAnalyze,
		Name:  "photo_analyze",
		Label: "Photo analysis",
		Cost:  8,
		Run: func(ctx context.Context, progressID int) (string, bool, error) {
			return "a cat", false, nil
		},
	}

	err := e.RunConfirmed(context.Background(), ui, 1, "en", op)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, ledger.deducts)

	_, pending := sessions.TakePending(1)
	assert.False(t, pending)
}

func TestExecutorLowBalanceNotice(t *testing.T) {
	tests := []struct {
		name       string
		balance    int
		cost       int
		wantNotice bool
	}{
		{"drops below threshold", 6, 2, true},
		{"stays above threshold", 10, 2, false},
		{"lands exactly on threshold", 7, 2, false}, // 5 left, threshold is strict
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{balance: tt.balance}
			e, _ := newTestExecutor(ledger)
			ui := newFakeUI()

			err := e.RunConfirmed(context.Background(), ui, 1, "en", textOp(tt.cost, "ok", nil))
			require.NoError(t, err)

			joined := strings.Join(ui.sentTexts(), "\n")
			if tt.wantNotice {
				assert.Contains(t, joined, "running low")
			} else {
				assert.NotContains(t, joined, "running low")
			}
		})
	}
}

func TestExecutorDeductFailureReported(t *testing.T) {
	ledger := &fakeLedger{balance: 100, deductErr: errors.New("db gone")}
	e, _ := newTestExecutor(ledger)
	ui := newFakeUI()

	err := e.Run(context.Background(), ui, 1, "en", textOp(3, "ok", nil))
	require.Error(t, err)

	edits := ui.edits[ui.sent[0].ID]
	require.NotEmpty(t, edits)
	assert.Contains(t, edits[len(edits)-1], "db gone")
}

func TestExecutorEmptyResultIsFailure(t *testing.T) {
	ledger := &fakeLedger{balance: 100}
	e, _ := newTestExecutor(ledger)
	ui := newFakeUI()

	err := e.Run(context.Background(), ui, 1, "en", textOp(3, "", nil))
	require.Error(t, err)
	assert.Empty(t, ledger.deducts)
}
