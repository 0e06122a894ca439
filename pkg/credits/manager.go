package credits

import (
	"context"
	"errors"
	"fmt"

	"github.com/kdziekansky/telegram3333/pkg/db"
	"github.com/vmkteam/embedlog"
)

// ErrInsufficientCredits is returned when the balance cannot cover a cost.
var ErrInsufficientCredits = errors.New("insufficient credits")

// Ledger is the balance store the manager meters against.
type Ledger interface {
	Balance(ctx context.Context, telegramID int64) (int, error)
	Deduct(ctx context.Context, telegramID int64, amount int, operation string) (int, error)
}

// UsageReport summarizes a completed debit.
type UsageReport struct {
	Operation string
	Cost      int
	Before    int
	After     int
}

// LowBalance reports whether the remaining balance warrants a top-up hint.
func (r UsageReport) LowBalance() bool {
	return r.After < LowBalanceThreshold
}

// Manager meters operations against the prepaid ledger. Balances are
// never cached between calls.
type Manager struct {
	embedlog.Logger
	ledger Ledger
}

func NewManager(ledger Ledger, logger embedlog.Logger) *Manager {
	return &Manager{Logger: logger, ledger: ledger}
}

func (m *Manager) Balance(ctx context.Context, telegramID int64) (int, error) {
	return m.ledger.Balance(ctx, telegramID)
}

// CheckAffordable reads the live balance and reports whether it covers cost.
func (m *Manager) CheckAffordable(ctx context.Context, telegramID int64, cost int) (ok bool, balance int, err error) {
	balance, err = m.ledger.Balance(ctx, telegramID)
	if err != nil {
		return false, 0, fmt.Errorf("read balance: %w", err)
	}
	return balance >= cost, balance, nil
}

// Deduct debits cost after a successful operation and reports the spend.
func (m *Manager) Deduct(ctx context.Context, telegramID int64, cost int, operation string) (UsageReport, error) {
	after, err := m.ledger.Deduct(ctx, telegramID, cost, operation)
	if err != nil {
		if errors.Is(err, db.ErrInsufficientBalance) {
			err = ErrInsufficientCredits
		}
		return UsageReport{}, err
	}

	report := UsageReport{
		Operation: operation,
		Cost:      cost,
		Before:    after + cost,
		After:     after,
	}
	m.Print(ctx, "credits deducted", "user", telegramID, "operation", operation, "cost", cost, "balance", after)

	return report, nil
}
