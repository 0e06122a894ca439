package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

// ErrInsufficientBalance is returned by Deduct when the conditional
// debit matches no row, i.e. the balance is lower than the amount.
var ErrInsufficientBalance = errors.New("insufficient credit balance")

const initialCreditBalance = 20

type UsersRepo struct {
	db DB
}

func NewUsersRepo(db DB) UsersRepo {
	return UsersRepo{db: db}
}

// GetOrCreateByTelegramID returns the user for a Telegram account,
// inserting a fresh one with the starter balance on first contact.
func (r UsersRepo) GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, firstName string) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).Where("telegram_id = ?", telegramID).Select()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pg.ErrNoRows) {
		return nil, fmt.Errorf("select user: %w", err)
	}

	user = &User{
		TelegramID:    telegramID,
		Username:      username,
		FirstName:     firstName,
		ChatMode:      "no_mode",
		CreditBalance: initialCreditBalance,
		CreatedAt:     time.Now(),
	}
	_, err = r.db.ModelContext(ctx, user).
		OnConflict("(telegram_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Returning("*").
		Insert()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r UsersRepo) ByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).Where("telegram_id = ?", telegramID).Select()
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (r UsersRepo) UpdateLanguage(ctx context.Context, telegramID int64, lang string) error {
	return r.updateColumn(ctx, telegramID, "language_code", lang)
}

func (r UsersRepo) UpdateChatMode(ctx context.Context, telegramID int64, mode string) error {
	return r.updateColumn(ctx, telegramID, "chat_mode", mode)
}

func (r UsersRepo) UpdateModel(ctx context.Context, telegramID int64, model string) error {
	return r.updateColumn(ctx, telegramID, "model", model)
}

func (r UsersRepo) UpdateName(ctx context.Context, telegramID int64, name string) error {
	return r.updateColumn(ctx, telegramID, "first_name", name)
}

func (r UsersRepo) MarkChatInitialized(ctx context.Context, telegramID int64) error {
	return r.updateColumn(ctx, telegramID, "chat_initialized", true)
}

func (r UsersRepo) updateColumn(ctx context.Context, telegramID int64, column string, value any) error {
	res, err := r.db.ModelContext(ctx, (*User)(nil)).
		Set("? = ?", pg.Ident(column), value).
		Where("telegram_id = ?", telegramID).
		Update()
	if err != nil {
		return fmt.Errorf("update user %s: %w", column, err)
	}
	if res.RowsAffected() == 0 {
		return pg.ErrNoRows
	}
	return nil
}

// Balance reads the current credit balance straight from the ledger.
func (r UsersRepo) Balance(ctx context.Context, telegramID int64) (int, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).
		Column("credit_balance").
		Where("telegram_id = ?", telegramID).
		Select()
	if err != nil {
		return 0, fmt.Errorf("select balance: %w", err)
	}
	return user.CreditBalance, nil
}

// Deduct removes amount credits and records a ledger entry. The debit is
// conditional on the balance covering the amount, so a concurrent spend
// cannot drive the balance negative.
func (r UsersRepo) Deduct(ctx context.Context, telegramID int64, amount int, operation string) (balanceAfter int, err error) {
	if amount < 0 {
		return 0, fmt.Errorf("negative deduct amount %d", amount)
	}

	err = r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		user := &User{}
		res, err := tx.ModelContext(ctx, user).
			Set("credit_balance = credit_balance - ?", amount).
			Where("telegram_id = ? AND credit_balance >= ?", telegramID, amount).
			Returning("id, credit_balance").
			Update()
		if err != nil {
			return fmt.Errorf("debit user: %w", err)
		}
		if res.RowsAffected() == 0 {
			return ErrInsufficientBalance
		}

		balanceAfter = user.CreditBalance
		trx := &CreditTransaction{
			UserID:       user.ID,
			Amount:       -amount,
			BalanceAfter: balanceAfter,
			Operation:    operation,
			CreatedAt:    time.Now(),
		}
		if _, err := tx.ModelContext(ctx, trx).Insert(); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})

	return balanceAfter, err
}

// Grant adds amount credits (purchases, starter packs) with a ledger entry.
func (r UsersRepo) Grant(ctx context.Context, telegramID int64, amount int, operation string) (balanceAfter int, err error) {
	if amount < 0 {
		return 0, fmt.Errorf("negative grant amount %d", amount)
	}

	err = r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		user := &User{}
		res, err := tx.ModelContext(ctx, user).
			Set("credit_balance = credit_balance + ?", amount).
			Where("telegram_id = ?", telegramID).
			Returning("id, credit_balance").
			Update()
		if err != nil {
			return fmt.Errorf("credit user: %w", err)
		}
		if res.RowsAffected() == 0 {
			return pg.ErrNoRows
		}

		balanceAfter = user.CreditBalance
		trx := &CreditTransaction{
			UserID:       user.ID,
			Amount:       amount,
			BalanceAfter: balanceAfter,
			Operation:    operation,
			CreatedAt:    time.Now(),
		}
		if _, err := tx.ModelContext(ctx, trx).Insert(); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})

	return balanceAfter, err
}

// Transactions returns the latest ledger entries for a user, newest first.
func (r UsersRepo) Transactions(ctx context.Context, telegramID int64, limit int) ([]CreditTransaction, error) {
	user, err := r.ByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	var list []CreditTransaction
	err = r.db.ModelContext(ctx, &list).
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Limit(limit).
		Select()
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	return list, nil
}
