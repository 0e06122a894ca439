package db

import "time"

// User is a bot user with the prepaid credit balance.
type User struct {
	tableName struct{} `pg:"users,alias:t,discard_unknown_columns"`

	ID              int       `pg:"id,pk"`
	TelegramID      int64     `pg:"telegram_id,use_zero"`
	Username        string    `pg:"username"`
	FirstName       string    `pg:"first_name"`
	LanguageCode    string    `pg:"language_code"`
	ChatMode        string    `pg:"chat_mode"`
	Model           string    `pg:"model"`
	ChatInitialized bool      `pg:"chat_initialized,use_zero"`
	CreditBalance   int       `pg:"credit_balance,use_zero"`
	CreatedAt       time.Time `pg:"created_at"`
}

// CreditTransaction is one ledger entry. Amount is negative for debits.
type CreditTransaction struct {
	tableName struct{} `pg:"credit_transactions,alias:t,discard_unknown_columns"`

	ID           int       `pg:"id,pk"`
	UserID       int       `pg:"user_id,use_zero"`
	Amount       int       `pg:"amount,use_zero"`
	BalanceAfter int       `pg:"balance_after,use_zero"`
	Operation    string    `pg:"operation"`
	CreatedAt    time.Time `pg:"created_at"`
}
