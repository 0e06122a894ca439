package telegram

// User represents a user in the telegram bot layer
type User struct {
	ID            int
	TelegramID    int64
	Username      string
	Name          string
	Language      string
	ChatMode      string
	Model         string
	Initialized   bool
	CreditBalance int
}
