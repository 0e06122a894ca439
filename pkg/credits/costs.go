// Package credits holds the prepaid credit policy: the cost table for
// every billable operation, the warning thresholds shown before costly
// operations, and the ledger gateway used to read and debit balances.
package credits

const (
	// LowBalanceThreshold triggers the top-up suggestion after a debit.
	LowBalanceThreshold = 5

	// MaxFileSize bounds accepted document and photo uploads.
	MaxFileSize = 25 * 1024 * 1024
)

// Fixed operation costs in credits.
const (
	CostDocumentAnalyze   = 5
	CostPhotoAnalyze      = 8
	CostPhotoTranslate    = 8
	CostDocumentTranslate = 8
	CostTextTranslate     = 3
)

// messageCosts maps model id to the cost of one chat message. The
// "default" entry covers unknown models and must always be present.
var messageCosts = map[string]int{
	"gpt-4o":      3,
	"gpt-4o-mini": 1,
	"o3-mini":     1,
	"gpt-4":       5,
	"default":     1,
}

// MessageCost returns the per-message cost for a model, falling back to
// the default cost for models missing from the table.
func MessageCost(model string) int {
	if cost, ok := messageCosts[model]; ok {
		return cost
	}
	return messageCosts["default"]
}
