package credits

import "fmt"

// WarnLevel grades how heavy an operation cost is against the balance.
type WarnLevel int

const (
	LevelNone WarnLevel = iota
	LevelInfo
	LevelWarning
	LevelCritical
)

func (l WarnLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "none"
	}
}

// CostWarning describes the pre-flight verdict for a billable operation.
type CostWarning struct {
	Level                WarnLevel
	Message              string
	RequiresConfirmation bool
}

// Evaluate grades cost against balance. Affordability is the caller's
// concern; Evaluate assumes cost <= balance and only decides whether the
// spend is large enough to warn about or to confirm interactively.
//
// Thresholds: critical above 50% of the balance, warning above 20% or at
// an absolute cost of 10+, info above 10%. Only warning and critical
// require confirmation.
func Evaluate(cost, balance int, operation string) CostWarning {
	if cost <= 0 || balance <= 0 {
		return CostWarning{Level: LevelNone}
	}

	ratio := float64(cost) / float64(balance)

	var level WarnLevel
	switch {
	case ratio > 0.5:
		level = LevelCritical
	case ratio > 0.2 || cost >= 10:
		level = LevelWarning
	case ratio > 0.1:
		level = LevelInfo
	default:
		return CostWarning{Level: LevelNone}
	}

	return CostWarning{
		Level: level,
		Message: fmt.Sprintf("%s costs %d credits (%.0f%% of your %d credit balance)",
			operation, cost, ratio*100, balance),
		RequiresConfirmation: level >= LevelWarning,
	}
}
