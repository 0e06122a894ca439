package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLevels(t *testing.T) {
	tests := []struct {
		name          string
		cost, balance int
		level         WarnLevel
		wantConfirm   bool
	}{
		{"cheap operation", 3, 100, LevelNone, false},
		{"just above info threshold", 11, 100, LevelWarning, true}, // cost >= 10 absolute
		{"info ratio", 8, 70, LevelInfo, false},
		{"warning ratio", 3, 10, LevelWarning, true},
		{"critical ratio", 6, 10, LevelCritical, true},
		{"exactly half is warning", 5, 10, LevelWarning, true},
		{"absolute ten", 10, 1000, LevelWarning, true},
		{"zero cost", 0, 10, LevelNone, false},
		{"zero balance", 5, 0, LevelNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Evaluate(tt.cost, tt.balance, "test op")
			assert.Equal(t, tt.level, w.Level)
			assert.Equal(t, tt.wantConfirm, w.RequiresConfirmation)
		})
	}
}

func TestEvaluateMessage(t *testing.T) {
	w := Evaluate(6, 10, "Photo analysis")
	require.Equal(t, LevelCritical, w.Level)
	assert.Contains(t, w.Message, "Photo analysis")
	assert.Contains(t, w.Message, "6 credits")
	assert.Contains(t, w.Message, "60%")

	none := Evaluate(3, 100, "Message")
	assert.Empty(t, none.Message)
}

func TestEvaluateInfoNeverConfirms(t *testing.T) {
	// 15% of balance, below the absolute threshold
	w := Evaluate(3, 20, "Message")
	require.Equal(t, LevelInfo, w.Level)
	assert.False(t, w.RequiresConfirmation)
}
