package telegram

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelPendingCountsDeclined(t *testing.T) {
	b := &Bot{sessions: NewSessionStore()}
	b.sessions.SetPending(9, PendingOperation{Kind: OpPhotoAnalyze, Name: "photo_analyze", Cost: 8, CreatedAt: time.Now()})

	declined := operationsExecuted.WithLabelValues("photo_analyze", "declined")
	before := testutil.ToFloat64(declined)

	pending, ok := b.cancelPending(9)
	require.True(t, ok)
	assert.Equal(t, OpPhotoAnalyze, pending.Kind)
	assert.Equal(t, before+1, testutil.ToFloat64(declined))

	// cancelling again finds nothing and counts nothing
	_, ok = b.cancelPending(9)
	assert.False(t, ok)
	assert.Equal(t, before+1, testutil.ToFloat64(declined))
}
