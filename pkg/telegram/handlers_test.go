package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdziekansky/telegram3333/pkg/credits"
)

func TestOversizedUploadRejected(t *testing.T) {
	warn, reject := oversizedUpload("en", 26*1024*1024)
	require.True(t, reject)
	assert.Contains(t, warn, "25")
	assert.Contains(t, warn, "26.0")
}

func TestUploadWithinLimitAccepted(t *testing.T) {
	for _, size := range []int64{credits.MaxFileSize, credits.MaxFileSize - 1, 1024} {
		_, reject := oversizedUpload("en", size)
		assert.False(t, reject, "size %d must pass the gate", size)
	}
}

func TestCaptionModeMapping(t *testing.T) {
	tests := []struct {
		caption string
		want    string
	}{
		{"translate to english", "translate"},
		{"Tłumacz na polski", "translate"},
		{"перевод", "translate"},
		{"analyze this", "analyze"},
		{"Analiza", "analyze"},
		{"hello there", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, captionMode(tt.caption), "caption %q", tt.caption)
	}
}
