package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageCostFallback(t *testing.T) {
	assert.Equal(t, 3, MessageCost("gpt-4o"))
	assert.Equal(t, 1, MessageCost("gpt-4o-mini"))

	// unknown models always bill at the default rate
	assert.Equal(t, messageCosts["default"], MessageCost("some-future-model"))
	assert.Equal(t, messageCosts["default"], MessageCost(""))
}

func TestDefaultCostPresent(t *testing.T) {
	_, ok := messageCosts["default"]
	assert.True(t, ok, "message cost table must carry a default entry")
}
