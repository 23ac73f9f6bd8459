package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInMessage_ValidJSON(t *testing.T) {
	msg, err := parseInMessage([]byte(`{"action":"set-mix","value":42}`))
	require.NoError(t, err)
	assert.Equal(t, ActionSetMix, msg.Action)
	assert.Equal(t, 42, msg.Value)
}

func TestParseInMessage_RejectsBadJSON(t *testing.T) {
	_, err := parseInMessage([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFrameBuilders(t *testing.T) {
	assert.Equal(t, "ack:pause", ackFrame(ActionPause))
	assert.Equal(t, "ack:set-mix:50", ackFrameWith(ActionSetMix, "50"))
	assert.Equal(t, "error:badjson", errorFrame(errBadJSON))
	assert.Equal(t, "highlight:3", highlightFrame(3))
	assert.Equal(t, "treatment-state:{}", treatmentStateFrame("{}"))
}
