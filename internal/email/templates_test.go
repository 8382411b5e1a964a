package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResetCode(t *testing.T) {
	htmlBody, textBody, err := RenderResetCode(ResetCodeData{
		Code:          "042137",
		ValidityLabel: "10 minutes",
	})
	require.NoError(t, err)

	assert.Contains(t, htmlBody, "042137")
	assert.Contains(t, htmlBody, "10 minutes")
	assert.Contains(t, htmlBody, "Password Reset Request")
	assert.Contains(t, textBody, "042137")
	assert.Contains(t, textBody, "10 minutes")
}

func TestValidityLabel(t *testing.T) {
	assert.Equal(t, "10 minutes", validityLabel(10*time.Minute))
	assert.Equal(t, "1 minute", validityLabel(time.Minute))
}
