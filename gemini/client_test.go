package gemini_test

import (
	"context"
	"testing"

	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete_ReturnsErrorWhenPromptEmpty(t *testing.T) {
	t.Parallel()

	client := gemini.NewClient(nil) // nil genai client ok for this test

	_, err := client.Complete(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, scrapemill.EINVALID, scrapemill.ErrorCode(err))
	assert.Contains(t, scrapemill.ErrorMessage(err), "prompt required")
}

func TestBuildConfig_SetsLowTemperature(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.1, *config.Temperature, 0.001)
}
