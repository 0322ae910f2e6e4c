package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateset-io/stateset-client/pkg/logging"
)

func TestSetupLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.Setup(logging.Config{Level: "warn", Output: &buf})

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetupDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.Setup(logging.Config{Output: &buf})

	logger.Debug().Msg("dropped")
	logger.Info().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetupInvalidLevelFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.Setup(logging.Config{Level: "shouting", Output: &buf})

	logger.Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestAdapterEmitsFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	adapter := logging.NewAdapter(zerolog.New(&buf))

	adapter.Info("request completed", map[string]interface{}{
		"method": "GET",
		"status": 200,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.InDelta(t, 200, entry["status"], 0.1)
	assert.Equal(t, "info", entry["level"])
}

func TestAdapterLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	adapter := logging.NewAdapter(zerolog.New(&buf))

	adapter.Debug("d", nil)
	adapter.Warn("w", nil)
	adapter.Error("e", nil)

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"level":"error"`)
}
