package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New("debug", FormatJSON, &buf), "ledger")

	log.Info().Str("refrigerant", "R-22").Msg("entry recorded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "R-22", line["refrigerant"])
	assert.Equal(t, "entry recorded", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", FormatJSON, &buf)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("loud", FormatJSON, &bytes.Buffer{}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", FormatJSON, &bytes.Buffer{}).GetLevel())
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", FormatConsole, &buf)
	log.Info().Msg("listening")

	assert.Contains(t, buf.String(), "listening")
	assert.False(t, json.Valid(buf.Bytes()), "console output is not JSON")
}
