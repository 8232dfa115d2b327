package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.WarnLevel},
		{"loud", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Options{Level: "info", Format: "json", Output: &buf}), "scanner")

	logger.Debug().Msg("hidden")
	logger.Info().Str("extension", "zed-ruby").Msg("scanned")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "scanner", line["component"])
	assert.Equal(t, "zed-ruby", line["extension"])
	assert.Equal(t, "scanned", line["message"])
}

func TestNew_VerboseOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "error", Output: &buf, Verbose: true})
	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
