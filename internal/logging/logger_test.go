package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", "ytdash-api")

	logger.Info().Str("channel_id", "UC123").Msg("resolved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ytdash-api", entry["service"])
	assert.Equal(t, "UC123", entry["channel_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewWithWriter(&bytes.Buffer{}, tt.level, "test")
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}
