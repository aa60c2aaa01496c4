package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCodecErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := CodecErrors(zap.New(core))

	sink.Report("<EvseStatus>Exploded</EvseStatus>", errors.New("unknown EVSE status"))
	sink.Report("<ignored/>", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "codec error", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "<EvseStatus>Exploded</EvseStatus>", fields["node"])
	assert.Equal(t, "unknown EVSE status", fields["error"])
	assert.Contains(t, fields, "at")
}

func TestCodecErrorsNilLogger(t *testing.T) {
	assert.Nil(t, CodecErrors(nil))
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", " DEBUG ")
	assert.Equal(t, zapcore.DebugLevel, levelFromEnv())

	t.Setenv("LOG_LEVEL", "chatty")
	assert.Equal(t, zapcore.InfoLevel, levelFromEnv())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("hub-service")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
