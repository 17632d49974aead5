package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/accept/school-service/internal/config"
)

func TestLoggerConfig_Production(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{Level: "WARN", Service: "school-service"})

	assert.False(t, cfg.Development)
	assert.NotNil(t, cfg.Sampling)
	assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
	assert.Equal(t, "json", cfg.Encoding)

	logger, err := NewLogger(config.LoggerConfig{Level: "error", Service: "school-service"})
	require.NoError(t, err)
	assert.NotPanics(t, func() { logger.DPanic("dpanic outside development") })
}

func TestLoggerConfig_Development(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{Level: "debug", Development: true})

	assert.True(t, cfg.Development)
	assert.Nil(t, cfg.Sampling)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level.Level())
}

func TestLoggerConfig_UnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{Level: "chatty"})
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
}
