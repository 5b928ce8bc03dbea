package logger_test

import (
	"testing"

	"github.com/luxone/quotation-api/internal/config"
	"github.com/luxone/quotation-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		app       config.AppConfig
		wantDebug bool
	}{
		{name: "development console", logging: config.LoggingConfig{Level: "debug", Format: "console"}, app: config.AppConfig{Name: "test", Environment: "development"}, wantDebug: true},
		{name: "production json", logging: config.LoggingConfig{Level: "info", Format: "json"}, app: config.AppConfig{Name: "test", Environment: "production"}},
		{name: "invalid level falls back to info", logging: config.LoggingConfig{Level: "loud"}, app: config.AppConfig{Name: "test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.NewLogger(&tt.logging, &tt.app)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestWithRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.WithRequest(zap.New(core), "POST", "/api/v1/quotations", "req-1")
	l.Info("handled")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/v1/quotations", fields["path"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestWithAdmin(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.WithAdmin(zap.New(core), "admin", "jwt").Info("rule updated")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "admin", fields["admin"])
	assert.Equal(t, "jwt", fields["auth_method"])
}
