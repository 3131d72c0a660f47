package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInit_Level(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	Init("production", "warn")
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))

	Init("development", "not-a-level")
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))

	assert.NotNil(t, Named("wallet"))
}
