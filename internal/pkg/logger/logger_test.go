package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		l, err := New("warn", false)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("development", func(t *testing.T) {
		l, err := New("debug", true)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New("loud", false)
		assert.Error(t, err)
	})
}
