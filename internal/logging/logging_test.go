package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// ---------------------------------------------------------------------------
// TestLevel - Verbosity Flags
// ---------------------------------------------------------------------------

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zapcore.Level
	}{
		{"default", false, false, zapcore.InfoLevel},
		{"verbose", true, false, zapcore.DebugLevel},
		{"quiet", false, true, zapcore.ErrorLevel},
		{"quiet wins", true, true, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Level(tt.verbose, tt.quiet))
		})
	}
}

// ---------------------------------------------------------------------------
// TestNew - Logger Construction
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	for _, verbose := range []bool{false, true} {
		logger, err := New(verbose, false)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Equal(t, verbose, logger.Core().Enabled(zapcore.DebugLevel))
	}
}

// ---------------------------------------------------------------------------
// TestNewWriter - Level Filtering
// ---------------------------------------------------------------------------

func TestNewWriter(t *testing.T) {
	t.Parallel()

	t.Run("info hides debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewWriter(&buf, false, false)
		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("quiet keeps errors only", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewWriter(&buf, false, true)
		logger.Warn("warning")
		logger.Error("failure")

		assert.NotContains(t, buf.String(), "warning")
		assert.Contains(t, buf.String(), "failure")
	})
}
