package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"ERROR":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, ParseLevel(input), input)
	}
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		log, err := New(&Config{Level: "info", Format: "json", Output: "stdout", TimeFormat: "2006-01-02"})
		require.NoError(t, err)
		require.NotNil(t, log)
		log.Info("due created")
	})

	t.Run("console format", func(t *testing.T) {
		log, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, log)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clearance.log")
		log, err := New(&Config{Level: "info", Format: "json", Output: path, TimeFormat: "2006-01-02"})
		require.NoError(t, err)

		log.Info("department report generated")
		require.NoError(t, log.Sync())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "department report generated")
	})
}

func TestConfigs(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "console", dev.Format)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, "stdout", prod.Output)
}

func TestNewForEnvironment(t *testing.T) {
	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, prod)

	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, dev)
}
