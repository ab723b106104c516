package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestNewGormLogger(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, 200*time.Millisecond, gormLog.slowThreshold)
	assert.True(t, gormLog.ignoreRecordNotFoundError)
}

func TestGormLogger_Options(t *testing.T) {
	gormLog, _ := newObservedGormLogger(
		gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.ignoreRecordNotFoundError)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	clone := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	cloned, ok := clone.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, cloned.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()
	selectDue := func() (string, int64) {
		return "SELECT * FROM dues WHERE department = 'LIBRARY'", 3
	}

	t.Run("failed statement logs at error level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)

		gormLog.Trace(ctx, time.Now(), selectDue, errors.New("connection reset"))

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "SQL Error", entry.Message)
	})

	t.Run("record not found stays quiet by default", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)

		gormLog.Trace(ctx, time.Now(), selectDue, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("record not found logs when configured", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

		gormLog.Trace(ctx, time.Now(), selectDue, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("slow statement logs at warn level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gormLog.Trace(ctx, time.Now().Add(-50*time.Millisecond), selectDue, nil)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Contains(t, entry.Message, "SLOW SQL")
	})

	t.Run("routine statement logs at debug level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		gormLog.Trace(ctx, time.Now(), selectDue, nil)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.DebugLevel, entry.Level)

		fields := entry.ContextMap()
		assert.Equal(t, int64(3), fields["rows"])
		assert.Contains(t, fields["sql"], "FROM dues")
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

		gormLog.Trace(ctx, time.Now(), selectDue, errors.New("ignored"))

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("request ID from context is attached", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)
		reqCtx, _ := WithRequestID(ctx, zap.NewNop(), "req-42")

		gormLog.Trace(reqCtx, time.Now(), selectDue, nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "req-42", recorded.All()[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, MapGormLogLevel(input), input)
	}
}
