package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec), string(line))
		records = append(records, rec)
	}
	return records
}

func TestInit(t *testing.T) {
	oldLogger, oldLevel := logger, lvl.Level()
	t.Cleanup(func() {
		logger = oldLogger
		lvl.Set(oldLevel)
		slog.SetDefault(oldLogger)
	})

	t.Run("json_with_service_and_context", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, initWithWriter(Config{Output: "JSON", Service: "presale"}, &buf))

		ctx := WithContext(context.Background(), slog.String("request_id", "abc"))
		DebugContext(ctx, "hidden")
		InfoContext(ctx, "purchase", slog.Int("tier", 1))
		ErrorContext(ctx, "failed", errors.New("boom"))

		records := decodeLines(t, &buf)
		require.Len(t, records, 2)
		assert.Equal(t, "purchase", records[0]["msg"])
		assert.Equal(t, "presale", records[0]["service"])
		assert.Equal(t, "abc", records[0]["request_id"])
		assert.EqualValues(t, 1, records[0]["tier"])
		assert.Equal(t, "boom", records[1]["error"])
	})

	t.Run("gcp_severity", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, initWithWriter(Config{Output: "gcp", Level: "warn"}, &buf))

		InfoContext(context.Background(), "hidden")
		WarnContext(context.Background(), "reserve low")

		records := decodeLines(t, &buf)
		require.Len(t, records, 1)
		assert.Equal(t, "reserve low", records[0]["message"])
		assert.Equal(t, "WARNING", records[0]["severity"])
	})

	t.Run("debug_adds_stacktrace", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, initWithWriter(Config{Output: "json", Debug: true}, &buf))

		ErrorContext(context.Background(), "failed", errors.New("boom"))

		records := decodeLines(t, &buf)
		require.Len(t, records, 1)
		assert.Contains(t, records[0], ErrorVerboseKey)
		assert.Contains(t, records[0], ErrorStackTraceKey)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Error(t, initWithWriter(Config{Output: "xml"}, &bytes.Buffer{}))
		assert.Error(t, initWithWriter(Config{Level: "loud"}, &bytes.Buffer{}))
	})
}

func TestLevelAttrReplacer(t *testing.T) {
	attr := levelAttrReplacer(nil, slog.Any(slog.LevelKey, LevelPanic))
	assert.Equal(t, "PANIC", attr.Value.String())

	attr = levelAttrReplacer(nil, slog.Any(slog.LevelKey, LevelFatal+1))
	assert.Equal(t, "FATAL+1", attr.Value.String())

	attr = levelAttrReplacer(nil, slog.Any(slog.LevelKey, slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, attr.Value.Any())
}
