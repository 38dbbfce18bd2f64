package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLogger returns a debug-level JSON logger writing into a buffer.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), buf
}

// records decodes every JSON line written by the test logger.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds resolution and provider", func(t *testing.T) {
		logger, buf := newTestLogger()
		EnrichLogger(logger, "res-1", "environment").Info("hello")

		recs := records(t, buf)
		require.Len(t, recs, 1)
		assert.Equal(t, "res-1", recs[0]["resolution_id"])
		assert.Equal(t, "environment", recs[0]["provider"])
	})

	t.Run("omits empty provider", func(t *testing.T) {
		logger, buf := newTestLogger()
		EnrichLogger(logger, "res-1", "").Info("hello")

		recs := records(t, buf)
		require.Len(t, recs, 1)
		_, ok := recs[0]["provider"]
		assert.False(t, ok)
	})

	t.Run("nil logger", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "res-1", "x"))
	})
}

func TestLogHelpers(t *testing.T) {
	logger, buf := newTestLogger()

	LogResolveStart(logger, "res-1", 3, "strict")
	LogProviderFetched(logger, "defaults", 0.5, 4)
	LogProviderError(logger, "file:app.yaml", errors.New("boom"))
	LogResolveComplete(logger, "res-1", 1.25, 4)
	LogResolveError(logger, "res-1", errors.New("bad"), "missing_field", 2)
	LogStartupWarning(logger, "working directory unavailable", errors.New("gone"))

	recs := records(t, buf)
	require.Len(t, recs, 6)

	assert.Equal(t, "config resolution starting", recs[0]["msg"])
	assert.Equal(t, "DEBUG", recs[0]["level"])
	assert.Equal(t, float64(3), recs[0]["providers"])
	assert.Equal(t, "strict", recs[0]["mode"])

	assert.Equal(t, "provider fetched", recs[1]["msg"])
	assert.Equal(t, float64(4), recs[1]["leaves"])

	assert.Equal(t, "provider failed", recs[2]["msg"])
	assert.Equal(t, "ERROR", recs[2]["level"])
	assert.Equal(t, "boom", recs[2]["error"])

	assert.Equal(t, "config resolved", recs[3]["msg"])
	assert.Equal(t, "INFO", recs[3]["level"])
	assert.Equal(t, 1.25, recs[3]["duration_ms"])

	assert.Equal(t, "config resolution failed", recs[4]["msg"])
	assert.Equal(t, "missing_field", recs[4]["reason"])

	assert.Equal(t, "WARN", recs[5]["level"])
	assert.Equal(t, "gone", recs[5]["error"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogResolveStart(nil, "r", 1, "lax")
		LogProviderFetched(nil, "p", 1, 1)
		LogProviderError(nil, "p", errors.New("x"))
		LogResolveComplete(nil, "r", 1, 1)
		LogResolveError(nil, "r", errors.New("x"), "unknown", 1)
		LogStartupWarning(nil, "w", errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 2.0)
}
