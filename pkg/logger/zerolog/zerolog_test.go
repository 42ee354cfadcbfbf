package zerolog

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(t *testing.T, level string) (*Adapter, *bytes.Buffer) {
	t.Helper()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	log, err := New(Options{Level: level, JSON: true, Output: &buf})
	require.NoError(t, err)

	return log, &buf
}

func TestNew_LevelFiltering(t *testing.T) {
	log, buf := newJSONLogger(t, "WARN")

	log.Info("hidden")
	log.WithField("symbol", "bitcoin").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"symbol":"bitcoin"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNew_DefaultsToInfo(t *testing.T) {
	log, buf := newJSONLogger(t, "")

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "verbose", JSON: true, Output: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Output: &buf})
	require.NoError(t, err)

	log.Infof("fetched %d coins", 3)
	assert.Contains(t, buf.String(), "[INF]")
	assert.Contains(t, buf.String(), "fetched 3 coins")
}
