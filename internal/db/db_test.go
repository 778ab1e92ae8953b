package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestGormErrorsVisibleAtInfo(t *testing.T) {
	buf := captureLogs(t, zerolog.InfoLevel)

	NewLogger().Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM bills", 0
	}, errors.New("no such table: bills"))

	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), "no such table: bills")
}

func TestGormTracesStayAtDebug(t *testing.T) {
	buf := captureLogs(t, zerolog.DebugLevel)

	NewLogger().Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	require.Contains(t, buf.String(), `"level":"debug"`)
	require.Contains(t, buf.String(), "SELECT 1")
}
