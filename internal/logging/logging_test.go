package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var info, errs bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)).With("service", "gym")

	log.Info("member registered", "action", "register_member")
	log.Error("invoice failed", "action", "generate_invoice")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))
	assert.Contains(t, errs.String(), `"service":"gym"`)
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink unavailable")
}

func TestMultiHandlerKeepsWritingPastFailingSink(t *testing.T) {
	var out bytes.Buffer
	h := NewMultiHandler(
		nil,
		failingHandler{slog.NewJSONHandler(&out, nil)},
		slog.NewJSONHandler(&out, nil),
	)

	record := slog.NewRecord(time.Now(), slog.LevelError, "invoice failed", 0)
	err := h.Handle(context.Background(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink unavailable")
	assert.Contains(t, out.String(), `"msg":"invoice failed"`)
	assert.Same(t, h, h.WithGroup(""))
}

func TestNewSystemLogMapsKnownAttributes(t *testing.T) {
	rec := slog.NewRecord(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), slog.LevelError, "extend failed", 0)
	rec.AddAttrs(
		slog.String("user_id", "admin-1"),
		slog.String("action", "extend_membership"),
		slog.String("error", "boom"),
		slog.Float64("latency_ms", 12.6),
		slog.String("membership_id", "m-1"),
	)

	entry := newSystemLog(rec, []slog.Attr{slog.String("request_id", "req-9")})

	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-9", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "admin-1", *entry.UserID)
	assert.Equal(t, "extend_membership", entry.Action)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, map[string]any{"membership_id": "m-1"}, extra)
}

func TestPGHandlerOnlyTakesErrors(t *testing.T) {
	h := &PGHandler{}
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPurgeBefore(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM "system_logs" WHERE timestamp < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := PurgeBefore(db, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
