package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"shop/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}

	return lines
}

func TestGormSlogLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return `SELECT * FROM "items" WHERE id = $1`, 1 }

	tests := []struct {
		name      string
		debug     bool
		elapsed   time.Duration
		err       error
		wantLevel string
		wantMsg   string
	}{
		{name: "failed query", err: errors.New("boom"), wantLevel: "ERROR", wantMsg: "Query failed"},
		{name: "record not found is quiet", err: gorm.ErrRecordNotFound},
		{name: "slow query", elapsed: time.Second, wantLevel: "WARN", wantMsg: "Slow query"},
		{name: "fast query is quiet", elapsed: time.Millisecond},
		{name: "fast query in debug", debug: true, elapsed: time.Millisecond, wantLevel: "DEBUG", wantMsg: "Query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, buf := newBufferLogger()
			cfg := &config.Config{}
			cfg.Env.Debug = tt.debug
			l := newGormSlogLogger(base, cfg)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), query, tt.err)

			lines := logLines(t, buf)
			if tt.wantMsg == "" {
				assert.Empty(t, lines)

				return
			}
			require.Len(t, lines, 1)
			assert.Equal(t, tt.wantLevel, lines[0]["level"])
			assert.Equal(t, tt.wantMsg, lines[0]["msg"])
			assert.Equal(t, "items", lines[0]["table"])
		})
	}
}

func TestGormSlogLogger_SilentMode(t *testing.T) {
	base, buf := newBufferLogger()
	l := newGormSlogLogger(base, nil).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	l.Error(context.Background(), "failed %d", 1)

	assert.Empty(t, buf.String())
}

func TestTableOf(t *testing.T) {
	assert.Equal(t, "orders", tableOf(`INSERT INTO "orders" ("id") VALUES ($1)`))
	assert.Equal(t, "cart_items", tableOf("UPDATE `cart_items` SET quantity = 2"))
	assert.Equal(t, "members", tableOf(`SELECT count(*) FROM members`))
	assert.Equal(t, "", tableOf("SELECT 1"))
}

func TestPoolMonitor_Report(t *testing.T) {
	base, buf := newBufferLogger()
	m := &poolMonitor{logger: base}
	ctx := context.Background()

	prev := sql.DBStats{WaitCount: 4, WaitDuration: time.Second}

	assert.False(t, m.report(ctx, prev, prev))
	assert.True(t, m.report(ctx, prev, sql.DBStats{WaitCount: 5, WaitDuration: time.Second + time.Millisecond}))
	assert.True(t, m.report(ctx, prev, sql.DBStats{WaitCount: 6, WaitDuration: 2 * time.Second, MaxOpenConnections: 10}))

	lines := logLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.EqualValues(t, 2, lines[1]["waits"])
	assert.EqualValues(t, 10, lines[1]["pool"].(map[string]any)["maxOpen"])
}
