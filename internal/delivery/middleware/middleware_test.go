package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shop/config"
	deliverycontext "shop/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestRequestIDMiddleware(t *testing.T) {
	logger, _ := newBufferLogger()
	mw := NewRequestIDMiddleware(logger)

	tests := []struct {
		name     string
		header   string
		generate bool
	}{
		{name: "keeps client id", header: "client-id-1"},
		{name: "generates when missing", generate: true},
		{name: "replaces oversized id", header: strings.Repeat("x", maxRequestIDLength+1), generate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenCtxID string
			var seenLogger *slog.Logger
			err := mw.Process(func(c echo.Context) error {
				seenCtxID = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				seenLogger = deliverycontext.GetLogger(c.Request().Context())

				return nil
			})(c)
			require.NoError(t, err)

			id := rec.Header().Get(deliverycontext.HeaderXRequestID)
			if tt.generate {
				parsed, err := uuid.Parse(id)
				require.NoError(t, err)
				assert.Equal(t, uuid.Version(7), parsed.Version())
			} else {
				assert.Equal(t, tt.header, id)
			}
			assert.Equal(t, id, seenCtxID)
			assert.Equal(t, id, deliverycontext.GetRequestID(c))
			assert.NotNil(t, seenLogger)
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		status  int
		wantLog string
	}{
		{name: "success is quiet without debug", status: http.StatusOK},
		{name: "success is logged in debug", debug: true, status: http.StatusOK, wantLog: `"level":"INFO"`},
		{name: "client error is logged", status: http.StatusNotFound, wantLog: `"level":"WARN"`},
		{name: "server error is logged", status: http.StatusInternalServerError, wantLog: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			cfg := &config.Config{}
			cfg.Env.Debug = tt.debug

			e := echo.New()
			e.Use(NewRequestIDMiddleware(logger).Process, NewLoggerMiddleware(logger, cfg).Handle)
			e.GET("/ping", func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.Equal(t, tt.status, rec.Code)

			if tt.wantLog == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.wantLog)
			assert.Contains(t, buf.String(), `"route":"/ping"`)
			assert.Contains(t, buf.String(), `"request_id":"`+rec.Header().Get(deliverycontext.HeaderXRequestID)+`"`)
		})
	}
}
