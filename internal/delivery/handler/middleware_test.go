package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecovererLogsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	metrics := NewMetrics()

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zap.NewNop())
	e.Use(track(metrics), recoverer(zap.New(core)))
	e.GET("/boom", func(echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/boom", fields["path"])
	assert.Equal(t, "kaboom", fields["error"])
	assert.NotEmpty(t, fields["stack"])

	snap := metrics.Snapshot()
	assert.Equal(t, int32(0), snap["activeRequests"])
	assert.Equal(t, uint64(1), snap["failedRequests"])
}
