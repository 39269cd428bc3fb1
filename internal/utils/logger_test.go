package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestSlogLogger_LogRequestLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		newBufferLogger(&buf).LogRequest(http.MethodGet, "/health", tt.status, "1ms")

		assert.Contains(t, buf.String(), tt.level)
		assert.Contains(t, buf.String(), "path=/health")
	}
}

func TestSlogLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).With("component", "test").LogError(errors.New("boom"), "Failed", "quiz_id", 7)

	out := buf.String()
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "quiz_id=7")
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		c.Next()
	})
	router.Use(ContextLogger(newBufferLogger(&buf)))
	router.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("Handling ping")
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "path=/ping")
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetLoggerFromContext(c))
}
