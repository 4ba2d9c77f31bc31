package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crushquest/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTracingMiddleware_SetsTraceLocals(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })

	var localTraceID string
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		localTraceID, _ = c.Locals("traceID").(string)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	header := resp.Header.Get("X-Trace-ID")
	assert.NotEmpty(t, header)
	assert.NotEqual(t, strings.Repeat("0", 32), header)
	assert.Equal(t, header, localTraceID)
}
