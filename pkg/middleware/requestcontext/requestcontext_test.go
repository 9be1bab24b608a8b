package requestcontext

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(opts ...Option) *fiber.App {
	app := fiber.New()
	app.Use(New(opts...))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"requestId": GetRequestId(c.UserContext()),
			"clientIp":  GetClientIP(c.UserContext()),
		})
	})
	return app
}

func do(t *testing.T, app *fiber.App, header map[string]string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]string{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestWithRequestId(t *testing.T) {
	app := newApp(WithRequestId())

	status, body := do(t, app, map[string]string{"X-Request-ID": "req-1"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "req-1", body["requestId"])

	_, body = do(t, app, nil)
	assert.NotEmpty(t, body["requestId"])
}

func TestWithClientIP(t *testing.T) {
	t.Run("trusted_header", func(t *testing.T) {
		app := newApp(WithClientIP(WithClientIPConfig{TrustedHeader: "X-Real-IP"}))
		_, body := do(t, app, map[string]string{"X-Real-IP": "203.0.113.7"})
		assert.Equal(t, "203.0.113.7", body["clientIp"])
	})

	t.Run("trusted_proxies", func(t *testing.T) {
		app := newApp(WithClientIP(WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}}))
		_, body := do(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1, 203.0.113.9, 10.0.0.2"})
		assert.Equal(t, "203.0.113.9", body["clientIp"])
	})

	t.Run("untrusted_forwarded_for", func(t *testing.T) {
		app := newApp(WithClientIP(WithClientIPConfig{}))
		_, body := do(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"})
		assert.Equal(t, "198.51.100.1", body["clientIp"])
	})

	t.Run("reject_malformed", func(t *testing.T) {
		app := newApp(WithClientIP(WithClientIPConfig{EnableRejectMalformedRequest: true}))
		status, body := do(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Forbidden", body["code"])
	})
}
