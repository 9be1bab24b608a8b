package requestlogger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gaze-network/presale/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	app.Use(New(Config{WithRequestHeader: true, WithRequestQuery: true}))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusConflict, "paused")
	})

	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/ok?x=1", http.StatusOK},
		{"/conflict", http.StatusConflict},
		{"/missing", http.StatusNotFound},
	} {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("X-Wallet-Signature", "0xdeadbeef")
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			_, err = io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
