package errorhandler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teapot string

func (t teapot) Error() string   { return string(t) }
func (t teapot) HTTPStatus() int { return fiber.StatusTeapot }
func (t teapot) Message() string { return "short and stout" }

func TestHTTPErrorHandler(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		body   errorResponse
	}{
		{
			name:   "status_error",
			err:    errors.Wrap(teapot("Teapot"), "brew"),
			status: fiber.StatusTeapot,
			body:   errorResponse{Error: "short and stout", Code: "Teapot"},
		},
		{
			name:   "public_error",
			err:    errs.NewPublicErrorWithCode("bad wallet", "BadWallet"),
			status: fiber.StatusBadRequest,
			body:   errorResponse{Error: "bad wallet", Code: "BadWallet"},
		},
		{
			name:   "not_found",
			err:    errors.WithStack(errs.NotFound),
			status: fiber.StatusNotFound,
			body:   errorResponse{Error: "Not Found"},
		},
		{
			name:   "fiber_error",
			err:    fiber.ErrMethodNotAllowed,
			status: fiber.StatusMethodNotAllowed,
			body:   errorResponse{Error: "Method Not Allowed"},
		},
		{
			name:   "internal",
			err:    errors.New("database is on fire"),
			status: fiber.StatusInternalServerError,
			body:   errorResponse{Error: "Internal Server Error"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: NewHTTPErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.body, body)
		})
	}
}
