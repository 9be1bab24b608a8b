// Package requestcontext copies per-request values (request id, client ip) from the
// fiber context into the request's user context and its logger.
package requestcontext

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// errorResponse has the shape of the API error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err != nil {
				rErr := requestcontextError{}
				if errors.As(err, &rErr) {
					return errors.WithStack(c.Status(rErr.status).JSON(errorResponse{Error: rErr.message, Code: rErr.code}))
				}

				logger.ErrorContext(ctx, "failed to extract request context",
					err,
					slog.String("event", "requestcontext/error"),
					slog.Int("option_index", i),
				)
				return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(errorResponse{Error: "Internal Server Error"}))
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
