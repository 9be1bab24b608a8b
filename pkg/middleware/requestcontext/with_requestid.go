package requestcontext

import (
	"context"

	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type requestIdKey struct{}

// GetRequestId returns the request id, or empty string outside of a request.
func GetRequestId(ctx context.Context) string {
	if id, ok := ctx.Value(requestIdKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestId reuses the id set by the requestid middleware, else the client's
// X-Request-ID header, else a new UUID. The id is echoed in the response header
// and logged with every record of the request.
func WithRequestId() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		requestId, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if !ok || requestId == "" {
			requestId = c.Get(requestid.ConfigDefault.Header, fiberutils.UUID())
			c.Set(requestid.ConfigDefault.Header, requestId)
			c.Locals(requestid.ConfigDefault.ContextKey, requestId)
		}

		ctx = context.WithValue(ctx, requestIdKey{}, requestId)
		ctx = logger.WithContext(ctx, slogx.String("request_id", requestId))
		return ctx, nil
	}
}
