package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/middleware/requestcontext"
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/gaze-network/presale/pkg/principal"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	WithRequestHeader    bool     `mapstructure:"request_header"`
	WithRequestQuery     bool     `mapstructure:"request_query"`
	Disable              bool     `mapstructure:"disable"` // Disable logs of successful requests
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// alwaysHiddenRequestHeaders are never logged, whatever the configuration.
var alwaysHiddenRequestHeaders = []string{
	fiber.HeaderAuthorization,
	walletauth.HeaderSignature,
}

// New logs one record per request. Errors are rendered by the app error handler
// here, so the logged status is the one sent to the client: 5xx logs at ERROR,
// rejected requests (4xx) at WARN, the rest at INFO.
func New(config Config) fiber.Handler {
	hidden := make(map[string]struct{}, len(config.HiddenRequestHeaders)+len(alwaysHiddenRequestHeaders))
	for _, headers := range [][]string{alwaysHiddenRequestHeaders, config.HiddenRequestHeaders} {
		for _, header := range headers {
			hidden[strings.TrimSpace(strings.ToLower(header))] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		latency := time.Since(start)
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		if config.Disable && level == slog.LevelInfo {
			return nil
		}

		request := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", requestcontext.GetClientIP(c.UserContext())),
			slog.String("user_agent", string(c.Context().UserAgent())),
			slog.Int("length", len(c.Body())),
		}
		if caller, ok := principal.Caller(c.UserContext()); ok {
			request = append(request, slog.String("caller", caller.Hex()))
		}
		if config.WithRequestQuery {
			request = append(request, slog.String("query", string(c.Request().URI().QueryString())))
		}
		if config.WithRequestHeader {
			var headers []any
			for k, v := range c.GetReqHeaders() {
				if _, found := hidden[strings.ToLower(k)]; found {
					continue
				}
				headers = append(headers, slog.Any(k, v))
			}
			request = append(request, slog.Group("header", headers...))
		}

		attrs := []slog.Attr{
			slog.String("event", "api_request"),
			slog.Int64("latency", latency.Milliseconds()),
			slog.String("latency_human", latency.String()),
			{Key: "request", Value: slog.GroupValue(request...)},
			{Key: "response", Value: slog.GroupValue(
				slog.Int("status", status),
				slog.Int("length", len(c.Response().Body())),
			)},
		}
		if chainErr != nil {
			attrs = append(attrs, slog.Any("error", chainErr))
		}

		logger.LogAttrs(c.UserContext(), level, "Request Completed", attrs...)
		return nil
	}
}
