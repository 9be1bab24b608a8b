package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// StatusError is an error that knows its own HTTP response, e.g. a presale rejection.
type StatusError interface {
	error
	HTTPStatus() int
	Message() string
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		var statusErr StatusError
		if errors.As(err, &statusErr) {
			return errors.WithStack(ctx.Status(statusErr.HTTPStatus()).JSON(errorResponse{
				Error: statusErr.Message(),
				Code:  statusErr.Error(),
			}))
		}
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(errorResponse{
				Error: e.Message(),
				Code:  e.Code(),
			}))
		}
		if errors.Is(err, errs.InvalidArgument) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(errorResponse{
				Error: err.Error(),
				Code:  string(errs.InvalidArgument),
			}))
		}
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(ctx.Status(http.StatusNotFound).JSON(errorResponse{
				Error: "Not Found",
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(errorResponse{
				Error: e.Message,
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(errorResponse{
			Error: "Internal Server Error",
		}))
	}
}
