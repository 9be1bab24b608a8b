package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getStateResponse = HttpResponse[state]

func (h *HttpHandler) GetState(ctx *fiber.Ctx) (err error) {
	s, err := h.engine.State(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during State")
	}
	result := mapState(s)
	return errors.WithStack(ctx.JSON(getStateResponse{Result: &result}))
}
