package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type claimResult struct {
	Amount string `json:"amount"`
}

type claimResponse = HttpResponse[claimResult]

func (h *HttpHandler) Claim(ctx *fiber.Ctx) (err error) {
	amount, err := h.engine.Claim(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during Claim")
	}
	return errors.WithStack(ctx.JSON(claimResponse{Result: &claimResult{Amount: dec(amount)}}))
}
