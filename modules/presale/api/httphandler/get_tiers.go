package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getTiersResult struct {
	Count int    `json:"count"`
	List  []tier `json:"list"`
}

type getTiersResponse = HttpResponse[getTiersResult]

func (h *HttpHandler) GetTiers(ctx *fiber.Ctx) (err error) {
	tiers, err := h.engine.Tiers()
	if err != nil {
		return errors.Wrap(err, "error during Tiers")
	}
	return errors.WithStack(ctx.JSON(getTiersResponse{
		Result: &getTiersResult{
			Count: len(tiers),
			List:  mapTiers(tiers),
		},
	}))
}
