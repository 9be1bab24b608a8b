package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gofiber/fiber/v2"
)

type getPreviewRequest struct {
	Amount string `query:"amount"`
}

func (r getPreviewRequest) Validate() error {
	var errList []error
	if r.Amount == "" {
		errList = append(errList, errors.New("'amount' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getPreviewResponse = HttpResponse[preview]

func (h *HttpHandler) GetPreview(ctx *fiber.Ctx) (err error) {
	var req getPreviewRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	amount, err := decimals.ParseBaseUnits(req.Amount)
	if err != nil {
		return errs.WithPublicMessage(err, "invalid 'amount'")
	}
	p, err := h.engine.Preview(amount)
	if err != nil {
		return errors.Wrap(err, "error during Preview")
	}
	result := mapPreview(p)
	return errors.WithStack(ctx.JSON(getPreviewResponse{Result: &result}))
}
