package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gofiber/fiber/v2"
)

type buyRequest struct {
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"` // optional, defaults to the caller
}

func (r buyRequest) Validate() error {
	var errList []error
	if r.Amount == "" {
		errList = append(errList, errors.New("'amount' is required"))
	}
	if r.Recipient != "" && !common.IsHexAddress(r.Recipient) {
		errList = append(errList, errors.New("'recipient' is not a valid address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type buyResponse = HttpResponse[purchase]

func (h *HttpHandler) Buy(ctx *fiber.Ctx) (err error) {
	var req buyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	amount, err := decimals.ParseBaseUnits(req.Amount)
	if err != nil {
		return errs.WithPublicMessage(err, "invalid 'amount'")
	}
	var recipient common.Address
	if req.Recipient != "" {
		recipient = common.HexToAddress(req.Recipient)
	}

	p, err := h.engine.Buy(ctx.UserContext(), amount, recipient)
	if err != nil {
		return errors.Wrap(err, "error during Buy")
	}
	result := mapPurchase(*p, 0)
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(buyResponse{Result: &result}))
}
