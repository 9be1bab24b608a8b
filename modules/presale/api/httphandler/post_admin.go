package httphandler

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
)

type okResult struct {
	OK bool `json:"ok"`
}

type okResponse = HttpResponse[okResult]

func ok(ctx *fiber.Ctx) error {
	return errors.WithStack(ctx.JSON(okResponse{Result: &okResult{OK: true}}))
}

// parseAmounts parses base unit amounts by field name, collecting every invalid field.
func parseAmounts(fields map[string]string) (map[string]*uint256.Int, error) {
	var errList []error
	result := make(map[string]*uint256.Int, len(fields))
	for name, value := range fields {
		amount, err := decimals.ParseBaseUnits(value)
		if err != nil {
			errList = append(errList, errors.Newf("'%s' is not a valid base unit amount", name))
			continue
		}
		result[name] = amount
	}
	if err := errors.Join(errList...); err != nil {
		return nil, errs.WithPublicMessage(err, "validation error")
	}
	return result, nil
}

type setLimitsRequest struct {
	MinPurchase string `json:"minPurchase"`
	MaxPurchase string `json:"maxPurchase"`
	HardCap     string `json:"hardCap"`
}

func (h *HttpHandler) SetLimits(ctx *fiber.Ctx) (err error) {
	var req setLimitsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	amounts, err := parseAmounts(map[string]string{
		"minPurchase": req.MinPurchase,
		"maxPurchase": req.MaxPurchase,
		"hardCap":     req.HardCap,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.engine.SetLimits(ctx.UserContext(), amounts["minPurchase"], amounts["maxPurchase"], amounts["hardCap"]); err != nil {
		return errors.Wrap(err, "error during SetLimits")
	}
	return ok(ctx)
}

type setImmediateDeliveryRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *HttpHandler) SetImmediateDelivery(ctx *fiber.Ctx) (err error) {
	var req setImmediateDeliveryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.Enabled == nil {
		return errs.NewPublicError("validation error: 'enabled' is required")
	}
	if err := h.engine.SetImmediateDelivery(ctx.UserContext(), *req.Enabled); err != nil {
		return errors.Wrap(err, "error during SetImmediateDelivery")
	}
	return ok(ctx)
}

type setReleaseTimeRequest struct {
	ReleaseTime int64 `json:"releaseTime"` // unix seconds
}

func (h *HttpHandler) SetReleaseTime(ctx *fiber.Ctx) (err error) {
	var req setReleaseTimeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.ReleaseTime <= 0 {
		return errs.NewPublicError("validation error: 'releaseTime' is required")
	}
	if err := h.engine.SetReleaseTime(ctx.UserContext(), time.Unix(req.ReleaseTime, 0)); err != nil {
		return errors.Wrap(err, "error during SetReleaseTime")
	}
	return ok(ctx)
}

func (h *HttpHandler) Pause(ctx *fiber.Ctx) (err error) {
	if err := h.engine.Pause(ctx.UserContext()); err != nil {
		return errors.Wrap(err, "error during Pause")
	}
	return ok(ctx)
}

func (h *HttpHandler) Unpause(ctx *fiber.Ctx) (err error) {
	if err := h.engine.Unpause(ctx.UserContext()); err != nil {
		return errors.Wrap(err, "error during Unpause")
	}
	return ok(ctx)
}

type setTiersRequest struct {
	Tiers []tier `json:"tiers"`
}

func (h *HttpHandler) SetTiers(ctx *fiber.Ctx) (err error) {
	var req setTiersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if len(req.Tiers) == 0 {
		return errs.NewPublicError("validation error: 'tiers' is required")
	}
	tiers := make([]entity.Tier, 0, len(req.Tiers))
	for i, t := range req.Tiers {
		minSpend, err := decimals.ParseBaseUnits(t.MinSpend)
		if err != nil {
			return errs.WithPublicMessage(err, fmt.Sprintf("invalid 'tiers[%d].minSpend'", i))
		}
		price, err := decimals.ParseBaseUnits(t.PricePerToken)
		if err != nil {
			return errs.WithPublicMessage(err, fmt.Sprintf("invalid 'tiers[%d].pricePerToken'", i))
		}
		tiers = append(tiers, entity.Tier{MinSpend: minSpend, PricePerToken: price})
	}
	if err := h.engine.SetTiers(ctx.UserContext(), tiers); err != nil {
		return errors.Wrap(err, "error during SetTiers")
	}
	return ok(ctx)
}

type setFundsWalletRequest struct {
	Wallet string `json:"wallet"`
}

func (h *HttpHandler) SetFundsWallet(ctx *fiber.Ctx) (err error) {
	var req setFundsWalletRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	wallet, valid := resolveAddress(req.Wallet)
	if !valid {
		return errs.NewPublicError("validation error: 'wallet' is not a valid address")
	}
	if err := h.engine.SetFundsWallet(ctx.UserContext(), wallet); err != nil {
		return errors.Wrap(err, "error during SetFundsWallet")
	}
	return ok(ctx)
}

type withdrawResult struct {
	Amount string `json:"amount"`
}

type withdrawResponse = HttpResponse[withdrawResult]

func (h *HttpHandler) WithdrawFunds(ctx *fiber.Ctx) (err error) {
	amount, err := h.engine.WithdrawFunds(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during WithdrawFunds")
	}
	return errors.WithStack(ctx.JSON(withdrawResponse{Result: &withdrawResult{Amount: dec(amount)}}))
}
