package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getAccountRequest struct {
	Account string `params:"account"`
}

func (r getAccountRequest) Validate() error {
	var errList []error
	if r.Account == "" {
		errList = append(errList, errors.New("'account' is required"))
	} else if _, ok := resolveAddress(r.Account); !ok {
		errList = append(errList, errors.New("'account' is not a valid address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func parseAccountRequest(ctx *fiber.Ctx) (getAccountRequest, error) {
	var req getAccountRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return req, errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return req, errors.WithStack(err)
	}
	return req, nil
}

type getVestedBalanceResult struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

type getVestedBalanceResponse = HttpResponse[getVestedBalanceResult]

func (h *HttpHandler) GetVestedBalance(ctx *fiber.Ctx) (err error) {
	req, err := parseAccountRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	account, _ := resolveAddress(req.Account)

	balance, err := h.engine.VestedBalance(ctx.UserContext(), account)
	if err != nil {
		return errors.Wrap(err, "error during VestedBalance")
	}
	return errors.WithStack(ctx.JSON(getVestedBalanceResponse{
		Result: &getVestedBalanceResult{
			Account: account.Hex(),
			Balance: dec(balance),
		},
	}))
}

type getPurchasesResult struct {
	List []purchase `json:"list"`
}

type getPurchasesResponse = HttpResponse[getPurchasesResult]

func (h *HttpHandler) GetPurchases(ctx *fiber.Ctx) (err error) {
	req, err := parseAccountRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	account, _ := resolveAddress(req.Account)

	purchases, err := h.engine.Purchases(ctx.UserContext(), account)
	if err != nil {
		return errors.Wrap(err, "error during Purchases")
	}
	return errors.WithStack(ctx.JSON(getPurchasesResponse{
		Result: &getPurchasesResult{List: lo.Map(purchases, mapPurchase)},
	}))
}

type getClaimsResult struct {
	List []claim `json:"list"`
}

type getClaimsResponse = HttpResponse[getClaimsResult]

func (h *HttpHandler) GetClaims(ctx *fiber.Ctx) (err error) {
	req, err := parseAccountRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	account, _ := resolveAddress(req.Account)

	claims, err := h.engine.Claims(ctx.UserContext(), account)
	if err != nil {
		return errors.Wrap(err, "error during Claims")
	}
	return errors.WithStack(ctx.JSON(getClaimsResponse{
		Result: &getClaimsResult{List: lo.Map(claims, mapClaim)},
	}))
}
