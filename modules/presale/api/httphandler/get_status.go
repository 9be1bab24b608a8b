package httphandler

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getStatusRequest struct {
	Account  string `query:"account"`
	Simulate string `query:"simulate"` // comma separated whole payment token amounts, e.g. "50,150,1500"
}

func (r getStatusRequest) Validate() error {
	var errList []error
	if r.Account != "" && !common.IsHexAddress(r.Account) {
		errList = append(errList, errors.New("'account' is not a valid address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type tierStatus struct {
	tier
	TokensPer100 string `json:"tokensPer100"`
}

type simulation struct {
	Amount string `json:"amount"`
	preview
}

type getStatusResult struct {
	State                  state        `json:"state"`
	Tiers                  []tierStatus `json:"tiers"`
	Claimable              bool         `json:"claimable"`
	SecondsUntilRelease    int64        `json:"secondsUntilRelease"`
	TreasuryPaymentBalance string       `json:"treasuryPaymentBalance"`
	TreasurySaleBalance    string       `json:"treasurySaleBalance"`
	Account                string       `json:"account,omitempty"`
	AccountVested          string       `json:"accountVested,omitempty"`
	Simulations            []simulation `json:"simulations"`
}

type getStatusResponse = HttpResponse[getStatusResult]

func (h *HttpHandler) GetStatus(ctx *fiber.Ctx) (err error) {
	var req getStatusRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	var account common.Address
	if req.Account != "" {
		account = common.HexToAddress(req.Account)
	}
	simulate := lo.Filter(
		lo.Map(strings.Split(req.Simulate, ","), func(item string, _ int) string { return strings.TrimSpace(item) }),
		func(item string, _ int) bool { return item != "" },
	)

	status, err := h.engine.Status(ctx.UserContext(), account, simulate)
	if err != nil {
		return errors.Wrap(err, "error during Status")
	}

	result := getStatusResult{
		State:                  mapState(&status.State),
		Claimable:              status.Claimable,
		SecondsUntilRelease:    int64(status.TimeUntilRelease.Seconds()),
		TreasuryPaymentBalance: dec(status.TreasuryPaymentBalance),
		TreasurySaleBalance:    dec(status.TreasurySaleBalance),
	}
	if account != (common.Address{}) {
		result.Account = account.Hex()
		result.AccountVested = dec(status.AccountVested)
	}
	for _, t := range status.Tiers {
		result.Tiers = append(result.Tiers, tierStatus{
			tier:         mapTier(t.Tier, 0),
			TokensPer100: dec(t.TokensPer100),
		})
	}
	for _, s := range status.Simulations {
		result.Simulations = append(result.Simulations, simulation{
			Amount:  dec(s.Amount),
			preview: mapPreview(s.Preview),
		})
	}
	return errors.WithStack(ctx.JSON(getStatusResponse{Result: &result}))
}
