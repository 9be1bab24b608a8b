// Package claimvalidator decides whether an account may claim its vested tokens.
package claimvalidator

import (
	"time"

	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/internal/validator"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/holiman/uint256"
)

type ClaimValidator struct {
	validator.Validator
}

func New() *ClaimValidator {
	v := validator.New()
	return &ClaimValidator{
		Validator: *v,
	}
}

func (v *ClaimValidator) ClaimEnabled(state *entity.State) bool {
	if !v.Valid {
		return false
	}
	if state.ImmediateDelivery {
		return v.Fail(reason.ClaimDisabled)
	}
	return v.Valid
}

func (v *ClaimValidator) Released(state *entity.State, now time.Time) bool {
	if !v.Valid {
		return false
	}
	if now.Before(state.ReleaseTime) {
		return v.Fail(reason.InvalidTime)
	}
	return v.Valid
}

func (v *ClaimValidator) HasBalance(balance *uint256.Int) bool {
	if !v.Valid {
		return false
	}
	if balance == nil || balance.IsZero() {
		return v.Fail(reason.NothingToClaim)
	}
	return v.Valid
}
