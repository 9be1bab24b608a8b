// Package purchasevalidator guards a buy against the administrator limits.
package purchasevalidator

import (
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/internal/validator"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/holiman/uint256"
)

type PurchaseValidator struct {
	validator.Validator
}

func New() *PurchaseValidator {
	v := validator.New()
	return &PurchaseValidator{
		Validator: *v,
	}
}

// Check runs every purchase check in order and returns the first rejection.
// It does not mutate state.
func Check(state *entity.State, amount *uint256.Int) error {
	v := New()
	v.NotPaused(state)
	v.AboveMinimum(state, amount)
	v.BelowMaximum(state, amount)
	v.WithinHardCap(state, amount)
	return v.Err()
}

func (v *PurchaseValidator) NotPaused(state *entity.State) bool {
	if !v.Valid {
		return false
	}
	if state.Paused {
		return v.Fail(reason.Paused)
	}
	return v.Valid
}

func (v *PurchaseValidator) AboveMinimum(state *entity.State, amount *uint256.Int) bool {
	if !v.Valid {
		return false
	}
	if amount.Lt(state.MinPurchase) {
		return v.Fail(reason.BelowMinimum)
	}
	return v.Valid
}

func (v *PurchaseValidator) BelowMaximum(state *entity.State, amount *uint256.Int) bool {
	if !v.Valid {
		return false
	}
	if amount.Gt(state.MaxPurchase) {
		return v.Fail(reason.AboveMaximum)
	}
	return v.Valid
}

func (v *PurchaseValidator) WithinHardCap(state *entity.State, amount *uint256.Int) bool {
	if !v.Valid {
		return false
	}
	raised, overflow := new(uint256.Int).AddOverflow(state.TotalRaised, amount)
	if overflow || raised.Gt(state.HardCap) {
		return v.Fail(reason.HardCapExceeded)
	}
	return v.Valid
}
