package validator

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/modules/presale/reason"
)

// Validator accumulates the outcome of a chain of checks. Once a check fails,
// every following check is a no-op and Reason keeps the first failure.
type Validator struct {
	Valid  bool
	Reason reason.Reason
}

func New() *Validator {
	return &Validator{
		Valid: true,
	}
}

// Fail marks the validator invalid with r.
func (v *Validator) Fail(r reason.Reason) bool {
	v.Valid = false
	v.Reason = r
	return v.Valid
}

// Err returns the first failure reason, or nil if every check passed.
func (v *Validator) Err() error {
	if v.Valid {
		return nil
	}
	return errors.WithStack(v.Reason)
}
