// Package reason defines why the presale engine rejected an operation.
// Every rejection leaves the presale state untouched.
package reason

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

// Reason is a rejection kind. It supports errors.Is and errors.As.
type Reason string

const (
	Paused          = Reason("Paused")
	BelowMinimum    = Reason("BelowMinimum")
	AboveMaximum    = Reason("AboveMaximum")
	HardCapExceeded = Reason("HardCapExceeded")
	ClaimDisabled   = Reason("ClaimDisabled")
	InvalidTime     = Reason("InvalidTime")
	NothingToClaim  = Reason("NothingToClaim")
	TransferFailed  = Reason("TransferFailed")

	Unauthorized        = Reason("Unauthorized")
	InvalidTiers        = Reason("InvalidTiers")
	InvalidLimits       = Reason("InvalidLimits")
	InsufficientReserve = Reason("InsufficientReserve")
	ZeroPayout          = Reason("ZeroPayout")
	NotDeployed         = Reason("NotDeployed")
)

var messages = map[Reason]string{
	Paused:              "presale is paused",
	BelowMinimum:        "amount is below the minimum purchase",
	AboveMaximum:        "amount is above the maximum purchase",
	HardCapExceeded:     "purchase would exceed the hard cap",
	ClaimDisabled:       "claims are disabled while immediate delivery is on",
	InvalidTime:         "invalid time",
	NothingToClaim:      "nothing to claim",
	TransferFailed:      "token transfer failed",
	Unauthorized:        "caller is not the owner",
	InvalidTiers:        "invalid tier table",
	InvalidLimits:       "invalid purchase limits",
	InsufficientReserve: "not enough sale tokens in the treasury",
	ZeroPayout:          "amount buys zero tokens",
	NotDeployed:         "presale is not deployed",
}

func (r Reason) Error() string {
	return string(r)
}

// Message returns a human readable description.
func (r Reason) Message() string {
	if msg, ok := messages[r]; ok {
		return msg
	}
	return string(r)
}

// HTTPStatus maps a rejection to the response status code.
func (r Reason) HTTPStatus() int {
	switch r {
	case Unauthorized:
		return fiber.StatusForbidden
	case NotDeployed:
		return fiber.StatusServiceUnavailable
	case TransferFailed:
		return fiber.StatusBadGateway
	case Paused, HardCapExceeded, ClaimDisabled, NothingToClaim, InsufficientReserve:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// From extracts the Reason from err's chain.
func From(err error) (Reason, bool) {
	var r Reason
	if errors.As(err, &r) {
		return r, true
	}
	return "", false
}
