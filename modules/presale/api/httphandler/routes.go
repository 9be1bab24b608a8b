package httphandler

import (
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/presale/v1")

	r.Get("/state", h.GetState)
	r.Get("/tiers", h.GetTiers)
	r.Get("/preview", h.GetPreview)
	r.Get("/status", h.GetStatus)
	r.Get("/vesting/:account", h.GetVestedBalance)
	r.Get("/purchases/:account", h.GetPurchases)
	r.Get("/claims/:account", h.GetClaims)

	auth := walletauth.New(h.walletAuth)
	r.Post("/buy", auth, h.Buy)
	r.Post("/claim", auth, h.Claim)

	admin := r.Group("/admin", auth)
	admin.Post("/limits", h.SetLimits)
	admin.Post("/immediate-delivery", h.SetImmediateDelivery)
	admin.Post("/release-time", h.SetReleaseTime)
	admin.Post("/pause", h.Pause)
	admin.Post("/unpause", h.Unpause)
	admin.Post("/tiers", h.SetTiers)
	admin.Post("/funds-wallet", h.SetFundsWallet)
	admin.Post("/withdraw", h.WithdrawFunds)
	return nil
}
