package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/bondmarket")

	r.Get("/nodes", h.GetNodes)
	r.Get("/actions", h.GetActions)
	r.Get("/whitelist-requests", h.GetWhitelistRequests)
	r.Post("/whitelist-requests", h.CreateWhitelistRequest)
	r.Post("/listings", h.CreateListing)
	r.Post("/refresh", h.Refresh)
	return nil
}
