package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lectoria/lectoria/internal/payment"
)

// RegisterPaymentRoutes wires the subscription surface around the opaque
// payment provider.
func RegisterPaymentRoutes(r fiber.Router, h *payment.Handler, requireAuth, adminOnly, subscribersOnly fiber.Handler) {
	g := r.Group("/payments")

	g.Get("/razorpay-key", requireAuth, h.APIKey)
	g.Post("/subscribe", requireAuth, h.Subscribe)
	g.Post("/verify", requireAuth, h.Verify)
	g.Post("/unsubscribe", requireAuth, subscribersOnly, h.Unsubscribe)
	g.Get("/", requireAuth, adminOnly, h.List)
}
