package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lectoria/lectoria/internal/user"
)

// RegisterUserRoutes wires the identity endpoints. The reset pair is public
// by design: the emailed token is the credential.
func RegisterUserRoutes(r fiber.Router, h *user.Handler, requireAuth, loginLimiter fiber.Handler) {
	g := r.Group("/user")

	g.Post("/register", h.Register)
	g.Post("/login", loginLimiter, h.Login)
	g.Post("/logout", h.Logout)
	g.Get("/me", requireAuth, h.Me)
	g.Post("/reset", h.ForgotPassword)
	g.Post("/reset/:resetToken", h.ResetPassword)
	g.Post("/change-password", requireAuth, h.ChangePassword)
	g.Put("/update", requireAuth, h.Update)
}
