package routes

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/mail"
	"github.com/lectoria/lectoria/internal/user"
)

// RegisterMiscRoutes wires the contact form and the admin stats endpoint.
func RegisterMiscRoutes(r fiber.Router, d Deps, users user.Repository, requireAuth, adminOnly fiber.Handler) {
	r.Post("/contact", func(c *fiber.Ctx) error {
		var req struct {
			Name    string `json:"name" form:"name"`
			Email   string `json:"email" form:"email"`
			Message string `json:"message" form:"message"`
		}
		if err := c.BodyParser(&req); err != nil {
			return domain.E(domain.KindValidation, "all fields are required")
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
			return domain.E(domain.KindValidation, "all fields are required")
		}
		if !user.ValidEmail(req.Email) {
			return domain.E(domain.KindValidation, "please provide a valid email address")
		}

		inbox := d.Cfg.SMTP.ContactInbox
		if inbox == "" {
			inbox = d.Cfg.SMTP.From
		}
		body := mail.ContactEmail(req.Name, req.Email, req.Message)
		if err := d.Mailer.Send(c.UserContext(), inbox, mail.ContactSubject(req.Name), body); err != nil {
			return domain.Wrap(domain.KindEmailDelivery, "could not submit your request, try again later", err)
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "your request has been submitted successfully",
		})
	})

	r.Get("/admin/stats/users", requireAuth, adminOnly, func(c *fiber.Ctx) error {
		total, subscribed, err := users.CountUsers(c.UserContext())
		if err != nil {
			return domain.Wrap(domain.KindStoreUnavailable, "failed to fetch stats", err)
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success":          true,
			"message":          "user stats fetched successfully",
			"total_users":      total,
			"subscribed_users": subscribed,
		})
	})
}
