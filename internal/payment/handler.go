package payment

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/user"
)

// Handler exposes the subscription endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// APIKey hands the checkout widget its public key.
func (h *Handler) APIKey(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "payment api key",
		"key":     h.service.APIKey(),
	})
}

// Subscribe opens a subscription for the authenticated subject.
func (h *Handler) Subscribe(c *fiber.Ctx) error {
	id, ok := user.IdentityFrom(c)
	if !ok {
		return domain.E(domain.KindNotLoggedIn, "you are not logged in")
	}

	subID, err := h.service.Subscribe(c.UserContext(), id.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":         true,
		"message":         "subscribed successfully",
		"subscription_id": subID,
	})
}

type verifyRequest struct {
	PaymentID string `json:"paymentId" form:"paymentId"`
	Signature string `json:"signature" form:"signature"`
}

// Verify confirms the provider callback and activates entitlement.
func (h *Handler) Verify(c *fiber.Ctx) error {
	id, ok := user.IdentityFrom(c)
	if !ok {
		return domain.E(domain.KindNotLoggedIn, "you are not logged in")
	}

	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "payment id and signature are required")
	}

	if err := h.service.Verify(c.UserContext(), id.ID, req.PaymentID, req.Signature); err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "payment verified successfully",
	})
}

// Unsubscribe cancels the subject's subscription.
func (h *Handler) Unsubscribe(c *fiber.Ctx) error {
	id, ok := user.IdentityFrom(c)
	if !ok {
		return domain.E(domain.KindNotLoggedIn, "you are not logged in")
	}

	if err := h.service.Cancel(c.UserContext(), id.ID); err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "subscription cancelled successfully",
	})
}

// List returns recent provider payments for administrators.
func (h *Handler) List(c *fiber.Ctx) error {
	count, _ := strconv.Atoi(c.Query("count", "10"))

	payments, err := h.service.Payments(c.UserContext(), count)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":  true,
		"message":  "payments fetched successfully",
		"payments": payments,
	})
}
