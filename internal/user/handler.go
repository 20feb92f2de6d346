package user

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/domain"
)

// SessionCookieName matches middleware extraction; the cookie and the
// bearer header carry the same token.
const SessionCookieName = "token"

// Handler exposes the identity HTTP endpoints.
type Handler struct {
	service *Service
	cfg     config.Config
	logger  *slog.Logger
}

// NewHandler constructs the identity HTTP handler.
func NewHandler(service *Service, cfg config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, cfg: cfg, logger: logger}
}

type registerRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type resetPasswordRequest struct {
	Password string `json:"password" form:"password"`
}

type updateRequest struct {
	FullName string `json:"fullName" form:"fullName"`
}

// Register creates an account, optionally attaching an uploaded avatar, and
// opens a session. A response is sent whether or not a file was uploaded.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "all fields are required")
	}

	avatarPath, cleanup, err := h.saveUpload(c, "avatar")
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := h.service.Register(c.UserContext(), RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		AvatarPath: avatarPath,
	})
	if err != nil {
		return err
	}

	token, err := h.service.IssueSession(u)
	if err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "registration failed", err)
	}
	h.setSessionCookie(c, token)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"user":    u,
	})
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "email and password are required")
	}

	u, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := h.service.IssueSession(u)
	if err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "login failed", err)
	}
	h.setSessionCookie(c, token)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "user logged in successfully",
		"user":    u,
	})
}

// Logout clears the client-held session cookie. Tokens are stateless, so
// there is nothing to revoke server-side.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "user logged out successfully",
	})
}

// Me returns the authenticated subject's current record.
func (h *Handler) Me(c *fiber.Ctx) error {
	id := h.subjectID(c)
	if id == "" {
		return domain.E(domain.KindNotLoggedIn, "you are not logged in")
	}

	u, err := h.service.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "user profile fetched successfully",
		"user":    u,
	})
}

// ForgotPassword starts the reset handshake for the supplied email.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" form:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "email is required")
	}

	if err := h.service.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "reset password token has been sent to " + NormalizeEmail(req.Email),
	})
}

// ResetPassword consumes the emailed one-time token.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "password is required")
	}

	if err := h.service.ResetPassword(c.UserContext(), c.Params("resetToken"), req.Password); err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "password changed successfully",
	})
}

// ChangePassword replaces the credential for the authenticated subject.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	id := h.subjectID(c)
	if id == "" {
		return domain.E(domain.KindNotLoggedIn, "you are not logged in")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "all fields are required")
	}

	if err := h.service.ChangePassword(c.UserContext(), id, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "password changed successfully",
	})
}

// Update applies a partial profile update with an optional avatar swap.
func (h *Handler) Update(c *fiber.Ctx) error {
	id := h.subjectID(c)
	if id == "" {
		return domain.E(domain.KindNotLoggedIn, "you are not logged in")
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "invalid request body")
	}

	avatarPath, cleanup, err := h.saveUpload(c, "avatar")
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := h.service.UpdateProfile(c.UserContext(), id, UpdateInput{
		FullName:   req.FullName,
		AvatarPath: avatarPath,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "user details updated successfully",
		"user":    u,
	})
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		Expires:  time.Now().Add(h.cfg.SessionTTL),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure(),
		SameSite: h.cfg.CookieSameSite(),
	})
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure(),
		SameSite: h.cfg.CookieSameSite(),
	})
}

// saveUpload copies an optional multipart file to a local temp path. The
// returned cleanup removes the temp copy; removal failures are logged and
// never fail the request.
func (h *Handler) saveUpload(c *fiber.Ctx, field string) (string, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return "", noop, nil
	}

	path := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveFile(fh, path); err != nil {
		return "", noop, domain.Wrap(domain.KindUploadFailed, "file upload failed", err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil {
			h.logger.Warn("remove temp upload", "path", path, "error", err)
		}
	}
	return path, cleanup, nil
}

// subjectID reads the authenticated identity attached by the auth gate.
func (h *Handler) subjectID(c *fiber.Ctx) string {
	id, ok := IdentityFrom(c)
	if !ok {
		return ""
	}
	return id.ID
}
