package course

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/user"
)

// Handler exposes catalog endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a course HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

type courseRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
	CreatedBy   string `json:"createdBy" form:"createdBy"`
}

type lectureRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// List returns the catalog without lecture content.
func (h *Handler) List(c *fiber.Ctx) error {
	courses, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "courses fetched successfully",
		"courses": courses,
	})
}

// Lectures returns the lecture list of one course.
func (h *Handler) Lectures(c *fiber.Ctx) error {
	lectures, err := h.service.Lectures(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":  true,
		"message":  "lectures fetched successfully",
		"lectures": lectures,
	})
}

// Create adds a catalog entry with an optional thumbnail upload.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "all fields are required")
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		if id, ok := user.IdentityFrom(c); ok {
			createdBy = id.Email
		}
	}

	thumbPath, cleanup, err := h.saveUpload(c, "thumbnail")
	if err != nil {
		return err
	}
	defer cleanup()

	created, err := h.service.Create(c.UserContext(), CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		CreatedBy:     createdBy,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "course created successfully",
		"course":  created,
	})
}

// Update applies a partial course update.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "invalid request body")
	}

	updated, err := h.service.Update(c.UserContext(), c.Params("id"), UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "course updated successfully",
		"course":  updated,
	})
}

// Delete removes a course.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "course deleted successfully",
	})
}

// AddLecture appends a lecture with its uploaded video.
func (h *Handler) AddLecture(c *fiber.Ctx) error {
	var req lectureRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.E(domain.KindValidation, "all fields are required")
	}

	videoPath, cleanup, err := h.saveUpload(c, "lecture")
	if err != nil {
		return err
	}
	defer cleanup()

	updated, err := h.service.AddLecture(c.UserContext(), c.Params("id"), LectureInput{
		Title:       req.Title,
		Description: req.Description,
		VideoPath:   videoPath,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "lecture added successfully",
		"course":  updated,
	})
}

// RemoveLecture deletes a lecture from a course.
func (h *Handler) RemoveLecture(c *fiber.Ctx) error {
	if err := h.service.RemoveLecture(c.UserContext(), c.Params("id"), c.Params("lectureId")); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "lecture removed successfully",
	})
}

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
