package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lectoria/lectoria/internal/course"
)

// RegisterCourseRoutes wires the catalog. Listing is public; lecture
// content is gated by a live subscription check; mutation is admin-only.
func RegisterCourseRoutes(r fiber.Router, h *course.Handler, requireAuth, adminOnly, subscribersOnly fiber.Handler) {
	g := r.Group("/courses")

	g.Get("/", h.List)
	g.Post("/", requireAuth, adminOnly, h.Create)
	g.Get("/:id", requireAuth, subscribersOnly, h.Lectures)
	g.Put("/:id", requireAuth, adminOnly, h.Update)
	g.Delete("/:id", requireAuth, adminOnly, h.Delete)
	g.Post("/:id", requireAuth, adminOnly, h.AddLecture)
	g.Delete("/:id/lectures/:lectureId", requireAuth, adminOnly, h.RemoveLecture)
}
