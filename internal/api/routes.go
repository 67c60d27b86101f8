package api

import (
	"campushub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts every route on the app. Student routes require a
// token only, organizer routes additionally require the admin role.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	requireAuth := middleware.RequireAuth(h.tokens)
	requireAdmin := middleware.RequireAdmin(h.repo)

	user := app.Group("/user")
	user.Post("/signup", h.UserSignup)
	user.Post("/signin", h.UserSignin)
	user.Get("/profile", requireAuth, h.UserProfile)
	user.Get("/events", h.ListPublicEvents)
	user.Post("/register-event/:id", requireAuth, h.RegisterForEvent)

	admin := app.Group("/admin")
	admin.Post("/signup", h.AdminSignup)
	admin.Post("/signin", h.AdminSignin)
	admin.Get("/profile", requireAuth, h.AdminProfile)
	admin.Get("/events", requireAuth, requireAdmin, h.ListAdminEvents)
	admin.Post("/create-event", requireAuth, requireAdmin, h.CreateEvent)
	admin.Put("/edit-event/:id", requireAuth, requireAdmin, h.UpdateEvent)
	admin.Delete("/delete-event/:eventId", requireAuth, requireAdmin, h.DeleteEvent)
	admin.Get("/event/:eventId/registrations", requireAuth, requireAdmin, h.ListEventRegistrations)
}
