package api

import (
	"context"
	"errors"
	"time"

	"campushub/internal/middleware"
	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/internal/token"
	"campushub/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) AdminSignup(c *fiber.Ctx) error {
	var req validator.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return failValidation(c, []string{"body: must be valid JSON"})
	}
	req.Email = normalizeEmail(req.Email)
	if errs := h.validate.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	if _, err := h.repo.GetAdminByEmail(c.Context(), req.Email); err == nil {
		h.telemetry.RecordSignup(c.Context(), "admin", false)
		return fail(c, fiber.StatusBadRequest, "Admin already exists")
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		return h.serverError(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		return h.serverError(c, err)
	}

	now := time.Now()
	admin := model.Admin{
		ID:           uuid.New(),
		Username:     usernameFromEmail(req.Email),
		AdminName:    usernameFromEmail(req.Email),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.CreateAdmin(c.Context(), admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			h.telemetry.RecordSignup(c.Context(), "admin", false)
			return fail(c, fiber.StatusBadRequest, "Admin already exists")
		}
		return h.serverError(c, err)
	}

	h.telemetry.RecordSignup(c.Context(), "admin", true)

	signed, err := h.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return h.serverError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"msg":     "Admin signed up successfully",
		"token":   signed,
		"admin":   admin,
	})
}

func (h *Handler) AdminSignin(c *fiber.Ctx) error {
	var req validator.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return failValidation(c, []string{"body: must be valid JSON"})
	}
	req.Email = normalizeEmail(req.Email)
	if errs := h.validate.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	admin, err := h.repo.GetAdminByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return fail(c, fiber.StatusBadRequest, "Invalid credentials")
		}
		return h.serverError(c, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid credentials")
	}

	signed, err := h.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return h.serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "Admin logged in successfully",
		"token":   signed,
		"admin":   admin,
	})
}

func (h *Handler) AdminProfile(c *fiber.Ctx) error {
	admin, err := h.currentAdmin(c)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return fail(c, fiber.StatusNotFound, "Admin not found")
		}
		return h.serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"admin":   admin,
	})
}

// ListAdminEvents returns every event together with its attendees, the
// organizer dashboard view.
func (h *Handler) ListAdminEvents(c *fiber.Ctx) error {
	events, err := h.repo.ListEventsWithAttendees(c.Context())
	if err != nil {
		return h.serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"events":  events,
	})
}

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var req validator.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return failValidation(c, []string{"body: must be valid JSON"})
	}
	if errs := h.validate.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	admin, err := h.currentAdmin(c)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return fail(c, fiber.StatusNotFound, "Admin not found")
		}
		return h.serverError(c, err)
	}

	now := time.Now()
	event := model.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		OrganizerID: admin.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repo.CreateEvent(c.Context(), event); err != nil {
		return h.serverError(c, err)
	}

	if err := h.cache.Invalidate(c.Context()); err != nil {
		h.logger.Warn("failed to invalidate event cache", "error", err)
	}

	emails, err := h.repo.ListUserEmails(c.Context())
	if err != nil {
		h.logger.Warn("failed to load recipients for announcement", "error", err)
	} else {
		h.mailer.Dispatch(func(ctx context.Context) error {
			return h.mailer.SendEventAnnouncement(ctx, emails, event)
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"msg":     "Event created successfully",
		"event":   event,
	})
}

func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Event not found")
	}

	var req validator.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return failValidation(c, []string{"body: must be valid JSON"})
	}
	if errs := h.validate.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	event, err := h.repo.UpdateEvent(c.Context(), eventID, model.EventFields{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, fiber.StatusNotFound, "Event not found")
		}
		return h.serverError(c, err)
	}

	if err := h.cache.Invalidate(c.Context()); err != nil {
		h.logger.Warn("failed to invalidate event cache", "error", err)
	}

	emails, err := h.repo.ListUserEmails(c.Context())
	if err != nil {
		h.logger.Warn("failed to load recipients for announcement", "error", err)
	} else {
		h.mailer.Dispatch(func(ctx context.Context) error {
			return h.mailer.SendEventAnnouncement(ctx, emails, event)
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "Event updated successfully",
		"event":   event,
	})
}

func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Event not found")
	}

	if _, err := h.repo.GetEventByID(c.Context(), eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, fiber.StatusNotFound, "Event not found")
		}
		return h.serverError(c, err)
	}

	if err := h.repo.DeleteEvent(c.Context(), eventID); err != nil {
		return h.serverError(c, err)
	}

	if err := h.cache.Invalidate(c.Context()); err != nil {
		h.logger.Warn("failed to invalidate event cache", "error", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "Event deleted successfully",
	})
}

// ListEventRegistrations returns the registration rows for one event,
// each joined with the registered user.
func (h *Handler) ListEventRegistrations(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Event not found")
	}

	if _, err := h.repo.GetEventByID(c.Context(), eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, fiber.StatusNotFound, "Event not found")
		}
		return h.serverError(c, err)
	}

	regs, err := h.repo.ListRegistrationsForEvent(c.Context(), eventID)
	if err != nil {
		return h.serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"registrations": regs,
	})
}

func (h *Handler) currentAdmin(c *fiber.Ctx) (model.Admin, error) {
	claims, ok := c.Locals(middleware.ClaimsKey).(*token.Claims)
	if !ok {
		return model.Admin{}, repository.ErrAdminNotFound
	}
	id, err := claims.SubjectID()
	if err != nil {
		return model.Admin{}, repository.ErrAdminNotFound
	}
	return h.repo.GetAdminByID(c.Context(), id)
}
