package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"campushub/internal/cache"
	"campushub/internal/middleware"
	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/internal/token"
	"campushub/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// usernameFromEmail derives the display name from the address local part.
func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// normalizeEmail folds an address to its canonical stored form. Applied
// before validation on every signup and signin so lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) UserSignup(c *fiber.Ctx) error {
	var req validator.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return failValidation(c, []string{"body: must be valid JSON"})
	}
	req.Email = normalizeEmail(req.Email)
	if errs := h.validate.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	if _, err := h.repo.GetUserByEmail(c.Context(), req.Email); err == nil {
		h.telemetry.RecordSignup(c.Context(), "user", false)
		return fail(c, fiber.StatusBadRequest, "User already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return h.serverError(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		return h.serverError(c, err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Username:     usernameFromEmail(req.Email),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			h.telemetry.RecordSignup(c.Context(), "user", false)
			return fail(c, fiber.StatusBadRequest, "User already exists")
		}
		return h.serverError(c, err)
	}

	h.telemetry.RecordSignup(c.Context(), "user", true)
	h.mailer.Dispatch(func(ctx context.Context) error {
		return h.mailer.SendWelcome(ctx, user)
	})

	signed, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return h.serverError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"msg":     "User signed up successfully",
		"token":   signed,
		"user":    user,
	})
}

func (h *Handler) UserSignin(c *fiber.Ctx) error {
	var req validator.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return failValidation(c, []string{"body: must be valid JSON"})
	}
	req.Email = normalizeEmail(req.Email)
	if errs := h.validate.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	user, err := h.repo.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, fiber.StatusBadRequest, "Invalid credentials")
		}
		return h.serverError(c, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid credentials")
	}

	signed, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return h.serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "User logged in successfully",
		"token":   signed,
		"user":    user,
	})
}

func (h *Handler) UserProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return h.serverError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// ListPublicEvents serves the catalog students browse. The listing is
// cached; a miss falls through to the database and refills the cache.
func (h *Handler) ListPublicEvents(c *fiber.Ctx) error {
	events, err := h.cache.GetPublicEvents(c.Context())
	if err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"events":  events,
		})
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		h.logger.Debug("event cache unavailable, falling back to database", "error", err)
	}

	events, err = h.repo.ListEvents(c.Context())
	if err != nil {
		return h.serverError(c, err)
	}
	if err := h.cache.SetPublicEvents(c.Context(), events); err != nil {
		h.logger.Warn("failed to cache event listing", "error", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"events":  events,
	})
}

func (h *Handler) RegisterForEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Event not found")
	}

	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return h.serverError(c, err)
	}

	event, err := h.repo.GetEventByID(c.Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, fiber.StatusNotFound, "Event not found")
		}
		return h.serverError(c, err)
	}

	if _, err := h.repo.FindRegistration(c.Context(), user.ID, event.ID); err == nil {
		return fail(c, fiber.StatusBadRequest, "Already registered")
	} else if !errors.Is(err, repository.ErrRegistrationNotFound) {
		return h.serverError(c, err)
	}

	reg := model.Registration{
		ID:           uuid.New(),
		UserID:       user.ID,
		EventID:      event.ID,
		RegisteredAt: time.Now(),
	}
	if err := h.repo.CreateRegistration(c.Context(), reg); err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			h.telemetry.RecordEventRegistration(c.Context(), false)
			return fail(c, fiber.StatusBadRequest, "Already registered")
		}
		return h.serverError(c, err)
	}

	h.telemetry.RecordEventRegistration(c.Context(), true)
	h.mailer.Dispatch(func(ctx context.Context) error {
		return h.mailer.SendRegistrationConfirmation(ctx, user, event)
	})

	return c.JSON(fiber.Map{
		"success": true,
		"msg":     "Registered successfully!",
	})
}

// currentUser resolves the authenticated user from the verified claims.
func (h *Handler) currentUser(c *fiber.Ctx) (model.User, error) {
	claims, ok := c.Locals(middleware.ClaimsKey).(*token.Claims)
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	id, err := claims.SubjectID()
	if err != nil {
		return model.User{}, repository.ErrUserNotFound
	}
	return h.repo.GetUserByID(c.Context(), id)
}
