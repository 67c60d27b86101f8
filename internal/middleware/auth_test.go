package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	repository.Repository
	admins map[uuid.UUID]model.Admin
}

func (s *stubRepo) GetAdminByID(_ context.Context, id uuid.UUID) (model.Admin, error) {
	admin, ok := s.admins[id]
	if !ok {
		return model.Admin{}, repository.ErrAdminNotFound
	}
	return admin, nil
}

func newTestApp(t *testing.T, repo repository.Repository, issuer *token.Issuer, adminOnly bool) *fiber.App {
	t.Helper()
	app := fiber.New()
	handlers := []fiber.Handler{RequireAuth(issuer)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin(repo))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/protected", handlers...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestRequireAuthMissingHeader(t *testing.T) {
	issuer := token.NewIssuer("test-secret", 0)
	app := newTestApp(t, nil, issuer, false)

	resp, body := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Access denied", body["msg"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", 0)
	app := newTestApp(t, nil, issuer, false)

	resp, body := doRequest(t, app, "Bearer not-a-token")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["msg"])
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", 0)
	app := newTestApp(t, nil, issuer, false)

	signed, err := issuer.Issue(uuid.New(), "student@campus.edu")
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+signed)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	issuer := token.NewIssuer("test-secret", 0)
	repo := &stubRepo{admins: map[uuid.UUID]model.Admin{}}
	app := newTestApp(t, repo, issuer, true)

	// Valid token, but the subject is not in the admins table.
	signed, err := issuer.Issue(uuid.New(), "student@campus.edu")
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+signed)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied", body["msg"])
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	issuer := token.NewIssuer("test-secret", 0)
	adminID := uuid.New()
	repo := &stubRepo{admins: map[uuid.UUID]model.Admin{
		adminID: {ID: adminID, Email: "organizer@campus.edu", Role: model.RoleAdmin, CreatedAt: time.Now()},
	}}
	app := newTestApp(t, repo, issuer, true)

	signed, err := issuer.Issue(adminID, "organizer@campus.edu")
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+signed)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}
