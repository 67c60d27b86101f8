package repository

import (
	"context"
	"errors"

	"campushub/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrAlreadyRegistered    = errors.New("already registered")
)

// Repository is the storage surface of the service. Handlers depend on
// this interface; tests substitute an in-memory fake.
type Repository interface {
	// Credential store. Emails are unique per principal kind; the two
	// kinds are independent namespaces.
	CreateUser(ctx context.Context, user model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	ListUserEmails(ctx context.Context) ([]string, error)

	CreateAdmin(ctx context.Context, admin model.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (model.Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error)

	// Event catalog.
	CreateEvent(ctx context.Context, event model.Event) error
	UpdateEvent(ctx context.Context, id uuid.UUID, fields model.EventFields) (model.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetEventByID(ctx context.Context, id uuid.UUID) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListEventsWithAttendees(ctx context.Context) ([]model.EventWithAttendees, error)

	// Registration ledger.
	CreateRegistration(ctx context.Context, reg model.Registration) error
	FindRegistration(ctx context.Context, userID, eventID uuid.UUID) (model.Registration, error)
	ListRegistrationsForEvent(ctx context.Context, eventID uuid.UUID) ([]model.RegistrationWithUser, error)

	HealthCheck(ctx context.Context) error
}
