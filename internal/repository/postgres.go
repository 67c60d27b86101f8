package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campushub/internal/database"
	"campushub/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db database.Database
}

func NewPostgresRepository(db database.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("repository: failed to insert user (email=%s): %w", user.Email, err)
	}
	return nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`,
		email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("repository: failed to scan user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at FROM users WHERE id = $1`,
		id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("repository: failed to scan user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) ListUserEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT email FROM users`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list user emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("repository: failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate emails: %w", err)
	}
	return emails, nil
}

func (r *PostgresRepository) CreateAdmin(ctx context.Context, admin model.Admin) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO admins (id, username, admin_name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		admin.ID, admin.Username, admin.AdminName, admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("repository: failed to insert admin (email=%s): %w", admin.Email, err)
	}
	return nil
}

func (r *PostgresRepository) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	var admin model.Admin
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, username, admin_name, email, password_hash, role, created_at, updated_at FROM admins WHERE email = $1`,
		email).Scan(&admin.ID, &admin.Username, &admin.AdminName, &admin.Email, &admin.PasswordHash, &admin.Role, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, ErrAdminNotFound
		}
		return model.Admin{}, fmt.Errorf("repository: failed to scan admin: %w", err)
	}
	return admin, nil
}

func (r *PostgresRepository) GetAdminByID(ctx context.Context, id uuid.UUID) (model.Admin, error) {
	var admin model.Admin
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, username, admin_name, email, password_hash, role, created_at, updated_at FROM admins WHERE id = $1`,
		id).Scan(&admin.ID, &admin.Username, &admin.AdminName, &admin.Email, &admin.PasswordHash, &admin.Role, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Admin{}, ErrAdminNotFound
		}
		return model.Admin{}, fmt.Errorf("repository: failed to scan admin: %w", err)
	}
	return admin, nil
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO events (id, title, description, date, time, location, image_url, video_url, organizer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Title, event.Description, event.Date, event.Time, event.Location,
		event.ImageURL, event.VideoURL, event.OrganizerID, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert event (title=%s): %w", event.Title, err)
	}
	return nil
}

func (r *PostgresRepository) UpdateEvent(ctx context.Context, id uuid.UUID, fields model.EventFields) (model.Event, error) {
	var event model.Event
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE events
		 SET title = $1, description = $2, date = $3, time = $4, location = $5,
		     image_url = $6, video_url = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING id, title, description, date, time, location, image_url, video_url, organizer_id, created_at, updated_at`,
		fields.Title, fields.Description, fields.Date, fields.Time, fields.Location,
		fields.ImageURL, fields.VideoURL, id).
		Scan(&event.ID, &event.Title, &event.Description, &event.Date, &event.Time, &event.Location,
			&event.ImageURL, &event.VideoURL, &event.OrganizerID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, fmt.Errorf("repository: failed to update event (id=%s): %w", id, err)
	}
	return event, nil
}

// DeleteEvent removes an event and its registrations in one transaction.
// Registrations go first so no row ever references a missing event.
func (r *PostgresRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("repository: failed to delete registrations (event_id=%s): %w", id, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("repository: failed to delete event (id=%s): %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetEventByID(ctx context.Context, id uuid.UUID) (model.Event, error) {
	var event model.Event
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, title, description, date, time, location, image_url, video_url, organizer_id, created_at, updated_at
		 FROM events WHERE id = $1`, id).
		Scan(&event.ID, &event.Title, &event.Description, &event.Date, &event.Time, &event.Location,
			&event.ImageURL, &event.VideoURL, &event.OrganizerID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, fmt.Errorf("repository: failed to scan event: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, title, description, date, time, location, image_url, video_url, organizer_id, created_at, updated_at
		 FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Date, &event.Time, &event.Location,
			&event.ImageURL, &event.VideoURL, &event.OrganizerID, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate events: %w", err)
	}
	return events, nil
}

// ListEventsWithAttendees is the organizer read model: every event with
// the id/username/email of each registered user.
func (r *PostgresRepository) ListEventsWithAttendees(ctx context.Context) ([]model.EventWithAttendees, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT e.id, e.title, e.description, e.date, e.time, e.location, e.image_url, e.video_url,
		        e.organizer_id, e.created_at, e.updated_at,
		        u.id, u.username, u.email
		 FROM events e
		 LEFT JOIN registrations r ON r.event_id = e.id
		 LEFT JOIN users u ON u.id = r.user_id
		 ORDER BY e.created_at DESC, u.username ASC`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list events with attendees: %w", err)
	}
	defer rows.Close()

	var events []model.EventWithAttendees
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var event model.Event
		var attendeeID *uuid.UUID
		var attendeeName, attendeeEmail *string

		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Date, &event.Time, &event.Location,
			&event.ImageURL, &event.VideoURL, &event.OrganizerID, &event.CreatedAt, &event.UpdatedAt,
			&attendeeID, &attendeeName, &attendeeEmail); err != nil {
			return nil, fmt.Errorf("repository: failed to scan event row: %w", err)
		}

		i, seen := index[event.ID]
		if !seen {
			events = append(events, model.EventWithAttendees{Event: event, Attendees: []model.Attendee{}})
			i = len(events) - 1
			index[event.ID] = i
		}
		if attendeeID != nil {
			events[i].Attendees = append(events[i].Attendees, model.Attendee{
				ID:       *attendeeID,
				Username: *attendeeName,
				Email:    *attendeeEmail,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate events: %w", err)
	}
	return events, nil
}

// CreateRegistration inserts a registration row. A concurrent duplicate
// loses the race at the unique constraint and comes back as
// ErrAlreadyRegistered, the same outcome as the handler pre-check.
func (r *PostgresRepository) CreateRegistration(ctx context.Context, reg model.Registration) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO registrations (id, user_id, event_id, registered_at) VALUES ($1, $2, $3, $4)`,
		reg.ID, reg.UserID, reg.EventID, reg.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("repository: failed to insert registration (user_id=%s, event_id=%s): %w", reg.UserID, reg.EventID, err)
	}
	return nil
}

func (r *PostgresRepository) FindRegistration(ctx context.Context, userID, eventID uuid.UUID) (model.Registration, error) {
	var reg model.Registration
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, user_id, event_id, registered_at FROM registrations WHERE user_id = $1 AND event_id = $2`,
		userID, eventID).Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Registration{}, ErrRegistrationNotFound
		}
		return model.Registration{}, fmt.Errorf("repository: failed to scan registration: %w", err)
	}
	return reg, nil
}

func (r *PostgresRepository) ListRegistrationsForEvent(ctx context.Context, eventID uuid.UUID) ([]model.RegistrationWithUser, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT r.id, r.user_id, r.event_id, r.registered_at, u.id, u.username, u.email
		 FROM registrations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = $1
		 ORDER BY r.registered_at ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list registrations (event_id=%s): %w", eventID, err)
	}
	defer rows.Close()

	var regs []model.RegistrationWithUser
	for rows.Next() {
		var reg model.RegistrationWithUser
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.RegisteredAt,
			&reg.User.ID, &reg.User.Username, &reg.User.Email); err != nil {
			return nil, fmt.Errorf("repository: failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate registrations: %w", err)
	}
	return regs, nil
}

func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	return r.db.Ping(ctx)
}
