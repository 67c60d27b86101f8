package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is a student-kind principal. Users and Admins live in separate
// tables with independent email uniqueness; the same address may exist
// in both.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Admin is an organizer-kind principal and the only principal kind that
// may own events.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	AdminName    string    `json:"adminName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	OrganizerID uuid.UUID `json:"organizerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventFields carries the mutable part of an Event through create and
// update operations.
type EventFields struct {
	Title       string
	Description string
	Date        string
	Time        string
	Location    string
	ImageURL    string
	VideoURL    string
}

// Registration links one user to one event. The (UserID, EventID) pair
// is unique; the storage layer enforces it.
type Registration struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	EventID      uuid.UUID `json:"eventId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Attendee is the user summary embedded in organizer read models.
type Attendee struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// EventWithAttendees is the organizer-only event read model.
type EventWithAttendees struct {
	Event
	Attendees []Attendee `json:"attendees"`
}

// RegistrationWithUser is the attendance-export row for one event.
type RegistrationWithUser struct {
	Registration
	User Attendee `json:"user"`
}
