// Seeds a local database with a demo organizer, a few students and
// events, so the API can be exercised right after startup.
//
// Usage: go run ./scripts
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campushub/internal/config"
	"campushub/internal/database"
	"campushub/internal/model"
	"campushub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	ctx := context.Background()
	cfg := config.NewConfig()

	db := database.NewDatabase()
	if err := db.Connect(ctx, cfg.Database.DSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	repo := repository.NewPostgresRepository(db)
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := model.Admin{
		ID:           uuid.New(),
		Username:     "organizer",
		AdminName:    "organizer",
		Email:        "organizer@campus.edu",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateAdmin(ctx, admin); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			log.Fatalf("Failed to create admin: %v", err)
		}
		existing, err := repo.GetAdminByEmail(ctx, admin.Email)
		if err != nil {
			log.Fatalf("Failed to load existing admin: %v", err)
		}
		admin = existing
	}

	for _, email := range []string{"riya@campus.edu", "arjun@campus.edu", "meera@campus.edu"} {
		user := model.User{
			ID:           uuid.New(),
			Username:     email[:len(email)-len("@campus.edu")],
			Email:        email,
			PasswordHash: string(hash),
			Role:         model.RoleStudent,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.CreateUser(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicateEmail) {
			log.Fatalf("Failed to create user %s: %v", email, err)
		}
	}

	events := []model.Event{
		{Title: "Tech Fest", Description: "Annual technology festival", Date: "2026-10-10", Time: "10:00", Location: "Main Auditorium"},
		{Title: "Open Mic Night", Date: "2026-10-17", Time: "19:00", Location: "Student Center"},
		{Title: "Career Fair", Description: "Meet recruiters from 40+ companies", Date: "2026-11-02", Time: "09:00", Location: "Sports Hall"},
	}
	for _, event := range events {
		event.ID = uuid.New()
		event.OrganizerID = admin.ID
		event.CreatedAt = now
		event.UpdatedAt = now
		if err := repo.CreateEvent(ctx, event); err != nil {
			log.Fatalf("Failed to create event %s: %v", event.Title, err)
		}
	}

	fmt.Println("Seeded demo data: organizer@campus.edu / secret1, 3 students, 3 events")
}
