package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthRequestValid(t *testing.T) {
	v := NewValidator()

	errs := v.Check(AuthRequest{Email: "student@campus.edu", Password: "secret1"})
	assert.Nil(t, errs)
}

func TestAuthRequestInvalid(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		request AuthRequest
		want    string
	}{
		{
			name:    "missing email",
			request: AuthRequest{Password: "secret1"},
			want:    "email: is required",
		},
		{
			name:    "not an email",
			request: AuthRequest{Email: "not-an-email", Password: "secret1"},
			want:    "email: must be a valid email",
		},
		{
			name:    "short password",
			request: AuthRequest{Email: "student@campus.edu", Password: "abc"},
			want:    "password: must be at least 6 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Check(tt.request)
			assert.Contains(t, errs, tt.want)
		})
	}
}

func TestEventRequest(t *testing.T) {
	v := NewValidator()

	errs := v.Check(EventRequest{
		Title:    "Tech Fest",
		Date:     "2026-03-14",
		Time:     "18:00",
		Location: "Main Auditorium",
	})
	assert.Nil(t, errs)

	errs = v.Check(EventRequest{Title: "Tech Fest"})
	assert.Contains(t, errs, "date: is required")
	assert.Contains(t, errs, "time: is required")
	assert.Contains(t, errs, "location: is required")

	errs = v.Check(EventRequest{
		Title:    "Tech Fest",
		Date:     "2026-03-14",
		Time:     "18:00",
		Location: "Main Auditorium",
		ImageURL: "not a url",
	})
	assert.Contains(t, errs, "imageUrl: must be a valid URL")
}
