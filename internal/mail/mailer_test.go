package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"campushub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []sentMessage
	sendErr  error
}

type sentMessage struct {
	to      []string
	subject string
	body    string
}

func (f *fakeSender) Send(_ context.Context, to []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func TestSendWelcome(t *testing.T) {
	sender := &fakeSender{}
	mailer := NewMailer(sender, "http://localhost:3000", slog.Default())

	user := model.User{ID: uuid.New(), Username: "riya", Email: "riya@campus.edu"}
	require.NoError(t, mailer.SendWelcome(context.Background(), user))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"riya@campus.edu"}, sender.sent[0].to)
	assert.Equal(t, "Welcome to CampusHub", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "riya")
}

func TestSendRegistrationConfirmation(t *testing.T) {
	sender := &fakeSender{}
	mailer := NewMailer(sender, "http://localhost:3000", slog.Default())

	user := model.User{Username: "riya", Email: "riya@campus.edu"}
	event := model.Event{Title: "Tech Fest", Date: "2026-03-14", Time: "18:00", Location: "Main Auditorium"}
	require.NoError(t, mailer.SendRegistrationConfirmation(context.Background(), user, event))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Registration confirmed: Tech Fest", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "Main Auditorium")
}

func TestSendEventAnnouncementSkipsEmptyList(t *testing.T) {
	sender := &fakeSender{}
	mailer := NewMailer(sender, "http://localhost:3000", slog.Default())

	err := mailer.SendEventAnnouncement(context.Background(), nil, model.Event{Title: "Tech Fest"})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestDispatchLogsAndSwallowsErrors(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("smtp down")}
	mailer := NewMailer(sender, "http://localhost:3000", slog.Default())

	done := make(chan struct{})
	mailer.Dispatch(func(ctx context.Context) error {
		defer close(done)
		return sender.Send(ctx, []string{"riya@campus.edu"}, "x", "y")
	})
	<-done
}
