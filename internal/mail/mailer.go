// Package mail sends the transactional emails that accompany signups,
// event registrations and new event announcements. Delivery is best
// effort: failures are logged and never surface to the caller's request.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"campushub/internal/config"
	"campushub/internal/model"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a single message to one or more recipients.
type Sender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

type SMTPSender struct {
	client *gomail.Client
	from   string
}

func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: failed to send message: %w", err)
	}
	return nil
}

// NopSender drops every message. Used when no SMTP host is configured,
// typically in development.
type NopSender struct {
	Logger *slog.Logger
}

func (s NopSender) Send(_ context.Context, to []string, subject, _ string) error {
	if s.Logger != nil {
		s.Logger.Debug("mail delivery skipped, no SMTP host configured", "to", to, "subject", subject)
	}
	return nil
}

// Mailer composes the CampusHub messages and hands them to a Sender.
type Mailer struct {
	sender  Sender
	siteURL string
	logger  *slog.Logger
}

func NewMailer(sender Sender, siteURL string, logger *slog.Logger) *Mailer {
	return &Mailer{sender: sender, siteURL: siteURL, logger: logger}
}

// Dispatch runs fn on its own goroutine so mail delivery never blocks
// the request that triggered it.
func (m *Mailer) Dispatch(fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("mail dispatch panicked", "panic", r)
			}
		}()
		if err := fn(context.Background()); err != nil {
			m.logger.Error("mail delivery failed", "error", err)
		}
	}()
}

func (m *Mailer) SendWelcome(ctx context.Context, user model.User) error {
	body := fmt.Sprintf(`<h2>Welcome to CampusHub, %s!</h2>
<p>Your account is ready. Browse upcoming campus events and register with one click.</p>
<p><a href="%s">Explore events</a></p>`, user.Username, m.siteURL)
	return m.sender.Send(ctx, []string{user.Email}, "Welcome to CampusHub", body)
}

func (m *Mailer) SendRegistrationConfirmation(ctx context.Context, user model.User, event model.Event) error {
	body := fmt.Sprintf(`<h2>You're in, %s!</h2>
<p>Your registration for <strong>%s</strong> is confirmed.</p>
<p>%s at %s, %s</p>`, user.Username, event.Title, event.Date, event.Time, event.Location)
	return m.sender.Send(ctx, []string{user.Email}, fmt.Sprintf("Registration confirmed: %s", event.Title), body)
}

// SendEventAnnouncement notifies every known user address about a newly
// published event.
func (m *Mailer) SendEventAnnouncement(ctx context.Context, emails []string, event model.Event) error {
	if len(emails) == 0 {
		return nil
	}
	body := fmt.Sprintf(`<h2>New event: %s</h2>
<p>%s</p>
<p>%s at %s, %s</p>
<p><a href="%s">See details</a></p>`, event.Title, event.Description, event.Date, event.Time, event.Location, m.siteURL)
	return m.sender.Send(ctx, emails, fmt.Sprintf("New on CampusHub: %s", event.Title), body)
}
