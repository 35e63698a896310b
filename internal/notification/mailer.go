package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrPermanent marks a delivery failure that must not be retried.
// Mailers wrap it, e.g. fmt.Errorf("%w: mailbox rejected", ErrPermanent).
var ErrPermanent = errors.New("permanent delivery failure")

// Message is a single notification addressed to a user.
type Message struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Email     string
	FullName  string
	Text      string
	CreatedAt time.Time
}

// Mailer sends a message to its recipient.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to the Mailer interface.
type MailerFunc func(ctx context.Context, msg Message) error

// Send calls f(ctx, msg).
func (f MailerFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// LogMailer writes each message to a structured log instead of sending it.
// It is the default transport when no real mail service is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer. If logger is nil, slog.Default() is used.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "notification sent",
		slog.String("message_id", msg.ID.String()),
		slog.String("user_id", msg.UserID.String()),
		slog.String("recipient", msg.FullName),
		slog.String("text", msg.Text))
	return nil
}
