package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
)

type mailer interface {
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// Sender turns booking events into customer and staff notifications.
type Sender struct {
	mg     mailer
	from   string
	admin  string
	dev    bool
	logger *zap.Logger
}

func NewSender(cfg config.MailConfig, logger *zap.Logger) *Sender {
	return &Sender{
		mg:     mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from:   cfg.From,
		admin:  cfg.AdminEmail,
		dev:    cfg.Dev,
		logger: logger,
	}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, body := composeMessage(event)
	recipients := s.recipients(event)
	if len(recipients) == 0 {
		s.logger.Warn("booking event without recipients", zap.Int64("booking_id", event.BookingID))
		return nil
	}

	if s.dev {
		s.logger.Info("dev mode: skipping email",
			zap.Strings("to", recipients), zap.String("subject", subject))
		return nil
	}

	msg := mailgun.NewMessage(s.from, subject, body, recipients...)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, _, err := s.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent", zap.Strings("to", recipients), zap.String("type", event.Type))
	return nil
}

func (s *Sender) recipients(event kafka.BookingEvent) []string {
	var to []string
	if event.CustomerEmail != "" {
		to = append(to, event.CustomerEmail)
	}
	if s.admin != "" {
		to = append(to, s.admin)
	}
	return to
}

func composeMessage(event kafka.BookingEvent) (string, string) {
	var subject, lead string
	switch event.Type {
	case kafka.EventBookingRequested:
		subject = "Booking request received"
		lead = "We received your booking request and will respond within 48 hours."
	case kafka.EventBookingRescheduled:
		subject = "Booking rescheduled"
		lead = "Your booking has new dates and is awaiting confirmation."
	case kafka.EventBookingCancelled:
		subject = "Booking cancelled"
		lead = "Your booking has been cancelled."
	default:
		subject = "Booking update"
		lead = "There is an update to your booking."
	}
	if event.EventTitle != "" {
		subject += ": " + event.EventTitle
	}

	var b strings.Builder
	b.WriteString(lead)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "From: %s\n", strings.Replace(event.StartDatetime, "T", " ", 1))
	fmt.Fprintf(&b, "Until: %s\n", strings.Replace(event.EndDatetime, "T", " ", 1))
	if event.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", event.Duration)
	}
	fmt.Fprintf(&b, "Status: %s\n", event.Status)
	return subject, b.String()
}
