// Package notifier dispatches outbound OTP notifications. Delivery is
// best-effort: failures are reported to the caller for logging but must
// never abort the mutation that triggered them.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/staffdeck/attendance-service/internal/metrics"
)

// SubjectOTPMail is the NATS subject the mailer worker consumes.
const SubjectOTPMail = "mail.otp"

// Notifier sends a verification code to an email address.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// OTPMessage is the payload published for the mailer worker.
type OTPMessage struct {
	Email  string    `json:"email"`
	Code   string    `json:"code"`
	SentAt time.Time `json:"sent_at"`
}

type natsNotifier struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATS creates a notifier that hands OTP mail jobs to NATS. The actual
// SMTP delivery happens in a separate mailer worker subscribed to
// SubjectOTPMail.
func NewNATS(conn *nats.Conn, logger *slog.Logger) Notifier {
	return &natsNotifier{conn: conn, logger: logger}
}

func (n *natsNotifier) SendOTP(_ context.Context, email, code string) error {
	payload, err := json.Marshal(OTPMessage{
		Email:  email,
		Code:   code,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to encode otp message: %w", err)
	}

	if err := n.conn.Publish(SubjectOTPMail, payload); err != nil {
		metrics.NotificationsSent.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to publish otp message: %w", err)
	}

	metrics.NotificationsSent.WithLabelValues("success").Inc()
	n.logger.Debug("otp mail job published", "email", email)
	return nil
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLog creates a development notifier that only logs the code instead
// of delivering it.
func NewLog(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendOTP(_ context.Context, email, code string) error {
	metrics.NotificationsSent.WithLabelValues("success").Inc()
	n.logger.Info("otp code generated (log-only delivery)", "email", email, "code", code)
	return nil
}
