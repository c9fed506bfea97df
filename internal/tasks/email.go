package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

const (
	passwordResetSubject = "Resetowanie hasła w Flashdeck"
	passwordResetBody    = `<p>Cześć!</p>
<p>Otrzymaliśmy prośbę o zresetowanie hasła do Twojego konta.</p>
<p><a href="{{link}}">Ustaw nowe hasło</a></p>
<p>Link jest ważny przez 30 minut. Jeśli to nie Ty, zignoruj tę wiadomość.</p>`
)

// Sender is the interface that wraps email delivery
type Sender interface {
	// Method Send delivers an HTML email.
	Send(to, subject, body string) error
}

// SMTPSender sends emails through an SMTP server
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends an email using gopkg.in/mail.v2
func (s *SMTPSender) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// EmailHandler processes email tasks
type EmailHandler struct {
	sender Sender
	logger *zap.Logger
}

// NewEmailHandler creates a new email task handler
func NewEmailHandler(sender Sender, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{sender: sender, logger: logger}
}

// Register registers the handler's task types on the mux
func (h *EmailHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePasswordReset, h.HandlePasswordReset)
}

// HandlePasswordReset sends the password reset email of a task.
// Malformed payloads are not retried.
func (h *EmailHandler) HandlePasswordReset(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" || payload.Link == "" {
		return fmt.Errorf("incomplete payload: %w", asynq.SkipRetry)
	}

	body := strings.ReplaceAll(passwordResetBody, "{{link}}", html.EscapeString(payload.Link))
	if err := h.sender.Send(payload.Email, passwordResetSubject, body); err != nil {
		h.logger.Warn("password reset email failed", zap.Error(err))
		return err
	}

	h.logger.Info("password reset email sent")
	return nil
}
