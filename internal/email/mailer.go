package email

import (
	"fmt"
	"log/slog"

	"github.com/startupops/backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends HTML mail over SMTP. With no credentials configured it logs
// the send instead, so local environments work without a mail account.
// Delivery failures are logged and never surfaced to callers.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.cfg.User == "" || m.cfg.Password == "" {
		slog.Warn("email credentials not set, mock sending", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.User)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}

// InvitationBody renders the welcome mail for an invited user. The
// temporary password is included because the invitee has no other channel
// to receive it.
func InvitationBody(company, name, userEmail, tempPassword string) string {
	return fmt.Sprintf(`
	<html>
		<body>
			<h2>Welcome to %s</h2>
			<p>Hello %s,</p>
			<p>You have been invited to join the <b>%s</b> workspace on StartupOps.</p>
			<p><b>Your Credentials:</b></p>
			<ul>
				<li>Email: %s</li>
				<li>Temporary Password: %s</li>
			</ul>
			<p>Please log in immediately. You will be required to set up biometric authentication on your first login.</p>
		</body>
	</html>
	`, company, name, company, userEmail, tempPassword)
}
