package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/pkg/config"
)

// EmailSender delivers one-time codes over SMTP.
type EmailSender struct {
	cfg config.SMTPConfig
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send mails the code to the given address.
func (s *EmailSender) Send(to, code, purpose string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subjectFor(purpose))
	m.SetBody("text/plain", fmt.Sprintf("Your verification code is: %s\n\nIt expires in a few minutes. If you did not request it, ignore this message.", code))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func subjectFor(purpose string) string {
	switch purpose {
	case domain.PurposeBackOfficeLogin:
		return "Back-office login code"
	case domain.PurposeUserLogin:
		return "Login code"
	default:
		return "Verification code"
	}
}
