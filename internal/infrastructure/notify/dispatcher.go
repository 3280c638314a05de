package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// Dispatcher routes a one-time code to the channel matching its contact type.
// It implements ports.CodeSender.
type Dispatcher struct {
	email *EmailSender
	sms   *SMSSender
	log   zerolog.Logger
}

func NewDispatcher(email *EmailSender, sms *SMSSender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{email: email, sms: sms, log: log}
}

// SendCode delivers the code over email or SMS. The caller bounds ctx; a slow
// channel surfaces as a delivery error, never as a hung request.
func (d *Dispatcher) SendCode(ctx context.Context, contact string, contactType domain.ContactType, code, purpose string) error {
	switch contactType {
	case domain.ContactEmail:
		if err := d.sendEmail(ctx, contact, code, purpose); err != nil {
			return err
		}
	case domain.ContactPhone:
		if err := d.sms.Send(ctx, contact, code); err != nil {
			return err
		}
	default:
		return fmt.Errorf("no channel for contact type %q", contactType)
	}

	d.log.Debug().Str("channel", string(contactType)).Str("purpose", purpose).Msg("code dispatched")
	return nil
}

// sendEmail runs the blocking SMTP dial in a goroutine so the ctx deadline is
// honoured; gomail has no context support of its own.
func (d *Dispatcher) sendEmail(ctx context.Context, to, code, purpose string) error {
	done := make(chan error, 1)
	go func() {
		done <- d.email.Send(to, code, purpose)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
