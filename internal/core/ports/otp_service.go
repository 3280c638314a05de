package ports

import (
	"context"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// OtpService issues and verifies one-time codes.
type OtpService interface {
	// RequestCode generates, persists and dispatches a new code for
	// (contact, purpose), invalidating any outstanding one first.
	RequestCode(ctx context.Context, contact, purpose string) (*domain.OtpRecord, error)

	// Verify consumes the active code for (contact, purpose) when the
	// presented code matches. Wrong, expired and already-used codes all fail
	// with domain.ErrInvalidOtp.
	Verify(ctx context.Context, contact, code, purpose string) (*domain.OtpRecord, error)
}
