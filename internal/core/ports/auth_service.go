package ports

import (
	"context"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// AuthService is the public authentication facade.
type AuthService interface {
	// RequestCode validates and classifies the contact, then issues a code
	// under the flow's purpose tag.
	RequestCode(ctx context.Context, flow domain.LoginFlow, contact string) error

	// Authenticate verifies the code, resolves the identity, applies the flow
	// gate and returns a signed session token with its claims. Every
	// authentication failure surfaces as domain.ErrInvalidOtp.
	Authenticate(ctx context.Context, flow domain.LoginFlow, contact, code string) (string, *domain.SessionClaims, error)
}
