package ports

import (
	"context"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// IdentityRepository is the read-only boundary to the account subsystem.
// Lookup matches the value against either the identity's email or its contact
// number, since a user may authenticate through either channel.
type IdentityRepository interface {
	FindByContact(ctx context.Context, contactOrEmail string) (*domain.Identity, error)
}
