package ports

import (
	"context"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// CodeSender delivers a one-time code over the channel matching the contact
// type. Delivery is best-effort from the store's point of view: a failed send
// never rolls back an issued code.
type CodeSender interface {
	SendCode(ctx context.Context, contact string, contactType domain.ContactType, code, purpose string) error
}

// RequestThrottle rate-limits code issuance per (contact, purpose).
// Allow reports false when a request arrived inside the cooldown window.
type RequestThrottle interface {
	Allow(ctx context.Context, contact, purpose string) (bool, error)
}
