package ports

import (
	"context"
	"time"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// OtpRepository persists one-time codes. Implementations must provide the two
// atomic operations the single-active and single-use invariants depend on:
// InvalidateActive (bulk flip on issue) and Consume (conditional flip on
// verify).
type OtpRepository interface {
	// Create inserts a new record.
	Create(ctx context.Context, rec *domain.OtpRecord) error

	// InvalidateActive marks every unused record for (contact, purpose) as
	// used, returning how many were flipped.
	InvalidateActive(ctx context.Context, contact, purpose string) (int64, error)

	// FindActive returns the single unused, unexpired record for
	// (contact, purpose) at instant now. Zero matches and more than one match
	// both yield domain.ErrInvalidOtp.
	FindActive(ctx context.Context, contact, purpose string, now time.Time) (*domain.OtpRecord, error)

	// Consume atomically flips used from false to true on the record with the
	// given id, provided it is still unexpired at now. A record already
	// consumed by a concurrent attempt yields domain.ErrInvalidOtp.
	Consume(ctx context.Context, id string, now time.Time) (*domain.OtpRecord, error)

	// DeleteExpired removes records whose expiry predates olderThan.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}
