package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/ports"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/pkg/config"
)

// OtpService implements issuance and verification of one-time codes.
type OtpService struct {
	repo   ports.OtpRepository
	sender ports.CodeSender
	cfg    config.OTPConfig
	logger zerolog.Logger

	// Serialises invalidate+insert per (contact, purpose) so the
	// single-active invariant holds even when two requests for the same
	// contact race within this process. Entries are never reclaimed; the map
	// is bounded by the set of contacts seen since startup.
	issueLocks sync.Map

	// Overridable in tests for deterministic time and codes.
	now      func() time.Time
	generate func(length int) (string, error)
}

func NewOtpService(repo ports.OtpRepository, sender ports.CodeSender, cfg config.OTPConfig, logger zerolog.Logger) *OtpService {
	if cfg.Length <= 0 {
		cfg.Length = 6
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &OtpService{
		repo:     repo,
		sender:   sender,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		generate: generateCode,
	}
}

// RequestCode generates a fresh code for (contact, purpose), invalidates any
// outstanding one, persists the new record and dispatches the code. A
// dispatch failure does not undo issuance: the record is returned alongside
// domain.ErrDeliveryFailed and a re-request will supersede it.
func (s *OtpService) RequestCode(ctx context.Context, contact, purpose string) (*domain.OtpRecord, error) {
	contactType := domain.ClassifyContact(contact)
	if contactType == domain.ContactUnknown {
		return nil, domain.ErrUnrecognizedContact
	}

	code, err := s.generate(s.cfg.Length)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	now := s.now()
	rec := &domain.OtpRecord{
		ID:          uuid.NewString(),
		Contact:     contact,
		ContactType: contactType,
		CodeHash:    string(hash),
		Purpose:     purpose,
		ExpiresAt:   now.Add(s.cfg.TTL),
		CreatedAt:   now,
	}

	// Invalidation must land before the insert so two codes are never valid
	// at the same time.
	unlock := s.lockIssue(contact, purpose)
	defer unlock()

	superseded, err := s.repo.InvalidateActive(ctx, contact, purpose)
	if err != nil {
		return nil, fmt.Errorf("invalidate prior codes: %w", err)
	}
	if superseded > 0 {
		s.logger.Info().Str("purpose", purpose).Int64("superseded", superseded).Msg("outstanding codes invalidated")
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist code: %w", err)
	}

	if err := s.dispatch(ctx, rec, code); err != nil {
		s.logger.Error().Err(err).Str("purpose", purpose).Str("channel", string(contactType)).Msg("code dispatch failed")
		return rec, domain.ErrDeliveryFailed
	}

	s.logger.Info().Str("purpose", purpose).Str("channel", string(contactType)).Time("expires_at", rec.ExpiresAt).Msg("code issued")
	return rec, nil
}

// Verify consumes the single active code for (contact, purpose). The caller
// only ever sees domain.ErrInvalidOtp; the finer cause stays in the log.
func (s *OtpService) Verify(ctx context.Context, contact, code, purpose string) (*domain.OtpRecord, error) {
	now := s.now()

	rec, err := s.repo.FindActive(ctx, contact, purpose, now)
	if err != nil {
		s.logger.Info().Err(err).Str("purpose", purpose).Msg("no active code for contact")
		return nil, domain.ErrInvalidOtp
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		s.logger.Info().Str("purpose", purpose).Msg("code mismatch")
		return nil, domain.ErrInvalidOtp
	}

	// Conditional flip. Loses to at most one concurrent winner.
	consumed, err := s.repo.Consume(ctx, rec.ID, now)
	if err != nil {
		s.logger.Info().Err(err).Str("purpose", purpose).Msg("code already consumed")
		return nil, domain.ErrInvalidOtp
	}

	return consumed, nil
}

func (s *OtpService) lockIssue(contact, purpose string) func() {
	v, _ := s.issueLocks.LoadOrStore(purpose+"|"+contact, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// generateCode returns a fixed-length numeric string drawn from crypto/rand.
func generateCode(length int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

func (s *OtpService) dispatch(ctx context.Context, rec *domain.OtpRecord, code string) error {
	if s.cfg.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DispatchTimeout)
		defer cancel()
	}
	return s.sender.SendCode(ctx, rec.Contact, rec.ContactType, code, rec.Purpose)
}
