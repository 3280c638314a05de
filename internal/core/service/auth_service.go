package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/ports"
)

// AuthService orchestrates the login flows: code request on one side, code
// verification plus identity resolution, flow gating and token issuance on
// the other.
type AuthService struct {
	otp        ports.OtpService
	identities ports.IdentityRepository
	throttle   ports.RequestThrottle
	jwtSecret  string
	tokenTTL   time.Duration
	logger     zerolog.Logger

	now func() time.Time
}

// NewAuthService builds the facade. throttle may be nil, in which case no
// resend cooldown is applied.
func NewAuthService(
	otp ports.OtpService,
	identities ports.IdentityRepository,
	throttle ports.RequestThrottle,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		otp:        otp,
		identities: identities,
		throttle:   throttle,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RequestCode issues a one-time code for the given flow. The contact is
// rejected before any store write when it is neither an email nor a phone
// number.
func (s *AuthService) RequestCode(ctx context.Context, flow domain.LoginFlow, contact string) error {
	if domain.ClassifyContact(contact) == domain.ContactUnknown {
		return domain.ErrUnrecognizedContact
	}

	purpose := flow.Purpose()

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, contact, purpose)
		if err != nil {
			// A throttle outage must not block logins.
			s.logger.Warn().Err(err).Msg("request throttle unavailable")
		} else if !allowed {
			return domain.ErrTooManyRequests
		}
	}

	_, err := s.otp.RequestCode(ctx, contact, purpose)
	return err
}

// Authenticate verifies the code, resolves the identity and applies the flow
// gate before issuing a session token. Identity-not-found and flow rejection
// are indistinguishable from a bad code to the caller.
func (s *AuthService) Authenticate(ctx context.Context, flow domain.LoginFlow, contact, code string) (string, *domain.SessionClaims, error) {
	if _, err := s.otp.Verify(ctx, contact, code, flow.Purpose()); err != nil {
		return "", nil, err
	}

	identity, err := s.identities.FindByContact(ctx, contact)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			s.logger.Info().Str("flow", string(flow)).Msg("code verified but no identity matches contact")
			return "", nil, domain.ErrInvalidOtp
		}
		return "", nil, fmt.Errorf("resolve identity: %w", err)
	}

	if !flow.Admits(identity) {
		s.logger.Info().
			Str("flow", string(flow)).
			Str("account_type", identity.AccountType.Name).
			Msg("flow gate rejected identity")
		return "", nil, domain.ErrInvalidOtp
	}

	token, claims, err := s.issueToken(identity)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("flow", string(flow)).Str("identity_id", identity.ID).Msg("authenticated")
	return token, claims, nil
}

func (s *AuthService) issueToken(identity *domain.Identity) (string, *domain.SessionClaims, error) {
	now := s.now()
	claims := domain.NewSessionClaims(identity)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   identity.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}
	return signed, &claims, nil
}
