package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/pkg/config"
)

// memOtpRepo is an in-memory ports.OtpRepository with the same atomicity
// guarantees the Mongo adapter provides (a single mutex serialises every
// operation, so Consume is a true conditional flip).
type memOtpRepo struct {
	mu   sync.Mutex
	recs map[string]*domain.OtpRecord
}

func newMemOtpRepo() *memOtpRepo {
	return &memOtpRepo{recs: make(map[string]*domain.OtpRecord)}
}

func cloneRecord(r *domain.OtpRecord) *domain.OtpRecord {
	clone := *r
	return &clone
}

func (m *memOtpRepo) Create(_ context.Context, rec *domain.OtpRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = cloneRecord(rec)
	return nil
}

func (m *memOtpRepo) InvalidateActive(_ context.Context, contact, purpose string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.recs {
		if r.Contact == contact && r.Purpose == purpose && !r.Used {
			r.Used = true
			n++
		}
	}
	return n, nil
}

func (m *memOtpRepo) FindActive(_ context.Context, contact, purpose string, now time.Time) (*domain.OtpRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*domain.OtpRecord
	for _, r := range m.recs {
		if r.Contact == contact && r.Purpose == purpose && r.Active(now) {
			found = append(found, r)
		}
	}
	if len(found) != 1 {
		return nil, domain.ErrInvalidOtp
	}
	return cloneRecord(found[0]), nil
}

func (m *memOtpRepo) Consume(_ context.Context, id string, now time.Time) (*domain.OtpRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok || !r.Active(now) {
		return nil, domain.ErrInvalidOtp
	}
	r.Used = true
	return cloneRecord(r), nil
}

func (m *memOtpRepo) DeleteExpired(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.recs {
		if r.ExpiresAt.Before(olderThan) {
			delete(m.recs, id)
			n++
		}
	}
	return n, nil
}

func (m *memOtpRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

func (m *memOtpRepo) unusedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.recs {
		if !r.Used {
			n++
		}
	}
	return n
}

// recordingSender captures dispatched codes; failNext makes the next send fail.
type recordingSender struct {
	mu       sync.Mutex
	sent     []string
	channels []domain.ContactType
	failNext bool
}

func (s *recordingSender) SendCode(_ context.Context, _ string, contactType domain.ContactType, code, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("channel down")
	}
	s.sent = append(s.sent, code)
	s.channels = append(s.channels, contactType)
	return nil
}

func (s *recordingSender) lastCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

func newTestOtpService(repo *memOtpRepo, sender *recordingSender) *OtpService {
	cfg := config.OTPConfig{Length: 6, TTL: 5 * time.Minute}
	return NewOtpService(repo, sender, cfg, zerolog.Nop())
}

func TestOtpService_RequestCode_Issues(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)

	rec, err := svc.RequestCode(context.Background(), "+351911111111", domain.PurposeLogin)
	if err != nil {
		t.Fatalf("RequestCode returned error: %v", err)
	}
	if rec.ContactType != domain.ContactPhone {
		t.Fatalf("contact type = %q, want phone", rec.ContactType)
	}
	if rec.Used {
		t.Fatalf("new record must not be used")
	}
	if got, want := rec.ExpiresAt.Sub(rec.CreatedAt), 5*time.Minute; got != want {
		t.Fatalf("ttl = %v, want %v", got, want)
	}
	if repo.unusedCount() != 1 {
		t.Fatalf("expected 1 unused record, got %d", repo.unusedCount())
	}
	if code := sender.lastCode(); len(code) != 6 {
		t.Fatalf("dispatched code %q, want 6 digits", code)
	}
	if sender.channels[0] != domain.ContactPhone {
		t.Fatalf("dispatched over %q, want phone", sender.channels[0])
	}
}

func TestOtpService_RequestCode_RejectsUnknownContact(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)

	if _, err := svc.RequestCode(context.Background(), "not-a-contact", domain.PurposeLogin); !errors.Is(err, domain.ErrUnrecognizedContact) {
		t.Fatalf("expected ErrUnrecognizedContact, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("store mutated on rejected contact")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("dispatch attempted for rejected contact")
	}
}

func TestOtpService_SingleActiveCode(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	var codes []string
	for i := 0; i < 3; i++ {
		if _, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		codes = append(codes, sender.lastCode())
	}

	if repo.unusedCount() != 1 {
		t.Fatalf("expected exactly 1 active record after 3 requests, got %d", repo.unusedCount())
	}

	// Superseded codes fail even though they are well-formed and unexpired.
	for _, stale := range codes[:2] {
		if _, err := svc.Verify(ctx, "user@example.com", stale, domain.PurposeLogin); !errors.Is(err, domain.ErrInvalidOtp) {
			t.Fatalf("superseded code %q verified", stale)
		}
	}

	if _, err := svc.Verify(ctx, "user@example.com", codes[2], domain.PurposeLogin); err != nil {
		t.Fatalf("latest code failed verification: %v", err)
	}
}

func TestOtpService_RequestCode_ConcurrentSingleActive(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	const requests = 8
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin); err != nil {
				t.Errorf("concurrent request failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if repo.unusedCount() != 1 {
		t.Fatalf("expected exactly 1 active record after %d concurrent requests, got %d", requests, repo.unusedCount())
	}
	if repo.count() != requests {
		t.Fatalf("expected %d records total, got %d", requests, repo.count())
	}
}

func TestOtpService_Verify_ExactlyOnce(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	if _, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	code := sender.lastCode()

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(ctx, "user@example.com", code, domain.PurposeLogin)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, domain.ErrInvalidOtp) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 successful verification, got %d", successes)
	}
}

func TestOtpService_Verify_ExpiryBoundary(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	rec, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	code := sender.lastCode()

	// At exactly ExpiresAt the code is dead: validity is strictly before.
	svc.now = func() time.Time { return rec.ExpiresAt }
	if _, err := svc.Verify(ctx, "user@example.com", code, domain.PurposeLogin); !errors.Is(err, domain.ErrInvalidOtp) {
		t.Fatalf("code verified at expiry instant")
	}

	// Just before expiry it still works.
	svc.now = func() time.Time { return rec.ExpiresAt.Add(-time.Millisecond) }
	if _, err := svc.Verify(ctx, "user@example.com", code, domain.PurposeLogin); err != nil {
		t.Fatalf("code failed just before expiry: %v", err)
	}
}

func TestOtpService_Verify_WrongCode(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	if _, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err := svc.Verify(ctx, "user@example.com", "000000", domain.PurposeLogin); !errors.Is(err, domain.ErrInvalidOtp) {
		t.Fatalf("expected ErrInvalidOtp for wrong code, got %v", err)
	}
}

func TestOtpService_Verify_PurposeScoped(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	if _, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeUserLogin); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	code := sender.lastCode()

	if _, err := svc.Verify(ctx, "user@example.com", code, domain.PurposeBackOfficeLogin); !errors.Is(err, domain.ErrInvalidOtp) {
		t.Fatalf("code crossed purposes")
	}
	if _, err := svc.Verify(ctx, "user@example.com", code, domain.PurposeUserLogin); err != nil {
		t.Fatalf("code failed under its own purpose: %v", err)
	}
}

func TestOtpService_RequestCode_DeliveryFailure(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{failNext: true}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	rec, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin)
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if rec == nil {
		t.Fatalf("issued record should be returned despite delivery failure")
	}
	// The code stays valid until superseded or expired.
	if repo.unusedCount() != 1 {
		t.Fatalf("expected the undelivered code to remain active")
	}

	// A re-request supersedes the stuck code.
	if _, err := svc.RequestCode(ctx, "user@example.com", domain.PurposeLogin); err != nil {
		t.Fatalf("re-request failed: %v", err)
	}
	if repo.unusedCount() != 1 {
		t.Fatalf("expected exactly 1 active record after re-request")
	}
}

func TestOtpService_PhoneScenario(t *testing.T) {
	repo := newMemOtpRepo()
	sender := &recordingSender{}
	svc := newTestOtpService(repo, sender)
	ctx := context.Background()

	rec, err := svc.RequestCode(ctx, "+351911111111", domain.PurposeLogin)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if repo.unusedCount() != 1 {
		t.Fatalf("expected 1 unused record")
	}
	if got := rec.ExpiresAt.Sub(rec.CreatedAt); got != 5*time.Minute {
		t.Fatalf("expiry window = %v, want 5m", got)
	}

	code := sender.lastCode()
	consumed, err := svc.Verify(ctx, "+351911111111", code, domain.PurposeLogin)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !consumed.Used {
		t.Fatalf("consumed record must be marked used")
	}

	if _, err := svc.Verify(ctx, "+351911111111", code, domain.PurposeLogin); !errors.Is(err, domain.ErrInvalidOtp) {
		t.Fatalf("second verify with same code must fail")
	}
}
