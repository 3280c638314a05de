package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

type recordingOtpRepo struct {
	cutoffs []time.Time
	deleted int64
}

func (r *recordingOtpRepo) Create(context.Context, *domain.OtpRecord) error { return nil }

func (r *recordingOtpRepo) InvalidateActive(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (r *recordingOtpRepo) FindActive(context.Context, string, string, time.Time) (*domain.OtpRecord, error) {
	return nil, domain.ErrInvalidOtp
}

func (r *recordingOtpRepo) Consume(context.Context, string, time.Time) (*domain.OtpRecord, error) {
	return nil, domain.ErrInvalidOtp
}

func (r *recordingOtpRepo) DeleteExpired(_ context.Context, olderThan time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, olderThan)
	return r.deleted, nil
}

func TestSweeper_CutoffRespectsMargin(t *testing.T) {
	repo := &recordingOtpRepo{deleted: 3}
	margin := 2 * time.Minute
	s := NewSweeper(repo, time.Hour, margin, zerolog.Nop())

	before := time.Now().UTC()
	s.sweep(context.Background())
	after := time.Now().UTC()

	if len(repo.cutoffs) != 1 {
		t.Fatalf("expected 1 sweep, got %d", len(repo.cutoffs))
	}
	cutoff := repo.cutoffs[0]
	if cutoff.After(after.Add(-margin)) || cutoff.Before(before.Add(-margin-time.Second)) {
		t.Fatalf("cutoff %v not a margin of %v behind now", cutoff, margin)
	}
}

func TestSweeper_Defaults(t *testing.T) {
	s := NewSweeper(&recordingOtpRepo{}, 0, 0, zerolog.Nop())
	if s.interval != defaultInterval {
		t.Fatalf("interval = %v, want default %v", s.interval, defaultInterval)
	}
	if s.margin != defaultMargin {
		t.Fatalf("margin = %v, want default %v", s.margin, defaultMargin)
	}
}
