package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

const collectionOtps = "otp_codes"

// OtpRepository implements ports.OtpRepository on MongoDB. The single-use and
// single-active invariants lean on server-side atomicity: UpdateMany for the
// bulk invalidation and FindOneAndUpdate for the conditional consume.
type OtpRepository struct {
	col *mongo.Collection
}

func NewOtpRepository(db *mongo.Database) *OtpRepository {
	return &OtpRepository{col: db.Collection(collectionOtps)}
}

// Create inserts a new code record.
func (r *OtpRepository) Create(ctx context.Context, rec *domain.OtpRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// InvalidateActive flips used on every unused record for (contact, purpose).
func (r *OtpRepository) InvalidateActive(ctx context.Context, contact, purpose string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"contact": contact, "purpose": purpose, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("invalidate otps: %w", err)
	}
	return res.ModifiedCount, nil
}

// FindActive returns the single unused, unexpired record for (contact,
// purpose). Zero or multiple matches both come back as ErrInvalidOtp; more
// than one active record would mean issuance broke its own invariant, never a
// verification-time decision.
func (r *OtpRepository) FindActive(ctx context.Context, contact, purpose string, now time.Time) (*domain.OtpRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"contact":    contact,
		"purpose":    purpose,
		"used":       false,
		"expires_at": bson.M{"$gt": now},
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetLimit(2))
	if err != nil {
		return nil, fmt.Errorf("find active otp: %w", err)
	}

	var recs []domain.OtpRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode active otp: %w", err)
	}
	if len(recs) != 1 {
		return nil, domain.ErrInvalidOtp
	}
	return &recs[0], nil
}

// Consume atomically flips used from false to true, provided the record is
// still unexpired. Only one of any number of concurrent callers wins.
func (r *OtpRepository) Consume(ctx context.Context, id string, now time.Time) (*domain.OtpRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        id,
		"used":       false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"used": true}}

	var rec domain.OtpRecord
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidOtp
		}
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	return &rec, nil
}

// DeleteExpired removes records whose expiry predates olderThan.
func (r *OtpRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": olderThan}})
	if err != nil {
		return 0, fmt.Errorf("delete expired otps: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes verification and invalidation rely on.
func (r *OtpRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "contact", Value: 1}, {Key: "purpose", Value: 1}, {Key: "used", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
