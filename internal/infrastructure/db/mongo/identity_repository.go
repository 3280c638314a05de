package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

const collectionIdentities = "auths"

// IdentityRepository is the read-only adapter over the account subsystem's
// collection. Authentication never writes to it.
type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities)}
}

// FindByContact resolves an identity whose email or contact number equals the
// given value.
func (r *IdentityRepository) FindByContact(ctx context.Context, contactOrEmail string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"email": contactOrEmail},
		bson.M{"contact": contactOrEmail},
	}}

	var identity domain.Identity
	if err := r.col.FindOne(ctx, filter).Decode(&identity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &identity, nil
}
