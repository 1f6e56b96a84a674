package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metals-platform/production-service/internal/domain"
)

// ItemRelationshipRepository implements domain.ItemRelationshipRepository using MongoDB
type ItemRelationshipRepository struct {
	collection *mongo.Collection
}

// NewItemRelationshipRepository creates a new ItemRelationshipRepository
func NewItemRelationshipRepository(db *mongo.Database) *ItemRelationshipRepository {
	repo := &ItemRelationshipRepository{
		collection: db.Collection("itemRelationships"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

// ensureIndexes creates the necessary indexes
func (r *ItemRelationshipRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "itemCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	r.collection.Indexes().CreateMany(ctx, indexes)
}

// FindByItemCode retrieves the relationship for an item code, or nil when
// none exists
func (r *ItemRelationshipRepository) FindByItemCode(ctx context.Context, itemCode string) (*domain.ItemRelationship, error) {
	var rel domain.ItemRelationship
	err := r.collection.FindOne(ctx, bson.M{"itemCode": itemCode}).Decode(&rel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &rel, nil
}
