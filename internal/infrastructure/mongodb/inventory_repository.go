package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metals-platform/production-service/internal/domain"
)

// InventoryRepository implements domain.InventoryRepository using MongoDB.
// Inventory is owned by another service; this repository only reads.
type InventoryRepository struct {
	collection *mongo.Collection
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	repo := &InventoryRepository{
		collection: db.Collection("inventoryItems"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

// ensureIndexes creates the necessary indexes
func (r *InventoryRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "inventoryId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "branchId", Value: 1},
				{Key: "itemId", Value: 1},
				{Key: "snapshot", Value: -1},
			},
		},
	}

	r.collection.Indexes().CreateMany(ctx, indexes)
}

// FindByID retrieves a coil by its inventory ID
func (r *InventoryRepository) FindByID(ctx context.Context, inventoryID string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.collection.FindOne(ctx, bson.M{"inventoryId": inventoryID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &item, nil
}

// FindCoilCandidates retrieves coils at a branch whose item ID is in
// itemIDs, with a positive LBS snapshot, largest snapshot first and tag
// number as the tie-break.
func (r *InventoryRepository) FindCoilCandidates(ctx context.Context, branchID string, itemIDs []string) ([]*domain.InventoryItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"branchId":     branchID,
		"itemId":       bson.M{"$in": itemIDs},
		"snapshotUnit": domain.SnapshotUnitLbs,
		"snapshot":     bson.M{"$gt": 0},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "snapshot", Value: -1},
		{Key: "tagNumber", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var coils []*domain.InventoryItem
	if err := cursor.All(ctx, &coils); err != nil {
		return nil, err
	}

	return coils, nil
}
