package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metals-platform/production-service/internal/domain"
)

// PickingListItemRepository implements domain.PickingListItemRepository using MongoDB
type PickingListItemRepository struct {
	collection *mongo.Collection
}

// NewPickingListItemRepository creates a new PickingListItemRepository
func NewPickingListItemRepository(db *mongo.Database) *PickingListItemRepository {
	repo := &PickingListItemRepository{
		collection: db.Collection("pickingListItems"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

// ensureIndexes creates the necessary indexes
func (r *PickingListItemRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pickingListItemId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "branchId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "machineId", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "shipDate", Value: 1}, {Key: "priority", Value: 1}},
		},
	}

	r.collection.Indexes().CreateMany(ctx, indexes)
}

// FindEligibleForProduction retrieves lines waiting to be planned on the
// given machines, ordered by ship date then priority.
func (r *PickingListItemRepository) FindEligibleForProduction(ctx context.Context, branchID string, machineIDs []string) ([]*domain.PickingListItem, error) {
	filter := bson.M{
		"branchId":  branchID,
		"machineId": bson.M{"$in": machineIDs},
		"status":    domain.PickingLineStatusAssignedProduction,
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "shipDate", Value: 1},
		{Key: "priority", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []*domain.PickingListItem
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// FindByIDs retrieves lines by their IDs
func (r *PickingListItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.PickingListItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"pickingListItemId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lines []*domain.PickingListItem
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// UpdateStatus sets the status of the given lines
func (r *PickingListItemRepository) UpdateStatus(ctx context.Context, ids []string, status domain.PickingLineStatus) error {
	if len(ids) == 0 {
		return nil
	}

	filter := bson.M{"pickingListItemId": bson.M{"$in": ids}}
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}
