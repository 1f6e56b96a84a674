package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metals-platform/production-service/internal/domain"
)

// MachineRepository implements domain.MachineRepository using MongoDB
type MachineRepository struct {
	collection *mongo.Collection
}

// NewMachineRepository creates a new MachineRepository
func NewMachineRepository(db *mongo.Database) *MachineRepository {
	repo := &MachineRepository{
		collection: db.Collection("machines"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

// ensureIndexes creates the necessary indexes
func (r *MachineRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "machineId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "branchId", Value: 1}, {Key: "active", Value: 1}},
		},
	}

	r.collection.Indexes().CreateMany(ctx, indexes)
}

// FindByID retrieves a machine by its ID
func (r *MachineRepository) FindByID(ctx context.Context, machineID string) (*domain.Machine, error) {
	var machine domain.Machine
	err := r.collection.FindOne(ctx, bson.M{"machineId": machineID}).Decode(&machine)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &machine, nil
}

// FindActiveByBranch retrieves the active production machines at a branch
func (r *MachineRepository) FindActiveByBranch(ctx context.Context, branchID string) ([]*domain.Machine, error) {
	filter := bson.M{"branchId": branchID, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var machines []*domain.Machine
	if err := cursor.All(ctx, &machines); err != nil {
		return nil, err
	}

	return machines, nil
}
