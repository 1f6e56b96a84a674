package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/metals-platform/production-service/pkg/errors"
	platformdb "github.com/metals-platform/production-service/pkg/mongodb"

	"github.com/metals-platform/production-service/internal/domain"
)

// WorkOrderRepository implements domain.WorkOrderRepository using MongoDB
type WorkOrderRepository struct {
	client     *platformdb.Client
	collection *mongo.Collection
	lines      *mongo.Collection
}

// NewWorkOrderRepository creates a new WorkOrderRepository
func NewWorkOrderRepository(client *platformdb.Client) *WorkOrderRepository {
	db := client.Database()
	repo := &WorkOrderRepository{
		client:     client,
		collection: db.Collection("workOrders"),
		lines:      db.Collection("pickingListItems"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}

// ensureIndexes creates the necessary indexes
func (r *WorkOrderRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workOrderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "workOrderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "branchId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "machineId", Value: 1}, {Key: "scheduledEnd", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	r.collection.Indexes().CreateMany(ctx, indexes)
}

// Save persists a work order. Updates carry an optimistic version check.
func (r *WorkOrderRepository) Save(ctx context.Context, workOrder *domain.WorkOrder) error {
	if workOrder.Version == 0 {
		workOrder.Version = 1
		if _, err := r.collection.InsertOne(ctx, workOrder); err != nil {
			return fmt.Errorf("failed to insert work order: %w", err)
		}
		return nil
	}

	loadedVersion := workOrder.Version
	workOrder.Version++

	filter := bson.M{
		"workOrderId": workOrder.WorkOrderID,
		"version":     loadedVersion,
	}
	result, err := r.collection.ReplaceOne(ctx, filter, workOrder)
	if err != nil {
		workOrder.Version = loadedVersion
		return fmt.Errorf("failed to update work order: %w", err)
	}
	if result.MatchedCount == 0 {
		workOrder.Version = loadedVersion
		return apperrors.ErrConflict("work order was modified concurrently")
	}

	return nil
}

// SaveBatch persists a planning run's output in one transaction: the new
// work orders plus the status flip of their consumed lines.
func (r *WorkOrderRepository) SaveBatch(ctx context.Context, workOrders []*domain.WorkOrder, consumedLineIDs []string) error {
	if len(workOrders) == 0 {
		return nil
	}

	err := r.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		docs := make([]interface{}, 0, len(workOrders))
		for _, wo := range workOrders {
			wo.Version = 1
			docs = append(docs, wo)
		}
		if _, err := r.collection.InsertMany(sessCtx, docs); err != nil {
			return fmt.Errorf("failed to insert work orders: %w", err)
		}

		if len(consumedLineIDs) > 0 {
			filter := bson.M{"pickingListItemId": bson.M{"$in": consumedLineIDs}}
			update := bson.M{"$set": bson.M{
				"status":    domain.PickingLineStatusWorkOrder,
				"updatedAt": time.Now(),
			}}
			if _, err := r.lines.UpdateMany(sessCtx, filter, update); err != nil {
				return fmt.Errorf("failed to update picking lines: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// FindByID retrieves a work order by its ID
func (r *WorkOrderRepository) FindByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	return r.findOne(ctx, bson.M{"workOrderId": workOrderID})
}

// FindByNumber retrieves a work order by its work order number
func (r *WorkOrderRepository) FindByNumber(ctx context.Context, number string) (*domain.WorkOrder, error) {
	return r.findOne(ctx, bson.M{"workOrderNumber": number})
}

func (r *WorkOrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.WorkOrder, error) {
	var workOrder domain.WorkOrder
	err := r.collection.FindOne(ctx, filter).Decode(&workOrder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &workOrder, nil
}

// Find retrieves work orders matching a filter
func (r *WorkOrderRepository) Find(ctx context.Context, filter domain.WorkOrderFilter) ([]*domain.WorkOrder, error) {
	query := bson.M{}
	if filter.BranchID != "" {
		query["branchId"] = filter.BranchID
	}
	if filter.MachineID != "" {
		query["machineId"] = filter.MachineID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "scheduledStart", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workOrders []*domain.WorkOrder
	if err := cursor.All(ctx, &workOrders); err != nil {
		return nil, err
	}

	return workOrders, nil
}

// CountByBranch returns the number of work orders ever created for a branch
func (r *WorkOrderRepository) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"branchId": branchID})
}

// MaxScheduledEnd returns the latest scheduled end on a machine
func (r *WorkOrderRepository) MaxScheduledEnd(ctx context.Context, machineID string) (*time.Time, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "scheduledEnd", Value: -1}}).
		SetProjection(bson.M{"scheduledEnd": 1})

	var doc struct {
		ScheduledEnd time.Time `bson:"scheduledEnd"`
	}
	err := r.collection.FindOne(ctx, bson.M{"machineId": machineID}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &doc.ScheduledEnd, nil
}
