package domain

import (
	"context"
	"time"
)

// WorkOrderFilter defines criteria for listing work orders
type WorkOrderFilter struct {
	BranchID  string          `json:"branchId,omitempty"`
	MachineID string          `json:"machineId,omitempty"`
	Status    WorkOrderStatus `json:"status,omitempty"`
	Limit     int             `json:"limit,omitempty"`
	Offset    int             `json:"offset,omitempty"`
}

// WorkOrderRepository defines the interface for work order persistence
type WorkOrderRepository interface {
	// Save persists a work order. The update path checks the loaded
	// version and fails with a conflict when it has moved.
	Save(ctx context.Context, workOrder *WorkOrder) error

	// SaveBatch persists a planning run's output atomically: the new
	// work orders plus the status flip of their consumed lines.
	SaveBatch(ctx context.Context, workOrders []*WorkOrder, consumedLineIDs []string) error

	// FindByID retrieves a work order by its ID
	FindByID(ctx context.Context, workOrderID string) (*WorkOrder, error)

	// FindByNumber retrieves a work order by its work order number
	FindByNumber(ctx context.Context, number string) (*WorkOrder, error)

	// Find retrieves work orders matching a filter
	Find(ctx context.Context, filter WorkOrderFilter) ([]*WorkOrder, error)

	// CountByBranch returns the number of work orders ever created for a
	// branch; seeds the work order number counter.
	CountByBranch(ctx context.Context, branchID string) (int64, error)

	// MaxScheduledEnd returns the latest scheduled end on a machine,
	// or nil when the machine has no work orders.
	MaxScheduledEnd(ctx context.Context, machineID string) (*time.Time, error)
}

// PickingListItemRepository defines the interface for picking line persistence
type PickingListItemRepository interface {
	// FindEligibleForProduction retrieves lines routed to the given
	// machines that are waiting to be planned, ordered by ship date
	// then priority.
	FindEligibleForProduction(ctx context.Context, branchID string, machineIDs []string) ([]*PickingListItem, error)

	// FindByIDs retrieves lines by their IDs
	FindByIDs(ctx context.Context, ids []string) ([]*PickingListItem, error)

	// UpdateStatus sets the status of the given lines
	UpdateStatus(ctx context.Context, ids []string, status PickingLineStatus) error
}

// InventoryRepository defines the read-only interface for coil inventory
type InventoryRepository interface {
	// FindByID retrieves a coil by its inventory ID
	FindByID(ctx context.Context, inventoryID string) (*InventoryItem, error)

	// FindCoilCandidates retrieves coils at a branch whose item ID is
	// in itemIDs, with a positive LBS snapshot, ordered by snapshot
	// weight descending then tag number ascending.
	FindCoilCandidates(ctx context.Context, branchID string, itemIDs []string) ([]*InventoryItem, error)
}

// ItemRelationshipRepository defines the interface for the finished-good
// to parent-coil mapping table
type ItemRelationshipRepository interface {
	// FindByItemCode retrieves the relationship for an item code,
	// or nil when none exists
	FindByItemCode(ctx context.Context, itemCode string) (*ItemRelationship, error)
}

// MachineRepository defines the interface for machine persistence
type MachineRepository interface {
	// FindByID retrieves a machine by its ID
	FindByID(ctx context.Context, machineID string) (*Machine, error)

	// FindActiveByBranch retrieves the active production machines at a
	// branch, ordered by machine code
	FindActiveByBranch(ctx context.Context, branchID string) ([]*Machine, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, event DomainEvent) error

	// PublishAll publishes multiple domain events
	PublishAll(ctx context.Context, events []DomainEvent) error
}

// Clock abstracts time for deterministic planning and lifecycle tests
type Clock interface {
	Now() time.Time
}
