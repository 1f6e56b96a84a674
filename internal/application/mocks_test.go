package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/metals-platform/production-service/internal/domain"
)

type MockWorkOrderRepository struct {
	mock.Mock
}

func (m *MockWorkOrderRepository) Save(ctx context.Context, workOrder *domain.WorkOrder) error {
	args := m.Called(ctx, workOrder)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) SaveBatch(ctx context.Context, workOrders []*domain.WorkOrder, consumedLineIDs []string) error {
	args := m.Called(ctx, workOrders, consumedLineIDs)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) FindByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) FindByNumber(ctx context.Context, number string) (*domain.WorkOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) Find(ctx context.Context, filter domain.WorkOrderFilter) ([]*domain.WorkOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkOrderRepository) MaxScheduledEnd(ctx context.Context, machineID string) (*time.Time, error) {
	args := m.Called(ctx, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

type MockPickingListItemRepository struct {
	mock.Mock
}

func (m *MockPickingListItemRepository) FindEligibleForProduction(ctx context.Context, branchID string, machineIDs []string) ([]*domain.PickingListItem, error) {
	args := m.Called(ctx, branchID, machineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PickingListItem), args.Error(1)
}

func (m *MockPickingListItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.PickingListItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PickingListItem), args.Error(1)
}

func (m *MockPickingListItemRepository) UpdateStatus(ctx context.Context, ids []string, status domain.PickingLineStatus) error {
	args := m.Called(ctx, ids, status)
	return args.Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, inventoryID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindCoilCandidates(ctx context.Context, branchID string, itemIDs []string) ([]*domain.InventoryItem, error) {
	args := m.Called(ctx, branchID, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InventoryItem), args.Error(1)
}

type MockItemRelationshipRepository struct {
	mock.Mock
}

func (m *MockItemRelationshipRepository) FindByItemCode(ctx context.Context, itemCode string) (*domain.ItemRelationship, error) {
	args := m.Called(ctx, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemRelationship), args.Error(1)
}

type MockMachineRepository struct {
	mock.Mock
}

func (m *MockMachineRepository) FindByID(ctx context.Context, machineID string) (*domain.Machine, error) {
	args := m.Called(ctx, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Machine), args.Error(1)
}

func (m *MockMachineRepository) FindActiveByBranch(ctx context.Context, branchID string) ([]*domain.Machine, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Machine), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fixedClock pins Now for deterministic planning and lifecycle tests
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}
