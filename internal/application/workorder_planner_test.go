package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/metals-platform/production-service/internal/domain"
)

func testSlitterMachine() *domain.Machine {
	return &domain.Machine{
		MachineID: "MCH-001",
		Code:      "SL-01",
		Name:      "Slitter 1",
		Category:  domain.MachineCategorySlitter,
		BranchID:  "BR-001",
		Active:    true,
	}
}

func testLine(id, itemID string, weight float64, shipDate time.Time) *domain.PickingListItem {
	return &domain.PickingListItem{
		PickingListItemID: id,
		PickingListID:     "PL-001",
		BranchID:          "BR-001",
		ItemID:            itemID,
		Quantity:          1,
		WeightLbs:         weight,
		MachineID:         "MCH-001",
		Status:            domain.PickingLineStatusAssignedProduction,
		ShipDate:          shipDate,
		Priority:          1,
	}
}

func newTestPlanner(
	workOrderRepo *MockWorkOrderRepository,
	pickingRepo *MockPickingListItemRepository,
	inventoryRepo *MockInventoryRepository,
	relationshipRepo *MockItemRelationshipRepository,
	machineRepo *MockMachineRepository,
	publisher *MockEventPublisher,
	now time.Time,
) *WorkOrderPlanner {
	return NewWorkOrderPlanner(
		workOrderRepo,
		pickingRepo,
		inventoryRepo,
		relationshipRepo,
		machineRepo,
		publisher,
		fixedClock{now: now},
	)
}

func TestPlannerPacksAgainstLedgerAdjustedWeight(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	shipDate := now.Add(48 * time.Hour)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{testSlitterMachine()}, nil)

	// Three 400 lb lines of one family against a single 1000 lb coil:
	// two fit, the third is left unscheduled.
	lines := []*domain.PickingListItem{
		testLine("L1", "ABC-100-2", 400, shipDate),
		testLine("L2", "ABC-100-2", 400, shipDate.Add(24*time.Hour)),
		testLine("L3", "ABC-100-2", 400, shipDate),
	}
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return(lines, nil)
	workOrderRepo.On("CountByBranch", ctx, "BR-001").Return(int64(0), nil)
	workOrderRepo.On("MaxScheduledEnd", ctx, "MCH-001").Return(nil, nil)

	coils := []*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "ABC-100", TagNumber: "T1", Snapshot: 1000, BranchID: "BR-001"},
	}
	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC-100-2", "ABC-100"}).Return(coils, nil)

	var saved []*domain.WorkOrder
	var consumed []string
	workOrderRepo.On("SaveBatch", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*domain.WorkOrder)
		consumed = args.Get(2).([]string)
	}).Return(nil)
	publisher.On("PublishAll", ctx, mock.Anything).Return(nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Unscheduled)
	require.Len(t, result.WorkOrderIDs, 1)

	require.Len(t, saved, 1)
	wo := saved[0]
	assert.Equal(t, "WABC0000001", wo.WorkOrderNumber)
	assert.Equal(t, domain.WorkOrderStatusPending, wo.Status)
	assert.Equal(t, "INV-001", wo.CoilInventoryID)
	assert.Len(t, wo.Items, 2)
	assert.InDelta(t, 800, wo.TotalWeight(), 0.001)
	assert.Equal(t, []string{"L1", "L2"}, consumed)

	// Earliest ship date across grouped lines becomes the due date
	assert.Equal(t, shipDate, wo.DueDate)

	// Window: seeded today 08:00, 15 min gap, two lines at 30 min each
	assert.Equal(t, time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC), wo.ScheduledStart)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC), wo.ScheduledEnd)
}

func TestPlannerNoEligibleLines(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{testSlitterMachine()}, nil)
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return([]*domain.PickingListItem{}, nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Unscheduled)

	workOrderRepo.AssertNotCalled(t, "SaveBatch")
	publisher.AssertNotCalled(t, "PublishAll")
}

func TestPlannerNoActiveMachines(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{}, nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Unscheduled)
	pickingRepo.AssertNotCalled(t, "FindEligibleForProduction")
}

func TestPlannerUnresolvableLineIsSkipped(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	shipDate := now.Add(48 * time.Hour)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{testSlitterMachine()}, nil)

	lines := []*domain.PickingListItem{
		testLine("L1", "NOPE-1", 400, shipDate),
		testLine("L2", "ABC-100-2", 400, shipDate),
	}
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return(lines, nil)
	workOrderRepo.On("CountByBranch", ctx, "BR-001").Return(int64(41), nil)
	workOrderRepo.On("MaxScheduledEnd", ctx, "MCH-001").Return(nil, nil)

	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"NOPE-1", "NOPE"}).Return([]*domain.InventoryItem{}, nil)
	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC-100-2", "ABC-100"}).Return([]*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "ABC-100", TagNumber: "T1", Snapshot: 1000, BranchID: "BR-001"},
	}, nil)

	var saved []*domain.WorkOrder
	workOrderRepo.On("SaveBatch", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*domain.WorkOrder)
	}).Return(nil)
	publisher.On("PublishAll", ctx, mock.Anything).Return(nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Unscheduled)

	// Counter continues from the branch history
	require.Len(t, saved, 1)
	assert.Equal(t, "WABC0000042", saved[0].WorkOrderNumber)
}

func TestPlannerMixedItemsShareCoil(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	shipDate := now.Add(48 * time.Hour)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{testSlitterMachine()}, nil)

	// Two lines of unrelated items: the coil is resolved for the first
	// line, the second joins because it fits the remaining weight
	lines := []*domain.PickingListItem{
		testLine("L1", "ABC-100-2", 400, shipDate),
		testLine("L2", "XYZ-200-1", 300, shipDate),
	}
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return(lines, nil)
	workOrderRepo.On("CountByBranch", ctx, "BR-001").Return(int64(0), nil)
	workOrderRepo.On("MaxScheduledEnd", ctx, "MCH-001").Return(nil, nil)

	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC-100-2", "ABC-100"}).Return([]*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "ABC-100", TagNumber: "T1", Snapshot: 1000, BranchID: "BR-001"},
	}, nil)

	var saved []*domain.WorkOrder
	var consumed []string
	workOrderRepo.On("SaveBatch", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*domain.WorkOrder)
		consumed = args.Get(2).([]string)
	}).Return(nil)
	publisher.On("PublishAll", ctx, mock.Anything).Return(nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Unscheduled)

	require.Len(t, saved, 1)
	assert.Len(t, saved[0].Items, 2)
	assert.InDelta(t, 700, saved[0].TotalWeight(), 0.001)
	assert.Equal(t, []string{"L1", "L2"}, consumed)

	// The coil lookup runs once, for the first line only
	inventoryRepo.AssertNumberOfCalls(t, "FindCoilCandidates", 1)
}

func TestPlannerSkipsNonPositiveWeights(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	shipDate := now.Add(48 * time.Hour)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{testSlitterMachine()}, nil)

	lines := []*domain.PickingListItem{
		testLine("L1", "ABC-100-2", 400, shipDate),
		testLine("L2", "ABC-100-2", 0, shipDate),
		testLine("L3", "ABC-100-2", -50, shipDate),
	}
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return(lines, nil)
	workOrderRepo.On("CountByBranch", ctx, "BR-001").Return(int64(0), nil)
	workOrderRepo.On("MaxScheduledEnd", ctx, "MCH-001").Return(nil, nil)

	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC-100-2", "ABC-100"}).Return([]*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "ABC-100", TagNumber: "T1", Snapshot: 1000, BranchID: "BR-001"},
	}, nil)

	var saved []*domain.WorkOrder
	var consumed []string
	workOrderRepo.On("SaveBatch", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*domain.WorkOrder)
		consumed = args.Get(2).([]string)
	}).Return(nil)
	publisher.On("PublishAll", ctx, mock.Anything).Return(nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Unscheduled)

	// Zero and negative weights never enter a work order and never
	// count against the coil
	require.Len(t, saved, 1)
	require.Len(t, saved[0].Items, 1)
	assert.Equal(t, "L1", saved[0].Items[0].PickingListItemID)
	assert.Equal(t, []string{"L1"}, consumed)

	// No coil is resolved for unfit lines
	inventoryRepo.AssertNumberOfCalls(t, "FindCoilCandidates", 1)
}

func TestPlannerIgnoresNonProductionMachines(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	sheetMachine := testSlitterMachine()
	sheetMachine.Category = domain.MachineCategory("Sheet")
	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{sheetMachine}, nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Unscheduled)

	pickingRepo.AssertNotCalled(t, "FindEligibleForProduction")
	workOrderRepo.AssertNotCalled(t, "SaveBatch")
}

func TestPlannerCTLResolvesThroughRelationship(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	shipDate := now.Add(48 * time.Hour)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machine := testSlitterMachine()
	machine.Category = domain.MachineCategoryCTL
	machine.Code = "CTL-01"
	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{machine}, nil)

	// The coil comes from the relationship table keyed by the first
	// line's item code; the second line rides along on fit alone
	lines := []*domain.PickingListItem{
		testLine("L1", "SHEET-A", 300, shipDate),
		testLine("L2", "SHEET-B", 300, shipDate),
	}
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return(lines, nil)
	workOrderRepo.On("CountByBranch", ctx, "BR-001").Return(int64(0), nil)
	workOrderRepo.On("MaxScheduledEnd", ctx, "MCH-001").Return(nil, nil)

	relationshipRepo.On("FindByItemCode", ctx, "SHEET-A").Return(&domain.ItemRelationship{ItemCode: "SHEET-A", CoilRelationship: "COIL-48"}, nil)

	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"COIL-48"}).Return([]*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "COIL-48", TagNumber: "T1", Snapshot: 1000, BranchID: "BR-001"},
	}, nil)

	var saved []*domain.WorkOrder
	workOrderRepo.On("SaveBatch", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*domain.WorkOrder)
	}).Return(nil)
	publisher.On("PublishAll", ctx, mock.Anything).Return(nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	result, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Unscheduled)

	require.Len(t, saved, 1)
	assert.Len(t, saved[0].Items, 2)
}

func TestPlannerPublishesPlanningCompleted(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	shipDate := now.Add(48 * time.Hour)

	workOrderRepo := new(MockWorkOrderRepository)
	pickingRepo := new(MockPickingListItemRepository)
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)
	machineRepo := new(MockMachineRepository)
	publisher := new(MockEventPublisher)

	machineRepo.On("FindActiveByBranch", ctx, "BR-001").Return([]*domain.Machine{testSlitterMachine()}, nil)
	pickingRepo.On("FindEligibleForProduction", ctx, "BR-001", []string{"MCH-001"}).Return([]*domain.PickingListItem{
		testLine("L1", "ABC-100-2", 400, shipDate),
	}, nil)
	workOrderRepo.On("CountByBranch", ctx, "BR-001").Return(int64(0), nil)
	workOrderRepo.On("MaxScheduledEnd", ctx, "MCH-001").Return(nil, nil)
	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC-100-2", "ABC-100"}).Return([]*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "ABC-100", TagNumber: "T1", Snapshot: 1000, BranchID: "BR-001"},
	}, nil)
	workOrderRepo.On("SaveBatch", ctx, mock.Anything, mock.Anything).Return(nil)

	var published []domain.DomainEvent
	publisher.On("PublishAll", ctx, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]domain.DomainEvent)
	}).Return(nil)

	planner := newTestPlanner(workOrderRepo, pickingRepo, inventoryRepo, relationshipRepo, machineRepo, publisher, now)

	_, err := planner.Build(ctx, "BR-001", "ABC", "planner")
	require.NoError(t, err)

	require.Len(t, published, 3)
	_, ok := published[0].(*domain.WorkOrderCreatedEvent)
	assert.True(t, ok)

	linesChanged, ok := published[1].(*domain.PickingLinesStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "BR-001", linesChanged.BranchID)
	assert.Equal(t, []string{"L1"}, linesChanged.PickingListItemIDs)
	assert.Equal(t, string(domain.PickingLineStatusWorkOrder), linesChanged.Status)

	completed, ok := published[2].(*domain.PlanningCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "BR-001", completed.BranchID)
	assert.Equal(t, 1, completed.Created)
	assert.Equal(t, 0, completed.Unscheduled)
}
