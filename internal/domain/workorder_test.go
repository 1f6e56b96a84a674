package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures
func createTestMachine() *Machine {
	return &Machine{
		MachineID: "MCH-001",
		Code:      "CTL-01",
		Name:      "Cut-to-length line 1",
		Category:  MachineCategoryCTL,
		BranchID:  "BR-001",
		Active:    true,
	}
}

func createTestCoil(inventoryID, tag string, snapshot float64) *InventoryItem {
	return &InventoryItem{
		InventoryID:  inventoryID,
		TagNumber:    tag,
		ItemID:       "COIL-100",
		Description:  "Galvanized coil 48in",
		Snapshot:     snapshot,
		SnapshotUnit: SnapshotUnitLbs,
		Location:     "A-01-01",
		BranchID:     "BR-001",
	}
}

func createTestWorkOrder(t *testing.T) *WorkOrder {
	t.Helper()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	wo := NewWorkOrder("WO-001", "WABC0000001", "BR-001", createTestMachine(), "planner", now)
	wo.AddItem(WorkOrderItem{
		PickingListItemID: "PLI-001",
		PickingListID:     "PL-001",
		ItemID:            "COIL-100-1",
		Quantity:          10,
		WeightLbs:         400,
	})
	return wo
}

func TestNewWorkOrder(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	wo := NewWorkOrder("WO-001", "WABC0000001", "BR-001", createTestMachine(), "planner", now)

	assert.Equal(t, "WO-001", wo.WorkOrderID)
	assert.Equal(t, "WABC0000001", wo.WorkOrderNumber)
	assert.Equal(t, WorkOrderStatusPending, wo.Status)
	assert.Equal(t, MachineCategoryCTL, wo.MachineCategory)
	assert.Equal(t, "planner", wo.CreatedBy)
	assert.Equal(t, 1, wo.Version)
	assert.Empty(t, wo.CoilUsages)
	assert.Nil(t, wo.ActualStart)
	assert.Nil(t, wo.ActiveUsage())
}

func TestWorkOrderTransitions(t *testing.T) {
	now := time.Now()
	coil := createTestCoil("INV-001", "TAG-001", 1000)

	tests := []struct {
		name     string
		setup    func(t *testing.T) *WorkOrder
		action   func(wo *WorkOrder) error
		errorMsg string
	}{
		{
			name:   "Start from pending",
			setup:  createTestWorkOrder,
			action: func(wo *WorkOrder) error { return wo.Start("op", nil, now) },
		},
		{
			name: "Start from paused",
			setup: func(t *testing.T) *WorkOrder {
				wo := createTestWorkOrder(t)
				require.NoError(t, wo.Start("op", nil, now))
				require.NoError(t, wo.Pause("op", now))
				return wo
			},
			action: func(wo *WorkOrder) error { return wo.Start("op", nil, now) },
		},
		{
			name: "Start while in progress",
			setup: func(t *testing.T) *WorkOrder {
				wo := createTestWorkOrder(t)
				require.NoError(t, wo.Start("op", nil, now))
				return wo
			},
			action:   func(wo *WorkOrder) error { return wo.Start("op", nil, now) },
			errorMsg: "cannot start a work order with status 'InProgress'",
		},
		{
			name:     "Pause before start",
			setup:    createTestWorkOrder,
			action:   func(wo *WorkOrder) error { return wo.Pause("op", now) },
			errorMsg: "cannot pause a work order with status 'Pending'",
		},
		{
			name: "Resume while in progress",
			setup: func(t *testing.T) *WorkOrder {
				wo := createTestWorkOrder(t)
				require.NoError(t, wo.Start("op", nil, now))
				return wo
			},
			action:   func(wo *WorkOrder) error { return wo.Resume("op", now) },
			errorMsg: "cannot resume a work order with status 'InProgress'",
		},
		{
			name: "Resume from paused",
			setup: func(t *testing.T) *WorkOrder {
				wo := createTestWorkOrder(t)
				require.NoError(t, wo.Start("op", nil, now))
				require.NoError(t, wo.Pause("op", now))
				return wo
			},
			action: func(wo *WorkOrder) error { return wo.Resume("op", now) },
		},
		{
			name:     "Complete before start",
			setup:    createTestWorkOrder,
			action:   func(wo *WorkOrder) error { return wo.Complete("op", now) },
			errorMsg: "cannot complete a work order with status 'Pending'",
		},
		{
			name: "Complete while paused",
			setup: func(t *testing.T) *WorkOrder {
				wo := createTestWorkOrder(t)
				require.NoError(t, wo.Start("op", nil, now))
				require.NoError(t, wo.Pause("op", now))
				return wo
			},
			action: func(wo *WorkOrder) error { return wo.Complete("op", now) },
		},
		{
			name: "Cancel after completion",
			setup: func(t *testing.T) *WorkOrder {
				wo := createTestWorkOrder(t)
				require.NoError(t, wo.Start("op", nil, now))
				require.NoError(t, wo.Complete("op", now))
				return wo
			},
			action:   func(wo *WorkOrder) error { return wo.Cancel("op", "duplicate", now) },
			errorMsg: "cannot cancel a work order with status 'Completed'",
		},
		{
			name: "Swap coil before start",
			setup: func(t *testing.T) *WorkOrder {
				return createTestWorkOrder(t)
			},
			action: func(wo *WorkOrder) error {
				return wo.SwapCoil("op", coil, SwapReasonEndOfCoil, "", now)
			},
			errorMsg: "cannot swap coils on a work order with status 'Pending'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wo := tt.setup(t)
			err := tt.action(wo)

			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorkOrderFirstStartOnly(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)
	coil := createTestCoil("INV-001", "TAG-001", 1000)

	wo := createTestWorkOrder(t)
	wo.ApplyCoilSnapshot(coil, now)

	require.NoError(t, wo.Start("op", coil, now))
	require.NotNil(t, wo.ActualStart)
	assert.Equal(t, now, *wo.ActualStart)

	// The first start opens the initial usage
	require.Len(t, wo.CoilUsages, 1)
	assert.Equal(t, 1, wo.CoilUsages[0].Sequence)
	assert.Equal(t, SwapReasonInitial, wo.CoilUsages[0].Reason)
	assert.Equal(t, "INV-001", wo.CoilUsages[0].CoilInventoryID)

	// Restart after pause keeps ActualStart and opens no new usage
	require.NoError(t, wo.Pause("op", later))
	require.NoError(t, wo.Start("op", nil, later))
	assert.Equal(t, now, *wo.ActualStart)
	assert.Len(t, wo.CoilUsages, 1)

	events := wo.GetDomainEvents()
	started := 0
	for _, e := range events {
		if se, ok := e.(*WorkOrderStartedEvent); ok {
			started++
			if started == 1 {
				assert.True(t, se.FirstStart)
			} else {
				assert.False(t, se.FirstStart)
			}
		}
	}
	assert.Equal(t, 2, started)
}

func TestWorkOrderStartMissingInitialCoil(t *testing.T) {
	now := time.Now()
	coil := createTestCoil("INV-001", "TAG-001", 1000)

	wo := createTestWorkOrder(t)
	wo.ApplyCoilSnapshot(coil, now)

	err := wo.Start("op", nil, now)
	require.Error(t, err)
	assert.Equal(t, "initial coil inventory item not found", err.Error())
}

func TestWorkOrderSwapCoilSequencing(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first := createTestCoil("INV-001", "TAG-001", 1000)
	second := createTestCoil("INV-002", "TAG-002", 800)
	third := createTestCoil("INV-003", "", 600)

	wo := createTestWorkOrder(t)
	wo.ApplyCoilSnapshot(first, now)
	require.NoError(t, wo.Start("op", first, now))

	require.NoError(t, wo.SwapCoil("op", second, SwapReasonEndOfCoil, "ran out", now.Add(time.Hour)))
	require.NoError(t, wo.SwapCoil("op", third, SwapReasonDefect, "", now.Add(2*time.Hour)))

	require.Len(t, wo.CoilUsages, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{
		wo.CoilUsages[0].Sequence,
		wo.CoilUsages[1].Sequence,
		wo.CoilUsages[2].Sequence,
	})

	// Exactly one usage stays open
	assert.NotNil(t, wo.CoilUsages[0].EndedAt)
	assert.NotNil(t, wo.CoilUsages[1].EndedAt)
	assert.Nil(t, wo.CoilUsages[2].EndedAt)

	active := wo.ActiveUsage()
	require.NotNil(t, active)
	assert.Equal(t, 3, active.Sequence)
	assert.Equal(t, "INV-003", active.CoilInventoryID)
	assert.Equal(t, "N/A", active.CoilTagNumber)

	// Completion closes the open usage
	require.NoError(t, wo.Complete("op", now.Add(3*time.Hour)))
	assert.NotNil(t, wo.CoilUsages[2].EndedAt)
	assert.Nil(t, wo.ActiveUsage())
}

func TestWorkOrderSwapCoilWhilePaused(t *testing.T) {
	now := time.Now()
	first := createTestCoil("INV-001", "TAG-001", 1000)
	second := createTestCoil("INV-002", "TAG-002", 800)

	wo := createTestWorkOrder(t)
	wo.ApplyCoilSnapshot(first, now)
	require.NoError(t, wo.Start("op", first, now))
	require.NoError(t, wo.Pause("op", now))

	require.NoError(t, wo.SwapCoil("op", second, SwapReasonOperatorChoice, "", now))
	assert.Equal(t, WorkOrderStatusPaused, wo.Status)
	assert.Equal(t, 2, wo.ActiveUsage().Sequence)
}

func TestWorkOrderCancelClosesUsage(t *testing.T) {
	now := time.Now()
	coil := createTestCoil("INV-001", "TAG-001", 1000)

	wo := createTestWorkOrder(t)
	wo.ApplyCoilSnapshot(coil, now)
	require.NoError(t, wo.Start("op", coil, now))
	require.NoError(t, wo.Cancel("op", "material defect", now))

	assert.Equal(t, WorkOrderStatusCanceled, wo.Status)
	assert.Nil(t, wo.ActiveUsage())
	require.Len(t, wo.CoilUsages, 1)
	assert.NotNil(t, wo.CoilUsages[0].EndedAt)
}

func TestWorkOrderTotalWeight(t *testing.T) {
	wo := createTestWorkOrder(t)
	wo.AddItem(WorkOrderItem{PickingListItemID: "PLI-002", WeightLbs: 150.5})

	assert.InDelta(t, 550.5, wo.TotalWeight(), 0.001)
}
