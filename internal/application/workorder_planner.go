package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metals-platform/production-service/internal/domain"
)

// PlanningResult is the outcome of one planning run
type PlanningResult struct {
	Created           int
	ItemsScheduled    int
	Unscheduled       int
	WorkOrderIDs      []string
	CreatedByCategory map[string]int
}

// WorkOrderPlanner turns eligible picking lines into machine-scheduled
// work orders. Each run packs greedily per machine against ledger-adjusted
// coil weight and persists its output in a single batch.
type WorkOrderPlanner struct {
	workOrderRepo    domain.WorkOrderRepository
	pickingRepo      domain.PickingListItemRepository
	inventoryRepo    domain.InventoryRepository
	relationshipRepo domain.ItemRelationshipRepository
	machineRepo      domain.MachineRepository
	eventPublisher   domain.EventPublisher
	clock            domain.Clock

	mu          sync.Mutex
	branchLocks map[string]*sync.Mutex
}

// NewWorkOrderPlanner creates a new WorkOrderPlanner
func NewWorkOrderPlanner(
	workOrderRepo domain.WorkOrderRepository,
	pickingRepo domain.PickingListItemRepository,
	inventoryRepo domain.InventoryRepository,
	relationshipRepo domain.ItemRelationshipRepository,
	machineRepo domain.MachineRepository,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
) *WorkOrderPlanner {
	return &WorkOrderPlanner{
		workOrderRepo:    workOrderRepo,
		pickingRepo:      pickingRepo,
		inventoryRepo:    inventoryRepo,
		relationshipRepo: relationshipRepo,
		machineRepo:      machineRepo,
		eventPublisher:   eventPublisher,
		clock:            clock,
		branchLocks:      make(map[string]*sync.Mutex),
	}
}

// Build runs one planning pass for a branch. Runs for the same branch are
// serialized; distinct branches may plan concurrently.
func (p *WorkOrderPlanner) Build(ctx context.Context, branchID, branchCode, createdBy string) (*PlanningResult, error) {
	lock := p.branchLock(branchID)
	lock.Lock()
	defer lock.Unlock()

	active, err := p.machineRepo.FindActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load machines: %w", err)
	}

	// Only CTL lines and slitters run work orders
	machines := make([]*domain.Machine, 0, len(active))
	for _, m := range active {
		if m.Category == domain.MachineCategoryCTL || m.Category == domain.MachineCategorySlitter {
			machines = append(machines, m)
		}
	}
	if len(machines) == 0 {
		return &PlanningResult{}, nil
	}

	// Deterministic machine order
	sort.Slice(machines, func(i, j int) bool {
		return machines[i].Code < machines[j].Code
	})

	machineIDs := make([]string, len(machines))
	for i, m := range machines {
		machineIDs[i] = m.MachineID
	}

	lines, err := p.pickingRepo.FindEligibleForProduction(ctx, branchID, machineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load picking lines: %w", err)
	}
	if len(lines) == 0 {
		return &PlanningResult{}, nil
	}

	counter, err := p.workOrderRepo.CountByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to seed work order counter: %w", err)
	}

	resolver := NewCoilResolver(p.inventoryRepo, p.relationshipRepo)
	ledger := NewAllocationLedger()
	scheduler := NewMachineScheduler(p.workOrderRepo, p.clock)
	now := p.clock.Now()

	var created []*domain.WorkOrder
	var consumedIDs []string

	for _, machine := range machines {
		remaining := linesForMachine(lines, machine.MachineID)

		for len(remaining) > 0 {
			line := remaining[0]

			// Zero and negative weights never fit any coil
			if line.WeightLbs <= 0 {
				remaining = remaining[1:]
				continue
			}

			coil, err := resolver.Resolve(ctx, branchID, machine.Category, line.ItemID, line.WeightLbs, ledger)
			if err != nil {
				return nil, err
			}
			if coil == nil {
				// No coil can supply this line in this run
				remaining = remaining[1:]
				continue
			}

			// Fill the rest of the coil with whatever else the machine
			// has queued, in ship date order
			available := ledger.Available(coil)
			group := []*domain.PickingListItem{line}
			groupWeight := line.WeightLbs

			for _, candidate := range remaining[1:] {
				if candidate.WeightLbs <= 0 {
					continue
				}
				if groupWeight+candidate.WeightLbs > available {
					continue
				}
				group = append(group, candidate)
				groupWeight += candidate.WeightLbs
			}

			ledger.Commit(coil.InventoryID, groupWeight)

			counter++
			wo, err := p.assembleWorkOrder(ctx, scheduler, machine, branchID, branchCode, counter, coil, group, createdBy, now)
			if err != nil {
				return nil, err
			}

			created = append(created, wo)
			for _, g := range group {
				consumedIDs = append(consumedIDs, g.PickingListItemID)
			}
			remaining = removeLines(remaining, group)
		}
	}

	result := &PlanningResult{
		Created:           len(created),
		ItemsScheduled:    len(consumedIDs),
		Unscheduled:       len(lines) - len(consumedIDs),
		CreatedByCategory: make(map[string]int),
	}
	for _, wo := range created {
		result.CreatedByCategory[string(wo.MachineCategory)]++
	}

	if len(created) == 0 {
		return result, nil
	}

	if err := p.workOrderRepo.SaveBatch(ctx, created, consumedIDs); err != nil {
		return nil, fmt.Errorf("failed to persist planning run: %w", err)
	}

	events := make([]domain.DomainEvent, 0, len(created)+1)
	for _, wo := range created {
		events = append(events, wo.GetDomainEvents()...)
		wo.ClearDomainEvents()
		result.WorkOrderIDs = append(result.WorkOrderIDs, wo.WorkOrderID)
	}
	events = append(events, &domain.PickingLinesStatusChangedEvent{
		BranchID:           branchID,
		PickingListItemIDs: consumedIDs,
		Status:             string(domain.PickingLineStatusWorkOrder),
		ChangedAt:          now,
	})
	events = append(events, &domain.PlanningCompletedEvent{
		BranchID:    branchID,
		Created:     result.Created,
		Unscheduled: result.Unscheduled,
		CompletedAt: p.clock.Now(),
	})

	if err := p.eventPublisher.PublishAll(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to publish planning events: %w", err)
	}

	return result, nil
}

// assembleWorkOrder builds one Pending work order from a packed group
func (p *WorkOrderPlanner) assembleWorkOrder(
	ctx context.Context,
	scheduler *MachineScheduler,
	machine *domain.Machine,
	branchID, branchCode string,
	counter int64,
	coil *domain.InventoryItem,
	group []*domain.PickingListItem,
	createdBy string,
	now time.Time,
) (*domain.WorkOrder, error) {
	wo := domain.NewWorkOrder(uuid.New().String(), generateWorkOrderNumber(branchCode, counter), branchID, machine, createdBy, now)
	wo.ApplyCoilSnapshot(coil, now)

	dueDate := group[0].ShipDate
	for _, line := range group {
		if line.ShipDate.Before(dueDate) {
			dueDate = line.ShipDate
		}
		wo.AddItem(domain.WorkOrderItem{
			PickingListItemID: line.PickingListItemID,
			PickingListID:     line.PickingListID,
			ItemID:            line.ItemID,
			Description:       line.Description,
			Quantity:          line.Quantity,
			WeightLbs:         line.WeightLbs,
		})
	}
	wo.DueDate = dueDate

	start, end, err := scheduler.Next(ctx, machine.MachineID, len(group))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule work order: %w", err)
	}
	wo.Schedule(start, end)

	wo.AddDomainEvent(&domain.WorkOrderCreatedEvent{
		WorkOrderID:     wo.WorkOrderID,
		WorkOrderNumber: wo.WorkOrderNumber,
		BranchID:        branchID,
		MachineID:       machine.MachineID,
		MachineCategory: string(machine.Category),
		ItemCount:       len(wo.Items),
		TotalWeightLbs:  wo.TotalWeight(),
		ScheduledStart:  start,
		ScheduledEnd:    end,
		CreatedAt:       now,
	})

	return wo, nil
}

// branchLock returns the mutex serializing runs for a branch
func (p *WorkOrderPlanner) branchLock(branchID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.branchLocks[branchID]
	if !ok {
		lock = &sync.Mutex{}
		p.branchLocks[branchID] = lock
	}
	return lock
}

// generateWorkOrderNumber formats a branch-scoped work order number
func generateWorkOrderNumber(branchCode string, counter int64) string {
	return fmt.Sprintf("W%s%07d", branchCode, counter)
}

func linesForMachine(lines []*domain.PickingListItem, machineID string) []*domain.PickingListItem {
	var out []*domain.PickingListItem
	for _, line := range lines {
		if line.MachineID == machineID {
			out = append(out, line)
		}
	}
	return out
}

func removeLines(lines []*domain.PickingListItem, group []*domain.PickingListItem) []*domain.PickingListItem {
	taken := make(map[string]bool, len(group))
	for _, g := range group {
		taken[g.PickingListItemID] = true
	}

	out := lines[:0]
	for _, line := range lines {
		if !taken[line.PickingListItemID] {
			out = append(out, line)
		}
	}
	return out
}
