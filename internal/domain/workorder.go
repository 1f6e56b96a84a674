package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkOrderStatus represents the status of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "Pending"    // Created, not yet started on the machine
	WorkOrderStatusInProgress WorkOrderStatus = "InProgress" // Running on the machine
	WorkOrderStatusPaused     WorkOrderStatus = "Paused"     // Temporarily stopped
	WorkOrderStatusCompleted  WorkOrderStatus = "Completed"  // Finished
	WorkOrderStatusCanceled   WorkOrderStatus = "Canceled"   // Abandoned before completion
	WorkOrderStatusAwaiting   WorkOrderStatus = "Awaiting"   // Waiting on upstream material
)

// CoilSwapReason represents why a coil usage was opened
type CoilSwapReason string

const (
	SwapReasonInitial        CoilSwapReason = "Initial"
	SwapReasonEndOfCoil      CoilSwapReason = "EndOfCoil"
	SwapReasonDefect         CoilSwapReason = "Defect"
	SwapReasonOperatorChoice CoilSwapReason = "OperatorChoice"
	SwapReasonOther          CoilSwapReason = "Other"
)

// TransitionError reports an illegal lifecycle transition
type TransitionError struct {
	Action string
	Status WorkOrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a work order with status '%s'", e.Action, e.Status)
}

// WorkOrder is the aggregate root for the production bounded context
type WorkOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	WorkOrderID     string             `bson:"workOrderId" json:"workOrderId"`
	WorkOrderNumber string             `bson:"workOrderNumber" json:"workOrderNumber"`
	BranchID        string             `bson:"branchId" json:"branchId"`
	MachineID       string             `bson:"machineId" json:"machineId"`
	MachineCategory MachineCategory    `bson:"machineCategory" json:"machineCategory"`
	Status          WorkOrderStatus    `bson:"status" json:"status"`

	// Parent coil snapshot, captured at creation
	CoilInventoryID      string     `bson:"coilInventoryId,omitempty" json:"coilInventoryId,omitempty"`
	CoilItemID           string     `bson:"coilItemId,omitempty" json:"coilItemId,omitempty"`
	CoilDescription      string     `bson:"coilDescription,omitempty" json:"coilDescription,omitempty"`
	CoilWeightAtStartLbs float64    `bson:"coilWeightAtStartLbs,omitempty" json:"coilWeightAtStartLbs,omitempty"`
	CoilLocationAtStart  string     `bson:"coilLocationAtStart,omitempty" json:"coilLocationAtStart,omitempty"`
	CoilSnapshotAt       *time.Time `bson:"coilSnapshotAt,omitempty" json:"coilSnapshotAt,omitempty"`

	Items      []WorkOrderItem `bson:"items" json:"items"`
	CoilUsages []CoilUsage     `bson:"coilUsages" json:"coilUsages"`
	// Sequence of the open usage; 0 means none
	ActiveUsageSequence int `bson:"activeUsageSequence" json:"activeUsageSequence"`

	DueDate        time.Time  `bson:"dueDate" json:"dueDate"`
	ScheduledStart time.Time  `bson:"scheduledStart" json:"scheduledStart"`
	ScheduledEnd   time.Time  `bson:"scheduledEnd" json:"scheduledEnd"`
	ActualStart    *time.Time `bson:"actualStart,omitempty" json:"actualStart,omitempty"`
	ActualEnd      *time.Time `bson:"actualEnd,omitempty" json:"actualEnd,omitempty"`

	CreatedBy     string    `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	LastUpdatedBy string    `bson:"lastUpdatedBy" json:"lastUpdatedBy"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`

	Version int `bson:"version" json:"version"`

	DomainEvents []DomainEvent `bson:"-" json:"-"` // Transient
}

// WorkOrderItem is a picking list line placed on a work order
type WorkOrderItem struct {
	PickingListItemID string  `bson:"pickingListItemId" json:"pickingListItemId"`
	PickingListID     string  `bson:"pickingListId" json:"pickingListId"`
	ItemID            string  `bson:"itemId" json:"itemId"`
	Description       string  `bson:"description" json:"description"`
	Quantity          float64 `bson:"quantity" json:"quantity"`
	WeightLbs         float64 `bson:"weightLbs" json:"weightLbs"`
}

// CoilUsage records one stretch of running against a single coil
type CoilUsage struct {
	Sequence        int            `bson:"sequence" json:"sequence"`
	CoilInventoryID string         `bson:"coilInventoryId" json:"coilInventoryId"`
	CoilTagNumber   string         `bson:"coilTagNumber" json:"coilTagNumber"`
	CoilItemID      string         `bson:"coilItemId" json:"coilItemId"`
	CoilDescription string         `bson:"coilDescription" json:"coilDescription"`
	StartWeightLbs  float64        `bson:"startWeightLbs" json:"startWeightLbs"`
	FromLocation    string         `bson:"fromLocation" json:"fromLocation"`
	StartedAt       time.Time      `bson:"startedAt" json:"startedAt"`
	EndedAt         *time.Time     `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	Reason          CoilSwapReason `bson:"reason" json:"reason"`
	Notes           string         `bson:"notes,omitempty" json:"notes,omitempty"`
}

// NewWorkOrder creates a new WorkOrder aggregate in Pending status
func NewWorkOrder(workOrderID, number, branchID string, machine *Machine, createdBy string, now time.Time) *WorkOrder {
	wo := &WorkOrder{
		WorkOrderID:     workOrderID,
		WorkOrderNumber: number,
		BranchID:        branchID,
		MachineID:       machine.MachineID,
		MachineCategory: machine.Category,
		Status:          WorkOrderStatusPending,
		Items:           make([]WorkOrderItem, 0),
		CoilUsages:      make([]CoilUsage, 0),
		CreatedBy:       createdBy,
		CreatedAt:       now,
		LastUpdatedBy:   createdBy,
		UpdatedAt:       now,
		Version:         1,
		DomainEvents:    make([]DomainEvent, 0),
	}

	return wo
}

// ApplyCoilSnapshot captures descriptive fields of the parent coil
func (w *WorkOrder) ApplyCoilSnapshot(coil *InventoryItem, now time.Time) {
	w.CoilInventoryID = coil.InventoryID
	w.CoilItemID = coil.ItemID
	w.CoilDescription = coil.Description
	w.CoilWeightAtStartLbs = coil.Snapshot
	w.CoilLocationAtStart = coil.Location
	w.CoilSnapshotAt = &now
}

// AddItem places a picking list line on the work order
func (w *WorkOrder) AddItem(item WorkOrderItem) {
	w.Items = append(w.Items, item)
}

// TotalWeight returns the summed line weight on the work order
func (w *WorkOrder) TotalWeight() float64 {
	total := 0.0
	for _, item := range w.Items {
		total += item.WeightLbs
	}
	return total
}

// Schedule assigns the machine time window
func (w *WorkOrder) Schedule(start, end time.Time) {
	w.ScheduledStart = start
	w.ScheduledEnd = end
}

// Start moves the work order to InProgress. The first start records the
// actual start time and, when a coil is declared, opens the initial coil
// usage. A restart after a pause does neither.
func (w *WorkOrder) Start(user string, initialCoil *InventoryItem, now time.Time) error {
	if w.Status != WorkOrderStatusPending && w.Status != WorkOrderStatusPaused {
		return &TransitionError{Action: "start", Status: w.Status}
	}

	firstStart := w.ActualStart == nil

	w.Status = WorkOrderStatusInProgress
	if firstStart {
		w.ActualStart = &now
	}
	w.touch(user, now)

	if firstStart && w.CoilInventoryID != "" {
		if initialCoil == nil {
			return fmt.Errorf("initial coil inventory item not found")
		}
		w.openUsage(initialCoil, SwapReasonInitial, "", now)
	}

	w.AddDomainEvent(&WorkOrderStartedEvent{
		WorkOrderID:     w.WorkOrderID,
		WorkOrderNumber: w.WorkOrderNumber,
		FirstStart:      firstStart,
		StartedBy:       user,
		StartedAt:       now,
	})

	return nil
}

// Pause stops a running work order
func (w *WorkOrder) Pause(user string, now time.Time) error {
	if w.Status != WorkOrderStatusInProgress {
		return &TransitionError{Action: "pause", Status: w.Status}
	}

	w.Status = WorkOrderStatusPaused
	w.touch(user, now)

	w.AddDomainEvent(&WorkOrderPausedEvent{
		WorkOrderID:     w.WorkOrderID,
		WorkOrderNumber: w.WorkOrderNumber,
		PausedBy:        user,
		PausedAt:        now,
	})

	return nil
}

// Resume restarts a paused work order without touching ActualStart or usages
func (w *WorkOrder) Resume(user string, now time.Time) error {
	if w.Status != WorkOrderStatusPaused {
		return &TransitionError{Action: "resume", Status: w.Status}
	}

	w.Status = WorkOrderStatusInProgress
	w.touch(user, now)

	w.AddDomainEvent(&WorkOrderResumedEvent{
		WorkOrderID:     w.WorkOrderID,
		WorkOrderNumber: w.WorkOrderNumber,
		ResumedBy:       user,
		ResumedAt:       now,
	})

	return nil
}

// Complete finishes the work order and closes the active coil usage
func (w *WorkOrder) Complete(user string, now time.Time) error {
	if w.Status != WorkOrderStatusInProgress && w.Status != WorkOrderStatusPaused {
		return &TransitionError{Action: "complete", Status: w.Status}
	}

	w.Status = WorkOrderStatusCompleted
	w.ActualEnd = &now
	w.touch(user, now)
	w.closeActiveUsage(now)

	w.AddDomainEvent(&WorkOrderCompletedEvent{
		WorkOrderID:     w.WorkOrderID,
		WorkOrderNumber: w.WorkOrderNumber,
		CompletedBy:     user,
		CompletedAt:     now,
		ItemCount:       len(w.Items),
	})

	return nil
}

// Cancel abandons the work order from any non-terminal status
func (w *WorkOrder) Cancel(user, reason string, now time.Time) error {
	if w.Status == WorkOrderStatusCompleted || w.Status == WorkOrderStatusCanceled {
		return &TransitionError{Action: "cancel", Status: w.Status}
	}

	w.Status = WorkOrderStatusCanceled
	w.touch(user, now)
	w.closeActiveUsage(now)

	w.AddDomainEvent(&WorkOrderCanceledEvent{
		WorkOrderID:     w.WorkOrderID,
		WorkOrderNumber: w.WorkOrderNumber,
		Reason:          reason,
		CanceledBy:      user,
		CanceledAt:      now,
	})

	return nil
}

// SwapCoil closes the active usage and opens a new one against newCoil
func (w *WorkOrder) SwapCoil(user string, newCoil *InventoryItem, reason CoilSwapReason, notes string, now time.Time) error {
	if w.Status != WorkOrderStatusInProgress && w.Status != WorkOrderStatusPaused {
		return &TransitionError{Action: "swap coils on", Status: w.Status}
	}

	w.closeActiveUsage(now)
	usage := w.openUsage(newCoil, reason, notes, now)
	w.touch(user, now)

	w.AddDomainEvent(&CoilSwappedEvent{
		WorkOrderID:     w.WorkOrderID,
		WorkOrderNumber: w.WorkOrderNumber,
		Sequence:        usage.Sequence,
		CoilInventoryID: newCoil.InventoryID,
		CoilTagNumber:   usage.CoilTagNumber,
		StartWeightLbs:  newCoil.Snapshot,
		Reason:          string(reason),
		SwappedBy:       user,
		SwappedAt:       now,
	})

	return nil
}

// ActiveUsage returns the open coil usage, or nil
func (w *WorkOrder) ActiveUsage() *CoilUsage {
	if w.ActiveUsageSequence == 0 {
		return nil
	}
	for i := range w.CoilUsages {
		if w.CoilUsages[i].Sequence == w.ActiveUsageSequence {
			return &w.CoilUsages[i]
		}
	}
	return nil
}

// openUsage appends a usage with the next sequence and marks it active
func (w *WorkOrder) openUsage(coil *InventoryItem, reason CoilSwapReason, notes string, now time.Time) *CoilUsage {
	maxSeq := 0
	for _, u := range w.CoilUsages {
		if u.Sequence > maxSeq {
			maxSeq = u.Sequence
		}
	}

	tag := coil.TagNumber
	if tag == "" {
		tag = "N/A"
	}

	usage := CoilUsage{
		Sequence:        maxSeq + 1,
		CoilInventoryID: coil.InventoryID,
		CoilTagNumber:   tag,
		CoilItemID:      coil.ItemID,
		CoilDescription: coil.Description,
		StartWeightLbs:  coil.Snapshot,
		FromLocation:    coil.Location,
		StartedAt:       now,
		Reason:          reason,
		Notes:           notes,
	}

	w.CoilUsages = append(w.CoilUsages, usage)
	w.ActiveUsageSequence = usage.Sequence
	return &w.CoilUsages[len(w.CoilUsages)-1]
}

// closeActiveUsage ends the open usage, if any
func (w *WorkOrder) closeActiveUsage(now time.Time) {
	if active := w.ActiveUsage(); active != nil {
		active.EndedAt = &now
	}
	w.ActiveUsageSequence = 0
}

func (w *WorkOrder) touch(user string, now time.Time) {
	w.LastUpdatedBy = user
	w.UpdatedAt = now
}

// AddDomainEvent adds a domain event
func (w *WorkOrder) AddDomainEvent(event DomainEvent) {
	w.DomainEvents = append(w.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (w *WorkOrder) ClearDomainEvents() {
	w.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (w *WorkOrder) GetDomainEvents() []DomainEvent {
	return w.DomainEvents
}
