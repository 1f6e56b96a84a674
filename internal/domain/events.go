package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// WorkOrderCreatedEvent is published when a planning run creates a work order
type WorkOrderCreatedEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	BranchID        string    `json:"branchId"`
	MachineID       string    `json:"machineId"`
	MachineCategory string    `json:"machineCategory"`
	ItemCount       int       `json:"itemCount"`
	TotalWeightLbs  float64   `json:"totalWeightLbs"`
	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (e *WorkOrderCreatedEvent) EventType() string     { return "metals.workorder.created" }
func (e *WorkOrderCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// WorkOrderStartedEvent is published when a work order starts or restarts
type WorkOrderStartedEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	FirstStart      bool      `json:"firstStart"`
	StartedBy       string    `json:"startedBy"`
	StartedAt       time.Time `json:"startedAt"`
}

func (e *WorkOrderStartedEvent) EventType() string     { return "metals.workorder.started" }
func (e *WorkOrderStartedEvent) OccurredAt() time.Time { return e.StartedAt }

// WorkOrderPausedEvent is published when a work order is paused
type WorkOrderPausedEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	PausedBy        string    `json:"pausedBy"`
	PausedAt        time.Time `json:"pausedAt"`
}

func (e *WorkOrderPausedEvent) EventType() string     { return "metals.workorder.paused" }
func (e *WorkOrderPausedEvent) OccurredAt() time.Time { return e.PausedAt }

// WorkOrderResumedEvent is published when a paused work order resumes
type WorkOrderResumedEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	ResumedBy       string    `json:"resumedBy"`
	ResumedAt       time.Time `json:"resumedAt"`
}

func (e *WorkOrderResumedEvent) EventType() string     { return "metals.workorder.resumed" }
func (e *WorkOrderResumedEvent) OccurredAt() time.Time { return e.ResumedAt }

// WorkOrderCompletedEvent is published when a work order finishes
type WorkOrderCompletedEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	CompletedBy     string    `json:"completedBy"`
	CompletedAt     time.Time `json:"completedAt"`
	ItemCount       int       `json:"itemCount"`
}

func (e *WorkOrderCompletedEvent) EventType() string     { return "metals.workorder.completed" }
func (e *WorkOrderCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }

// WorkOrderCanceledEvent is published when a work order is canceled
type WorkOrderCanceledEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	Reason          string    `json:"reason"`
	CanceledBy      string    `json:"canceledBy"`
	CanceledAt      time.Time `json:"canceledAt"`
}

func (e *WorkOrderCanceledEvent) EventType() string     { return "metals.workorder.canceled" }
func (e *WorkOrderCanceledEvent) OccurredAt() time.Time { return e.CanceledAt }

// CoilSwappedEvent is published when a new coil usage is opened
type CoilSwappedEvent struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	Sequence        int       `json:"sequence"`
	CoilInventoryID string    `json:"coilInventoryId"`
	CoilTagNumber   string    `json:"coilTagNumber"`
	StartWeightLbs  float64   `json:"startWeightLbs"`
	Reason          string    `json:"reason"`
	SwappedBy       string    `json:"swappedBy"`
	SwappedAt       time.Time `json:"swappedAt"`
}

func (e *CoilSwappedEvent) EventType() string     { return "metals.workorder.coil-swapped" }
func (e *CoilSwappedEvent) OccurredAt() time.Time { return e.SwappedAt }

// PickingLinesStatusChangedEvent is published when production flips the
// status of picking list lines, either by consuming them into a work
// order or by mirroring a lifecycle transition onto them.
type PickingLinesStatusChangedEvent struct {
	WorkOrderID        string    `json:"workOrderId,omitempty"`
	BranchID           string    `json:"branchId,omitempty"`
	PickingListItemIDs []string  `json:"pickingListItemIds"`
	Status             string    `json:"status"`
	ChangedAt          time.Time `json:"changedAt"`
}

func (e *PickingLinesStatusChangedEvent) EventType() string {
	return "metals.pickingline.status-changed"
}
func (e *PickingLinesStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }

// PlanningCompletedEvent is published when a planning run finishes
type PlanningCompletedEvent struct {
	BranchID    string    `json:"branchId"`
	Created     int       `json:"created"`
	Unscheduled int       `json:"unscheduled"`
	CompletedAt time.Time `json:"completedAt"`
}

func (e *PlanningCompletedEvent) EventType() string     { return "metals.planning.completed" }
func (e *PlanningCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }
