package cloudevents

import (
	"time"
)

// EventType constants for production domain events
const (
	// Work order lifecycle events
	WorkOrderCreated   = "metals.workorder.created"
	WorkOrderStarted   = "metals.workorder.started"
	WorkOrderPaused    = "metals.workorder.paused"
	WorkOrderResumed   = "metals.workorder.resumed"
	WorkOrderCompleted = "metals.workorder.completed"
	WorkOrderCanceled  = "metals.workorder.canceled"

	// Coil events
	CoilSwapped = "metals.workorder.coil-swapped"

	// Planning events
	PlanningCompleted = "metals.planning.completed"

	// Picking list events
	PickingLineStatusChanged = "metals.pickinglist.line-status-changed"
)

// Source constants for event sources
const (
	SourceProduction = "/metals/production-service"
	SourcePlanning   = "/metals/production-service/planning"
)

// CloudEvent represents a CloudEvents v1.0 compliant event
type CloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	// Production-specific extensions
	CorrelationID   string `json:"metalscorrelationid,omitempty"`
	WorkOrderNumber string `json:"metalsworkordernumber,omitempty"`
	BranchID        string `json:"metalsbranchid,omitempty"`
}

// WorkOrderCreatedData represents the data payload for WorkOrderCreated
type WorkOrderCreatedData struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	BranchID        string    `json:"branchId"`
	MachineID       string    `json:"machineId"`
	MachineCategory string    `json:"machineCategory"`
	ItemCount       int       `json:"itemCount"`
	TotalWeight     float64   `json:"totalWeight"`
	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
}

// CoilSwappedData represents the data payload for CoilSwapped
type CoilSwappedData struct {
	WorkOrderID     string  `json:"workOrderId"`
	WorkOrderNumber string  `json:"workOrderNumber"`
	Sequence        int     `json:"sequence"`
	CoilInventoryID string  `json:"coilInventoryId"`
	CoilTagNumber   string  `json:"coilTagNumber"`
	StartWeight     float64 `json:"startWeightLbs"`
	Reason          string  `json:"reason"`
}

// PlanningCompletedData represents the data payload for PlanningCompleted
type PlanningCompletedData struct {
	BranchID    string `json:"branchId"`
	Created     int    `json:"created"`
	Unscheduled int    `json:"unscheduled"`
}
