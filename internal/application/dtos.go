package application

import "time"

// WorkOrderDTO represents a work order in responses
type WorkOrderDTO struct {
	WorkOrderID     string             `json:"workOrderId"`
	WorkOrderNumber string             `json:"workOrderNumber"`
	BranchID        string             `json:"branchId"`
	MachineID       string             `json:"machineId"`
	MachineCategory string             `json:"machineCategory"`
	Status          string             `json:"status"`
	Coil            *WorkOrderCoilDTO  `json:"coil,omitempty"`
	Items           []WorkOrderItemDTO `json:"items"`
	CoilUsages      []CoilUsageDTO     `json:"coilUsages,omitempty"`
	TotalWeightLbs  float64            `json:"totalWeightLbs"`
	DueDate         time.Time          `json:"dueDate"`
	ScheduledStart  time.Time          `json:"scheduledStart"`
	ScheduledEnd    time.Time          `json:"scheduledEnd"`
	ActualStart     *time.Time         `json:"actualStart,omitempty"`
	ActualEnd       *time.Time         `json:"actualEnd,omitempty"`
	CreatedBy       string             `json:"createdBy"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// WorkOrderCoilDTO represents the coil snapshot captured at planning time
type WorkOrderCoilDTO struct {
	InventoryID      string    `json:"inventoryId"`
	ItemID           string    `json:"itemId"`
	Description      string    `json:"description,omitempty"`
	WeightAtStartLbs float64   `json:"weightAtStartLbs"`
	LocationAtStart  string    `json:"locationAtStart,omitempty"`
	SnapshotAt       time.Time `json:"snapshotAt"`
}

// WorkOrderItemDTO represents one line on a work order
type WorkOrderItemDTO struct {
	PickingListItemID string  `json:"pickingListItemId"`
	PickingListID     string  `json:"pickingListId"`
	ItemID            string  `json:"itemId"`
	Description       string  `json:"description,omitempty"`
	Quantity          float64 `json:"quantity"`
	WeightLbs         float64 `json:"weightLbs"`
}

// CoilUsageDTO represents one coil mounted over a work order's run
type CoilUsageDTO struct {
	Sequence        int        `json:"sequence"`
	CoilInventoryID string     `json:"coilInventoryId"`
	CoilTagNumber   string     `json:"coilTagNumber"`
	CoilItemID      string     `json:"coilItemId"`
	CoilDescription string     `json:"coilDescription,omitempty"`
	StartWeightLbs  float64    `json:"startWeightLbs"`
	FromLocation    string     `json:"fromLocation,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes,omitempty"`
}

// WorkOrderListDTO represents a simplified work order for list operations
type WorkOrderListDTO struct {
	WorkOrderID     string    `json:"workOrderId"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	BranchID        string    `json:"branchId"`
	MachineID       string    `json:"machineId"`
	MachineCategory string    `json:"machineCategory"`
	Status          string    `json:"status"`
	ItemCount       int       `json:"itemCount"`
	TotalWeightLbs  float64   `json:"totalWeightLbs"`
	DueDate         time.Time `json:"dueDate"`
	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PlanningResultDTO is the API response for a planning run
type PlanningResultDTO struct {
	BranchID     string   `json:"branchId"`
	Created      int      `json:"created"`
	Unscheduled  int      `json:"unscheduled"`
	WorkOrderIDs []string `json:"workOrderIds,omitempty"`
}

// RunPlanningRequest is the API request for starting a planning run
type RunPlanningRequest struct {
	BranchID   string `json:"branchId" binding:"required"`
	BranchCode string `json:"branchCode" binding:"required,alphanum"`
}

// CancelWorkOrderRequest is the API request for canceling a work order
type CancelWorkOrderRequest struct {
	Reason string `json:"reason"`
}

// SwapCoilRequest is the API request for swapping the running coil
type SwapCoilRequest struct {
	CoilInventoryID string `json:"coilInventoryId" binding:"required"`
	Reason          string `json:"reason" binding:"required,swap_reason"`
	Notes           string `json:"notes"`
}
