package application

// RunPlanningCommand represents the command to run a planning pass for a branch
type RunPlanningCommand struct {
	BranchID   string
	BranchCode string
	UserID     string
}

// StartWorkOrderCommand represents the command to start a work order
type StartWorkOrderCommand struct {
	WorkOrderID string
	UserID      string
}

// PauseWorkOrderCommand represents the command to pause a work order
type PauseWorkOrderCommand struct {
	WorkOrderID string
	UserID      string
}

// ResumeWorkOrderCommand represents the command to resume a work order
type ResumeWorkOrderCommand struct {
	WorkOrderID string
	UserID      string
}

// CompleteWorkOrderCommand represents the command to complete a work order
type CompleteWorkOrderCommand struct {
	WorkOrderID string
	UserID      string
}

// CancelWorkOrderCommand represents the command to cancel a work order
type CancelWorkOrderCommand struct {
	WorkOrderID string
	UserID      string
	Reason      string
}

// SwapCoilCommand represents the command to swap the running coil
type SwapCoilCommand struct {
	WorkOrderID     string
	UserID          string
	CoilInventoryID string
	Reason          string
	Notes           string
}

// GetWorkOrderQuery represents the query to get a work order by ID
type GetWorkOrderQuery struct {
	WorkOrderID string
}

// GetWorkOrderByNumberQuery represents the query to get a work order by number
type GetWorkOrderByNumberQuery struct {
	Number string
}

// ListWorkOrdersQuery represents the query to list work orders
type ListWorkOrdersQuery struct {
	BranchID  string
	MachineID string
	Status    string
	Limit     int
	Offset    int
}
