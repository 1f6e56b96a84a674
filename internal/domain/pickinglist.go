package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickingLineStatus represents the status of a picking list line
type PickingLineStatus string

const (
	PickingLineStatusPending            PickingLineStatus = "Pending"
	PickingLineStatusAssignedProduction PickingLineStatus = "AssignedProduction"
	PickingLineStatusAssignedPulling    PickingLineStatus = "AssignedPulling"
	PickingLineStatusWorkOrder          PickingLineStatus = "WorkOrder"
	PickingLineStatusInProgress         PickingLineStatus = "InProgress"
	PickingLineStatusCompleted          PickingLineStatus = "Completed"
	PickingLineStatusCanceled           PickingLineStatus = "Canceled"
)

// PickingListItem is one line of a customer picking list, routed to a
// machine for processing. Ship date and priority are denormalized from
// the parent list so planning reads a single collection.
type PickingListItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PickingListItemID string             `bson:"pickingListItemId" json:"pickingListItemId"`
	PickingListID     string             `bson:"pickingListId" json:"pickingListId"`
	PickingListNumber string             `bson:"pickingListNumber" json:"pickingListNumber"`
	BranchID          string             `bson:"branchId" json:"branchId"`
	ItemID            string             `bson:"itemId" json:"itemId"`
	Description       string             `bson:"description" json:"description"`
	Quantity          float64            `bson:"quantity" json:"quantity"`
	WeightLbs         float64            `bson:"weightLbs" json:"weightLbs"`
	MachineID         string             `bson:"machineId,omitempty" json:"machineId,omitempty"`
	Status            PickingLineStatus  `bson:"status" json:"status"`
	ShipDate          time.Time          `bson:"shipDate" json:"shipDate"`
	Priority          int                `bson:"priority" json:"priority"` // 1 = highest
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
