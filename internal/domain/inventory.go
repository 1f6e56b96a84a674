package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshot weight units
const (
	SnapshotUnitLbs = "LBS"
)

// InventoryItem represents a coil on hand at a branch. Snapshots are
// read-only inputs here; this service never mutates inventory.
type InventoryItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	InventoryID  string             `bson:"inventoryId" json:"inventoryId"`
	TagNumber    string             `bson:"tagNumber" json:"tagNumber"`
	ItemID       string             `bson:"itemId" json:"itemId"`
	Description  string             `bson:"description" json:"description"`
	WidthInches  float64            `bson:"widthInches,omitempty" json:"widthInches,omitempty"`
	LengthInches float64            `bson:"lengthInches,omitempty" json:"lengthInches,omitempty"`
	Snapshot     float64            `bson:"snapshot" json:"snapshot"`
	SnapshotUnit string             `bson:"snapshotUnit" json:"snapshotUnit"`
	Location     string             `bson:"location" json:"location"`
	BranchID     string             `bson:"branchId" json:"branchId"`
	SnapshotAt   time.Time          `bson:"snapshotAt" json:"snapshotAt"`
}

// ItemRelationship maps a finished-good item code to its parent coil
// item code. Cut-to-length resolution goes through this table.
type ItemRelationship struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ItemCode         string             `bson:"itemCode" json:"itemCode"`
	CoilRelationship string             `bson:"coilRelationship" json:"coilRelationship"`
}
