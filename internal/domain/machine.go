package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MachineCategory represents the class of processing machine
type MachineCategory string

const (
	MachineCategoryCTL     MachineCategory = "CTL"     // Cut-to-length line
	MachineCategorySlitter MachineCategory = "Slitter" // Slitting line
)

// Machine represents a processing machine at a branch
type Machine struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MachineID    string             `bson:"machineId" json:"machineId"`
	Code         string             `bson:"code" json:"code"`
	Name         string             `bson:"name" json:"name"`
	Category     MachineCategory    `bson:"category" json:"category"`
	BranchID     string             `bson:"branchId" json:"branchId"`
	Throughput   Throughput         `bson:"throughput" json:"throughput"`
	SetupMinutes int                `bson:"setupMinutes" json:"setupMinutes"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Throughput is the machine's nominal processing rate
type Throughput struct {
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit" json:"unit"` // e.g. "LBS/hr"
}
