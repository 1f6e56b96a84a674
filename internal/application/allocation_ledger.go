package application

import (
	"github.com/metals-platform/production-service/internal/domain"
)

// AllocationLedger tracks coil weight committed during a single planning
// run. It is never persisted: every run starts empty against fresh
// inventory snapshots.
type AllocationLedger struct {
	committed map[string]float64
}

// NewAllocationLedger creates an empty ledger
func NewAllocationLedger() *AllocationLedger {
	return &AllocationLedger{
		committed: make(map[string]float64),
	}
}

// Committed returns the weight already promised from a coil in this run
func (l *AllocationLedger) Committed(coilInventoryID string) float64 {
	return l.committed[coilInventoryID]
}

// Commit records weight promised from a coil
func (l *AllocationLedger) Commit(coilInventoryID string, weightLbs float64) {
	l.committed[coilInventoryID] += weightLbs
}

// Available returns a coil's snapshot weight minus this run's commitments
func (l *AllocationLedger) Available(coil *domain.InventoryItem) float64 {
	return coil.Snapshot - l.committed[coil.InventoryID]
}
