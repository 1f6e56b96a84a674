package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metals-platform/production-service/internal/domain"
)

func TestAllocationLedger(t *testing.T) {
	ledger := NewAllocationLedger()
	coil := &domain.InventoryItem{InventoryID: "INV-001", Snapshot: 1000}

	assert.Equal(t, 0.0, ledger.Committed("INV-001"))
	assert.Equal(t, 1000.0, ledger.Available(coil))

	ledger.Commit("INV-001", 400)
	assert.Equal(t, 400.0, ledger.Committed("INV-001"))
	assert.Equal(t, 600.0, ledger.Available(coil))

	ledger.Commit("INV-001", 600)
	assert.Equal(t, 0.0, ledger.Available(coil))

	// Commitments never bleed across coils
	other := &domain.InventoryItem{InventoryID: "INV-002", Snapshot: 500}
	assert.Equal(t, 500.0, ledger.Available(other))
}

func TestAllocationLedgerFreshPerRun(t *testing.T) {
	coil := &domain.InventoryItem{InventoryID: "INV-001", Snapshot: 1000}

	first := NewAllocationLedger()
	first.Commit("INV-001", 900)

	second := NewAllocationLedger()
	assert.Equal(t, 1000.0, second.Available(coil))
}
