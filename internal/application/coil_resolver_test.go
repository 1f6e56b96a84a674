package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metals-platform/production-service/internal/domain"
)

func TestNormalizeItemID(t *testing.T) {
	tests := []struct {
		name   string
		itemID string
		want   string
	}{
		{name: "Integer suffix", itemID: "ABC-100-2", want: "ABC-100"},
		{name: "Decimal suffix", itemID: "ABC-100-2.5", want: "ABC-100"},
		{name: "No suffix", itemID: "ABC", want: "ABC"},
		{name: "Non-numeric suffix", itemID: "ABC-XYZ", want: "ABC-XYZ"},
		{name: "Only last suffix stripped", itemID: "ABC-1-2", want: "ABC-1"},
		{name: "Trailing dash", itemID: "ABC-", want: "ABC-"},
		{name: "Empty", itemID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeItemID(tt.itemID)
			assert.Equal(t, tt.want, got)

			// Normalization applied twice keeps stripping one level at
			// most, never panics
			_ = NormalizeItemID(got)
		})
	}
}

func TestCoilResolverCTLPath(t *testing.T) {
	ctx := context.Background()
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)

	relationshipRepo.On("FindByItemCode", ctx, "SHEET-48").Return(&domain.ItemRelationship{
		ItemCode:         "SHEET-48",
		CoilRelationship: "COIL-48",
	}, nil).Once()

	coils := []*domain.InventoryItem{
		{InventoryID: "INV-BIG", ItemID: "COIL-48", TagNumber: "T1", Snapshot: 2000},
		{InventoryID: "INV-SMALL", ItemID: "COIL-48", TagNumber: "T2", Snapshot: 500},
	}
	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"COIL-48"}).Return(coils, nil)

	resolver := NewCoilResolver(inventoryRepo, relationshipRepo)
	ledger := NewAllocationLedger()

	coil, err := resolver.Resolve(ctx, "BR-001", domain.MachineCategoryCTL, "SHEET-48", 400, ledger)
	require.NoError(t, err)
	require.NotNil(t, coil)
	assert.Equal(t, "INV-BIG", coil.InventoryID)

	// The relationship lookup is cached per run
	coil, err = resolver.Resolve(ctx, "BR-001", domain.MachineCategoryCTL, "SHEET-48", 400, ledger)
	require.NoError(t, err)
	require.NotNil(t, coil)

	relationshipRepo.AssertNumberOfCalls(t, "FindByItemCode", 1)
}

func TestCoilResolverCTLNoRelationship(t *testing.T) {
	ctx := context.Background()
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)

	relationshipRepo.On("FindByItemCode", ctx, "SHEET-99").Return(nil, nil).Once()

	resolver := NewCoilResolver(inventoryRepo, relationshipRepo)

	coil, err := resolver.Resolve(ctx, "BR-001", domain.MachineCategoryCTL, "SHEET-99", 400, NewAllocationLedger())
	require.NoError(t, err)
	assert.Nil(t, coil)

	// Missing relationships are cached too
	_, err = resolver.Resolve(ctx, "BR-001", domain.MachineCategoryCTL, "SHEET-99", 400, NewAllocationLedger())
	require.NoError(t, err)
	relationshipRepo.AssertNumberOfCalls(t, "FindByItemCode", 1)
	inventoryRepo.AssertNotCalled(t, "FindCoilCandidates")
}

func TestCoilResolverSlitterPath(t *testing.T) {
	ctx := context.Background()
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)

	// Slitter search covers the item ID and its normalized parent
	coils := []*domain.InventoryItem{
		{InventoryID: "INV-001", ItemID: "ABC-100", TagNumber: "T1", Snapshot: 1200},
	}
	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC-100-2", "ABC-100"}).Return(coils, nil)

	resolver := NewCoilResolver(inventoryRepo, relationshipRepo)

	coil, err := resolver.Resolve(ctx, "BR-001", domain.MachineCategorySlitter, "ABC-100-2", 400, NewAllocationLedger())
	require.NoError(t, err)
	require.NotNil(t, coil)
	assert.Equal(t, "INV-001", coil.InventoryID)

	relationshipRepo.AssertNotCalled(t, "FindByItemCode")
}

func TestCoilResolverLedgerAdjustedCapacity(t *testing.T) {
	ctx := context.Background()
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)

	coils := []*domain.InventoryItem{
		{InventoryID: "INV-BIG", ItemID: "ABC", TagNumber: "T1", Snapshot: 1000},
		{InventoryID: "INV-NEXT", ItemID: "ABC", TagNumber: "T2", Snapshot: 600},
	}
	inventoryRepo.On("FindCoilCandidates", ctx, "BR-001", []string{"ABC"}).Return(coils, nil)

	resolver := NewCoilResolver(inventoryRepo, relationshipRepo)
	ledger := NewAllocationLedger()
	ledger.Commit("INV-BIG", 800)

	// 400 lbs no longer fits the largest coil; the next candidate wins
	coil, err := resolver.Resolve(ctx, "BR-001", domain.MachineCategorySlitter, "ABC", 400, ledger)
	require.NoError(t, err)
	require.NotNil(t, coil)
	assert.Equal(t, "INV-NEXT", coil.InventoryID)

	// Nothing fits once both are exhausted
	ledger.Commit("INV-NEXT", 500)
	coil, err = resolver.Resolve(ctx, "BR-001", domain.MachineCategorySlitter, "ABC", 400, ledger)
	require.NoError(t, err)
	assert.Nil(t, coil)
}

func TestCoilResolverUnknownCategory(t *testing.T) {
	ctx := context.Background()
	inventoryRepo := new(MockInventoryRepository)
	relationshipRepo := new(MockItemRelationshipRepository)

	resolver := NewCoilResolver(inventoryRepo, relationshipRepo)

	// Machine categories come out of Mongo as open strings; anything
	// that is not CTL or Slitter never resolves to a coil
	coil, err := resolver.Resolve(ctx, "BR-001", domain.MachineCategory("Sheet"), "ABC-100-2", 400, NewAllocationLedger())
	require.NoError(t, err)
	assert.Nil(t, coil)

	relationshipRepo.AssertNotCalled(t, "FindByItemCode")
	inventoryRepo.AssertNotCalled(t, "FindCoilCandidates")
}
