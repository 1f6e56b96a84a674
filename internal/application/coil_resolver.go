package application

import (
	"context"
	"fmt"
	"regexp"

	"github.com/metals-platform/production-service/internal/domain"
)

// itemSuffixPattern strips one trailing -<number> or -<number.number>
// suffix from a slitter finished-good item ID to reach the parent coil ID.
var itemSuffixPattern = regexp.MustCompile(`^(.*?)-\d+(\.\d+)?$`)

// NormalizeItemID returns the parent item ID for a slitter finished good.
// IDs without a numeric suffix come back unchanged.
func NormalizeItemID(itemID string) string {
	if m := itemSuffixPattern.FindStringSubmatch(itemID); m != nil {
		return m[1]
	}
	return itemID
}

// CoilResolver finds the source coil for a picking line, by relationship
// table for cut-to-length lines and by ID normalization for slitters.
type CoilResolver struct {
	inventoryRepo    domain.InventoryRepository
	relationshipRepo domain.ItemRelationshipRepository

	// per-run relationship cache, itemCode -> coil code ("" = none)
	relationships map[string]string
}

// NewCoilResolver creates a new CoilResolver
func NewCoilResolver(inventoryRepo domain.InventoryRepository, relationshipRepo domain.ItemRelationshipRepository) *CoilResolver {
	return &CoilResolver{
		inventoryRepo:    inventoryRepo,
		relationshipRepo: relationshipRepo,
		relationships:    make(map[string]string),
	}
}

// Resolve finds a coil at the branch able to supply firstItemWeightLbs
// after this run's ledger commitments. Candidates are tried largest
// snapshot first; nil without error means no coil qualifies.
func (r *CoilResolver) Resolve(
	ctx context.Context,
	branchID string,
	category domain.MachineCategory,
	itemID string,
	firstItemWeightLbs float64,
	ledger *AllocationLedger,
) (*domain.InventoryItem, error) {
	candidates, err := r.candidateItemIDs(ctx, category, itemID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	coils, err := r.inventoryRepo.FindCoilCandidates(ctx, branchID, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load coil candidates: %w", err)
	}

	for _, coil := range coils {
		if ledger.Available(coil) >= firstItemWeightLbs {
			return coil, nil
		}
	}

	return nil, nil
}

// candidateItemIDs returns the coil item IDs to search under
func (r *CoilResolver) candidateItemIDs(ctx context.Context, category domain.MachineCategory, itemID string) ([]string, error) {
	switch category {
	case domain.MachineCategoryCTL:
		coilCode, err := r.coilRelationship(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if coilCode == "" {
			return nil, nil
		}
		return []string{coilCode}, nil

	case domain.MachineCategorySlitter:
		normalized := NormalizeItemID(itemID)
		if normalized == itemID {
			return []string{itemID}, nil
		}
		return []string{itemID, normalized}, nil

	default:
		// Only CTL lines and slitters consume coils
		return nil, nil
	}
}

// coilRelationship looks up (and caches) the parent coil code for an item
func (r *CoilResolver) coilRelationship(ctx context.Context, itemCode string) (string, error) {
	if code, ok := r.relationships[itemCode]; ok {
		return code, nil
	}

	rel, err := r.relationshipRepo.FindByItemCode(ctx, itemCode)
	if err != nil {
		return "", fmt.Errorf("failed to look up item relationship: %w", err)
	}

	code := ""
	if rel != nil {
		code = rel.CoilRelationship
	}
	r.relationships[itemCode] = code
	return code, nil
}
