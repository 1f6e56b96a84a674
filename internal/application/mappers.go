package application

import "github.com/metals-platform/production-service/internal/domain"

// ToWorkOrderDTO converts a domain WorkOrder to WorkOrderDTO
func ToWorkOrderDTO(wo *domain.WorkOrder) *WorkOrderDTO {
	if wo == nil {
		return nil
	}

	items := make([]WorkOrderItemDTO, 0, len(wo.Items))
	for _, item := range wo.Items {
		items = append(items, WorkOrderItemDTO{
			PickingListItemID: item.PickingListItemID,
			PickingListID:     item.PickingListID,
			ItemID:            item.ItemID,
			Description:       item.Description,
			Quantity:          item.Quantity,
			WeightLbs:         item.WeightLbs,
		})
	}

	usages := make([]CoilUsageDTO, 0, len(wo.CoilUsages))
	for _, usage := range wo.CoilUsages {
		usages = append(usages, CoilUsageDTO{
			Sequence:        usage.Sequence,
			CoilInventoryID: usage.CoilInventoryID,
			CoilTagNumber:   usage.CoilTagNumber,
			CoilItemID:      usage.CoilItemID,
			CoilDescription: usage.CoilDescription,
			StartWeightLbs:  usage.StartWeightLbs,
			FromLocation:    usage.FromLocation,
			StartedAt:       usage.StartedAt,
			EndedAt:         usage.EndedAt,
			Reason:          string(usage.Reason),
			Notes:           usage.Notes,
		})
	}

	var coil *WorkOrderCoilDTO
	if wo.CoilInventoryID != "" {
		coil = &WorkOrderCoilDTO{
			InventoryID:      wo.CoilInventoryID,
			ItemID:           wo.CoilItemID,
			Description:      wo.CoilDescription,
			WeightAtStartLbs: wo.CoilWeightAtStartLbs,
			LocationAtStart:  wo.CoilLocationAtStart,
		}
		if wo.CoilSnapshotAt != nil {
			coil.SnapshotAt = *wo.CoilSnapshotAt
		}
	}

	return &WorkOrderDTO{
		WorkOrderID:     wo.WorkOrderID,
		WorkOrderNumber: wo.WorkOrderNumber,
		BranchID:        wo.BranchID,
		MachineID:       wo.MachineID,
		MachineCategory: string(wo.MachineCategory),
		Status:          string(wo.Status),
		Coil:            coil,
		Items:           items,
		CoilUsages:      usages,
		TotalWeightLbs:  wo.TotalWeight(),
		DueDate:         wo.DueDate,
		ScheduledStart:  wo.ScheduledStart,
		ScheduledEnd:    wo.ScheduledEnd,
		ActualStart:     wo.ActualStart,
		ActualEnd:       wo.ActualEnd,
		CreatedBy:       wo.CreatedBy,
		CreatedAt:       wo.CreatedAt,
		UpdatedAt:       wo.UpdatedAt,
	}
}

// ToWorkOrderListDTO converts a domain WorkOrder to WorkOrderListDTO (simplified)
func ToWorkOrderListDTO(wo *domain.WorkOrder) *WorkOrderListDTO {
	if wo == nil {
		return nil
	}

	return &WorkOrderListDTO{
		WorkOrderID:     wo.WorkOrderID,
		WorkOrderNumber: wo.WorkOrderNumber,
		BranchID:        wo.BranchID,
		MachineID:       wo.MachineID,
		MachineCategory: string(wo.MachineCategory),
		Status:          string(wo.Status),
		ItemCount:       len(wo.Items),
		TotalWeightLbs:  wo.TotalWeight(),
		DueDate:         wo.DueDate,
		ScheduledStart:  wo.ScheduledStart,
		ScheduledEnd:    wo.ScheduledEnd,
		UpdatedAt:       wo.UpdatedAt,
	}
}

// ToWorkOrderListDTOs converts a slice of domain WorkOrders to WorkOrderListDTOs
func ToWorkOrderListDTOs(workOrders []*domain.WorkOrder) []WorkOrderListDTO {
	dtos := make([]WorkOrderListDTO, 0, len(workOrders))
	for _, wo := range workOrders {
		if dto := ToWorkOrderListDTO(wo); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}
