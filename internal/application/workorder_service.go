package application

import (
	"context"
	"fmt"

	"github.com/metals-platform/production-service/pkg/errors"
	"github.com/metals-platform/production-service/pkg/logging"
	"github.com/metals-platform/production-service/pkg/metrics"

	"github.com/metals-platform/production-service/internal/domain"
)

// WorkOrderApplicationService handles work order lifecycle use cases
type WorkOrderApplicationService struct {
	workOrderRepo  domain.WorkOrderRepository
	pickingRepo    domain.PickingListItemRepository
	inventoryRepo  domain.InventoryRepository
	eventPublisher domain.EventPublisher
	clock          domain.Clock
	metrics        *metrics.Metrics
	logger         *logging.Logger
}

// NewWorkOrderApplicationService creates a new WorkOrderApplicationService
func NewWorkOrderApplicationService(
	workOrderRepo domain.WorkOrderRepository,
	pickingRepo domain.PickingListItemRepository,
	inventoryRepo domain.InventoryRepository,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
	m *metrics.Metrics,
	logger *logging.Logger,
) *WorkOrderApplicationService {
	return &WorkOrderApplicationService{
		workOrderRepo:  workOrderRepo,
		pickingRepo:    pickingRepo,
		inventoryRepo:  inventoryRepo,
		eventPublisher: eventPublisher,
		clock:          clock,
		metrics:        m,
		logger:         logger,
	}
}

// StartWorkOrder starts (or restarts after a pause) a work order
func (s *WorkOrderApplicationService) StartWorkOrder(ctx context.Context, cmd StartWorkOrderCommand) (*WorkOrderDTO, error) {
	wo, err := s.load(ctx, cmd.WorkOrderID)
	if err != nil {
		return nil, err
	}

	firstStart := wo.ActualStart == nil

	var initialCoil *domain.InventoryItem
	if firstStart && wo.CoilInventoryID != "" {
		initialCoil, err = s.inventoryRepo.FindByID(ctx, wo.CoilInventoryID)
		if err != nil {
			s.logger.WithError(err).Error("Failed to load initial coil", "workOrderId", cmd.WorkOrderID)
			return nil, fmt.Errorf("failed to load initial coil: %w", err)
		}
	}

	if err := wo.Start(cmd.UserID, initialCoil, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.persistAndPublish(ctx, wo); err != nil {
		return nil, err
	}

	if firstStart {
		if err := s.propagateLineStatus(ctx, wo, domain.PickingLineStatusInProgress); err != nil {
			return nil, err
		}
	}

	s.recordTransition("start", wo.Status)
	s.logger.Info("Started work order", "workOrderId", wo.WorkOrderID, "number", wo.WorkOrderNumber, "firstStart", firstStart)
	return ToWorkOrderDTO(wo), nil
}

// PauseWorkOrder pauses a running work order
func (s *WorkOrderApplicationService) PauseWorkOrder(ctx context.Context, cmd PauseWorkOrderCommand) (*WorkOrderDTO, error) {
	wo, err := s.load(ctx, cmd.WorkOrderID)
	if err != nil {
		return nil, err
	}

	if err := wo.Pause(cmd.UserID, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.persistAndPublish(ctx, wo); err != nil {
		return nil, err
	}

	s.recordTransition("pause", wo.Status)
	s.logger.Info("Paused work order", "workOrderId", wo.WorkOrderID, "number", wo.WorkOrderNumber)
	return ToWorkOrderDTO(wo), nil
}

// ResumeWorkOrder resumes a paused work order
func (s *WorkOrderApplicationService) ResumeWorkOrder(ctx context.Context, cmd ResumeWorkOrderCommand) (*WorkOrderDTO, error) {
	wo, err := s.load(ctx, cmd.WorkOrderID)
	if err != nil {
		return nil, err
	}

	if err := wo.Resume(cmd.UserID, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.persistAndPublish(ctx, wo); err != nil {
		return nil, err
	}

	s.recordTransition("resume", wo.Status)
	s.logger.Info("Resumed work order", "workOrderId", wo.WorkOrderID, "number", wo.WorkOrderNumber)
	return ToWorkOrderDTO(wo), nil
}

// CompleteWorkOrder completes a work order
func (s *WorkOrderApplicationService) CompleteWorkOrder(ctx context.Context, cmd CompleteWorkOrderCommand) (*WorkOrderDTO, error) {
	wo, err := s.load(ctx, cmd.WorkOrderID)
	if err != nil {
		return nil, err
	}

	if err := wo.Complete(cmd.UserID, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.persistAndPublish(ctx, wo); err != nil {
		return nil, err
	}

	if err := s.propagateLineStatus(ctx, wo, domain.PickingLineStatusCompleted); err != nil {
		return nil, err
	}

	s.recordTransition("complete", wo.Status)
	s.logger.Info("Completed work order", "workOrderId", wo.WorkOrderID, "number", wo.WorkOrderNumber)
	return ToWorkOrderDTO(wo), nil
}

// CancelWorkOrder cancels a work order
func (s *WorkOrderApplicationService) CancelWorkOrder(ctx context.Context, cmd CancelWorkOrderCommand) (*WorkOrderDTO, error) {
	wo, err := s.load(ctx, cmd.WorkOrderID)
	if err != nil {
		return nil, err
	}

	if err := wo.Cancel(cmd.UserID, cmd.Reason, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.persistAndPublish(ctx, wo); err != nil {
		return nil, err
	}

	if err := s.propagateLineStatus(ctx, wo, domain.PickingLineStatusCanceled); err != nil {
		return nil, err
	}

	s.recordTransition("cancel", wo.Status)
	s.logger.Info("Canceled work order", "workOrderId", wo.WorkOrderID, "number", wo.WorkOrderNumber, "reason", cmd.Reason)
	return ToWorkOrderDTO(wo), nil
}

// SwapCoil swaps the running coil on a work order
func (s *WorkOrderApplicationService) SwapCoil(ctx context.Context, cmd SwapCoilCommand) (*WorkOrderDTO, error) {
	wo, err := s.load(ctx, cmd.WorkOrderID)
	if err != nil {
		return nil, err
	}

	newCoil, err := s.inventoryRepo.FindByID(ctx, cmd.CoilInventoryID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load coil", "coilInventoryId", cmd.CoilInventoryID)
		return nil, fmt.Errorf("failed to load coil: %w", err)
	}
	if newCoil == nil {
		return nil, errors.ErrNotFound("coil")
	}

	reason := domain.CoilSwapReason(cmd.Reason)
	if err := wo.SwapCoil(cmd.UserID, newCoil, reason, cmd.Notes, s.clock.Now()); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.persistAndPublish(ctx, wo); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCoilSwap(cmd.Reason)
	}
	s.logger.Info("Swapped coil on work order",
		"workOrderId", wo.WorkOrderID, "number", wo.WorkOrderNumber,
		"coilInventoryId", cmd.CoilInventoryID, "reason", cmd.Reason)
	return ToWorkOrderDTO(wo), nil
}

// GetWorkOrder retrieves a work order by ID
func (s *WorkOrderApplicationService) GetWorkOrder(ctx context.Context, query GetWorkOrderQuery) (*WorkOrderDTO, error) {
	wo, err := s.workOrderRepo.FindByID(ctx, query.WorkOrderID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get work order", "workOrderId", query.WorkOrderID)
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if wo == nil {
		return nil, errors.ErrNotFound("work order")
	}

	return ToWorkOrderDTO(wo), nil
}

// GetWorkOrderByNumber retrieves a work order by its number
func (s *WorkOrderApplicationService) GetWorkOrderByNumber(ctx context.Context, query GetWorkOrderByNumberQuery) (*WorkOrderDTO, error) {
	wo, err := s.workOrderRepo.FindByNumber(ctx, query.Number)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get work order", "number", query.Number)
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if wo == nil {
		return nil, errors.ErrNotFound("work order")
	}

	return ToWorkOrderDTO(wo), nil
}

// ListWorkOrders lists work orders matching a filter
func (s *WorkOrderApplicationService) ListWorkOrders(ctx context.Context, query ListWorkOrdersQuery) ([]WorkOrderListDTO, error) {
	filter := domain.WorkOrderFilter{
		BranchID:  query.BranchID,
		MachineID: query.MachineID,
		Status:    domain.WorkOrderStatus(query.Status),
		Limit:     query.Limit,
		Offset:    query.Offset,
	}

	workOrders, err := s.workOrderRepo.Find(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list work orders")
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	return ToWorkOrderListDTOs(workOrders), nil
}

// load fetches an aggregate or maps its absence to a not-found error
func (s *WorkOrderApplicationService) load(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	wo, err := s.workOrderRepo.FindByID(ctx, workOrderID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get work order", "workOrderId", workOrderID)
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if wo == nil {
		return nil, errors.ErrNotFound("work order")
	}
	return wo, nil
}

// persistAndPublish saves the aggregate then publishes its pending events
func (s *WorkOrderApplicationService) persistAndPublish(ctx context.Context, wo *domain.WorkOrder) error {
	events := wo.GetDomainEvents()
	wo.ClearDomainEvents()

	if err := s.workOrderRepo.Save(ctx, wo); err != nil {
		s.logger.WithError(err).Error("Failed to save work order", "workOrderId", wo.WorkOrderID)
		return fmt.Errorf("failed to save work order: %w", err)
	}

	if err := s.eventPublisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Error("Failed to publish work order events", "workOrderId", wo.WorkOrderID)
		return fmt.Errorf("failed to publish work order events: %w", err)
	}

	return nil
}

// propagateLineStatus mirrors a lifecycle transition onto the consumed lines
func (s *WorkOrderApplicationService) propagateLineStatus(ctx context.Context, wo *domain.WorkOrder, status domain.PickingLineStatus) error {
	ids := make([]string, 0, len(wo.Items))
	for _, item := range wo.Items {
		ids = append(ids, item.PickingListItemID)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.pickingRepo.UpdateStatus(ctx, ids, status); err != nil {
		s.logger.WithError(err).Error("Failed to update picking lines", "workOrderId", wo.WorkOrderID, "status", status)
		return fmt.Errorf("failed to update picking lines: %w", err)
	}

	event := &domain.PickingLinesStatusChangedEvent{
		WorkOrderID:        wo.WorkOrderID,
		BranchID:           wo.BranchID,
		PickingListItemIDs: ids,
		Status:             string(status),
		ChangedAt:          s.clock.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		// Statuses are already persisted; the transition itself succeeds
		s.logger.WithError(err).Error("Failed to publish picking line status event", "workOrderId", wo.WorkOrderID)
	}
	return nil
}

func (s *WorkOrderApplicationService) recordTransition(action string, status domain.WorkOrderStatus) {
	if s.metrics != nil {
		s.metrics.RecordWorkOrderTransition(action, string(status))
	}
}
