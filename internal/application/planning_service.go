package application

import (
	"context"
	"time"

	"github.com/metals-platform/production-service/pkg/logging"
	"github.com/metals-platform/production-service/pkg/metrics"
)

// PlanningApplicationService runs planning passes and records their outcome
type PlanningApplicationService struct {
	planner *WorkOrderPlanner
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewPlanningApplicationService creates a new PlanningApplicationService
func NewPlanningApplicationService(planner *WorkOrderPlanner, m *metrics.Metrics, logger *logging.Logger) *PlanningApplicationService {
	return &PlanningApplicationService{
		planner: planner,
		metrics: m,
		logger:  logger,
	}
}

// RunPlanning executes one planning pass for a branch
func (s *PlanningApplicationService) RunPlanning(ctx context.Context, cmd RunPlanningCommand) (*PlanningResultDTO, error) {
	start := time.Now()

	result, err := s.planner.Build(ctx, cmd.BranchID, cmd.BranchCode, cmd.UserID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordPlanningRun(cmd.BranchID, false, time.Since(start))
		}
		s.logger.WithError(err).Error("Planning run failed", "branchId", cmd.BranchID)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPlanningRun(cmd.BranchID, true, time.Since(start))
		s.metrics.RecordItemsScheduled(cmd.BranchID, result.ItemsScheduled)
		s.metrics.RecordItemsUnscheduled(cmd.BranchID, result.Unscheduled)
		for category, count := range result.CreatedByCategory {
			s.metrics.RecordWorkOrdersCreated(cmd.BranchID, category, count)
		}
	}

	s.logger.Info("Planning run completed",
		"branchId", cmd.BranchID,
		"created", result.Created,
		"unscheduled", result.Unscheduled,
		"durationMs", time.Since(start).Milliseconds())

	return &PlanningResultDTO{
		BranchID:     cmd.BranchID,
		Created:      result.Created,
		Unscheduled:  result.Unscheduled,
		WorkOrderIDs: result.WorkOrderIDs,
	}, nil
}
