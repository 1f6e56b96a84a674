package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/metals-platform/production-service/pkg/logging"
)

// AutoPlanningService periodically runs planning passes for configured branches
type AutoPlanningService struct {
	planningService *PlanningApplicationService
	config          AutoPlanningConfig
	logger          *logging.Logger
	mu              sync.RWMutex
	running         bool
	stopChan        chan struct{}
}

// PlannedBranch identifies one branch to plan automatically
type PlannedBranch struct {
	BranchID   string `json:"branchId"`
	BranchCode string `json:"branchCode"`
}

// AutoPlanningConfig configuration for automatic planning
type AutoPlanningConfig struct {
	// Interval is how often to run a planning pass
	Interval time.Duration `json:"interval"`

	// Branches to plan each pass
	Branches []PlannedBranch `json:"branches"`
}

// DefaultAutoPlanningConfig returns default configuration
func DefaultAutoPlanningConfig() AutoPlanningConfig {
	return AutoPlanningConfig{
		Interval: 5 * time.Minute,
	}
}

// NewAutoPlanningService creates a new automatic planning service
func NewAutoPlanningService(planningService *PlanningApplicationService, config AutoPlanningConfig, logger *logging.Logger) *AutoPlanningService {
	return &AutoPlanningService{
		planningService: planningService,
		config:          config,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the automatic planning loop
func (s *AutoPlanningService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("auto planning service is already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop stops the automatic planning loop
func (s *AutoPlanningService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
	}
}

// IsRunning returns whether the service is running
func (s *AutoPlanningService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// run is the main loop for automatic planning
func (s *AutoPlanningService) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.planAll(ctx)
		}
	}
}

// planAll runs one planning pass per configured branch
func (s *AutoPlanningService) planAll(ctx context.Context) {
	for _, branch := range s.config.Branches {
		cmd := RunPlanningCommand{
			BranchID:   branch.BranchID,
			BranchCode: branch.BranchCode,
			UserID:     "auto-planner",
		}
		if _, err := s.planningService.RunPlanning(ctx, cmd); err != nil {
			// Keep going for the remaining branches
			s.logger.WithError(err).Error("Automatic planning pass failed", "branchId", branch.BranchID)
		}
	}
}
