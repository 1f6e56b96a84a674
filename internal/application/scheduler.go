package application

import (
	"context"
	"time"

	"github.com/metals-platform/production-service/internal/domain"
)

const (
	// setupGap separates consecutive work orders on a machine
	setupGap = 15 * time.Minute

	// perLineDuration is the planned run time per work order line
	perLineDuration = 30 * time.Minute

	// dayStartHour is the seed hour for a machine with no history
	dayStartHour = 8
)

// MachineScheduler hands out contiguous forward-only time windows per
// machine. The cursor for a machine is seeded from its latest persisted
// scheduled end, falling back to today at 08:00 local.
type MachineScheduler struct {
	workOrderRepo domain.WorkOrderRepository
	clock         domain.Clock
	cursors       map[string]time.Time
}

// NewMachineScheduler creates a scheduler for one planning run
func NewMachineScheduler(workOrderRepo domain.WorkOrderRepository, clock domain.Clock) *MachineScheduler {
	return &MachineScheduler{
		workOrderRepo: workOrderRepo,
		clock:         clock,
		cursors:       make(map[string]time.Time),
	}
}

// Next reserves the next window on a machine for a work order with the
// given number of lines and advances the cursor to its end.
func (s *MachineScheduler) Next(ctx context.Context, machineID string, lineCount int) (time.Time, time.Time, error) {
	cursor, ok := s.cursors[machineID]
	if !ok {
		seeded, err := s.seed(ctx, machineID)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		cursor = seeded
	}

	start := cursor.Add(setupGap)
	end := start.Add(time.Duration(lineCount) * perLineDuration)
	s.cursors[machineID] = end

	return start, end, nil
}

// seed determines the initial cursor for a machine
func (s *MachineScheduler) seed(ctx context.Context, machineID string) (time.Time, error) {
	maxEnd, err := s.workOrderRepo.MaxScheduledEnd(ctx, machineID)
	if err != nil {
		return time.Time{}, err
	}
	if maxEnd != nil {
		return *maxEnd, nil
	}

	now := s.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), dayStartHour, 0, 0, 0, now.Location()), nil
}
