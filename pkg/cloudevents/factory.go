package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for production domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new CloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *CloudEvent {
	event := &CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
	}

	return event
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *CloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateWorkOrderCreatedEvent creates a WorkOrderCreated event
func (f *EventFactory) CreateWorkOrderCreatedEvent(
	ctx context.Context,
	data WorkOrderCreatedData,
) *CloudEvent {
	event := f.CreateEvent(ctx, WorkOrderCreated, "workorder/"+data.WorkOrderID, data)
	event.WorkOrderNumber = data.WorkOrderNumber
	event.BranchID = data.BranchID
	return event
}

// CreateCoilSwappedEvent creates a CoilSwapped event
func (f *EventFactory) CreateCoilSwappedEvent(
	ctx context.Context,
	data CoilSwappedData,
) *CloudEvent {
	event := f.CreateEvent(ctx, CoilSwapped, "workorder/"+data.WorkOrderID, data)
	event.WorkOrderNumber = data.WorkOrderNumber
	return event
}

// CreatePlanningCompletedEvent creates a PlanningCompleted event
func (f *EventFactory) CreatePlanningCompletedEvent(
	ctx context.Context,
	data PlanningCompletedData,
) *CloudEvent {
	event := f.CreateEvent(ctx, PlanningCompleted, "branch/"+data.BranchID, data)
	event.BranchID = data.BranchID
	return event
}
