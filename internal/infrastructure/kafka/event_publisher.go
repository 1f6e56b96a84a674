package kafka

import (
	"context"
	"fmt"

	"github.com/metals-platform/production-service/pkg/cloudevents"
	"github.com/metals-platform/production-service/pkg/kafka"

	"github.com/metals-platform/production-service/internal/domain"
)

// EventPublisher implements domain.EventPublisher using Kafka
type EventPublisher struct {
	producer     *kafka.InstrumentedProducer
	eventFactory *cloudevents.EventFactory
}

// NewEventPublisher creates a new Kafka-based event publisher
func NewEventPublisher(producer *kafka.InstrumentedProducer, eventFactory *cloudevents.EventFactory) *EventPublisher {
	return &EventPublisher{
		producer:     producer,
		eventFactory: eventFactory,
	}
}

// Publish publishes a single domain event to Kafka
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	ce := p.eventFactory.CreateEvent(ctx, event.EventType(), subjectFor(event), event)
	enrich(ce, event)

	if err := p.producer.PublishEvent(ctx, topicFor(event), ce); err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}

	return nil
}

// PublishAll publishes multiple domain events to Kafka
func (p *EventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// topicFor routes an event to its topic
func topicFor(event domain.DomainEvent) string {
	switch event.(type) {
	case *domain.PlanningCompletedEvent:
		return kafka.Topics.PlanningEvents
	case *domain.PickingLinesStatusChangedEvent:
		return kafka.Topics.PickingListsEvents
	default:
		return kafka.Topics.WorkOrdersEvents
	}
}

// subjectFor derives the CloudEvent subject from the event payload
func subjectFor(event domain.DomainEvent) string {
	switch e := event.(type) {
	case *domain.WorkOrderCreatedEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.WorkOrderStartedEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.WorkOrderPausedEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.WorkOrderResumedEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.WorkOrderCompletedEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.WorkOrderCanceledEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.CoilSwappedEvent:
		return "workorder/" + e.WorkOrderID
	case *domain.PickingLinesStatusChangedEvent:
		if e.WorkOrderID != "" {
			return "workorder/" + e.WorkOrderID
		}
		return "branch/" + e.BranchID
	case *domain.PlanningCompletedEvent:
		return "branch/" + e.BranchID
	default:
		return ""
	}
}

// enrich sets routing extensions consumers filter on
func enrich(ce *cloudevents.CloudEvent, event domain.DomainEvent) {
	switch e := event.(type) {
	case *domain.WorkOrderCreatedEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
		ce.BranchID = e.BranchID
	case *domain.WorkOrderStartedEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
	case *domain.WorkOrderPausedEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
	case *domain.WorkOrderResumedEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
	case *domain.WorkOrderCompletedEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
	case *domain.WorkOrderCanceledEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
	case *domain.CoilSwappedEvent:
		ce.WorkOrderNumber = e.WorkOrderNumber
	case *domain.PickingLinesStatusChangedEvent:
		ce.BranchID = e.BranchID
	case *domain.PlanningCompletedEvent:
		ce.BranchID = e.BranchID
	}
}
