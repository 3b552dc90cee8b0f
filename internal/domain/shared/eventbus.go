package shared

import "context"

// EventHandler consumes committed ledger, order and transfer events.
// Change-feed and audit sinks implement this.
type EventHandler interface {
	// Handle processes one event. Errors are the sink's problem:
	// publication is fire-and-forget and never rolls back the
	// mutation that produced the event.
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the event types the sink wants.
	// Empty means every event.
	EventTypes() []string
}

// EventPublisher is the side the application services hold: events are
// handed over after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers and removes sinks
type EventSubscriber interface {
	// Subscribe attaches a sink. Explicit eventTypes override the
	// sink's own EventTypes; empty both ways means every event.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is both ends of the feed in one value
type EventBus interface {
	EventPublisher
	EventSubscriber
}
