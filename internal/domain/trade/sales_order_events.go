package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventsight/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSalesOrder = "SalesOrder"

// Event type constants
const (
	EventTypeSalesOrderCreated         = "SalesOrderCreated"
	EventTypeSalesOrderSubmitted       = "SalesOrderSubmitted"
	EventTypeSalesOrderConfirmed       = "SalesOrderConfirmed"
	EventTypeSalesOrderCancelRequested = "SalesOrderCancelRequested"
	EventTypeSalesOrderCancelled       = "SalesOrderCancelled"
)

// SalesOrderCreatedEvent is raised when a new order is drafted
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CreatedBy   uuid.UUID `json:"created_by"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID, order.CompanyID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CreatedBy:       order.CreatedBy,
	}
}

// EventType returns the event type name
func (e *SalesOrderCreatedEvent) EventType() string {
	return EventTypeSalesOrderCreated
}

// SalesOrderSubmittedEvent is raised when an order is parked for manager approval
type SalesOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovalReason string          `json:"approval_reason"`
}

// NewSalesOrderSubmittedEvent creates a new SalesOrderSubmittedEvent
func NewSalesOrderSubmittedEvent(order *SalesOrder) *SalesOrderSubmittedEvent {
	return &SalesOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderSubmitted, AggregateTypeSalesOrder, order.ID, order.CompanyID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
		ApprovalReason:  order.ApprovalReason,
	}
}

// EventType returns the event type name
func (e *SalesOrderSubmittedEvent) EventType() string {
	return EventTypeSalesOrderSubmitted
}

// SalesOrderConfirmedEvent is raised when an order becomes binding
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedBy  uuid.UUID       `json:"approved_by,omitempty"`
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(order *SalesOrder, approvedBy uuid.UUID) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, AggregateTypeSalesOrder, order.ID, order.CompanyID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
		ApprovedBy:      approvedBy,
	}
}

// EventType returns the event type name
func (e *SalesOrderConfirmedEvent) EventType() string {
	return EventTypeSalesOrderConfirmed
}

// SalesOrderCancelRequestedEvent is raised when cancellation of a
// confirmed order is requested
type SalesOrderCancelRequestedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewSalesOrderCancelRequestedEvent creates a new SalesOrderCancelRequestedEvent
func NewSalesOrderCancelRequestedEvent(order *SalesOrder, reason string) *SalesOrderCancelRequestedEvent {
	return &SalesOrderCancelRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelRequested, AggregateTypeSalesOrder, order.ID, order.CompanyID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *SalesOrderCancelRequestedEvent) EventType() string {
	return EventTypeSalesOrderCancelRequested
}

// SalesOrderCancelledEvent is raised when an order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder, reason string) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, AggregateTypeSalesOrder, order.ID, order.CompanyID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *SalesOrderCancelledEvent) EventType() string {
	return EventTypeSalesOrderCancelled
}
