package transfer

import (
	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTransferRequest = "TransferRequest"

// Event type constants
const (
	EventTypeTransferRequested = "TransferRequested"
	EventTypeTransferApproved  = "TransferApproved"
	EventTypeTransferInTransit = "TransferInTransit"
	EventTypeTransferCompleted = "TransferCompleted"
	EventTypeTransferCancelled = "TransferCancelled"
	EventTypeTransferRejected  = "TransferRejected"
)

// TransferRequestedEvent is raised when a new transfer is requested
type TransferRequestedEvent struct {
	shared.BaseDomainEvent
	TransferID        uuid.UUID `json:"transfer_id"`
	ReferenceNumber   string    `json:"reference_number"`
	ProductID         uuid.UUID `json:"product_id"`
	Source            string    `json:"source"`
	Destination       string    `json:"destination"`
	RequestedQuantity int64     `json:"requested_quantity"`
	RequestedBy       uuid.UUID `json:"requested_by"`
}

// NewTransferRequestedEvent creates a new TransferRequestedEvent
func NewTransferRequestedEvent(t *TransferRequest) *TransferRequestedEvent {
	return &TransferRequestedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferRequested, AggregateTypeTransferRequest, t.ID, t.CompanyID),
		TransferID:        t.ID,
		ReferenceNumber:   t.ReferenceNumber,
		ProductID:         t.ProductID,
		Source:            t.SourceLocation().String(),
		Destination:       t.DestLocation().String(),
		RequestedQuantity: t.RequestedQuantity,
		RequestedBy:       t.RequestedBy,
	}
}

// EventType returns the event type name
func (e *TransferRequestedEvent) EventType() string {
	return EventTypeTransferRequested
}

// TransferApprovedEvent is raised when a manager releases a transfer
type TransferApprovedEvent struct {
	shared.BaseDomainEvent
	TransferID        uuid.UUID `json:"transfer_id"`
	ReferenceNumber   string    `json:"reference_number"`
	EffectiveQuantity int64     `json:"effective_quantity"`
	ApprovedBy        uuid.UUID `json:"approved_by"`
}

// NewTransferApprovedEvent creates a new TransferApprovedEvent
func NewTransferApprovedEvent(t *TransferRequest) *TransferApprovedEvent {
	approvedBy := uuid.Nil
	if t.ApprovedBy != nil {
		approvedBy = *t.ApprovedBy
	}
	return &TransferApprovedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferApproved, AggregateTypeTransferRequest, t.ID, t.CompanyID),
		TransferID:        t.ID,
		ReferenceNumber:   t.ReferenceNumber,
		EffectiveQuantity: t.EffectiveQuantity(),
		ApprovedBy:        approvedBy,
	}
}

// EventType returns the event type name
func (e *TransferApprovedEvent) EventType() string {
	return EventTypeTransferApproved
}

// TransferInTransitEvent is raised when the goods leave the source.
// DeductedQuantity is what the source ledger lost.
type TransferInTransitEvent struct {
	shared.BaseDomainEvent
	TransferID       uuid.UUID `json:"transfer_id"`
	ReferenceNumber  string    `json:"reference_number"`
	DeductedQuantity int64     `json:"deducted_quantity"`
	Carrier          string    `json:"carrier,omitempty"`
}

// NewTransferInTransitEvent creates a new TransferInTransitEvent
func NewTransferInTransitEvent(t *TransferRequest) *TransferInTransitEvent {
	return &TransferInTransitEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransferInTransit, AggregateTypeTransferRequest, t.ID, t.CompanyID),
		TransferID:       t.ID,
		ReferenceNumber:  t.ReferenceNumber,
		DeductedQuantity: t.DeductedQuantity,
		Carrier:          t.Carrier,
	}
}

// EventType returns the event type name
func (e *TransferInTransitEvent) EventType() string {
	return EventTypeTransferInTransit
}

// TransferCompletedEvent is raised when the destination counts the
// goods in. GoodQuantity went into destination stock; DamagedQuantity
// was written off.
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID       uuid.UUID `json:"transfer_id"`
	ReferenceNumber  string    `json:"reference_number"`
	ReceivedQuantity int64     `json:"received_quantity"`
	DamagedQuantity  int64     `json:"damaged_quantity"`
	GoodQuantity     int64     `json:"good_quantity"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *TransferRequest) *TransferCompletedEvent {
	received := int64(0)
	if t.ReceivedQuantity != nil {
		received = *t.ReceivedQuantity
	}
	return &TransferCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeTransferRequest, t.ID, t.CompanyID),
		TransferID:       t.ID,
		ReferenceNumber:  t.ReferenceNumber,
		ReceivedQuantity: received,
		DamagedQuantity:  t.DamagedQuantity,
		GoodQuantity:     t.GoodQuantity(),
	}
}

// EventType returns the event type name
func (e *TransferCompletedEvent) EventType() string {
	return EventTypeTransferCompleted
}

// TransferCancelledEvent is raised when a transfer is cancelled.
// CompensatedQuantity is what was credited back to the source.
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	TransferID          uuid.UUID `json:"transfer_id"`
	ReferenceNumber     string    `json:"reference_number"`
	Reason              string    `json:"reason"`
	CompensatedQuantity int64     `json:"compensated_quantity"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *TransferRequest, compensated int64) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeTransferCancelled, AggregateTypeTransferRequest, t.ID, t.CompanyID),
		TransferID:          t.ID,
		ReferenceNumber:     t.ReferenceNumber,
		Reason:              t.CancelReason,
		CompensatedQuantity: compensated,
	}
}

// EventType returns the event type name
func (e *TransferCancelledEvent) EventType() string {
	return EventTypeTransferCancelled
}

// TransferRejectedEvent is raised when a manager declines a pending transfer
type TransferRejectedEvent struct {
	shared.BaseDomainEvent
	TransferID      uuid.UUID `json:"transfer_id"`
	ReferenceNumber string    `json:"reference_number"`
	Reason          string    `json:"reason"`
}

// NewTransferRejectedEvent creates a new TransferRejectedEvent
func NewTransferRejectedEvent(t *TransferRequest, reason string) *TransferRejectedEvent {
	return &TransferRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRejected, AggregateTypeTransferRequest, t.ID, t.CompanyID),
		TransferID:      t.ID,
		ReferenceNumber: t.ReferenceNumber,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *TransferRejectedEvent) EventType() string {
	return EventTypeTransferRejected
}
