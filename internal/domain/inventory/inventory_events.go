package inventory

import (
	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeStockRecord = "StockRecord"

// Event type constants
const (
	EventTypeStockIncreased       = "StockIncreased"
	EventTypeStockDecreased       = "StockDecreased"
	EventTypeStockReserved        = "StockReserved"
	EventTypeStockReleased        = "StockReleased"
	EventTypeReservationCommitted = "ReservationCommitted"
)

// StockIncreasedEvent is raised when physical units are added to a location
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID                `json:"stock_record_id"`
	LocationType  valueobject.LocationType `json:"location_type"`
	LocationID    uuid.UUID                `json:"location_id"`
	ProductID     uuid.UUID                `json:"product_id"`
	Quantity      int64                    `json:"quantity"`
	NewQuantity   int64                    `json:"new_quantity"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(record *StockRecord, quantity int64) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, AggregateTypeStockRecord, record.ID, record.CompanyID),
		StockRecordID:   record.ID,
		LocationType:    record.LocationType,
		LocationID:      record.LocationID,
		ProductID:       record.ProductID,
		Quantity:        quantity,
		NewQuantity:     record.CurrentQuantity,
	}
}

// EventType returns the event type name
func (e *StockIncreasedEvent) EventType() string {
	return EventTypeStockIncreased
}

// StockDecreasedEvent is raised when unreserved physical units leave a location
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID                `json:"stock_record_id"`
	LocationType  valueobject.LocationType `json:"location_type"`
	LocationID    uuid.UUID                `json:"location_id"`
	ProductID     uuid.UUID                `json:"product_id"`
	Quantity      int64                    `json:"quantity"`
	NewQuantity   int64                    `json:"new_quantity"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(record *StockRecord, quantity int64) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, AggregateTypeStockRecord, record.ID, record.CompanyID),
		StockRecordID:   record.ID,
		LocationType:    record.LocationType,
		LocationID:      record.LocationID,
		ProductID:       record.ProductID,
		Quantity:        quantity,
		NewQuantity:     record.CurrentQuantity,
	}
}

// EventType returns the event type name
func (e *StockDecreasedEvent) EventType() string {
	return EventTypeStockDecreased
}

// StockReservedEvent is raised when available units are earmarked for an order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID `json:"stock_record_id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	NewReserved   int64     `json:"new_reserved"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(record *StockRecord, quantity int64) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeStockRecord, record.ID, record.CompanyID),
		StockRecordID:   record.ID,
		ProductID:       record.ProductID,
		Quantity:        quantity,
		NewReserved:     record.ReservedQuantity,
	}
}

// EventType returns the event type name
func (e *StockReservedEvent) EventType() string {
	return EventTypeStockReserved
}

// StockReleasedEvent is raised when reserved units return to the available pool
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID `json:"stock_record_id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	NewReserved   int64     `json:"new_reserved"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(record *StockRecord, quantity int64) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeStockRecord, record.ID, record.CompanyID),
		StockRecordID:   record.ID,
		ProductID:       record.ProductID,
		Quantity:        quantity,
		NewReserved:     record.ReservedQuantity,
	}
}

// EventType returns the event type name
func (e *StockReleasedEvent) EventType() string {
	return EventTypeStockReleased
}

// ReservationCommittedEvent is raised when reserved units are withdrawn for good
type ReservationCommittedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID `json:"stock_record_id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	NewQuantity   int64     `json:"new_quantity"`
	NewReserved   int64     `json:"new_reserved"`
}

// NewReservationCommittedEvent creates a new ReservationCommittedEvent
func NewReservationCommittedEvent(record *StockRecord, quantity int64) *ReservationCommittedEvent {
	return &ReservationCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationCommitted, AggregateTypeStockRecord, record.ID, record.CompanyID),
		StockRecordID:   record.ID,
		ProductID:       record.ProductID,
		Quantity:        quantity,
		NewQuantity:     record.CurrentQuantity,
		NewReserved:     record.ReservedQuantity,
	}
}

// EventType returns the event type name
func (e *ReservationCommittedEvent) EventType() string {
	return EventTypeReservationCommitted
}
