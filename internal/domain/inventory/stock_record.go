package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// StockRecord tracks on-hand and reserved stock for one product at one
// location. It is the aggregate root for all quantity mutations.
// The composite identifier is CompanyID + Location + ProductID.
type StockRecord struct {
	shared.CompanyAggregateRoot
	LocationType valueobject.LocationType `gorm:"type:varchar(16);not null;uniqueIndex:idx_stock_record_location_product,priority:2"`
	LocationID   uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_location_product,priority:3"`
	ProductID    uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_location_product,priority:4"`
	// CurrentQuantity counts all physical units on hand, reserved ones
	// included. ReservedQuantity never exceeds it.
	CurrentQuantity  int64 `gorm:"not null;default:0"`
	ReservedQuantity int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates an empty stock record for a location-product combination
func NewStockRecord(companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*StockRecord, error) {
	if location.IsZero() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	record := &StockRecord{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		LocationType:         location.Type(),
		LocationID:           location.ID(),
		ProductID:            productID,
		CurrentQuantity:      0,
		ReservedQuantity:     0,
	}

	return record, nil
}

// Location returns the record's location as a value object
func (r *StockRecord) Location() valueobject.Location {
	loc, _ := valueobject.NewLocation(r.LocationType, r.LocationID)
	return loc
}

// Available returns the quantity free for new reservations or withdrawals
func (r *StockRecord) Available() int64 {
	return r.CurrentQuantity - r.ReservedQuantity
}

// Increase adds physical units, e.g. receiving a delivery or restocking
func (r *StockRecord) Increase(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	r.CurrentQuantity += quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockIncreasedEvent(r, quantity))
	return nil
}

// Decrease removes physical units that are not reserved. Reserved stock
// can only leave through CommitReservation.
func (r *StockRecord) Decrease(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if available := r.Available(); available < quantity {
		return shared.NewStockError(available, quantity)
	}

	r.CurrentQuantity -= quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockDecreasedEvent(r, quantity))
	return nil
}

// Reserve earmarks available units for a pending order without moving them
func (r *StockRecord) Reserve(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if available := r.Available(); available < quantity {
		return shared.NewStockError(available, quantity)
	}

	r.ReservedQuantity += quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockReservedEvent(r, quantity))
	return nil
}

// Release returns reserved units to the available pool. A release larger
// than the outstanding reservation is clamped so retried cancellations
// stay harmless. Returns the quantity actually released.
func (r *StockRecord) Release(quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	released := quantity
	if released > r.ReservedQuantity {
		released = r.ReservedQuantity
	}
	if released == 0 {
		return 0, nil
	}

	r.ReservedQuantity -= released
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockReleasedEvent(r, released))
	return released, nil
}

// CommitReservation converts reserved units into an actual withdrawal,
// e.g. when a confirmed order ships. Both counters drop together so the
// units never pass through the available pool.
func (r *StockRecord) CommitReservation(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if r.ReservedQuantity < quantity {
		return shared.NewStockError(r.ReservedQuantity, quantity)
	}

	r.ReservedQuantity -= quantity
	r.CurrentQuantity -= quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationCommittedEvent(r, quantity))
	return nil
}
