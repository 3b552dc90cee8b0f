package inventory

import (
	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementReceipt     MovementType = "RECEIPT"      // goods received from outside
	MovementIssue       MovementType = "ISSUE"        // direct withdrawal
	MovementSale        MovementType = "SALE"         // committed order reservation
	MovementTransferIn  MovementType = "TRANSFER_IN"  // arrived from another location
	MovementTransferOut MovementType = "TRANSFER_OUT" // sent to another location
	MovementAdjustment  MovementType = "ADJUSTMENT"   // manual correction
	MovementRelease     MovementType = "RELEASE"      // reservation returned to pool
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReceipt, MovementIssue, MovementSale,
		MovementTransferIn, MovementTransferOut, MovementAdjustment, MovementRelease:
		return true
	}
	return false
}

// IsInbound reports whether the movement raised on-hand quantity
func (t MovementType) IsInbound() bool {
	switch t {
	case MovementReceipt, MovementTransferIn:
		return true
	}
	return false
}

// IsOutbound reports whether the movement lowered on-hand quantity
func (t MovementType) IsOutbound() bool {
	switch t {
	case MovementIssue, MovementSale, MovementTransferOut:
		return true
	}
	return false
}

// StockMovement is an append-only audit entry for a stock record
// mutation. Movements are never updated or deleted.
type StockMovement struct {
	shared.BaseEntity
	CompanyID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	StockRecordID uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	LocationType  valueobject.LocationType `gorm:"type:varchar(16);not null"`
	LocationID    uuid.UUID                `gorm:"type:uuid;not null"`
	MovementType  MovementType             `gorm:"type:varchar(16);not null;index"`
	Quantity      int64                    `gorm:"not null"`
	// Reference ties the movement to its originating document,
	// e.g. an order number or TRANSFER-xxxxxxxx.
	Reference string    `gorm:"type:varchar(64);index"`
	Note      string    `gorm:"type:varchar(255)"`
	CreatedBy uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records one mutation against a stock record
func NewStockMovement(record *StockRecord, movementType MovementType, quantity int64, reference, note string, createdBy uuid.UUID) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+string(movementType))
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		CompanyID:     record.CompanyID,
		StockRecordID: record.ID,
		ProductID:     record.ProductID,
		LocationType:  record.LocationType,
		LocationID:    record.LocationID,
		MovementType:  movementType,
		Quantity:      quantity,
		Reference:     reference,
		Note:          note,
		CreatedBy:     createdBy,
	}, nil
}
