package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// StockRecordResponse represents a stock record in API responses
type StockRecordResponse struct {
	ID                uuid.UUID `json:"id"`
	CompanyID         uuid.UUID `json:"company_id"`
	LocationType      string    `json:"location_type"`
	LocationID        uuid.UUID `json:"location_id"`
	ProductID         uuid.UUID `json:"product_id"`
	CurrentQuantity   int64     `json:"current_quantity"`
	ReservedQuantity  int64     `json:"reserved_quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// ToStockRecordResponse maps a stock record to its response form
func ToStockRecordResponse(record *inventory.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:                record.ID,
		CompanyID:         record.CompanyID,
		LocationType:      string(record.LocationType),
		LocationID:        record.LocationID,
		ProductID:         record.ProductID,
		CurrentQuantity:   record.CurrentQuantity,
		ReservedQuantity:  record.ReservedQuantity,
		AvailableQuantity: record.Available(),
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
		Version:           record.Version,
	}
}

// StockMovementResponse represents a movement entry in API responses
type StockMovementResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	LocationType string    `json:"location_type"`
	LocationID   uuid.UUID `json:"location_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int64     `json:"quantity"`
	Reference    string    `json:"reference,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedBy    uuid.UUID `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToStockMovementResponses maps movement entries to their response form
func ToStockMovementResponses(movements []inventory.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for idx := range movements {
		m := &movements[idx]
		responses[idx] = StockMovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			LocationType: string(m.LocationType),
			LocationID:   m.LocationID,
			MovementType: string(m.MovementType),
			Quantity:     m.Quantity,
			Reference:    m.Reference,
			Note:         m.Note,
			CreatedBy:    m.CreatedBy,
			CreatedAt:    m.CreatedAt,
		}
	}
	return responses
}

// StockKey identifies one ledger slot: a product at a location
type StockKey struct {
	LocationType string    `json:"location_type" validate:"required,oneof=WAREHOUSE STORE"`
	LocationID   uuid.UUID `json:"location_id" validate:"required"`
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
}

// Location builds the value object form of the key
func (k StockKey) Location() (valueobject.Location, error) {
	return valueobject.NewLocation(valueobject.LocationType(k.LocationType), k.LocationID)
}

// AdjustStockRequest represents a request to add or withdraw stock
type AdjustStockRequest struct {
	StockKey
	Quantity  int64     `json:"quantity" validate:"required,gt=0"`
	Reference string    `json:"reference" validate:"max=64"`
	Note      string    `json:"note" validate:"max=255"`
	ActorID   uuid.UUID `json:"actor_id" validate:"required"`
}

// ReserveStockRequest represents a request to reserve or release stock
type ReserveStockRequest struct {
	StockKey
	Quantity  int64     `json:"quantity" validate:"required,gt=0"`
	Reference string    `json:"reference" validate:"max=64"`
	ActorID   uuid.UUID `json:"actor_id" validate:"required"`
}

// MovementListFilter represents filter options for movement history
type MovementListFilter struct {
	MovementType string `json:"movement_type" validate:"omitempty,oneof=RECEIPT ISSUE SALE TRANSFER_IN TRANSFER_OUT ADJUSTMENT RELEASE"`
	Page         int    `json:"page" validate:"omitempty,min=1"`
	PageSize     int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}
