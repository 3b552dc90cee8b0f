package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// StockRecordRepository defines the interface for stock record persistence
type StockRecordRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByLocationAndProduct finds the record for a location-product combination
	FindByLocationAndProduct(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*StockRecord, error)

	// FindForUpdate finds the record for a location-product combination and
	// takes a row lock on it for the duration of the surrounding transaction
	FindForUpdate(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*StockRecord, error)

	// FindByLocation finds all records at a location
	FindByLocation(ctx context.Context, companyID uuid.UUID, location valueobject.Location, filter shared.Filter) ([]StockRecord, error)

	// FindByProduct finds all records for a product across locations
	FindByProduct(ctx context.Context, companyID, productID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error

	// SaveGuarded updates only if the stored version still matches the
	// version the record was loaded with, then bumps it. Returns
	// shared.ErrConcurrencyConflict when the guard fails.
	SaveGuarded(ctx context.Context, record *StockRecord) error

	// GetOrCreate returns the existing record for a location-product
	// combination, creating an empty one if none exists yet
	GetOrCreate(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*StockRecord, error)

	// SumQuantityByProduct sums on-hand quantity for a product across locations
	SumQuantityByProduct(ctx context.Context, companyID, productID uuid.UUID) (int64, error)

	// CountForCompany counts stock records matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the interface for movement persistence.
// Movements are append-only: Create is the only write.
type StockMovementRepository interface {
	// Create appends a movement entry
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends multiple movement entries
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// FindByStockRecord finds movements for a stock record, newest first
	FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByReference finds movements tied to an originating document
	FindByReference(ctx context.Context, companyID uuid.UUID, reference string) ([]StockMovement, error)

	// FindByDateRange finds movements within a date range
	FindByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockMovement, error)

	// SumByType sums movement quantities of one type for a stock record
	SumByType(ctx context.Context, stockRecordID uuid.UUID, movementType MovementType) (int64, error)

	// TotalMoved sums all outbound movement quantities for a stock record
	TotalMoved(ctx context.Context, stockRecordID uuid.UUID) (int64, error)
}

// MovementFilter extends shared.Filter with movement-specific filters
type MovementFilter struct {
	shared.Filter
	ProductID    *uuid.UUID
	MovementType *MovementType
	Reference    string
	StartDate    *time.Time
	EndDate      *time.Time
}
