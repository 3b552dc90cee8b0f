package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocationAndProduct finds the record for a location-product combination
func (r *GormStockRecordRepository) FindByLocationAndProduct(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND location_type = ? AND location_id = ? AND product_id = ?",
			companyID, location.Type(), location.ID(), productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindForUpdate finds the record for a location-product combination and
// takes a row lock on it for the duration of the surrounding transaction
func (r *GormStockRecordRepository) FindForUpdate(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND location_type = ? AND location_id = ? AND product_id = ?",
			companyID, location.Type(), location.ID(), productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocation finds all records at a location
func (r *GormStockRecordRepository) FindByLocation(ctx context.Context, companyID uuid.UUID, location valueobject.Location, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
			Where("company_id = ? AND location_type = ? AND location_id = ?", companyID, location.Type(), location.ID()),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByProduct finds all records for a product across locations
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, companyID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
			Where("company_id = ? AND product_id = ?", companyID, productID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveGuarded updates only if the stored version still matches the
// version the record was loaded with. Aggregate methods bump the
// version in memory, so the guard compares against version-1.
func (r *GormStockRecordRepository) SaveGuarded(ctx context.Context, record *inventory.StockRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"current_quantity":  record.CurrentQuantity,
			"reserved_quantity": record.ReservedQuantity,
			"version":           record.Version,
			"updated_at":        record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GetOrCreate gets the existing record for a location-product
// combination or creates an empty one
func (r *GormStockRecordRepository) GetOrCreate(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*inventory.StockRecord, error) {
	record, err := r.FindByLocationAndProduct(ctx, companyID, location, productID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err = inventory.NewStockRecord(companyID, location, productID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT handles the race where two transactions create the
	// same slot at once
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"}, {Name: "location_type"},
				{Name: "location_id"}, {Name: "product_id"},
			},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return nil, result.Error
	}

	// we lost the create race: DO NOTHING inserted no row, so the
	// record in hand carries an ID that is not in the database
	if result.RowsAffected == 0 {
		return r.FindByLocationAndProduct(ctx, companyID, location, productID)
	}

	return record, nil
}

// SumQuantityByProduct sums on-hand quantity for a product across locations
func (r *GormStockRecordRepository) SumQuantityByProduct(ctx context.Context, companyID, productID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Select("COALESCE(SUM(current_quantity), 0) as total").
		Where("company_id = ? AND product_id = ?", companyID, productID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// CountForCompany counts stock records matching the filter
func (r *GormStockRecordRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "location_type":
			query = query.Where("location_type = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("current_quantity > 0")
			}
		case "has_reservations":
			if value == true {
				query = query.Where("reserved_quantity > 0")
			}
		}
	}

	return query
}

// Ensure GormStockRecordRepository implements StockRecordRepository
var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)
