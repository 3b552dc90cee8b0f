package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
	"github.com/inventsight/backend/internal/domain/transfer"
)

// GormTransferRequestRepository implements TransferRequestRepository using GORM
type GormTransferRequestRepository struct {
	db *gorm.DB
}

// NewGormTransferRequestRepository creates a new GormTransferRequestRepository
func NewGormTransferRequestRepository(db *gorm.DB) *GormTransferRequestRepository {
	return &GormTransferRequestRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormTransferRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.TransferRequest, error) {
	var t transfer.TransferRequest
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByIDForCompany finds a transfer by ID within a company
func (r *GormTransferRequestRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*transfer.TransferRequest, error) {
	var t transfer.TransferRequest
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByReference finds a transfer by its reference number
func (r *GormTransferRequestRepository) FindByReference(ctx context.Context, companyID uuid.UUID, reference string) (*transfer.TransferRequest, error) {
	var t transfer.TransferRequest
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND reference_number = ?", companyID, reference).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByStatus finds transfers with a specific status
func (r *GormTransferRequestRepository) FindByStatus(ctx context.Context, companyID uuid.UUID, status transfer.TransferStatus, filter shared.Filter) ([]transfer.TransferRequest, error) {
	var transfers []transfer.TransferRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
			Where("company_id = ? AND status = ?", companyID, status),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindPending finds transfers waiting for a manager
func (r *GormTransferRequestRepository) FindPending(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]transfer.TransferRequest, error) {
	return r.FindByStatus(ctx, companyID, transfer.TransferStatusPending, filter)
}

// FindByRequester finds transfers requested by a user
func (r *GormTransferRequestRepository) FindByRequester(ctx context.Context, companyID, requestedBy uuid.UUID, filter shared.Filter) ([]transfer.TransferRequest, error) {
	var transfers []transfer.TransferRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
			Where("company_id = ? AND requested_by = ?", companyID, requestedBy),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByLocation finds transfers touching a location as source or destination
func (r *GormTransferRequestRepository) FindByLocation(ctx context.Context, companyID uuid.UUID, location valueobject.Location, filter shared.Filter) ([]transfer.TransferRequest, error) {
	var transfers []transfer.TransferRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
			Where("company_id = ?", companyID).
			Where(
				r.db.Where("source_location_type = ? AND source_location_id = ?", location.Type(), location.ID()).
					Or("dest_location_type = ? AND dest_location_id = ?", location.Type(), location.ID()),
			),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindInFlight finds transfers that hold stock in transit. They have
// debited their source but not yet reached a terminal state.
func (r *GormTransferRequestRepository) FindInFlight(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]transfer.TransferRequest, error) {
	var transfers []transfer.TransferRequest
	terminal := []transfer.TransferStatus{
		transfer.TransferStatusCompleted,
		transfer.TransferStatusCancelled,
		transfer.TransferStatusRejected,
	}
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
			Where("company_id = ? AND deducted_quantity > 0 AND status NOT IN ?", companyID, terminal),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindByDateRange finds transfers created within a date range
func (r *GormTransferRequestRepository) FindByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time, filter shared.Filter) ([]transfer.TransferRequest, error) {
	var transfers []transfer.TransferRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
			Where("company_id = ? AND created_at >= ? AND created_at <= ?", companyID, start, end),
		filter,
	)

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer
func (r *GormTransferRequestRepository) Save(ctx context.Context, t *transfer.TransferRequest) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// SaveGuarded updates the transfer only if the stored version still
// matches the version the aggregate was loaded with. The domain method
// that mutated the transfer has already incremented the in-memory
// version, so the guard compares against Version-1.
func (r *GormTransferRequestRepository) SaveGuarded(ctx context.Context, t *transfer.TransferRequest) error {
	result := r.db.WithContext(ctx).
		Model(&transfer.TransferRequest{}).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]interface{}{
			"approved_quantity": t.ApprovedQuantity,
			"deducted_quantity": t.DeductedQuantity,
			"received_quantity": t.ReceivedQuantity,
			"damaged_quantity":  t.DamagedQuantity,
			"status":            t.Status,
			"prev_status":       t.PrevStatus,
			"approved_by":       t.ApprovedBy,
			"packed_by":         t.PackedBy,
			"received_by":       t.ReceivedBy,
			"carrier":           t.Carrier,
			"tracking_number":   t.TrackingNumber,
			"notes":             t.Notes,
			"cancel_reason":     t.CancelReason,
			"reject_reason":     t.RejectReason,
			"approved_at":       t.ApprovedAt,
			"shipped_at":        t.ShippedAt,
			"delivered_at":      t.DeliveredAt,
			"completed_at":      t.CompletedAt,
			"cancelled_at":      t.CancelledAt,
			"version":           t.Version,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForCompany counts transfers matching the filter
func (r *GormTransferRequestRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts transfers by status
func (r *GormTransferRequestRepository) CountByStatus(ctx context.Context, companyID uuid.UUID, status transfer.TransferStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&transfer.TransferRequest{}).
		Where("company_id = ? AND status = ?", companyID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTransferRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormTransferRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		}
	}

	return query
}

// Ensure GormTransferRequestRepository implements TransferRequestRepository
var _ transfer.TransferRequestRepository = (*GormTransferRequestRepository)(nil)
