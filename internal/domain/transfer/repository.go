package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// TransferRequestRepository defines the interface for transfer persistence
type TransferRequestRepository interface {
	// FindByID finds a transfer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TransferRequest, error)

	// FindByIDForCompany finds a transfer by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*TransferRequest, error)

	// FindByReference finds a transfer by its reference number
	FindByReference(ctx context.Context, companyID uuid.UUID, reference string) (*TransferRequest, error)

	// FindByStatus finds transfers with a specific status
	FindByStatus(ctx context.Context, companyID uuid.UUID, status TransferStatus, filter shared.Filter) ([]TransferRequest, error)

	// FindPending finds transfers waiting for a manager
	FindPending(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]TransferRequest, error)

	// FindByRequester finds transfers requested by a user
	FindByRequester(ctx context.Context, companyID, requestedBy uuid.UUID, filter shared.Filter) ([]TransferRequest, error)

	// FindByLocation finds transfers touching a location as source or destination
	FindByLocation(ctx context.Context, companyID uuid.UUID, location valueobject.Location, filter shared.Filter) ([]TransferRequest, error)

	// FindInFlight finds transfers that hold stock in transit
	FindInFlight(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]TransferRequest, error)

	// FindByDateRange finds transfers created within a date range
	FindByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time, filter shared.Filter) ([]TransferRequest, error)

	// Save creates or updates a transfer
	Save(ctx context.Context, t *TransferRequest) error

	// SaveGuarded updates only if the stored version still matches,
	// returning shared.ErrConcurrencyConflict when it does not
	SaveGuarded(ctx context.Context, t *TransferRequest) error

	// CountForCompany counts transfers matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts transfers by status
	CountByStatus(ctx context.Context, companyID uuid.UUID, status TransferStatus) (int64, error)
}
