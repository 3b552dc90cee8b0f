package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByIDForCompany finds an order by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds an order by its number
	FindByOrderNumber(ctx context.Context, companyID uuid.UUID, orderNumber string) (*SalesOrder, error)

	// FindByStatus finds orders with a specific status
	FindByStatus(ctx context.Context, companyID uuid.UUID, status OrderStatus, filter shared.Filter) ([]SalesOrder, error)

	// FindPendingApproval finds orders waiting for a manager
	FindPendingApproval(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByCreator finds orders created by a user
	FindByCreator(ctx context.Context, companyID, createdBy uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByDateRange finds orders created within a date range
	FindByDateRange(ctx context.Context, companyID uuid.UUID, start, end time.Time, filter shared.Filter) ([]SalesOrder, error)

	// FindAllForCompany finds all orders for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, order *SalesOrder) error

	// CountForCompany counts orders matching the filter
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByOrderNumber checks if an order number is taken
	ExistsByOrderNumber(ctx context.Context, companyID uuid.UUID, orderNumber string) (bool, error)
}
