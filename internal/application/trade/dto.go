package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventsight/backend/internal/domain/trade"
)

// CreateOrderRequest represents a request to draft a new order
type CreateOrderRequest struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name" validate:"max=255"`
	Remark       string    `json:"remark" validate:"max=500"`
}

// AddOrderItemRequest represents a request to add a line to a draft order
type AddOrderItemRequest struct {
	ProductID       uuid.UUID       `json:"product_id" validate:"required"`
	LocationType    string          `json:"location_type" validate:"required,oneof=WAREHOUSE STORE"`
	LocationID      uuid.UUID       `json:"location_id" validate:"required"`
	Quantity        int64           `json:"quantity" validate:"required,gt=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CancelOrderRequest represents a cancellation request
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSKU      string          `json:"product_sku"`
	LocationType    string          `json:"location_type"`
	LocationID      uuid.UUID       `json:"location_id"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Currency        string          `json:"currency"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                      uuid.UUID           `json:"id"`
	CompanyID               uuid.UUID           `json:"company_id"`
	OrderNumber             string              `json:"order_number"`
	CustomerID              uuid.UUID           `json:"customer_id"`
	CustomerName            string              `json:"customer_name"`
	CreatedBy               uuid.UUID           `json:"created_by"`
	Status                  string              `json:"status"`
	Items                   []OrderItemResponse `json:"items"`
	TotalAmount             decimal.Decimal     `json:"total_amount"`
	RequiresManagerApproval bool                `json:"requires_manager_approval"`
	ApprovalReason          string              `json:"approval_reason,omitempty"`
	ApprovedBy              *uuid.UUID          `json:"approved_by,omitempty"`
	Remark                  string              `json:"remark,omitempty"`
	CancelReason            string              `json:"cancel_reason,omitempty"`
	SubmittedAt             *time.Time          `json:"submitted_at,omitempty"`
	ConfirmedAt             *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt             *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
	Version                 int                 `json:"version"`
}

// ToOrderResponse maps an order to its response form
func ToOrderResponse(order *trade.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for idx := range order.Items {
		item := &order.Items[idx]
		items[idx] = OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductSKU:      item.ProductSKU,
			LocationType:    string(item.LocationType),
			LocationID:      item.LocationID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			LineTotal:       item.LineTotal,
			Currency:        string(item.Currency),
		}
	}

	return OrderResponse{
		ID:                      order.ID,
		CompanyID:               order.CompanyID,
		OrderNumber:             order.OrderNumber,
		CustomerID:              order.CustomerID,
		CustomerName:            order.CustomerName,
		CreatedBy:               order.CreatedBy,
		Status:                  order.Status.String(),
		Items:                   items,
		TotalAmount:             order.TotalAmount,
		RequiresManagerApproval: order.RequiresManagerApproval,
		ApprovalReason:          order.ApprovalReason,
		ApprovedBy:              order.ApprovedBy,
		Remark:                  order.Remark,
		CancelReason:            order.CancelReason,
		SubmittedAt:             order.SubmittedAt,
		ConfirmedAt:             order.ConfirmedAt,
		CancelledAt:             order.CancelledAt,
		CreatedAt:               order.CreatedAt,
		UpdatedAt:               order.UpdatedAt,
		Version:                 order.Version,
	}
}
