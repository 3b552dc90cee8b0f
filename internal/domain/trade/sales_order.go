package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusDraft           OrderStatus = "DRAFT"
	OrderStatusPendingApproval OrderStatus = "PENDING_MANAGER_APPROVAL"
	OrderStatusConfirmed       OrderStatus = "CONFIRMED"
	OrderStatusCancelRequested OrderStatus = "CANCEL_REQUESTED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPendingApproval, OrderStatusConfirmed,
		OrderStatusCancelRequested, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusPendingApproval || target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusPendingApproval:
		return target == OrderStatusConfirmed || target == OrderStatusCancelRequested
	case OrderStatusConfirmed:
		return target == OrderStatusCancelRequested
	case OrderStatusCancelRequested:
		// a rejected cancellation returns the order to CONFIRMED
		return target == OrderStatusCancelled || target == OrderStatusConfirmed
	case OrderStatusCancelled:
		return false
	}
	return false
}

// SalesOrderItem represents a line item in a sales order. Each line
// draws stock from one specific location, so a single order can mix
// warehouses and stores.
type SalesOrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	ProductSKU      string
	LocationType    valueobject.LocationType
	LocationID      uuid.UUID
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal // Quantity * UnitPrice after discount
	Currency        valueobject.Currency
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a new sales order item
func NewSalesOrderItem(orderID, productID uuid.UUID, productName, productSKU string, location valueobject.Location, quantity int64, unitPrice valueobject.Money, discountPercent decimal.Decimal) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if location.IsZero() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source location cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}

	now := time.Now()
	item := &SalesOrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
		ProductID:       productID,
		ProductName:     productName,
		ProductSKU:      productSKU,
		LocationType:    location.Type(),
		LocationID:      location.ID(),
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		DiscountPercent: discountPercent,
		Currency:        unitPrice.Currency(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	item.recalculate()

	return item, nil
}

func (i *SalesOrderItem) recalculate() {
	unit, _ := valueobject.NewMoney(i.UnitPrice, i.Currency)
	line := unit.MultiplyByInt(i.Quantity).ApplyDiscount(i.DiscountPercent).Round(2)
	i.LineTotal = line.Amount()
}

// Location returns the item's source location as a value object
func (i *SalesOrderItem) Location() valueobject.Location {
	loc, _ := valueobject.NewLocation(i.LocationType, i.LocationID)
	return loc
}

// UpdateQuantity updates the item quantity and recalculates the line total
func (i *SalesOrderItem) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.recalculate()
	i.UpdatedAt = time.Now()

	return nil
}

// LineTotalMoney returns the line total as a Money value object
func (i *SalesOrderItem) LineTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(i.LineTotal, i.Currency)
	return m
}

// SalesOrder represents a sales order aggregate root.
// It manages the order lifecycle from draft through confirmation or
// cancellation, including the manager-approval detour.
type SalesOrder struct {
	shared.CompanyAggregateRoot
	OrderNumber  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_order_number,priority:2"`
	CustomerID   uuid.UUID
	CustomerName string
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	Items        []SalesOrderItem `gorm:"foreignKey:OrderID"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Status       OrderStatus     `gorm:"type:varchar(32);not null"`
	// RequiresManagerApproval is sticky: once a line trips an approval
	// rule the flag stays set even if that line is later removed.
	RequiresManagerApproval bool
	ApprovalReason          string
	ApprovedBy              *uuid.UUID
	Remark                  string
	SubmittedAt             *time.Time
	ConfirmedAt             *time.Time
	CancelledAt             *time.Time
	CancelReason            string
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in DRAFT status
func NewSalesOrder(companyID uuid.UUID, orderNumber string, customerID uuid.UUID, customerName string, createdBy uuid.UUID) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	order := &SalesOrder{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		OrderNumber:          orderNumber,
		CustomerID:           customerID,
		CustomerName:         customerName,
		CreatedBy:            createdBy,
		Items:                make([]SalesOrderItem, 0),
		TotalAmount:          decimal.Zero,
		Status:               OrderStatusDraft,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new item to the order
// Only allowed in DRAFT status
func (o *SalesOrder) AddItem(productID uuid.UUID, productName, productSKU string, location valueobject.Location, quantity int64, unitPrice valueobject.Money, discountPercent decimal.Decimal) (*SalesOrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	for _, item := range o.Items {
		if item.ProductID == productID && item.Location().Equals(location) {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already ordered from this location, update quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productID, productName, productSKU, location, quantity, unitPrice, discountPercent)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item
// Only allowed in DRAFT status
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity int64) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes an item from the order
// Only allowed in DRAFT status
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// FindItem returns the item with the given ID, or nil
func (o *SalesOrder) FindItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// FlagForApproval marks the order as needing manager sign-off.
// The flag never clears once set.
func (o *SalesOrder) FlagForApproval(reason string) {
	if o.RequiresManagerApproval {
		return
	}
	o.RequiresManagerApproval = true
	o.ApprovalReason = reason
	o.UpdatedAt = time.Now()
}

// SourceLocations returns the distinct locations the order draws from
func (o *SalesOrder) SourceLocations() []valueobject.Location {
	seen := make(map[string]bool)
	locations := make([]valueobject.Location, 0, len(o.Items))
	for idx := range o.Items {
		loc := o.Items[idx].Location()
		if !seen[loc.Key()] {
			seen[loc.Key()] = true
			locations = append(locations, loc)
		}
	}
	return locations
}

// SetRemark sets the order remark
func (o *SalesOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// Submit moves the order out of DRAFT. Orders flagged for approval go
// to PENDING_MANAGER_APPROVAL, all others confirm immediately.
func (o *SalesOrder) Submit() error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}

	now := time.Now()
	o.SubmittedAt = &now
	o.UpdatedAt = now

	if o.RequiresManagerApproval {
		o.Status = OrderStatusPendingApproval
		o.AddDomainEvent(NewSalesOrderSubmittedEvent(o))
		return nil
	}

	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o, uuid.Nil))

	return nil
}

// Approve confirms an order held for manager approval
func (o *SalesOrder) Approve(approverID uuid.UUID) error {
	if o.Status != OrderStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ApprovedBy = &approverID
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o, approverID))

	return nil
}

// Cancel cancels an order that has not been confirmed yet
func (o *SalesOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, reason))

	return nil
}

// RequestCancel asks for cancellation of a confirmed order or one
// waiting on manager approval. The reservations stay in place until a
// manager approves the request.
func (o *SalesOrder) RequestCancel(reason string) error {
	if o.Status != OrderStatusConfirmed && o.Status != OrderStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot request cancellation of order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelRequested
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderCancelRequestedEvent(o, reason))

	return nil
}

// ApproveCancel completes a requested cancellation
func (o *SalesOrder) ApproveCancel(approverID uuid.UUID) error {
	if o.Status != OrderStatusCancelRequested {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve cancellation of order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.ApprovedBy = &approverID
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, o.CancelReason))

	return nil
}

// RejectCancel declines a requested cancellation and returns the order
// to CONFIRMED
func (o *SalesOrder) RejectCancel() error {
	if o.Status != OrderStatusCancelRequested {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject cancellation of order in %s status", o.Status))
	}

	o.Status = OrderStatusConfirmed
	o.CancelReason = ""
	o.UpdatedAt = time.Now()

	return nil
}

// IsCancellable reports whether the order still holds reservations that
// a cancellation would need to release
func (o *SalesOrder) IsCancellable() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusCancelRequested
}

func (o *SalesOrder) recalculateTotals() {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].LineTotal)
	}
	o.TotalAmount = total
}
