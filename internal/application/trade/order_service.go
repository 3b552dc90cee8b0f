package trade

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/inventsight/backend/internal/application/inventory"
	"github.com/inventsight/backend/internal/domain/identity"
	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
	"github.com/inventsight/backend/internal/domain/trade"
)

// ProductInfo is the catalog snapshot copied onto order lines
type ProductInfo struct {
	ID        uuid.UUID
	Name      string
	SKU       string
	UnitPrice valueobject.Money
}

// ProductLookup resolves product snapshots for order lines
type ProductLookup interface {
	Lookup(ctx context.Context, companyID, productID uuid.UUID) (*ProductInfo, error)
}

// OrderService drives the sales order lifecycle. Reservations are
// taken line by line as items are added, inside the same transaction
// that updates the order, so an order can never confirm against stock
// it does not hold.
type OrderService struct {
	scope          appinventory.TransactionScope
	orderRepo      trade.SalesOrderRepository
	products       ProductLookup
	policy         *trade.ApprovalPolicy
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope appinventory.TransactionScope,
	orderRepo trade.SalesOrderRepository,
	products ProductLookup,
	policy *trade.ApprovalPolicy,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		products:  products,
		policy:    policy,
		validate:  validator.New(),
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *OrderService) publishDomainEvents(ctx context.Context, order *trade.SalesOrder) {
	if s.eventPublisher == nil {
		order.ClearDomainEvents()
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// newOrderNumber derives a short human-readable number from a fresh id
func newOrderNumber() string {
	return "SO-" + strings.ToUpper(uuid.New().String()[:8])
}

// CreateOrder drafts a new empty order for the acting user
func (s *OrderService) CreateOrder(ctx context.Context, actor identity.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	order, err := trade.NewSalesOrder(actor.CompanyID, newOrderNumber(), req.CustomerID, req.CustomerName, actor.UserID)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	s.logger.Info("sales order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("company_id", order.CompanyID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// AddItem adds a line to a draft order and reserves its stock in the
// same transaction. If the reservation fails the line is not added;
// if the line is rejected the reservation rolls back.
func (s *OrderService) AddItem(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req AddOrderItemRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	location, err := valueobject.NewLocation(valueobject.LocationType(req.LocationType), req.LocationID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}

	product, err := s.products.Lookup(ctx, actor.CompanyID, req.ProductID)
	if err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := s.authorizeOrderEdit(order, actor); err != nil {
			return err
		}

		if _, err := repos.StockRecords().GetOrCreate(ctx, actor.CompanyID, location, req.ProductID); err != nil {
			return err
		}
		record, err := repos.StockRecords().FindForUpdate(ctx, actor.CompanyID, location, req.ProductID)
		if err != nil {
			return err
		}
		if err := record.Reserve(req.Quantity); err != nil {
			return err
		}
		if err := repos.StockRecords().SaveGuarded(ctx, record); err != nil {
			return err
		}

		if _, err := order.AddItem(req.ProductID, product.Name, product.SKU, location, req.Quantity, product.UnitPrice, req.DiscountPercent); err != nil {
			return err
		}

		if reason := s.policy.Evaluate(order, actor); reason != "" {
			order.FlagForApproval(reason)
		}

		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Submit finalizes a draft. Orders flagged by the approval policy park
// in PENDING_MANAGER_APPROVAL; the rest confirm immediately.
func (s *OrderService) Submit(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := s.authorizeOrderEdit(order, actor); err != nil {
			return err
		}
		if err := order.Submit(); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	s.logger.Info("sales order submitted",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// Approve confirms an order waiting for manager sign-off
func (s *OrderService) Approve(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.CanApprove() {
		return nil, shared.ErrForbidden
	}

	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := order.Approve(actor.UserID); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel withdraws an order that has not confirmed yet and releases
// every reservation it holds
func (s *OrderService) Cancel(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := s.authorizeOrderEdit(order, actor); err != nil {
			return err
		}
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}
		if err := s.releaseOrderReservations(ctx, repos, actor, order); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// RequestCancel asks for cancellation of a confirmed order. The
// reservations stay held until a manager rules on the request.
func (s *OrderService) RequestCancel(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := s.authorizeOrderEdit(order, actor); err != nil {
			return err
		}
		if err := order.RequestCancel(req.Reason); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// ApproveCancel completes a requested cancellation and releases the
// order's reservations in the same transaction
func (s *OrderService) ApproveCancel(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.CanApprove() {
		return nil, shared.ErrForbidden
	}

	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := order.ApproveCancel(actor.UserID); err != nil {
			return err
		}
		if err := s.releaseOrderReservations(ctx, repos, actor, order); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	s.logger.Info("sales order cancelled",
		zap.String("order_number", order.OrderNumber))

	response := ToOrderResponse(order)
	return &response, nil
}

// RejectCancel declines a requested cancellation; the order returns to
// CONFIRMED with its reservations untouched
func (s *OrderService) RejectCancel(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.CanApprove() {
		return nil, shared.ErrForbidden
	}

	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByIDForCompany(ctx, actor.CompanyID, orderID)
		if err != nil {
			return err
		}
		if err := order.RejectCancel(); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder returns one order with its lines
func (s *OrderService) GetOrder(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForCompany(ctx, actor.CompanyID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListPendingApproval returns orders waiting on a manager
func (s *OrderService) ListPendingApproval(ctx context.Context, actor identity.Actor) ([]OrderResponse, error) {
	if !actor.CanApprove() {
		return nil, shared.ErrForbidden
	}

	orders, err := s.orderRepo.FindPendingApproval(ctx, actor.CompanyID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for idx := range orders {
		responses[idx] = ToOrderResponse(&orders[idx])
	}
	return responses, nil
}

// ListOrders returns one page of the company's orders with the total count
func (s *OrderService) ListOrders(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	filter = filter.Normalize()

	total, err := s.orderRepo.CountForCompany(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAllForCompany(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, len(orders))
	for idx := range orders {
		responses[idx] = ToOrderResponse(&orders[idx])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// authorizeOrderEdit allows the order's creator and managers through
func (s *OrderService) authorizeOrderEdit(order *trade.SalesOrder, actor identity.Actor) error {
	if actor.UserID == order.CreatedBy || actor.Role.IsManagerial() {
		return nil
	}
	return shared.ErrForbidden
}

// releaseOrderReservations returns every line's reservation to its
// source location. Releases are clamped per record, so a retried
// cancellation cannot over-credit. Rows are locked in a fixed
// location-then-product order so two concurrent cancellations cannot
// deadlock on overlapping records.
func (s *OrderService) releaseOrderReservations(ctx context.Context, repos appinventory.TransactionalRepositories, actor identity.Actor, order *trade.SalesOrder) error {
	items := make([]*trade.SalesOrderItem, len(order.Items))
	for idx := range order.Items {
		items[idx] = &order.Items[idx]
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Location().Equals(items[j].Location()) {
			return items[i].Location().Less(items[j].Location())
		}
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	for _, item := range items {
		location := item.Location()

		record, err := repos.StockRecords().FindForUpdate(ctx, order.CompanyID, location, item.ProductID)
		if err != nil {
			return err
		}
		released, err := record.Release(item.Quantity)
		if err != nil {
			return err
		}
		if err := repos.StockRecords().SaveGuarded(ctx, record); err != nil {
			return err
		}
		if released > 0 {
			movement, err := inventory.NewStockMovement(record, inventory.MovementRelease, released, order.OrderNumber, "Order cancelled", actor.UserID)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}
	}
	return nil
}
