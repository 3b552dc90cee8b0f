package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

func createTestOrder(t *testing.T) *SalesOrder {
	t.Helper()
	order, err := NewSalesOrder(uuid.New(), "SO-2026-0001", uuid.New(), "Acme Retail", uuid.New())
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *SalesOrder, quantity int64, discount decimal.Decimal) *SalesOrderItem {
	t.Helper()
	location, err := valueobject.NewStoreLocation(uuid.New())
	require.NoError(t, err)
	price, err := valueobject.NewMoneyFromString("19.99", valueobject.USD)
	require.NoError(t, err)
	item, err := order.AddItem(uuid.New(), "Wireless Mouse", "WM-100", location, quantity, price, discount)
	require.NoError(t, err)
	return item
}

func TestNewSalesOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		order := createTestOrder(t)

		assert.Equal(t, OrderStatusDraft, order.Status)
		assert.Empty(t, order.Items)
		assert.False(t, order.RequiresManagerApproval)
		assert.True(t, order.TotalAmount.IsZero())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSalesOrderCreated, events[0].EventType())
	})

	t.Run("fails without order number", func(t *testing.T) {
		order, err := NewSalesOrder(uuid.New(), "", uuid.New(), "Acme", uuid.New())

		require.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails without creator", func(t *testing.T) {
		order, err := NewSalesOrder(uuid.New(), "SO-1", uuid.New(), "Acme", uuid.Nil)

		require.Error(t, err)
		assert.Nil(t, order)
	})
}

func TestSalesOrder_AddItem(t *testing.T) {
	t.Run("adds item and recalculates total", func(t *testing.T) {
		order := createTestOrder(t)

		item := addTestItem(t, order, 4, decimal.Zero)

		assert.Len(t, order.Items, 1)
		assert.Equal(t, "79.96", item.LineTotal.StringFixed(2))
		assert.Equal(t, "79.96", order.TotalAmount.StringFixed(2))
	})

	t.Run("applies line discount to the total", func(t *testing.T) {
		order := createTestOrder(t)

		addTestItem(t, order, 10, decimal.NewFromInt(10))

		// 10 * 19.99 = 199.90, minus 10% = 179.91
		assert.Equal(t, "179.91", order.TotalAmount.StringFixed(2))
	})

	t.Run("rejects duplicate product at same location", func(t *testing.T) {
		order := createTestOrder(t)
		location, err := valueobject.NewStoreLocation(uuid.New())
		require.NoError(t, err)
		price, err := valueobject.NewMoneyFromString("5.00", valueobject.USD)
		require.NoError(t, err)
		productID := uuid.New()

		_, err = order.AddItem(productID, "Widget", "W-1", location, 1, price, decimal.Zero)
		require.NoError(t, err)
		_, err = order.AddItem(productID, "Widget", "W-1", location, 2, price, decimal.Zero)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already ordered")
	})

	t.Run("allows same product from different locations", func(t *testing.T) {
		order := createTestOrder(t)
		locA, err := valueobject.NewStoreLocation(uuid.New())
		require.NoError(t, err)
		locB, err := valueobject.NewWarehouseLocation(uuid.New())
		require.NoError(t, err)
		price, err := valueobject.NewMoneyFromString("5.00", valueobject.USD)
		require.NoError(t, err)
		productID := uuid.New()

		_, err = order.AddItem(productID, "Widget", "W-1", locA, 1, price, decimal.Zero)
		require.NoError(t, err)
		_, err = order.AddItem(productID, "Widget", "W-1", locB, 2, price, decimal.Zero)

		require.NoError(t, err)
		assert.Len(t, order.SourceLocations(), 2)
	})

	t.Run("rejects items once submitted", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		require.NoError(t, order.Submit())

		_, err := order.AddItem(uuid.New(), "Widget", "W-1", order.Items[0].Location(), 1, valueobject.Zero(valueobject.USD), decimal.Zero)

		require.Error(t, err)
	})

	t.Run("rejects discount above 100 percent", func(t *testing.T) {
		order := createTestOrder(t)
		location, err := valueobject.NewStoreLocation(uuid.New())
		require.NoError(t, err)
		price, err := valueobject.NewMoneyFromString("5.00", valueobject.USD)
		require.NoError(t, err)

		_, err = order.AddItem(uuid.New(), "Widget", "W-1", location, 1, price, decimal.NewFromInt(120))

		require.Error(t, err)
	})
}

func TestSalesOrder_FlagForApproval(t *testing.T) {
	order := createTestOrder(t)

	order.FlagForApproval("Discount exceeds limit")
	order.FlagForApproval("another reason")

	assert.True(t, order.RequiresManagerApproval)
	assert.Equal(t, "Discount exceeds limit", order.ApprovalReason)
}

func TestSalesOrder_Submit(t *testing.T) {
	t.Run("confirms immediately when no approval needed", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 2, decimal.Zero)

		require.NoError(t, order.Submit())

		assert.Equal(t, OrderStatusConfirmed, order.Status)
		assert.NotNil(t, order.ConfirmedAt)
	})

	t.Run("parks flagged orders for manager approval", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 2, decimal.Zero)
		order.FlagForApproval("cross-location order")

		require.NoError(t, order.Submit())

		assert.Equal(t, OrderStatusPendingApproval, order.Status)
		assert.Nil(t, order.ConfirmedAt)
	})

	t.Run("fails with no items", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.Submit()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "without items")
	})

	t.Run("fails when already submitted", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		require.NoError(t, order.Submit())

		require.Error(t, order.Submit())
	})
}

func TestSalesOrder_Approve(t *testing.T) {
	t.Run("confirms a pending order", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		order.FlagForApproval("needs sign-off")
		require.NoError(t, order.Submit())
		approver := uuid.New()

		require.NoError(t, order.Approve(approver))

		assert.Equal(t, OrderStatusConfirmed, order.Status)
		require.NotNil(t, order.ApprovedBy)
		assert.Equal(t, approver, *order.ApprovedBy)
	})

	t.Run("fails when order is not pending", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		require.NoError(t, order.Submit())

		require.Error(t, order.Approve(uuid.New()))
	})
}

func TestSalesOrder_CancelFlows(t *testing.T) {
	t.Run("draft order cancels directly", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.Cancel("changed mind"))

		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "changed mind", order.CancelReason)
	})

	t.Run("pending order goes through a cancel request", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		order.FlagForApproval("big discount")
		require.NoError(t, order.Submit())

		require.Error(t, order.Cancel("rejected"))
		require.NoError(t, order.RequestCancel("rejected"))

		assert.Equal(t, OrderStatusCancelRequested, order.Status)
		require.NoError(t, order.ApproveCancel(uuid.New()))
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("confirmed order needs a cancel request", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		require.NoError(t, order.Submit())

		require.Error(t, order.Cancel("too late"))
		require.NoError(t, order.RequestCancel("customer backed out"))

		assert.Equal(t, OrderStatusCancelRequested, order.Status)
	})

	t.Run("approve cancel finishes the cancellation", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		require.NoError(t, order.Submit())
		require.NoError(t, order.RequestCancel("customer backed out"))

		require.NoError(t, order.ApproveCancel(uuid.New()))

		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("reject cancel restores confirmed status", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, 1, decimal.Zero)
		require.NoError(t, order.Submit())
		require.NoError(t, order.RequestCancel("maybe not"))

		require.NoError(t, order.RejectCancel())

		assert.Equal(t, OrderStatusConfirmed, order.Status)
		assert.Empty(t, order.CancelReason)
	})

	t.Run("cancelled order is terminal", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Cancel("done"))

		require.Error(t, order.Cancel("again"))
		require.Error(t, order.RequestCancel("again"))
		assert.True(t, order.Status.IsTerminal())
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, OrderStatusDraft.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusDraft.CanTransitionTo(OrderStatusPendingApproval))
	assert.True(t, OrderStatusPendingApproval.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusCancelRequested))
	assert.True(t, OrderStatusCancelRequested.CanTransitionTo(OrderStatusConfirmed))

	assert.False(t, OrderStatusDraft.CanTransitionTo(OrderStatusCancelRequested))
	assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusDraft))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusDraft))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))
}
