package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
)

func TestGormStockMovementRepository(t *testing.T) {
	db := setupStockTestDB(t)
	records := NewGormStockRecordRepository(db)
	movements := NewGormStockMovementRepository(db)
	ctx := context.Background()

	companyID := uuid.New()
	actorID := uuid.New()

	newRecordWithStock := func(t *testing.T, qty int64) *inventory.StockRecord {
		t.Helper()
		record, err := records.GetOrCreate(ctx, companyID, warehouseLocation(t), uuid.New())
		require.NoError(t, err)
		require.NoError(t, record.Increase(qty))
		require.NoError(t, records.SaveGuarded(ctx, record))
		return record
	}

	record := newRecordWithStock(t, 500)

	recordMovement := func(t *testing.T, movementType inventory.MovementType, qty int64, reference string) {
		t.Helper()
		m, err := inventory.NewStockMovement(record, movementType, qty, reference, "", actorID)
		require.NoError(t, err)
		require.NoError(t, movements.Create(ctx, m))
	}

	recordMovement(t, inventory.MovementReceipt, 500, "PO-1001")
	recordMovement(t, inventory.MovementIssue, 40, "ADJ-1")
	recordMovement(t, inventory.MovementSale, 60, "SO-AB12CD34")
	recordMovement(t, inventory.MovementTransferOut, 25, "TRANSFER-EF56AB78")
	recordMovement(t, inventory.MovementRelease, 10, "SO-AB12CD34")

	t.Run("FindByStockRecord returns all movements", func(t *testing.T) {
		found, err := movements.FindByStockRecord(ctx, record.ID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, found, 5)
	})

	t.Run("FindByStockRecord filters by movement type", func(t *testing.T) {
		found, err := movements.FindByStockRecord(ctx, record.ID, shared.Filter{
			Filters: map[string]interface{}{"movement_type": inventory.MovementSale},
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, int64(60), found[0].Quantity)
	})

	t.Run("FindByReference collects movements across types", func(t *testing.T) {
		found, err := movements.FindByReference(ctx, companyID, "SO-AB12CD34")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, inventory.MovementSale, found[0].MovementType)
		assert.Equal(t, inventory.MovementRelease, found[1].MovementType)
	})

	t.Run("FindByReference is company scoped", func(t *testing.T) {
		found, err := movements.FindByReference(ctx, uuid.New(), "SO-AB12CD34")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("SumByType totals one movement type", func(t *testing.T) {
		total, err := movements.SumByType(ctx, record.ID, inventory.MovementReceipt)
		require.NoError(t, err)
		assert.Equal(t, int64(500), total)

		total, err = movements.SumByType(ctx, record.ID, inventory.MovementAdjustment)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("TotalMoved sums only outbound movements", func(t *testing.T) {
		total, err := movements.TotalMoved(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(125), total)
	})

	t.Run("CreateBatch writes all movements", func(t *testing.T) {
		other := newRecordWithStock(t, 100)

		first, err := inventory.NewStockMovement(other, inventory.MovementReceipt, 100, "PO-2002", "", actorID)
		require.NoError(t, err)
		second, err := inventory.NewStockMovement(other, inventory.MovementIssue, 30, "ADJ-2", "", actorID)
		require.NoError(t, err)

		require.NoError(t, movements.CreateBatch(ctx, []*inventory.StockMovement{first, second}))

		found, err := movements.FindByStockRecord(ctx, other.ID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		require.NoError(t, movements.CreateBatch(ctx, nil))
	})
}
