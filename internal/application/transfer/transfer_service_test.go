package transfer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinventory "github.com/inventsight/backend/internal/application/inventory"
	"github.com/inventsight/backend/internal/domain/identity"
	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
	"github.com/inventsight/backend/internal/domain/transfer"
)

// ---- in-memory fakes ----

type memStockRecords struct {
	records map[string]*inventory.StockRecord
}

func newMemStockRecords() *memStockRecords {
	return &memStockRecords{records: make(map[string]*inventory.StockRecord)}
}

func stockKey(companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) string {
	return companyID.String() + "|" + location.Key() + "|" + productID.String()
}

func (r *memStockRecords) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	for _, record := range r.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRecords) FindByLocationAndProduct(_ context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*inventory.StockRecord, error) {
	record, ok := r.records[stockKey(companyID, location, productID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return record, nil
}

func (r *memStockRecords) FindForUpdate(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*inventory.StockRecord, error) {
	return r.FindByLocationAndProduct(ctx, companyID, location, productID)
}

func (r *memStockRecords) FindByLocation(_ context.Context, _ uuid.UUID, _ valueobject.Location, _ shared.Filter) ([]inventory.StockRecord, error) {
	return nil, nil
}

func (r *memStockRecords) FindByProduct(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]inventory.StockRecord, error) {
	return nil, nil
}

func (r *memStockRecords) Save(_ context.Context, record *inventory.StockRecord) error {
	location, err := valueobject.NewLocation(record.LocationType, record.LocationID)
	if err != nil {
		return err
	}
	r.records[stockKey(record.CompanyID, location, record.ProductID)] = record
	return nil
}

func (r *memStockRecords) SaveGuarded(ctx context.Context, record *inventory.StockRecord) error {
	return r.Save(ctx, record)
}

func (r *memStockRecords) GetOrCreate(ctx context.Context, companyID uuid.UUID, location valueobject.Location, productID uuid.UUID) (*inventory.StockRecord, error) {
	if record, err := r.FindByLocationAndProduct(ctx, companyID, location, productID); err == nil {
		return record, nil
	}
	record, err := inventory.NewStockRecord(companyID, location, productID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *memStockRecords) SumQuantityByProduct(_ context.Context, companyID, productID uuid.UUID) (int64, error) {
	var total int64
	for _, record := range r.records {
		if record.CompanyID == companyID && record.ProductID == productID {
			total += record.CurrentQuantity
		}
	}
	return total, nil
}

func (r *memStockRecords) CountForCompany(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.records)), nil
}

type memMovements struct {
	entries []*inventory.StockMovement
}

func (r *memMovements) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.entries = append(r.entries, movement)
	return nil
}

func (r *memMovements) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	for _, movement := range movements {
		if err := r.Create(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMovements) FindByStockRecord(_ context.Context, stockRecordID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, entry := range r.entries {
		if entry.StockRecordID == stockRecordID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *memMovements) FindByReference(_ context.Context, companyID uuid.UUID, reference string) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, entry := range r.entries {
		if entry.CompanyID == companyID && entry.Reference == reference {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *memMovements) FindByDateRange(_ context.Context, _ uuid.UUID, _, _ time.Time, _ shared.Filter) ([]inventory.StockMovement, error) {
	return nil, nil
}

func (r *memMovements) SumByType(_ context.Context, stockRecordID uuid.UUID, movementType inventory.MovementType) (int64, error) {
	var total int64
	for _, entry := range r.entries {
		if entry.StockRecordID == stockRecordID && entry.MovementType == movementType {
			total += entry.Quantity
		}
	}
	return total, nil
}

func (r *memMovements) TotalMoved(_ context.Context, stockRecordID uuid.UUID) (int64, error) {
	var total int64
	for _, entry := range r.entries {
		if entry.StockRecordID == stockRecordID && entry.MovementType.IsOutbound() {
			total += entry.Quantity
		}
	}
	return total, nil
}

type memTransfers struct {
	transfers map[uuid.UUID]*transfer.TransferRequest
}

func newMemTransfers() *memTransfers {
	return &memTransfers{transfers: make(map[uuid.UUID]*transfer.TransferRequest)}
}

func (r *memTransfers) FindByID(_ context.Context, id uuid.UUID) (*transfer.TransferRequest, error) {
	t, ok := r.transfers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *memTransfers) FindByIDForCompany(_ context.Context, companyID, id uuid.UUID) (*transfer.TransferRequest, error) {
	t, ok := r.transfers[id]
	if !ok || t.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *memTransfers) FindByReference(_ context.Context, companyID uuid.UUID, reference string) (*transfer.TransferRequest, error) {
	for _, t := range r.transfers {
		if t.CompanyID == companyID && t.ReferenceNumber == reference {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransfers) FindByStatus(_ context.Context, companyID uuid.UUID, status transfer.TransferStatus, _ shared.Filter) ([]transfer.TransferRequest, error) {
	var out []transfer.TransferRequest
	for _, t := range r.transfers {
		if t.CompanyID == companyID && t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTransfers) FindPending(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]transfer.TransferRequest, error) {
	return r.FindByStatus(ctx, companyID, transfer.TransferStatusPending, filter)
}

func (r *memTransfers) FindByRequester(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]transfer.TransferRequest, error) {
	return nil, nil
}

func (r *memTransfers) FindByLocation(_ context.Context, companyID uuid.UUID, location valueobject.Location, _ shared.Filter) ([]transfer.TransferRequest, error) {
	var out []transfer.TransferRequest
	for _, t := range r.transfers {
		if t.CompanyID != companyID {
			continue
		}
		if t.SourceLocation().Equals(location) || t.DestLocation().Equals(location) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTransfers) FindInFlight(_ context.Context, companyID uuid.UUID, _ shared.Filter) ([]transfer.TransferRequest, error) {
	var out []transfer.TransferRequest
	for _, t := range r.transfers {
		if t.CompanyID == companyID && t.DeductedQuantity > 0 && !t.Status.IsTerminal() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTransfers) FindByDateRange(_ context.Context, _ uuid.UUID, _, _ time.Time, _ shared.Filter) ([]transfer.TransferRequest, error) {
	return nil, nil
}

func (r *memTransfers) Save(_ context.Context, t *transfer.TransferRequest) error {
	r.transfers[t.ID] = t
	return nil
}

func (r *memTransfers) SaveGuarded(ctx context.Context, t *transfer.TransferRequest) error {
	return r.Save(ctx, t)
}

func (r *memTransfers) CountForCompany(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.transfers)), nil
}

func (r *memTransfers) CountByStatus(ctx context.Context, companyID uuid.UUID, status transfer.TransferStatus) (int64, error) {
	found, err := r.FindByStatus(ctx, companyID, status, shared.DefaultFilter())
	if err != nil {
		return 0, err
	}
	return int64(len(found)), nil
}

type memProducts struct {
	products map[uuid.UUID]*ProductInfo
}

func (p *memProducts) Lookup(_ context.Context, _, productID uuid.UUID) (*ProductInfo, error) {
	product, ok := p.products[productID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

// ---- fixture ----

type transferServiceFixture struct {
	service   *TransferService
	records   *memStockRecords
	movements *memMovements
	transfers *memTransfers
	companyID uuid.UUID
	employee  identity.Actor
	manager   identity.Actor
	productID uuid.UUID
	warehouse valueobject.Location
	store     valueobject.Location
}

func newTransferServiceFixture(t *testing.T) *transferServiceFixture {
	t.Helper()

	companyID := uuid.New()
	employee, err := identity.NewActor(uuid.New(), companyID, identity.RoleEmployee)
	require.NoError(t, err)
	manager, err := identity.NewActor(uuid.New(), companyID, identity.RoleManager)
	require.NoError(t, err)

	productID := uuid.New()
	warehouse, err := valueobject.NewWarehouseLocation(uuid.New())
	require.NoError(t, err)
	store, err := valueobject.NewStoreLocation(uuid.New())
	require.NoError(t, err)

	records := newMemStockRecords()
	movements := &memMovements{}
	transfers := newMemTransfers()
	products := &memProducts{products: map[uuid.UUID]*ProductInfo{
		productID: {ID: productID, Name: "Barcode Scanner", SKU: "BS-4278"},
	}}

	scope := appinventory.NewNoOpTransactionScope(records, movements, nil, transfers)
	service := NewTransferService(scope, transfers, products, zap.NewNop())

	return &transferServiceFixture{
		service:   service,
		records:   records,
		movements: movements,
		transfers: transfers,
		companyID: companyID,
		employee:  employee,
		manager:   manager,
		productID: productID,
		warehouse: warehouse,
		store:     store,
	}
}

func (f *transferServiceFixture) seedStock(t *testing.T, location valueobject.Location, quantity int64) {
	t.Helper()
	record, err := f.records.GetOrCreate(context.Background(), f.companyID, location, f.productID)
	require.NoError(t, err)
	require.NoError(t, record.Increase(quantity))
	record.ClearDomainEvents()
}

func (f *transferServiceFixture) onHand(t *testing.T, location valueobject.Location) int64 {
	t.Helper()
	record, err := f.records.FindByLocationAndProduct(context.Background(), f.companyID, location, f.productID)
	if errors.Is(err, shared.ErrNotFound) {
		return 0
	}
	require.NoError(t, err)
	return record.CurrentQuantity
}

func (f *transferServiceFixture) createTransfer(t *testing.T, quantity int64) *TransferResponse {
	t.Helper()
	resp, err := f.service.Create(context.Background(), f.employee, CreateTransferRequest{
		ProductID:          f.productID,
		SourceLocationType: string(f.warehouse.Type()),
		SourceLocationID:   f.warehouse.ID(),
		DestLocationType:   string(f.store.Type()),
		DestLocationID:     f.store.ID(),
		Quantity:           quantity,
	})
	require.NoError(t, err)
	return resp
}

func quantityPtr(v int64) *int64 { return &v }

// ---- tests ----

func TestTransferService_Create(t *testing.T) {
	f := newTransferServiceFixture(t)

	resp := f.createTransfer(t, 100)

	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, strings.HasPrefix(resp.ReferenceNumber, "TRANSFER-"))
	assert.Equal(t, "Barcode Scanner", resp.ProductName)
	assert.Equal(t, "BS-4278", resp.ProductSKU)
	assert.Equal(t, int64(100), resp.RequestedQuantity)
	assert.Equal(t, f.employee.UserID, resp.RequestedBy)
}

func TestTransferService_Create_SameLocation(t *testing.T) {
	f := newTransferServiceFixture(t)

	_, err := f.service.Create(context.Background(), f.employee, CreateTransferRequest{
		ProductID:          f.productID,
		SourceLocationType: string(f.warehouse.Type()),
		SourceLocationID:   f.warehouse.ID(),
		DestLocationType:   string(f.warehouse.Type()),
		DestLocationID:     f.warehouse.ID(),
		Quantity:           10,
	})
	assert.Error(t, err)
}

func TestTransferService_Approve_RequiresManager(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 100)

	_, err := f.service.Approve(context.Background(), f.employee, created.ID, ApproveTransferRequest{})
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	resp, err := f.service.Approve(context.Background(), f.manager, created.ID, ApproveTransferRequest{Quantity: quantityPtr(80)})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	require.NotNil(t, resp.ApprovedQuantity)
	assert.Equal(t, int64(80), *resp.ApprovedQuantity)
}

func TestTransferService_MarkReady_ChecksAvailability(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 100)
	_, err := f.service.Approve(context.Background(), f.manager, created.ID, ApproveTransferRequest{})
	require.NoError(t, err)

	// no stock at the source yet
	_, err = f.service.MarkReady(context.Background(), f.manager, created.ID)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	f.seedStock(t, f.warehouse, 100)
	resp, err := f.service.MarkReady(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "READY", resp.Status)
}

func TestTransferService_ForwardSteps_ManagerOnly(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 50)
	_, err := f.service.Approve(context.Background(), f.manager, created.ID, ApproveTransferRequest{})
	require.NoError(t, err)

	_, err = f.service.MarkReady(context.Background(), f.employee, created.ID)
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	_, err = f.service.MarkReady(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	_, err = f.service.Pickup(context.Background(), f.employee, created.ID, ShipTransferRequest{Carrier: "DHL"})
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	assert.Equal(t, int64(100), f.onHand(t, f.warehouse))

	_, err = f.service.Pickup(context.Background(), f.manager, created.ID, ShipTransferRequest{Carrier: "DHL"})
	require.NoError(t, err)
	_, err = f.service.MarkDelivered(context.Background(), f.employee, created.ID)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestTransferService_Pickup_DeductsTrimmedQuantityOnce(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 100)

	_, err := f.service.Approve(context.Background(), f.manager, created.ID, ApproveTransferRequest{Quantity: quantityPtr(80)})
	require.NoError(t, err)
	_, err = f.service.MarkReady(context.Background(), f.manager, created.ID)
	require.NoError(t, err)

	resp, err := f.service.Pickup(context.Background(), f.manager, created.ID, ShipTransferRequest{Carrier: "DHL", TrackingNumber: "JD0147"})
	require.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", resp.Status)
	assert.Equal(t, int64(80), resp.DeductedQuantity)
	assert.Equal(t, int64(20), f.onHand(t, f.warehouse))

	// a second pickup must not deduct again
	_, err = f.service.Pickup(context.Background(), f.manager, created.ID, ShipTransferRequest{})
	require.Error(t, err)
	assert.Equal(t, int64(20), f.onHand(t, f.warehouse))

	require.Len(t, f.movements.entries, 1)
	assert.Equal(t, inventory.MovementTransferOut, f.movements.entries[0].MovementType)
	assert.Equal(t, int64(80), f.movements.entries[0].Quantity)
	assert.Equal(t, resp.ReferenceNumber, f.movements.entries[0].Reference)
}

func TestTransferService_ApproveAndSend_SkipsReady(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 60)

	_, err := f.service.ApproveAndSend(context.Background(), f.employee, created.ID, ApproveTransferRequest{}, ShipTransferRequest{})
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	resp, err := f.service.ApproveAndSend(context.Background(), f.manager, created.ID, ApproveTransferRequest{}, ShipTransferRequest{Carrier: "UPS"})
	require.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", resp.Status)
	assert.Equal(t, int64(60), resp.DeductedQuantity)
	assert.Equal(t, int64(40), f.onHand(t, f.warehouse))
}

func TestTransferService_Receive_CreditsGoodQuantity(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 100)
	_, err := f.service.ApproveAndSend(context.Background(), f.manager, created.ID, ApproveTransferRequest{}, ShipTransferRequest{})
	require.NoError(t, err)

	resp, err := f.service.Receive(context.Background(), f.employee, created.ID, ReceiveTransferRequest{
		ReceivedQuantity: 95,
		DamagedQuantity:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	require.NotNil(t, resp.ReceivedQuantity)
	assert.Equal(t, int64(95), *resp.ReceivedQuantity)
	assert.Equal(t, int64(5), resp.DamagedQuantity)

	// 5 lost in transit, 5 damaged at the dock: only 90 land
	assert.Equal(t, int64(0), f.onHand(t, f.warehouse))
	assert.Equal(t, int64(90), f.onHand(t, f.store))

	// completed transfers refuse a second count
	_, err = f.service.Receive(context.Background(), f.employee, created.ID, ReceiveTransferRequest{ReceivedQuantity: 95})
	require.Error(t, err)
	assert.Equal(t, int64(90), f.onHand(t, f.store))
}

func TestTransferService_Receive_ViaDelivered(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 50)
	created := f.createTransfer(t, 50)
	_, err := f.service.ApproveAndSend(context.Background(), f.manager, created.ID, ApproveTransferRequest{}, ShipTransferRequest{})
	require.NoError(t, err)

	resp, err := f.service.MarkDelivered(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", resp.Status)

	resp, err = f.service.Receive(context.Background(), f.employee, created.ID, ReceiveTransferRequest{ReceivedQuantity: 50})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, int64(50), f.onHand(t, f.store))
}

func TestTransferService_Receive_MoreThanShipped(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 50)
	created := f.createTransfer(t, 50)
	_, err := f.service.ApproveAndSend(context.Background(), f.manager, created.ID, ApproveTransferRequest{}, ShipTransferRequest{})
	require.NoError(t, err)

	_, err = f.service.Receive(context.Background(), f.employee, created.ID, ReceiveTransferRequest{ReceivedQuantity: 60})
	require.Error(t, err)
	assert.Equal(t, int64(0), f.onHand(t, f.store))
}

func TestTransferService_Reject(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 10)

	_, err := f.service.Reject(context.Background(), f.employee, created.ID, CancelTransferRequest{Reason: "not needed"})
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	resp, err := f.service.Reject(context.Background(), f.manager, created.ID, CancelTransferRequest{Reason: "destination overstocked"})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, "destination overstocked", resp.RejectReason)
}

func TestTransferService_Cancel_PendingByRequester(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 10)

	stranger, err := identity.NewActor(uuid.New(), f.companyID, identity.RoleEmployee)
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), stranger, created.ID, CancelTransferRequest{Reason: "mine now"})
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	resp, err := f.service.Cancel(context.Background(), f.employee, created.ID, CancelTransferRequest{Reason: "ordered by mistake"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestTransferService_CancelBeforePickup_NoCompensation(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 40)
	_, err := f.service.Approve(context.Background(), f.manager, created.ID, ApproveTransferRequest{})
	require.NoError(t, err)

	_, err = f.service.RequestCancel(context.Background(), f.employee, created.ID, CancelTransferRequest{Reason: "plans changed"})
	require.NoError(t, err)

	resp, err := f.service.ApproveCancel(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)

	// nothing left the source, so nothing comes back
	assert.Equal(t, int64(100), f.onHand(t, f.warehouse))
	assert.Empty(t, f.movements.entries)
}

func TestTransferService_CancelAfterPickup_CompensatesSource(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 70)
	_, err := f.service.ApproveAndSend(context.Background(), f.manager, created.ID, ApproveTransferRequest{}, ShipTransferRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(30), f.onHand(t, f.warehouse))

	_, err = f.service.RequestCancel(context.Background(), f.manager, created.ID, CancelTransferRequest{Reason: "truck recalled"})
	require.NoError(t, err)

	resp, err := f.service.ApproveCancel(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)

	assert.Equal(t, int64(100), f.onHand(t, f.warehouse))
	assert.Equal(t, int64(0), f.onHand(t, f.store))

	require.Len(t, f.movements.entries, 2)
	assert.Equal(t, inventory.MovementTransferOut, f.movements.entries[0].MovementType)
	assert.Equal(t, inventory.MovementTransferIn, f.movements.entries[1].MovementType)
	assert.Equal(t, int64(70), f.movements.entries[1].Quantity)
}

func TestTransferService_RejectCancel_RestoresStatus(t *testing.T) {
	f := newTransferServiceFixture(t)
	f.seedStock(t, f.warehouse, 100)
	created := f.createTransfer(t, 30)
	_, err := f.service.ApproveAndSend(context.Background(), f.manager, created.ID, ApproveTransferRequest{}, ShipTransferRequest{})
	require.NoError(t, err)
	_, err = f.service.MarkDelivered(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	_, err = f.service.RequestCancel(context.Background(), f.manager, created.ID, CancelTransferRequest{Reason: "second thoughts"})
	require.NoError(t, err)

	resp, err := f.service.RejectCancel(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", resp.Status)
	assert.Empty(t, resp.CancelReason)

	// the goods can still be received normally
	resp, err = f.service.Receive(context.Background(), f.employee, created.ID, ReceiveTransferRequest{ReceivedQuantity: 30})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, int64(30), f.onHand(t, f.store))
}

func TestTransferService_AppendNote(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 10)

	resp, err := f.service.AppendNote(context.Background(), f.manager, created.ID, AppendNoteRequest{Text: "hold until Monday"})
	require.NoError(t, err)
	assert.Contains(t, resp.Notes, "hold until Monday")
	assert.Contains(t, resp.Notes, f.manager.UserID.String())
}

func TestTransferService_AvailableActions(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 10)

	actions, err := f.service.AvailableActions(context.Background(), f.manager, created.ID)
	require.NoError(t, err)
	assert.Contains(t, actions, transfer.ActionApprove)
	assert.Contains(t, actions, transfer.ActionApproveAndSend)
	assert.Contains(t, actions, transfer.ActionReject)

	actions, err = f.service.AvailableActions(context.Background(), f.employee, created.ID)
	require.NoError(t, err)
	assert.Contains(t, actions, transfer.ActionCancel)
	assert.NotContains(t, actions, transfer.ActionApprove)
}

func TestTransferService_ListPending(t *testing.T) {
	f := newTransferServiceFixture(t)
	created := f.createTransfer(t, 10)
	f.createTransfer(t, 20)

	_, err := f.service.Approve(context.Background(), f.manager, created.ID, ApproveTransferRequest{})
	require.NoError(t, err)

	pending, err := f.service.ListPending(context.Background(), f.manager)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(20), pending[0].RequestedQuantity)
}
