package inventory

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
)

// LedgerService owns all quantity mutations on stock records. Every
// mutation runs inside a transaction scope, takes a row lock on the
// record, applies the domain operation, and appends a movement entry
// in the same commit.
type LedgerService struct {
	scope          TransactionScope
	recordRepo     inventory.StockRecordRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
	logger         *zap.Logger

	// verifyAfterWrite re-reads the record after saving and fails the
	// transaction if the stored quantities disagree with the aggregate.
	// The guarded save already prevents lost updates; this is an extra
	// integrity check some deployments keep enabled.
	verifyAfterWrite bool
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	recordRepo inventory.StockRecordRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		scope:        scope,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
		validate:     validator.New(),
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetVerifyAfterWrite toggles the post-save integrity re-read
func (s *LedgerService) SetVerifyAfterWrite(enabled bool) {
	s.verifyAfterWrite = enabled
}

// publishDomainEvents hands the aggregate's events to the bus.
// Publish errors are logged by the bus, never propagated.
func (s *LedgerService) publishDomainEvents(ctx context.Context, record *inventory.StockRecord) {
	if s.eventPublisher == nil {
		record.ClearDomainEvents()
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	record.ClearDomainEvents()
}

// mutate loads the locked record for the key, applies fn, saves it with
// the version guard and appends a movement entry when movementType is
// non-empty. The quantity recorded is whatever fn returns.
func (s *LedgerService) mutate(ctx context.Context, companyID uuid.UUID, key StockKey, movementType inventory.MovementType, reference, note string, actorID uuid.UUID, fn func(record *inventory.StockRecord) (int64, error)) (*StockRecordResponse, error) {
	location, err := key.Location()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}

	var result *inventory.StockRecord
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.StockRecords().GetOrCreate(ctx, companyID, location, key.ProductID); err != nil {
			return err
		}

		record, err := repos.StockRecords().FindForUpdate(ctx, companyID, location, key.ProductID)
		if err != nil {
			return err
		}

		quantity, err := fn(record)
		if err != nil {
			return err
		}

		if err := repos.StockRecords().SaveGuarded(ctx, record); err != nil {
			return err
		}

		if movementType != "" && quantity > 0 {
			movement, err := inventory.NewStockMovement(record, movementType, quantity, reference, note, actorID)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}

		if s.verifyAfterWrite {
			stored, err := repos.StockRecords().FindByLocationAndProduct(ctx, companyID, location, key.ProductID)
			if err != nil {
				return err
			}
			if stored.CurrentQuantity != record.CurrentQuantity || stored.ReservedQuantity != record.ReservedQuantity {
				s.logger.Error("stored stock quantities diverge from aggregate",
					zap.String("record_id", record.ID.String()),
					zap.Int64("stored_current", stored.CurrentQuantity),
					zap.Int64("expected_current", record.CurrentQuantity))
				return shared.ErrPersistenceIntegrity
			}
		}

		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, result)

	response := ToStockRecordResponse(result)
	return &response, nil
}

// Increase adds physical units to a location, creating the record on
// first receipt
func (s *LedgerService) Increase(ctx context.Context, companyID uuid.UUID, req AdjustStockRequest) (*StockRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, companyID, req.StockKey, inventory.MovementReceipt, req.Reference, req.Note, req.ActorID,
		func(record *inventory.StockRecord) (int64, error) {
			return req.Quantity, record.Increase(req.Quantity)
		})
}

// Withdraw removes unreserved physical units from a location, e.g. a
// point-of-sale transaction or a write-off
func (s *LedgerService) Withdraw(ctx context.Context, companyID uuid.UUID, req AdjustStockRequest) (*StockRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, companyID, req.StockKey, inventory.MovementIssue, req.Reference, req.Note, req.ActorID,
		func(record *inventory.StockRecord) (int64, error) {
			return req.Quantity, record.Decrease(req.Quantity)
		})
}

// Reserve earmarks available stock for a pending order. Reservations
// do not move goods, so no movement entry is written.
func (s *LedgerService) Reserve(ctx context.Context, companyID uuid.UUID, req ReserveStockRequest) (*StockRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, companyID, req.StockKey, "", req.Reference, "", req.ActorID,
		func(record *inventory.StockRecord) (int64, error) {
			return 0, record.Reserve(req.Quantity)
		})
}

// Release returns reserved stock to the available pool. Over-releases
// are clamped, so retrying a cancellation is safe.
func (s *LedgerService) Release(ctx context.Context, companyID uuid.UUID, req ReserveStockRequest) (*StockRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, companyID, req.StockKey, inventory.MovementRelease, req.Reference, "", req.ActorID,
		func(record *inventory.StockRecord) (int64, error) {
			released, err := record.Release(req.Quantity)
			return released, err
		})
}

// CommitReservation turns a reservation into a final withdrawal and
// writes the SALE movement
func (s *LedgerService) CommitReservation(ctx context.Context, companyID uuid.UUID, req ReserveStockRequest) (*StockRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, companyID, req.StockKey, inventory.MovementSale, req.Reference, "", req.ActorID,
		func(record *inventory.StockRecord) (int64, error) {
			return req.Quantity, record.CommitReservation(req.Quantity)
		})
}

// GetRecord returns the ledger state for a location-product combination
func (s *LedgerService) GetRecord(ctx context.Context, companyID uuid.UUID, key StockKey) (*StockRecordResponse, error) {
	location, err := key.Location()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}

	record, err := s.recordRepo.FindByLocationAndProduct(ctx, companyID, location, key.ProductID)
	if err != nil {
		return nil, err
	}

	response := ToStockRecordResponse(record)
	return &response, nil
}

// GetMovements returns the movement history for a location-product
// combination, newest first
func (s *LedgerService) GetMovements(ctx context.Context, companyID uuid.UUID, key StockKey, filter MovementListFilter) ([]StockMovementResponse, error) {
	if err := s.validate.Struct(filter); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	location, err := key.Location()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}

	record, err := s.recordRepo.FindByLocationAndProduct(ctx, companyID, location, key.ProductID)
	if err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.MovementType != "" {
		domainFilter.Filters["movement_type"] = filter.MovementType
	}

	movements, err := s.movementRepo.FindByStockRecord(ctx, record.ID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToStockMovementResponses(movements), nil
}

// TotalMoved sums all outbound units that ever left a location for a product
func (s *LedgerService) TotalMoved(ctx context.Context, companyID uuid.UUID, key StockKey) (int64, error) {
	location, err := key.Location()
	if err != nil {
		return 0, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}

	record, err := s.recordRepo.FindByLocationAndProduct(ctx, companyID, location, key.ProductID)
	if err != nil {
		return 0, err
	}

	return s.movementRepo.TotalMoved(ctx, record.ID)
}

// TotalOnHand sums a product's on-hand quantity across every location
func (s *LedgerService) TotalOnHand(ctx context.Context, companyID, productID uuid.UUID) (int64, error) {
	return s.recordRepo.SumQuantityByProduct(ctx, companyID, productID)
}
