package transfer

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/inventsight/backend/internal/application/inventory"
	"github.com/inventsight/backend/internal/domain/identity"
	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
	"github.com/inventsight/backend/internal/domain/transfer"
)

// ProductInfo is the catalog snapshot copied onto a transfer
type ProductInfo struct {
	ID   uuid.UUID
	Name string
	SKU  string
}

// ProductLookup resolves product snapshots for transfers
type ProductLookup interface {
	Lookup(ctx context.Context, companyID, productID uuid.UUID) (*ProductInfo, error)
}

// TransferService drives the transfer lifecycle. Every mutation is
// permission-checked through the gate, and the two ledger touch points
// happen inside the same transaction as the status change: the source
// is debited when the transfer goes in transit, the destination is
// credited with the undamaged count when it completes.
type TransferService struct {
	scope          appinventory.TransactionScope
	transferRepo   transfer.TransferRequestRepository
	products       ProductLookup
	gate           *transfer.PermissionGate
	eventPublisher shared.EventPublisher
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	scope appinventory.TransactionScope,
	transferRepo transfer.TransferRequestRepository,
	products ProductLookup,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		scope:        scope,
		transferRepo: transferRepo,
		products:     products,
		gate:         transfer.NewPermissionGate(),
		validate:     validator.New(),
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransferService) publishDomainEvents(ctx context.Context, t *transfer.TransferRequest) {
	if s.eventPublisher == nil {
		t.ClearDomainEvents()
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	t.ClearDomainEvents()
}

// Create opens a transfer request in PENDING status
func (s *TransferService) Create(ctx context.Context, actor identity.Actor, req CreateTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	source, err := valueobject.NewLocation(valueobject.LocationType(req.SourceLocationType), req.SourceLocationID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}
	dest, err := valueobject.NewLocation(valueobject.LocationType(req.DestLocationType), req.DestLocationID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", err.Error())
	}

	product, err := s.products.Lookup(ctx, actor.CompanyID, req.ProductID)
	if err != nil {
		return nil, err
	}

	t, err := transfer.NewTransferRequest(actor.CompanyID, product.ID, product.Name, product.SKU, source, dest, req.Quantity, actor.UserID)
	if err != nil {
		return nil, err
	}
	if req.Note != "" {
		if err := t.AppendNote(actor.UserID, req.Note); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, t)
	s.logger.Info("transfer requested",
		zap.String("reference", t.ReferenceNumber),
		zap.String("company_id", t.CompanyID.String()),
		zap.Int64("quantity", t.RequestedQuantity))

	response := ToTransferResponse(t)
	return &response, nil
}

// Approve releases a pending transfer, optionally trimming the quantity
func (s *TransferService) Approve(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req ApproveTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionApprove, func(_ appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		return t.Approve(actor.UserID, req.Quantity)
	})
}

// ApproveAndSend approves a pending transfer and puts it straight in
// transit, debiting the source in the same transaction
func (s *TransferService) ApproveAndSend(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req ApproveTransferRequest, ship ShipTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if err := s.validate.Struct(ship); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionApproveAndSend, func(repos appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		if err := t.Approve(actor.UserID, req.Quantity); err != nil {
			return err
		}
		if err := t.StartTransit(ship.Carrier, ship.TrackingNumber); err != nil {
			return err
		}
		return s.debitSource(ctx, repos, actor, t)
	})
}

// MarkReady records that the goods are packed, after checking the
// source can still cover the approved quantity
func (s *TransferService) MarkReady(ctx context.Context, actor identity.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	return s.mutate(ctx, actor, transferID, transfer.ActionMarkReady, func(repos appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		record, err := repos.StockRecords().FindForUpdate(ctx, t.CompanyID, t.SourceLocation(), t.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewStockError(0, t.EffectiveQuantity())
			}
			return err
		}
		if record.Available() < t.EffectiveQuantity() {
			return shared.NewStockError(record.Available(), t.EffectiveQuantity())
		}
		return t.MarkReady(actor.UserID)
	})
}

// Pickup puts a packed transfer in transit and debits the source
func (s *TransferService) Pickup(ctx context.Context, actor identity.Actor, transferID uuid.UUID, ship ShipTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(ship); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionPickup, func(repos appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		if err := t.StartTransit(ship.Carrier, ship.TrackingNumber); err != nil {
			return err
		}
		return s.debitSource(ctx, repos, actor, t)
	})
}

// MarkDelivered records arrival at the destination dock
func (s *TransferService) MarkDelivered(ctx context.Context, actor identity.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	return s.mutate(ctx, actor, transferID, transfer.ActionMarkDelivered, func(_ appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		return t.MarkDelivered()
	})
}

// Receive counts the goods, completes the transfer, and credits the
// undamaged portion to the destination. Damaged units are written off.
func (s *TransferService) Receive(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req ReceiveTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionReceive, func(repos appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		if err := t.Receive(actor.UserID, req.ReceivedQuantity, req.DamagedQuantity); err != nil {
			return err
		}

		good := t.GoodQuantity()
		if good == 0 {
			return nil
		}
		if _, err := repos.StockRecords().GetOrCreate(ctx, t.CompanyID, t.DestLocation(), t.ProductID); err != nil {
			return err
		}
		record, err := repos.StockRecords().FindForUpdate(ctx, t.CompanyID, t.DestLocation(), t.ProductID)
		if err != nil {
			return err
		}
		if err := record.Increase(good); err != nil {
			return err
		}
		if err := repos.StockRecords().SaveGuarded(ctx, record); err != nil {
			return err
		}
		movement, err := inventory.NewStockMovement(record, inventory.MovementTransferIn, good, t.ReferenceNumber, "Transfer received", actor.UserID)
		if err != nil {
			return err
		}
		return repos.Movements().Create(ctx, movement)
	})
}

// Reject declines a pending transfer for good
func (s *TransferService) Reject(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req CancelTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionReject, func(_ appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		return t.Reject(actor.UserID, req.Reason)
	})
}

// Cancel withdraws a pending transfer; nothing has moved yet
func (s *TransferService) Cancel(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req CancelTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionCancel, func(_ appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		return t.Cancel(req.Reason)
	})
}

// RequestCancel parks an in-progress transfer until a manager rules on it
func (s *TransferService) RequestCancel(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req CancelTransferRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	return s.mutate(ctx, actor, transferID, transfer.ActionRequestCancel, func(_ appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		return t.RequestCancel(req.Reason)
	})
}

// ApproveCancel completes a requested cancellation. If goods had
// already left the source, exactly the deducted quantity is credited
// back in the same transaction.
func (s *TransferService) ApproveCancel(ctx context.Context, actor identity.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	return s.mutate(ctx, actor, transferID, transfer.ActionApproveCancel, func(repos appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		var compensated int64
		if t.NeedsCompensation() {
			compensated = t.DeductedQuantity
			if _, err := repos.StockRecords().GetOrCreate(ctx, t.CompanyID, t.SourceLocation(), t.ProductID); err != nil {
				return err
			}
			record, err := repos.StockRecords().FindForUpdate(ctx, t.CompanyID, t.SourceLocation(), t.ProductID)
			if err != nil {
				return err
			}
			if err := record.Increase(compensated); err != nil {
				return err
			}
			if err := repos.StockRecords().SaveGuarded(ctx, record); err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(record, inventory.MovementTransferIn, compensated, t.ReferenceNumber, "Transfer cancelled, stock returned", actor.UserID)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}
		return t.ApproveCancel(actor.UserID, compensated)
	})
}

// RejectCancel declines a cancellation request and restores the
// transfer to where it was
func (s *TransferService) RejectCancel(ctx context.Context, actor identity.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	return s.mutate(ctx, actor, transferID, transfer.ActionRejectCancel, func(_ appinventory.TransactionalRepositories, t *transfer.TransferRequest) error {
		return t.RejectCancel()
	})
}

// AppendNote adds an attributed note line to the transfer
func (s *TransferService) AppendNote(ctx context.Context, actor identity.Actor, transferID uuid.UUID, req AppendNoteRequest) (*TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	t, err := s.transferRepo.FindByIDForCompany(ctx, actor.CompanyID, transferID)
	if err != nil {
		return nil, err
	}
	if !s.gate.Can(t, actor, transfer.ActionAppendNote) {
		return nil, shared.ErrForbidden
	}
	if err := t.AppendNote(actor.UserID, req.Text); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	response := ToTransferResponse(t)
	return &response, nil
}

// AvailableActions lists what the actor may do to the transfer next
func (s *TransferService) AvailableActions(ctx context.Context, actor identity.Actor, transferID uuid.UUID) ([]transfer.TransferAction, error) {
	t, err := s.transferRepo.FindByIDForCompany(ctx, actor.CompanyID, transferID)
	if err != nil {
		return nil, err
	}
	return s.gate.AvailableActions(t, actor), nil
}

// GetByID returns one transfer
func (s *TransferService) GetByID(ctx context.Context, actor identity.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByIDForCompany(ctx, actor.CompanyID, transferID)
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(t)
	return &response, nil
}

// ListByStatus returns transfers in the given status
func (s *TransferService) ListByStatus(ctx context.Context, actor identity.Actor, status transfer.TransferStatus) ([]TransferResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown transfer status: "+string(status))
	}
	transfers, err := s.transferRepo.FindByStatus(ctx, actor.CompanyID, status, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// ListPending returns transfers waiting for a manager decision
func (s *TransferService) ListPending(ctx context.Context, actor identity.Actor) ([]TransferResponse, error) {
	transfers, err := s.transferRepo.FindPending(ctx, actor.CompanyID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// ListByLocation returns transfers touching a location as source or destination
func (s *TransferService) ListByLocation(ctx context.Context, actor identity.Actor, location valueobject.Location) ([]TransferResponse, error) {
	transfers, err := s.transferRepo.FindByLocation(ctx, actor.CompanyID, location, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// ListInFlight returns transfers that hold stock in motion
func (s *TransferService) ListInFlight(ctx context.Context, actor identity.Actor) ([]TransferResponse, error) {
	transfers, err := s.transferRepo.FindInFlight(ctx, actor.CompanyID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToTransferResponses(transfers), nil
}

// mutate loads the transfer, checks the permission gate, applies fn
// inside one transaction, and persists with the version guard
func (s *TransferService) mutate(ctx context.Context, actor identity.Actor, transferID uuid.UUID, action transfer.TransferAction, fn func(repos appinventory.TransactionalRepositories, t *transfer.TransferRequest) error) (*TransferResponse, error) {
	var t *transfer.TransferRequest
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		t, err = repos.Transfers().FindByIDForCompany(ctx, actor.CompanyID, transferID)
		if err != nil {
			return err
		}
		if !s.gate.Can(t, actor, action) {
			return shared.ErrForbidden
		}
		if err := fn(repos, t); err != nil {
			return err
		}
		return repos.Transfers().SaveGuarded(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, t)
	s.logger.Info("transfer updated",
		zap.String("reference", t.ReferenceNumber),
		zap.String("action", string(action)),
		zap.String("status", t.Status.String()))

	response := ToTransferResponse(t)
	return &response, nil
}

// debitSource removes the deducted quantity from the source location
// and records the outbound movement
func (s *TransferService) debitSource(ctx context.Context, repos appinventory.TransactionalRepositories, actor identity.Actor, t *transfer.TransferRequest) error {
	if _, err := repos.StockRecords().GetOrCreate(ctx, t.CompanyID, t.SourceLocation(), t.ProductID); err != nil {
		return err
	}
	record, err := repos.StockRecords().FindForUpdate(ctx, t.CompanyID, t.SourceLocation(), t.ProductID)
	if err != nil {
		return err
	}
	if err := record.Decrease(t.DeductedQuantity); err != nil {
		return err
	}
	if err := repos.StockRecords().SaveGuarded(ctx, record); err != nil {
		return err
	}
	movement, err := inventory.NewStockMovement(record, inventory.MovementTransferOut, t.DeductedQuantity, t.ReferenceNumber, "Transfer shipped", actor.UserID)
	if err != nil {
		return err
	}
	return repos.Movements().Create(ctx, movement)
}
