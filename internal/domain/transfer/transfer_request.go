package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/shared/valueobject"
)

// TransferStatus represents the status of a stock transfer request
type TransferStatus string

const (
	TransferStatusPending         TransferStatus = "PENDING"
	TransferStatusApproved        TransferStatus = "APPROVED"
	TransferStatusReady           TransferStatus = "READY"
	TransferStatusInTransit       TransferStatus = "IN_TRANSIT"
	TransferStatusDelivered       TransferStatus = "DELIVERED"
	TransferStatusCompleted       TransferStatus = "COMPLETED"
	TransferStatusCancelRequested TransferStatus = "CANCEL_REQUESTED"
	TransferStatusCancelled       TransferStatus = "CANCELLED"
	TransferStatusRejected        TransferStatus = "REJECTED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusReady,
		TransferStatusInTransit, TransferStatusDelivered, TransferStatusCompleted,
		TransferStatusCancelRequested, TransferStatusCancelled, TransferStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusCancelled || s == TransferStatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusApproved || target == TransferStatusRejected ||
			target == TransferStatusCancelled
	case TransferStatusApproved:
		return target == TransferStatusReady || target == TransferStatusInTransit ||
			target == TransferStatusCancelRequested
	case TransferStatusReady:
		return target == TransferStatusInTransit || target == TransferStatusCancelRequested
	case TransferStatusInTransit:
		return target == TransferStatusDelivered || target == TransferStatusCompleted ||
			target == TransferStatusCancelRequested
	case TransferStatusDelivered:
		return target == TransferStatusCompleted || target == TransferStatusCancelRequested
	case TransferStatusCancelRequested:
		// a rejected cancellation restores the prior status
		return target == TransferStatusCancelled || target == TransferStatusApproved ||
			target == TransferStatusReady || target == TransferStatusInTransit ||
			target == TransferStatusDelivered
	case TransferStatusCompleted, TransferStatusCancelled, TransferStatusRejected:
		return false
	}
	return false
}

// TransferRequest moves stock of one product from a source location to
// a destination location. It is the aggregate root for the whole
// transfer lifecycle, from request through receipt or cancellation.
//
// The source is debited exactly once, when the transfer enters
// IN_TRANSIT. The destination is credited exactly once, with the
// undamaged portion, when the transfer completes. Damaged units are
// written off and never return to either location.
type TransferRequest struct {
	shared.CompanyAggregateRoot
	ReferenceNumber string `gorm:"type:varchar(32);not null;uniqueIndex:idx_transfer_reference,priority:2"`
	ProductID       uuid.UUID
	ProductName     string
	ProductSKU      string

	SourceLocationType valueobject.LocationType `gorm:"type:varchar(16);not null"`
	SourceLocationID   uuid.UUID                `gorm:"type:uuid;not null"`
	DestLocationType   valueobject.LocationType `gorm:"type:varchar(16);not null"`
	DestLocationID     uuid.UUID                `gorm:"type:uuid;not null"`

	RequestedQuantity int64 `gorm:"not null"`
	// ApprovedQuantity is what the manager actually released; nil means
	// the full requested quantity.
	ApprovedQuantity *int64
	// DeductedQuantity records what left the source when the transfer
	// went in transit. Cancellation after that point credits exactly
	// this amount back.
	DeductedQuantity int64 `gorm:"not null;default:0"`
	ReceivedQuantity *int64
	DamagedQuantity  int64 `gorm:"not null;default:0"`

	Status      TransferStatus `gorm:"type:varchar(32);not null;index"`
	RequestedBy uuid.UUID      `gorm:"type:uuid;not null"`
	ApprovedBy  *uuid.UUID
	PackedBy    *uuid.UUID
	ReceivedBy  *uuid.UUID

	Carrier        string
	TrackingNumber string
	Notes          string `gorm:"type:text"`

	// PrevStatus restores the lifecycle position when a cancellation
	// request is rejected
	PrevStatus   TransferStatus `gorm:"type:varchar(32)"`
	CancelReason string
	RejectReason string

	ApprovedAt  *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (TransferRequest) TableName() string {
	return "transfer_requests"
}

// NewTransferRequest creates a transfer request in PENDING status
func NewTransferRequest(companyID uuid.UUID, productID uuid.UUID, productName, productSKU string, source, dest valueobject.Location, quantity int64, requestedBy uuid.UUID) (*TransferRequest, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if source.IsZero() || dest.IsZero() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination locations are required")
	}
	if source.Equals(dest) {
		return nil, shared.NewDomainError("SAME_LOCATION", "Source and destination must differ")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester ID cannot be empty")
	}

	tr := &TransferRequest{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		ProductID:            productID,
		ProductName:          productName,
		ProductSKU:           productSKU,
		SourceLocationType:   source.Type(),
		SourceLocationID:     source.ID(),
		DestLocationType:     dest.Type(),
		DestLocationID:       dest.ID(),
		RequestedQuantity:    quantity,
		Status:               TransferStatusPending,
		RequestedBy:          requestedBy,
	}
	tr.ReferenceNumber = "TRANSFER-" + strings.ToUpper(tr.ID.String()[:8])

	tr.AddDomainEvent(NewTransferRequestedEvent(tr))

	return tr, nil
}

// SourceLocation returns the source as a value object
func (t *TransferRequest) SourceLocation() valueobject.Location {
	loc, _ := valueobject.NewLocation(t.SourceLocationType, t.SourceLocationID)
	return loc
}

// DestLocation returns the destination as a value object
func (t *TransferRequest) DestLocation() valueobject.Location {
	loc, _ := valueobject.NewLocation(t.DestLocationType, t.DestLocationID)
	return loc
}

// EffectiveQuantity is what actually ships: the approved quantity when
// a manager trimmed the request, the requested quantity otherwise
func (t *TransferRequest) EffectiveQuantity() int64 {
	if t.ApprovedQuantity != nil {
		return *t.ApprovedQuantity
	}
	return t.RequestedQuantity
}

// GoodQuantity is the undamaged portion of what was received
func (t *TransferRequest) GoodQuantity() int64 {
	if t.ReceivedQuantity == nil {
		return 0
	}
	return *t.ReceivedQuantity - t.DamagedQuantity
}

// Approve releases the transfer, optionally trimming the quantity.
// Pass nil to approve the full requested amount.
func (t *TransferRequest) Approve(approverID uuid.UUID, quantity *int64) error {
	if t.Status != TransferStatusPending {
		return shared.NewStateError(t.Status.String(), TransferStatusApproved.String())
	}
	if quantity != nil {
		if *quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Approved quantity must be positive")
		}
		if *quantity > t.RequestedQuantity {
			return shared.NewDomainError("INVALID_QUANTITY", "Approved quantity cannot exceed requested quantity")
		}
		t.ApprovedQuantity = quantity
	}

	now := time.Now()
	t.Status = TransferStatusApproved
	t.ApprovedBy = &approverID
	t.ApprovedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferApprovedEvent(t))

	return nil
}

// Reject declines a pending transfer for good
func (t *TransferRequest) Reject(managerID uuid.UUID, reason string) error {
	if t.Status != TransferStatusPending {
		return shared.NewStateError(t.Status.String(), TransferStatusRejected.String())
	}

	now := time.Now()
	t.Status = TransferStatusRejected
	t.ApprovedBy = &managerID
	t.RejectReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferRejectedEvent(t, reason))

	return nil
}

// MarkReady records that the goods are packed and waiting for pickup
func (t *TransferRequest) MarkReady(packedBy uuid.UUID) error {
	if t.Status != TransferStatusApproved {
		return shared.NewStateError(t.Status.String(), TransferStatusReady.String())
	}

	t.Status = TransferStatusReady
	t.PackedBy = &packedBy
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// StartTransit puts the transfer on the road and fixes the quantity
// that left the source. Valid from READY (pickup) and from APPROVED
// (approve-and-send). The caller debits the source ledger in the same
// transaction.
func (t *TransferRequest) StartTransit(carrier, trackingNumber string) error {
	if !t.Status.CanTransitionTo(TransferStatusInTransit) {
		return shared.NewStateError(t.Status.String(), TransferStatusInTransit.String())
	}

	now := time.Now()
	t.Status = TransferStatusInTransit
	t.DeductedQuantity = t.EffectiveQuantity()
	t.Carrier = carrier
	t.TrackingNumber = trackingNumber
	t.ShippedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferInTransitEvent(t))

	return nil
}

// MarkDelivered records arrival at the destination dock. Stock is not
// credited until Receive counts the goods.
func (t *TransferRequest) MarkDelivered() error {
	if t.Status != TransferStatusInTransit {
		return shared.NewStateError(t.Status.String(), TransferStatusDelivered.String())
	}

	now := time.Now()
	t.Status = TransferStatusDelivered
	t.DeliveredAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// Receive counts the goods and completes the transfer. The receiver
// may count fewer units than were shipped and may flag part of the
// count as damaged. The caller credits GoodQuantity to the destination
// ledger in the same transaction.
func (t *TransferRequest) Receive(receiverID uuid.UUID, receivedQuantity, damagedQuantity int64) error {
	if t.Status != TransferStatusInTransit && t.Status != TransferStatusDelivered {
		return shared.NewStateError(t.Status.String(), TransferStatusCompleted.String())
	}
	if receivedQuantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}
	if receivedQuantity > t.DeductedQuantity {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Received quantity %d exceeds shipped quantity %d", receivedQuantity, t.DeductedQuantity))
	}
	if damagedQuantity < 0 || damagedQuantity > receivedQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Damaged quantity must be between 0 and the received quantity")
	}

	now := time.Now()
	t.Status = TransferStatusCompleted
	t.ReceivedQuantity = &receivedQuantity
	t.DamagedQuantity = damagedQuantity
	t.ReceivedBy = &receiverID
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t))

	return nil
}

// Cancel withdraws a transfer that nobody has acted on yet. Only the
// PENDING status cancels directly; later stages go through
// RequestCancel and a manager decision.
func (t *TransferRequest) Cancel(reason string) error {
	if t.Status != TransferStatusPending {
		return shared.NewStateError(t.Status.String(), TransferStatusCancelled.String())
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelReason = reason
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t, 0))

	return nil
}

// RequestCancel parks an in-progress transfer until a manager rules on
// the cancellation
func (t *TransferRequest) RequestCancel(reason string) error {
	if !t.Status.CanTransitionTo(TransferStatusCancelRequested) {
		return shared.NewStateError(t.Status.String(), TransferStatusCancelRequested.String())
	}

	t.PrevStatus = t.Status
	t.Status = TransferStatusCancelRequested
	t.CancelReason = reason
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// NeedsCompensation reports whether cancelling now must credit the
// deducted quantity back to the source
func (t *TransferRequest) NeedsCompensation() bool {
	return t.DeductedQuantity > 0
}

// ApproveCancel completes a requested cancellation. compensated is the
// quantity the caller credited back to the source, zero when nothing
// had shipped.
func (t *TransferRequest) ApproveCancel(approverID uuid.UUID, compensated int64) error {
	if t.Status != TransferStatusCancelRequested {
		return shared.NewStateError(t.Status.String(), TransferStatusCancelled.String())
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	t.ApprovedBy = &approverID
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t, compensated))

	return nil
}

// RejectCancel puts the transfer back where it was before the
// cancellation request
func (t *TransferRequest) RejectCancel() error {
	if t.Status != TransferStatusCancelRequested {
		return shared.NewStateError(t.Status.String(), string(t.PrevStatus))
	}

	t.Status = t.PrevStatus
	t.PrevStatus = ""
	t.CancelReason = ""
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// AppendNote appends a timestamped, attributed line to the transfer notes
func (t *TransferRequest) AppendNote(author uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return shared.NewDomainError("INVALID_NOTE", "Note text cannot be empty")
	}

	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format(time.RFC3339), author, text)
	if t.Notes == "" {
		t.Notes = line
	} else {
		t.Notes = t.Notes + "\n" + line
	}
	t.UpdatedAt = time.Now()

	return nil
}
