package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/transfer"
)

// CreateTransferRequest represents a request to move stock between locations
type CreateTransferRequest struct {
	ProductID          uuid.UUID `json:"product_id" validate:"required"`
	SourceLocationType string    `json:"source_location_type" validate:"required,oneof=WAREHOUSE STORE"`
	SourceLocationID   uuid.UUID `json:"source_location_id" validate:"required"`
	DestLocationType   string    `json:"dest_location_type" validate:"required,oneof=WAREHOUSE STORE"`
	DestLocationID     uuid.UUID `json:"dest_location_id" validate:"required"`
	Quantity           int64     `json:"quantity" validate:"required,gt=0"`
	Note               string    `json:"note" validate:"max=500"`
}

// ApproveTransferRequest optionally trims the quantity a manager releases
type ApproveTransferRequest struct {
	Quantity *int64 `json:"quantity" validate:"omitempty,gt=0"`
}

// ShipTransferRequest carries the shipment details recorded at pickup
type ShipTransferRequest struct {
	Carrier        string `json:"carrier" validate:"max=64"`
	TrackingNumber string `json:"tracking_number" validate:"max=64"`
}

// ReceiveTransferRequest counts the goods at the destination
type ReceiveTransferRequest struct {
	ReceivedQuantity int64 `json:"received_quantity" validate:"gte=0"`
	DamagedQuantity  int64 `json:"damaged_quantity" validate:"gte=0"`
}

// CancelTransferRequest represents a cancellation or rejection
type CancelTransferRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// AppendNoteRequest adds a note line to a transfer
type AppendNoteRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// TransferResponse represents a transfer request in API responses
type TransferResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CompanyID          uuid.UUID  `json:"company_id"`
	ReferenceNumber    string     `json:"reference_number"`
	ProductID          uuid.UUID  `json:"product_id"`
	ProductName        string     `json:"product_name"`
	ProductSKU         string     `json:"product_sku"`
	SourceLocationType string     `json:"source_location_type"`
	SourceLocationID   uuid.UUID  `json:"source_location_id"`
	DestLocationType   string     `json:"dest_location_type"`
	DestLocationID     uuid.UUID  `json:"dest_location_id"`
	RequestedQuantity  int64      `json:"requested_quantity"`
	ApprovedQuantity   *int64     `json:"approved_quantity,omitempty"`
	DeductedQuantity   int64      `json:"deducted_quantity"`
	ReceivedQuantity   *int64     `json:"received_quantity,omitempty"`
	DamagedQuantity    int64      `json:"damaged_quantity"`
	Status             string     `json:"status"`
	RequestedBy        uuid.UUID  `json:"requested_by"`
	ApprovedBy         *uuid.UUID `json:"approved_by,omitempty"`
	PackedBy           *uuid.UUID `json:"packed_by,omitempty"`
	ReceivedBy         *uuid.UUID `json:"received_by,omitempty"`
	Carrier            string     `json:"carrier,omitempty"`
	TrackingNumber     string     `json:"tracking_number,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	RejectReason       string     `json:"reject_reason,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	ShippedAt          *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Version            int        `json:"version"`
}

// ToTransferResponse converts a transfer request to a TransferResponse
func ToTransferResponse(t *transfer.TransferRequest) TransferResponse {
	return TransferResponse{
		ID:                 t.ID,
		CompanyID:          t.CompanyID,
		ReferenceNumber:    t.ReferenceNumber,
		ProductID:          t.ProductID,
		ProductName:        t.ProductName,
		ProductSKU:         t.ProductSKU,
		SourceLocationType: string(t.SourceLocationType),
		SourceLocationID:   t.SourceLocationID,
		DestLocationType:   string(t.DestLocationType),
		DestLocationID:     t.DestLocationID,
		RequestedQuantity:  t.RequestedQuantity,
		ApprovedQuantity:   t.ApprovedQuantity,
		DeductedQuantity:   t.DeductedQuantity,
		ReceivedQuantity:   t.ReceivedQuantity,
		DamagedQuantity:    t.DamagedQuantity,
		Status:             t.Status.String(),
		RequestedBy:        t.RequestedBy,
		ApprovedBy:         t.ApprovedBy,
		PackedBy:           t.PackedBy,
		ReceivedBy:         t.ReceivedBy,
		Carrier:            t.Carrier,
		TrackingNumber:     t.TrackingNumber,
		Notes:              t.Notes,
		CancelReason:       t.CancelReason,
		RejectReason:       t.RejectReason,
		ApprovedAt:         t.ApprovedAt,
		ShippedAt:          t.ShippedAt,
		DeliveredAt:        t.DeliveredAt,
		CompletedAt:        t.CompletedAt,
		CancelledAt:        t.CancelledAt,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		Version:            t.Version,
	}
}

// ToTransferResponses converts a slice of transfer requests
func ToTransferResponses(transfers []transfer.TransferRequest) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for idx := range transfers {
		responses[idx] = ToTransferResponse(&transfers[idx])
	}
	return responses
}
