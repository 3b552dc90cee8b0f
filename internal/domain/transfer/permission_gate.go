package transfer

import (
	"github.com/inventsight/backend/internal/domain/identity"
)

// TransferAction is something a user could do to a transfer next
type TransferAction string

const (
	ActionApprove        TransferAction = "APPROVE"
	ActionApproveAndSend TransferAction = "APPROVE_AND_SEND"
	ActionReject         TransferAction = "REJECT"
	ActionMarkReady      TransferAction = "MARK_READY"
	ActionPickup         TransferAction = "PICKUP"
	ActionMarkDelivered  TransferAction = "MARK_DELIVERED"
	ActionReceive        TransferAction = "RECEIVE"
	ActionCancel         TransferAction = "CANCEL"
	ActionRequestCancel  TransferAction = "REQUEST_CANCEL"
	ActionApproveCancel  TransferAction = "APPROVE_CANCEL"
	ActionRejectCancel   TransferAction = "REJECT_CANCEL"
	ActionAppendNote     TransferAction = "APPEND_NOTE"
)

// PermissionGate answers which transfer actions a user may take given
// their role, their relationship to the transfer, and where the
// transfer sits in its lifecycle. It is pure and nil-safe: unknown
// input yields an empty action set, never an error.
type PermissionGate struct{}

// NewPermissionGate creates a permission gate
func NewPermissionGate() *PermissionGate {
	return &PermissionGate{}
}

// Can reports whether the actor may take the given action now
func (g *PermissionGate) Can(t *TransferRequest, actor identity.Actor, action TransferAction) bool {
	for _, a := range g.AvailableActions(t, actor) {
		if a == action {
			return true
		}
	}
	return false
}

// AvailableActions lists every action the actor may take on the
// transfer in its current status
func (g *PermissionGate) AvailableActions(t *TransferRequest, actor identity.Actor) []TransferAction {
	if t == nil || !actor.Role.IsValid() {
		return []TransferAction{}
	}
	if actor.CompanyID != t.CompanyID {
		return []TransferAction{}
	}

	actions := make([]TransferAction, 0, 4)
	isRequester := actor.UserID == t.RequestedBy
	managerial := actor.Role.IsManagerial()

	switch t.Status {
	case TransferStatusPending:
		if managerial {
			actions = append(actions, ActionApprove, ActionApproveAndSend, ActionReject)
		}
		// requesters may withdraw their own pending request
		if isRequester || managerial {
			actions = append(actions, ActionCancel)
		}
	case TransferStatusApproved:
		if managerial {
			actions = append(actions, ActionMarkReady)
		}
		if isRequester || managerial {
			actions = append(actions, ActionRequestCancel)
		}
	case TransferStatusReady:
		if managerial {
			actions = append(actions, ActionPickup)
		}
		if isRequester || managerial {
			actions = append(actions, ActionRequestCancel)
		}
	case TransferStatusInTransit:
		// receiving stays open to the destination side; moving the
		// goods forward is a manager call
		if managerial {
			actions = append(actions, ActionMarkDelivered)
		}
		actions = append(actions, ActionReceive)
		if managerial {
			actions = append(actions, ActionRequestCancel)
		}
	case TransferStatusDelivered:
		actions = append(actions, ActionReceive)
		// goods on the dock can still turn around, manager call only
		if managerial {
			actions = append(actions, ActionRequestCancel)
		}
	case TransferStatusCancelRequested:
		if managerial {
			actions = append(actions, ActionApproveCancel, ActionRejectCancel)
		}
	case TransferStatusCompleted, TransferStatusCancelled, TransferStatusRejected:
		return actions
	}

	if !t.Status.IsTerminal() {
		actions = append(actions, ActionAppendNote)
	}

	return actions
}
