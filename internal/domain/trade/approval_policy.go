package trade

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/inventsight/backend/internal/domain/identity"
)

// ApprovalRule decides whether an order needs manager sign-off.
// Rules are pure: they inspect the order and the acting user and
// return a human-readable reason when they trip.
type ApprovalRule interface {
	// Evaluate returns a non-empty reason if the rule requires approval
	Evaluate(order *SalesOrder, actor identity.Actor) string
}

// DiscountThresholdRule flags orders where a non-managerial user grants
// a line discount above the configured threshold. Managers and above
// may discount freely.
type DiscountThresholdRule struct {
	Threshold decimal.Decimal
}

// NewDiscountThresholdRule creates a rule with the given percent threshold
func NewDiscountThresholdRule(threshold decimal.Decimal) *DiscountThresholdRule {
	return &DiscountThresholdRule{Threshold: threshold}
}

// Evaluate implements ApprovalRule
func (r *DiscountThresholdRule) Evaluate(order *SalesOrder, actor identity.Actor) string {
	if actor.Role.IsManagerial() {
		return ""
	}
	for idx := range order.Items {
		if order.Items[idx].DiscountPercent.GreaterThan(r.Threshold) {
			return fmt.Sprintf("Discount of %s%% exceeds the %s%% limit for role %s",
				order.Items[idx].DiscountPercent.String(), r.Threshold.String(), actor.Role)
		}
	}
	return ""
}

// CrossLocationRule flags orders that draw stock from more than one
// location, regardless of who places them.
type CrossLocationRule struct{}

// Evaluate implements ApprovalRule
func (r *CrossLocationRule) Evaluate(order *SalesOrder, _ identity.Actor) string {
	if len(order.SourceLocations()) > 1 {
		return "Order draws stock from multiple locations"
	}
	return ""
}

// ApprovalPolicy combines approval rules. The first rule that trips
// decides the reason; an order needs approval if any rule trips.
type ApprovalPolicy struct {
	rules []ApprovalRule
}

// NewApprovalPolicy creates a policy from the given rules
func NewApprovalPolicy(rules ...ApprovalRule) *ApprovalPolicy {
	return &ApprovalPolicy{rules: rules}
}

// DefaultApprovalPolicy returns the standard rule set with the given
// discount threshold
func DefaultApprovalPolicy(discountThreshold decimal.Decimal) *ApprovalPolicy {
	return NewApprovalPolicy(
		NewDiscountThresholdRule(discountThreshold),
		&CrossLocationRule{},
	)
}

// Evaluate returns the reason approval is needed, or "" if none is
func (p *ApprovalPolicy) Evaluate(order *SalesOrder, actor identity.Actor) string {
	for _, rule := range p.rules {
		if reason := rule.Evaluate(order, actor); reason != "" {
			return reason
		}
	}
	return ""
}
