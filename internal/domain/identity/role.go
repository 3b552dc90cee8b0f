package identity

import (
	"github.com/google/uuid"

	"github.com/inventsight/backend/internal/domain/shared"
)

// Role represents the authority a user carries inside a company
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
	RoleFounder  Role = "FOUNDER"
)

// roleLevels orders roles by increasing authority. Capability checks
// compare levels rather than enumerating role names so adding a role
// slots into the ordering in one place.
var roleLevels = map[Role]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleAdmin:    3,
	RoleFounder:  4,
}

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the authority level of the role, 0 for unknown roles
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether this role carries at least the authority of other
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level() && r.Level() > 0
}

// IsManagerial reports whether the role may approve orders and transfers
func (r Role) IsManagerial() bool {
	return r.AtLeast(RoleManager)
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+s)
	}
	return r, nil
}

// Actor is the identity performing an operation: a user and the role
// they hold in the company the operation targets.
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      Role
}

// NewActor creates an actor with a validated role
func NewActor(userID, companyID uuid.UUID, role Role) (Actor, error) {
	if userID == uuid.Nil {
		return Actor{}, shared.NewDomainError("INVALID_ACTOR", "Actor user id cannot be empty")
	}
	if !role.IsValid() {
		return Actor{}, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	return Actor{UserID: userID, CompanyID: companyID, Role: role}, nil
}

// CanApprove reports whether the actor may approve pending orders and transfers
func (a Actor) CanApprove() bool {
	return a.Role.IsManagerial()
}
