package valueobject

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LocationType discriminates the kind of stock-holding site
type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE"
	LocationStore     LocationType = "STORE"
)

// IsValid checks if the location type is valid
func (t LocationType) IsValid() bool {
	return t == LocationWarehouse || t == LocationStore
}

// Location identifies a single stock-holding site: exactly one
// warehouse or one store, never both and never neither.
// It is immutable - construct via NewLocation or ParseLocation.
type Location struct {
	locType LocationType
	id      uuid.UUID
}

// NewLocation creates a Location of the given type
func NewLocation(locType LocationType, id uuid.UUID) (Location, error) {
	if !locType.IsValid() {
		return Location{}, fmt.Errorf("unknown location type: %s", locType)
	}
	if id == uuid.Nil {
		return Location{}, fmt.Errorf("location id cannot be empty")
	}
	return Location{locType: locType, id: id}, nil
}

// NewWarehouseLocation creates a warehouse Location
func NewWarehouseLocation(id uuid.UUID) (Location, error) {
	return NewLocation(LocationWarehouse, id)
}

// NewStoreLocation creates a store Location
func NewStoreLocation(id uuid.UUID) (Location, error) {
	return NewLocation(LocationStore, id)
}

// ParseLocation parses the "TYPE:uuid" form produced by String.
// Unknown type tags are rejected.
func ParseLocation(s string) (Location, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Location{}, fmt.Errorf("invalid location format: %s", s)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Location{}, fmt.Errorf("invalid location id: %w", err)
	}
	return NewLocation(LocationType(parts[0]), id)
}

// Type returns the location type
func (l Location) Type() LocationType {
	return l.locType
}

// ID returns the warehouse or store identifier
func (l Location) ID() uuid.UUID {
	return l.id
}

// IsZero returns true if the location is unset
func (l Location) IsZero() bool {
	return l.locType == "" && l.id == uuid.Nil
}

// Equals returns true if both locations refer to the same site
func (l Location) Equals(other Location) bool {
	return l.locType == other.locType && l.id == other.id
}

// String returns the canonical "TYPE:uuid" form
func (l Location) String() string {
	return fmt.Sprintf("%s:%s", l.locType, l.id)
}

// Key returns a total-order key over locations. Operations that lock
// two stock records acquire them in ascending Key order to avoid
// deadlocks.
func (l Location) Key() string {
	return l.String()
}

// Less reports whether l sorts before other in lock-acquisition order
func (l Location) Less(other Location) bool {
	return l.Key() < other.Key()
}
