// Package types holds the shared value types of the costing engine.
package types

import (
	"fmt"
)

// UnitKind identifies the kind of a measured quantity. The wire values
// match what the catalog stores: grams for mass, milliliters for volume,
// and "unit" for discrete items.
type UnitKind string

const (
	UnitMass   UnitKind = "g"
	UnitVolume UnitKind = "ml"
	UnitCount  UnitKind = "unit"
)

// String returns the wire representation.
func (u UnitKind) String() string {
	return string(u)
}

// Valid reports whether u is one of the three known kinds.
func (u UnitKind) Valid() bool {
	switch u {
	case UnitMass, UnitVolume, UnitCount:
		return true
	}
	return false
}

// Continuous reports whether u is a continuous unit (mass or volume),
// as opposed to a discrete count.
func (u UnitKind) Continuous() bool {
	return u == UnitMass || u == UnitVolume
}

// ParseUnitKind parses a wire value into a UnitKind.
func ParseUnitKind(s string) (UnitKind, error) {
	u := UnitKind(s)
	if !u.Valid() {
		return "", fmt.Errorf("unknown unit kind: %q", s)
	}
	return u, nil
}
