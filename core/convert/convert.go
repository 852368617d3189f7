// Package convert implements unit conversion between mass, volume and
// discrete count via a per-ingredient density.
//
// Density is a single value whose physical meaning depends on the pair
// being converted: grams per milliliter across mass and volume, grams
// per item across count and mass. Conversions between count and volume
// are always composed as two explicit steps through mass so a zero
// density fails on the dividing leg instead of cancelling out.
package convert

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"recipe-cost/core/types"
)

var (
	// ErrZeroDensity is returned when a conversion would divide by a
	// zero density.
	ErrZeroDensity = errors.New("conversion requires a non-zero density")

	// ErrUnsupported is returned for unit pairs outside the defined
	// conversions.
	ErrUnsupported = errors.New("unsupported unit conversion")
)

// Convert expresses quantity, given in the from unit, in the to unit.
// The identity case never touches density; every division checks for a
// zero denominator and fails rather than producing infinity.
func Convert(quantity decimal.Decimal, from, to types.UnitKind, density decimal.Decimal) (decimal.Decimal, error) {
	if from == to {
		return quantity, nil
	}

	switch {
	case from == types.UnitVolume && to == types.UnitMass:
		return quantity.Mul(density), nil

	case from == types.UnitMass && to == types.UnitVolume:
		return divByDensity(quantity, density, from, to)

	case from == types.UnitCount && to == types.UnitMass:
		return quantity.Mul(density), nil

	case from == types.UnitMass && to == types.UnitCount:
		return divByDensity(quantity, density, from, to)

	case from == types.UnitCount && to == types.UnitVolume:
		// count -> mass -> volume, two explicit steps
		grams, err := Convert(quantity, types.UnitCount, types.UnitMass, density)
		if err != nil {
			return decimal.Zero, err
		}
		return Convert(grams, types.UnitMass, types.UnitVolume, density)

	case from == types.UnitVolume && to == types.UnitCount:
		// volume -> mass -> count, two explicit steps
		grams, err := Convert(quantity, types.UnitVolume, types.UnitMass, density)
		if err != nil {
			return decimal.Zero, err
		}
		return Convert(grams, types.UnitMass, types.UnitCount, density)
	}

	return decimal.Zero, fmt.Errorf("%s to %s: %w", from, to, ErrUnsupported)
}

func divByDensity(quantity, density decimal.Decimal, from, to types.UnitKind) (decimal.Decimal, error) {
	if density.IsZero() {
		return decimal.Zero, fmt.Errorf("%s to %s: %w", from, to, ErrZeroDensity)
	}
	return quantity.Div(density), nil
}
