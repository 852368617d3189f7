// Package costing computes recipe cost and pricing from catalog data.
//
// The calculator is pure. It reads the recipe and an ingredient snapshot
// supplied by the caller and either returns a complete result or fails
// with no partial output. Persisting the result atomically is the
// caller's concern.
package costing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"recipe-cost/core/convert"
	"recipe-cost/core/types"
)

var (
	// ErrUnknownIngredient is returned when a recipe line references an
	// ingredient the resolver cannot find.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrIncompatibleUnits is returned when a line quantity cannot be
	// converted to the ingredient's reference unit.
	ErrIncompatibleUnits = errors.New("incompatible units")
)

// Error is a costing failure tied to a specific ingredient. It wraps
// ErrUnknownIngredient or ErrIncompatibleUnits for errors.Is checks and
// keeps the underlying conversion error, if any, in the chain.
type Error struct {
	IngredientID types.IngredientID
	kind         error
	cause        error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("ingredient %d: %v: %v", e.IngredientID, e.kind, e.cause)
	}
	return fmt.Sprintf("ingredient %d: %v", e.IngredientID, e.kind)
}

func (e *Error) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.kind
}

// Is reports whether e matches one of the sentinel kinds.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Resolver looks up a catalog entry by id. A miss aborts the whole
// costing operation.
type Resolver func(types.IngredientID) (*types.Ingredient, bool)

// MapResolver adapts an ingredient snapshot map to a Resolver.
func MapResolver(snapshot map[types.IngredientID]*types.Ingredient) Resolver {
	return func(id types.IngredientID) (*types.Ingredient, bool) {
		ing, ok := snapshot[id]
		return ing, ok
	}
}

// Cost prices a recipe against the catalog snapshot behind resolve.
//
// Per line, in input order: the ingredient is resolved, the line
// quantity is converted to the reference unit using the ingredient
// density, and the cost accrues proportionally against the reference
// amount and unit price. Cost scales linearly with quantity. After all
// lines, packaging, margin and yield are applied. The returned result
// is unrounded.
func Cost(recipe *types.Recipe, resolve Resolver) (*types.CostingResult, error) {
	result := &types.CostingResult{
		Lines: make([]types.LineCost, 0, len(recipe.Lines)),
	}

	for _, line := range recipe.Lines {
		ing, ok := resolve(line.IngredientID)
		if !ok {
			return nil, &Error{IngredientID: line.IngredientID, kind: ErrUnknownIngredient}
		}

		converted, err := convert.Convert(line.Quantity, line.Unit, ing.ReferenceUnit, ing.Density)
		if err != nil {
			return nil, &Error{IngredientID: line.IngredientID, kind: ErrIncompatibleUnits, cause: err}
		}

		// catalog invariant; guards the division below against
		// unvalidated snapshots
		if ing.ReferenceAmount.Sign() <= 0 {
			return nil, &Error{
				IngredientID: line.IngredientID,
				kind:         ErrIncompatibleUnits,
				cause:        fmt.Errorf("reference amount must be positive, got %s", ing.ReferenceAmount),
			}
		}

		cost := converted.Div(ing.ReferenceAmount).Mul(ing.UnitPrice)
		result.IngredientCost = result.IngredientCost.Add(cost)
		result.Lines = append(result.Lines, types.LineCost{
			IngredientID:      ing.ID,
			IngredientName:    ing.Name,
			Quantity:          line.Quantity,
			Unit:              line.Unit,
			ConvertedQuantity: converted,
			Cost:              cost,
		})
	}

	result.TotalCost = result.IngredientCost.Add(recipe.PackagingCost)
	markup := decimal.NewFromInt(1).Add(recipe.MarginPercent.Div(decimal.NewFromInt(100)))
	result.SuggestedPrice = result.TotalCost.Mul(markup)
	result.PricePerYieldUnit = result.SuggestedPrice.Div(decimal.NewFromInt(recipe.EffectiveYield()))

	return result, nil
}
