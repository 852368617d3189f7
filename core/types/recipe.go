// Package types - Recipe and recipe lines
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"recipe-cost/internal/errors"
)

// RecipeID identifies a persisted recipe.
type RecipeID int64

// RecipeLine is one ingredient requirement of a recipe. The quantity is
// expressed in Unit, which need not match the ingredient's reference
// unit; the engine converts before costing.
type RecipeLine struct {
	// IngredientID references a catalog entry
	IngredientID IngredientID `json:"ingredient_id"`

	// Quantity is the requested amount, expressed in Unit
	Quantity decimal.Decimal `json:"quantity"`

	// Unit is the unit kind of Quantity
	Unit UnitKind `json:"unit"`
}

// Recipe is a transient recipe as submitted for costing. It is costed by
// the engine, then persisted together with the computed result.
type Recipe struct {
	// ID is set once the recipe is persisted
	ID RecipeID `json:"id,omitempty"`

	// Name is the recipe name
	Name string `json:"name"`

	// Category is an optional grouping label
	Category string `json:"category,omitempty"`

	// PackagingCost is a flat cost added on top of ingredient cost
	PackagingCost decimal.Decimal `json:"packaging_cost"`

	// MarginPercent is the markup applied to total cost, in percent
	MarginPercent decimal.Decimal `json:"margin_percent"`

	// Yield is how many sellable units one batch produces
	Yield int64 `json:"yield,omitempty"`

	// Lines are the ingredient requirements, in input order
	Lines []RecipeLine `json:"lines"`

	// CreatedAt is when the recipe was persisted
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// EffectiveYield clamps Yield to at least 1 so a per-unit price is
// always defined.
func (r *Recipe) EffectiveYield() int64 {
	if r.Yield < 1 {
		return 1
	}
	return r.Yield
}

// Validate checks the recipe shape before costing.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return errors.Input("recipe name is required")
	}
	if r.PackagingCost.Sign() < 0 {
		return errors.Newf(errors.TypeInput, "recipe %q: packaging cost must not be negative", r.Name)
	}
	for i, line := range r.Lines {
		if !line.Unit.Valid() {
			return errors.Newf(errors.TypeInput, "recipe %q line %d: unknown unit %q", r.Name, i, string(line.Unit))
		}
		if line.Quantity.Sign() < 0 {
			return errors.Newf(errors.TypeInput, "recipe %q line %d: quantity must not be negative", r.Name, i)
		}
	}
	return nil
}
