// Package types - Costing result types
package types

import "github.com/shopspring/decimal"

// Precision at the caller boundary. The engine computes with full
// decimal precision and rounds only when a result leaves it: stored cost
// fields keep four places, display-facing prices keep two.
const (
	StoredPlaces  = 4
	DisplayPlaces = 2
)

// LineCost is the costed form of one recipe line.
type LineCost struct {
	// IngredientID references the catalog entry used
	IngredientID IngredientID `json:"ingredient_id"`

	// IngredientName is the catalog display name at costing time
	IngredientName string `json:"ingredient_name"`

	// Quantity and Unit echo the recipe line
	Quantity decimal.Decimal `json:"quantity"`
	Unit     UnitKind        `json:"unit"`

	// ConvertedQuantity is Quantity expressed in the ingredient's
	// reference unit
	ConvertedQuantity decimal.Decimal `json:"converted_quantity"`

	// Cost is (ConvertedQuantity / reference_amount) * unit_price
	Cost decimal.Decimal `json:"cost"`
}

// CostingResult is the derived pricing of a recipe. All fields are
// unrounded; use Rounded for boundary precision.
type CostingResult struct {
	// IngredientCost is the sum of all line costs
	IngredientCost decimal.Decimal `json:"ingredient_cost"`

	// TotalCost is IngredientCost plus packaging
	TotalCost decimal.Decimal `json:"total_cost"`

	// SuggestedPrice is TotalCost marked up by the margin
	SuggestedPrice decimal.Decimal `json:"suggested_price"`

	// PricePerYieldUnit is SuggestedPrice divided by the effective yield
	PricePerYieldUnit decimal.Decimal `json:"price_per_yield_unit"`

	// Lines is the per-line breakdown, in recipe order
	Lines []LineCost `json:"lines"`
}

// Rounded returns a copy with boundary precision applied: cost fields at
// StoredPlaces, price fields at DisplayPlaces. Line costs keep
// StoredPlaces so stored breakdowns re-sum consistently.
func (r CostingResult) Rounded() CostingResult {
	out := CostingResult{
		IngredientCost:    r.IngredientCost.Round(StoredPlaces),
		TotalCost:         r.TotalCost.Round(StoredPlaces),
		SuggestedPrice:    r.SuggestedPrice.Round(DisplayPlaces),
		PricePerYieldUnit: r.PricePerYieldUnit.Round(DisplayPlaces),
		Lines:             make([]LineCost, len(r.Lines)),
	}
	for i, line := range r.Lines {
		line.ConvertedQuantity = line.ConvertedQuantity.Round(StoredPlaces)
		line.Cost = line.Cost.Round(StoredPlaces)
		out.Lines[i] = line
	}
	return out
}
