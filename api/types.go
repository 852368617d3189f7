// Package api - request and response payloads
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"recipe-cost/core/types"
	"recipe-cost/db"
)

// IngredientRequest is the create/update payload for a catalog entry.
// Amount and Density are pointers so an explicit zero is distinguishable
// from an omitted field.
type IngredientRequest struct {
	Name    string           `json:"name"`
	Unit    string           `json:"unit"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Price   decimal.Decimal  `json:"price"`
	Density *decimal.Decimal `json:"density,omitempty"`
}

func (r *IngredientRequest) toIngredient() (*types.Ingredient, error) {
	// defaults mirror the catalog conventions: price quoted per 100 g
	// of a water-like ingredient unless stated otherwise
	if r.Unit == "" {
		r.Unit = string(types.UnitMass)
	}
	amount := decimal.NewFromInt(100)
	if r.Amount != nil {
		amount = *r.Amount
	}
	density := decimal.NewFromInt(1)
	if r.Density != nil {
		density = *r.Density
	}

	unit, err := types.ParseUnitKind(r.Unit)
	if err != nil {
		return nil, err
	}
	return &types.Ingredient{
		Name:            r.Name,
		ReferenceUnit:   unit,
		ReferenceAmount: amount,
		UnitPrice:       r.Price,
		Density:         density,
	}, nil
}

// RecipeLineRequest is one line of a recipe creation payload.
type RecipeLineRequest struct {
	IngredientID int64           `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// RecipeRequest is the create payload for a recipe.
type RecipeRequest struct {
	Name          string              `json:"name"`
	Category      string              `json:"category,omitempty"`
	PackagingCost decimal.Decimal     `json:"packaging_cost"`
	MarginPercent *decimal.Decimal    `json:"margin_percent,omitempty"`
	Yield         int64               `json:"yield,omitempty"`
	Lines         []RecipeLineRequest `json:"lines"`
}

func (r *RecipeRequest) toRecipe(defaultMargin decimal.Decimal) *types.Recipe {
	margin := defaultMargin
	if r.MarginPercent != nil {
		margin = *r.MarginPercent
	}
	recipe := &types.Recipe{
		Name:          r.Name,
		Category:      r.Category,
		PackagingCost: r.PackagingCost,
		MarginPercent: margin,
		Yield:         r.Yield,
		Lines:         make([]types.RecipeLine, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		recipe.Lines = append(recipe.Lines, types.RecipeLine{
			IngredientID: types.IngredientID(line.IngredientID),
			Quantity:     line.Quantity,
			Unit:         types.UnitKind(line.Unit),
		})
	}
	return recipe
}

// RecipeResponse is a costed recipe as returned to clients. Figures are
// boundary-rounded.
type RecipeResponse struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Category          string           `json:"category,omitempty"`
	PackagingCost     decimal.Decimal  `json:"packaging_cost"`
	MarginPercent     decimal.Decimal  `json:"margin_percent"`
	Yield             int64            `json:"yield"`
	IngredientCost    decimal.Decimal  `json:"ingredient_cost"`
	TotalCost         decimal.Decimal  `json:"total_cost"`
	SuggestedPrice    decimal.Decimal  `json:"suggested_price"`
	PricePerYieldUnit decimal.Decimal  `json:"price_per_yield_unit"`
	Lines             []types.LineCost `json:"lines"`
	CreatedAt         time.Time        `json:"created_at"`
}

func recipeResponse(recipe *types.Recipe, result *types.CostingResult) *RecipeResponse {
	return &RecipeResponse{
		ID:                int64(recipe.ID),
		Name:              recipe.Name,
		Category:          recipe.Category,
		PackagingCost:     recipe.PackagingCost,
		MarginPercent:     recipe.MarginPercent,
		Yield:             recipe.EffectiveYield(),
		IngredientCost:    result.IngredientCost,
		TotalCost:         result.TotalCost,
		SuggestedPrice:    result.SuggestedPrice,
		PricePerYieldUnit: result.PricePerYieldUnit,
		Lines:             result.Lines,
		CreatedAt:         recipe.CreatedAt,
	}
}

func storedRecipeResponse(sr *db.StoredRecipe) *RecipeResponse {
	return recipeResponse(&sr.Recipe, &sr.Result)
}
