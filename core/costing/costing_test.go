package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-cost/core/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot() map[types.IngredientID]*types.Ingredient {
	return map[types.IngredientID]*types.Ingredient{
		1: {
			ID:              1,
			Name:            "sugar",
			ReferenceUnit:   types.UnitMass,
			ReferenceAmount: dec("100"),
			UnitPrice:       dec("5.00"),
			Density:         dec("1.0"),
		},
		2: {
			ID:              2,
			Name:            "egg",
			ReferenceUnit:   types.UnitCount,
			ReferenceAmount: dec("1"),
			UnitPrice:       dec("0.15"),
			Density:         dec("15"),
		},
		3: {
			ID:              3,
			Name:            "milk",
			ReferenceUnit:   types.UnitVolume,
			ReferenceAmount: dec("1000"),
			UnitPrice:       dec("4.20"),
			Density:         dec("1.03"),
		},
	}
}

func TestCostSingleMassLine(t *testing.T) {
	// price 5.00 per 100 g, 50 g requested, packaging 0.50, margin 50%
	recipe := &types.Recipe{
		Name:          "brigadeiro",
		PackagingCost: dec("0.50"),
		MarginPercent: dec("50"),
		Yield:         1,
		Lines: []types.RecipeLine{
			{IngredientID: 1, Quantity: dec("50"), Unit: types.UnitMass},
		},
	}

	result, err := Cost(recipe, MapResolver(snapshot()))
	require.NoError(t, err)

	assert.True(t, dec("2.50").Equal(result.IngredientCost), "ingredient cost %s", result.IngredientCost)
	assert.True(t, dec("3.00").Equal(result.TotalCost), "total %s", result.TotalCost)
	assert.True(t, dec("4.50").Equal(result.SuggestedPrice), "price %s", result.SuggestedPrice)
	assert.True(t, dec("4.50").Equal(result.PricePerYieldUnit), "per yield %s", result.PricePerYieldUnit)

	require.Len(t, result.Lines, 1)
	assert.Equal(t, "sugar", result.Lines[0].IngredientName)
	assert.True(t, dec("50").Equal(result.Lines[0].ConvertedQuantity))
}

func TestCostCountIngredientFromMass(t *testing.T) {
	// 30 g of eggs at 15 g apiece -> 2 items -> 0.30
	recipe := &types.Recipe{
		Name: "omelette",
		Lines: []types.RecipeLine{
			{IngredientID: 2, Quantity: dec("30"), Unit: types.UnitMass},
		},
	}

	result, err := Cost(recipe, MapResolver(snapshot()))
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.True(t, dec("2").Equal(result.Lines[0].ConvertedQuantity), "converted %s", result.Lines[0].ConvertedQuantity)
	assert.True(t, dec("0.30").Equal(result.Lines[0].Cost), "cost %s", result.Lines[0].Cost)
}

func TestCostLinearity(t *testing.T) {
	base := &types.Recipe{
		Name: "base",
		Lines: []types.RecipeLine{
			{IngredientID: 3, Quantity: dec("125"), Unit: types.UnitVolume},
		},
	}
	doubled := &types.Recipe{
		Name: "doubled",
		Lines: []types.RecipeLine{
			{IngredientID: 3, Quantity: dec("250"), Unit: types.UnitVolume},
		},
	}

	a, err := Cost(base, MapResolver(snapshot()))
	require.NoError(t, err)
	b, err := Cost(doubled, MapResolver(snapshot()))
	require.NoError(t, err)

	assert.True(t, a.IngredientCost.Mul(dec("2")).Equal(b.IngredientCost),
		"%s doubled != %s", a.IngredientCost, b.IngredientCost)
}

func TestYieldClamp(t *testing.T) {
	for _, yield := range []int64{0, -5, 1} {
		recipe := &types.Recipe{
			Name:          "batch",
			MarginPercent: dec("50"),
			Yield:         yield,
			Lines: []types.RecipeLine{
				{IngredientID: 1, Quantity: dec("100"), Unit: types.UnitMass},
			},
		}
		result, err := Cost(recipe, MapResolver(snapshot()))
		require.NoError(t, err)
		assert.True(t, dec("7.5").Equal(result.PricePerYieldUnit),
			"yield %d: per unit %s", yield, result.PricePerYieldUnit)
	}
}

func TestYieldDividesPrice(t *testing.T) {
	recipe := &types.Recipe{
		Name:  "tray",
		Yield: 20,
		Lines: []types.RecipeLine{
			{IngredientID: 1, Quantity: dec("200"), Unit: types.UnitMass},
		},
	}
	result, err := Cost(recipe, MapResolver(snapshot()))
	require.NoError(t, err)
	assert.True(t, dec("0.5").Equal(result.PricePerYieldUnit), "per unit %s", result.PricePerYieldUnit)
}

func TestUnknownIngredientAbortsWhole(t *testing.T) {
	recipe := &types.Recipe{
		Name: "broken",
		Lines: []types.RecipeLine{
			{IngredientID: 1, Quantity: dec("50"), Unit: types.UnitMass},
			{IngredientID: 99, Quantity: dec("1"), Unit: types.UnitCount},
		},
	}

	result, err := Cost(recipe, MapResolver(snapshot()))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnknownIngredient)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, types.IngredientID(99), cerr.IngredientID)
}

func TestIncompatibleUnitsWrapsConversion(t *testing.T) {
	snap := snapshot()
	// milk is volume-referenced; mass -> volume divides by density
	snap[3].Density = decimal.Zero

	recipe := &types.Recipe{
		Name: "broken",
		Lines: []types.RecipeLine{
			{IngredientID: 3, Quantity: dec("50"), Unit: types.UnitMass},
		},
	}

	result, err := Cost(recipe, MapResolver(snap))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, types.IngredientID(3), cerr.IngredientID)
}

func TestNegativeMarginDiscountsPrice(t *testing.T) {
	recipe := &types.Recipe{
		Name:          "clearance",
		MarginPercent: dec("-50"),
		Lines: []types.RecipeLine{
			{IngredientID: 1, Quantity: dec("100"), Unit: types.UnitMass},
		},
	}
	result, err := Cost(recipe, MapResolver(snapshot()))
	require.NoError(t, err)
	assert.True(t, dec("2.5").Equal(result.SuggestedPrice), "price %s", result.SuggestedPrice)
}

func TestEmptyRecipeCostsPackagingOnly(t *testing.T) {
	recipe := &types.Recipe{
		Name:          "packaging only",
		PackagingCost: dec("1.25"),
		MarginPercent: dec("100"),
	}
	result, err := Cost(recipe, MapResolver(snapshot()))
	require.NoError(t, err)
	assert.True(t, result.IngredientCost.IsZero())
	assert.True(t, dec("1.25").Equal(result.TotalCost))
	assert.True(t, dec("2.5").Equal(result.SuggestedPrice))
}

func TestRoundedBoundaryPrecision(t *testing.T) {
	recipe := &types.Recipe{
		Name:          "thirds",
		MarginPercent: dec("33"),
		Yield:         3,
		Lines: []types.RecipeLine{
			{IngredientID: 1, Quantity: dec("33.333"), Unit: types.UnitMass},
		},
	}
	result, err := Cost(recipe, MapResolver(snapshot()))
	require.NoError(t, err)

	rounded := result.Rounded()
	assert.True(t, rounded.TotalCost.Equal(result.TotalCost.Round(4)))
	assert.True(t, rounded.SuggestedPrice.Equal(result.SuggestedPrice.Round(2)))
	assert.True(t, rounded.PricePerYieldUnit.Equal(result.PricePerYieldUnit.Round(2)))
	require.Len(t, rounded.Lines, 1)
	assert.True(t, rounded.Lines[0].Cost.Equal(result.Lines[0].Cost.Round(4)))
}
