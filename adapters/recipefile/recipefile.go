// Package recipefile loads ingredient catalogs and recipes from HCL
// files, so the CLI can cost a recipe without a database.
//
// File shape:
//
//	ingredient "sugar" {
//	  unit    = "g"
//	  amount  = 100
//	  price   = 5.00
//	  density = 1.0
//	}
//
//	recipe "brigadeiro" {
//	  category  = "docinhos"
//	  packaging = 0.50
//	  margin    = 50
//	  yield     = 20
//
//	  line {
//	    ingredient = "sugar"
//	    quantity   = 50
//	  }
//	}
//
// Recipe lines reference ingredients by name; the loader assigns ids
// and resolves the references.
package recipefile

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

type fileContent struct {
	Ingredients []ingredientBlock `hcl:"ingredient,block"`
	Recipes     []recipeBlock     `hcl:"recipe,block"`
}

type ingredientBlock struct {
	Name    string   `hcl:"name,label"`
	Unit    string   `hcl:"unit,optional"`
	Amount  *float64 `hcl:"amount,optional"`
	Price   float64  `hcl:"price"`
	Density *float64 `hcl:"density,optional"`
}

type recipeBlock struct {
	Name      string      `hcl:"name,label"`
	Category  string      `hcl:"category,optional"`
	Packaging float64     `hcl:"packaging,optional"`
	Margin    *float64    `hcl:"margin,optional"`
	Yield     int64       `hcl:"yield,optional"`
	Lines     []lineBlock `hcl:"line,block"`
}

type lineBlock struct {
	Ingredient string  `hcl:"ingredient"`
	Quantity   float64 `hcl:"quantity"`
	Unit       string  `hcl:"unit,optional"`
}

// File is a parsed recipe file: a catalog snapshot plus the recipes
// defined against it.
type File struct {
	// Catalog is keyed by the ids assigned during loading
	Catalog map[types.IngredientID]*types.Ingredient

	// Recipes in file order, lines resolved to catalog ids
	Recipes []*types.Recipe
}

// Load parses and validates a recipe file. The default margin applies
// to recipes that do not set one.
func Load(path string, defaultMargin decimal.Decimal) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "parse recipe file", diags)
	}

	var content fileContent
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &content); diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "decode recipe file", diags)
	}

	file := &File{
		Catalog: make(map[types.IngredientID]*types.Ingredient, len(content.Ingredients)),
	}
	byName := make(map[string]types.IngredientID, len(content.Ingredients))

	for i, block := range content.Ingredients {
		if _, dup := byName[block.Name]; dup {
			return nil, errors.Newf(errors.TypeInput, "duplicate ingredient %q", block.Name)
		}
		ing, err := block.toIngredient(types.IngredientID(i + 1))
		if err != nil {
			return nil, err
		}
		file.Catalog[ing.ID] = ing
		byName[block.Name] = ing.ID
	}

	for _, block := range content.Recipes {
		recipe, err := block.toRecipe(byName, defaultMargin)
		if err != nil {
			return nil, err
		}
		file.Recipes = append(file.Recipes, recipe)
	}

	return file, nil
}

// Recipe returns the named recipe from the file.
func (f *File) Recipe(name string) (*types.Recipe, error) {
	for _, r := range f.Recipes {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, errors.Newf(errors.TypeNotFound, "recipe not found: %q", name)
}

func (b *ingredientBlock) toIngredient(id types.IngredientID) (*types.Ingredient, error) {
	unit := b.Unit
	if unit == "" {
		unit = string(types.UnitMass)
	}
	kind, err := types.ParseUnitKind(unit)
	if err != nil {
		return nil, errors.Newf(errors.TypeInput, "ingredient %q: %v", b.Name, err)
	}

	amount := decimal.NewFromInt(100)
	if b.Amount != nil {
		amount = decimal.NewFromFloat(*b.Amount)
	}
	density := decimal.NewFromInt(1)
	if b.Density != nil {
		density = decimal.NewFromFloat(*b.Density)
	}

	ing := &types.Ingredient{
		ID:              id,
		Name:            b.Name,
		ReferenceUnit:   kind,
		ReferenceAmount: amount,
		UnitPrice:       decimal.NewFromFloat(b.Price),
		Density:         density,
	}
	if err := ing.Validate(); err != nil {
		return nil, err
	}
	return ing, nil
}

func (b *recipeBlock) toRecipe(byName map[string]types.IngredientID, defaultMargin decimal.Decimal) (*types.Recipe, error) {
	margin := defaultMargin
	if b.Margin != nil {
		margin = decimal.NewFromFloat(*b.Margin)
	}

	recipe := &types.Recipe{
		Name:          b.Name,
		Category:      b.Category,
		PackagingCost: decimal.NewFromFloat(b.Packaging),
		MarginPercent: margin,
		Yield:         b.Yield,
		Lines:         make([]types.RecipeLine, 0, len(b.Lines)),
	}

	for _, line := range b.Lines {
		id, ok := byName[line.Ingredient]
		if !ok {
			return nil, errors.Newf(errors.TypeInput,
				"recipe %q: line references unknown ingredient %q", b.Name, line.Ingredient)
		}
		unit := line.Unit
		if unit == "" {
			unit = string(types.UnitMass)
		}
		kind, err := types.ParseUnitKind(unit)
		if err != nil {
			return nil, errors.Newf(errors.TypeInput, "recipe %q: %v", b.Name, err)
		}
		recipe.Lines = append(recipe.Lines, types.RecipeLine{
			IngredientID: id,
			Quantity:     decimal.NewFromFloat(line.Quantity),
			Unit:         kind,
		})
	}

	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}
