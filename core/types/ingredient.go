// Package types - Ingredient catalog entry
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"recipe-cost/internal/errors"
)

// IngredientID identifies a catalog entry.
type IngredientID int64

// Ingredient is a validated catalog entry. The catalog price (UnitPrice)
// is quoted for exactly ReferenceAmount of the ingredient expressed in
// ReferenceUnit, e.g. "R$ 5.00 per 100 g".
//
// Density carries the conversion ratio for this ingredient: grams per
// milliliter when crossing mass and volume, grams per item when crossing
// count and a continuous unit. A zero density makes those crossings
// undefined; same-unit use never touches it.
type Ingredient struct {
	// ID uniquely identifies the catalog entry
	ID IngredientID `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// ReferenceUnit is the unit the catalog price is quoted in
	ReferenceUnit UnitKind `json:"unit"`

	// ReferenceAmount is the quantity the catalog price corresponds to
	ReferenceAmount decimal.Decimal `json:"amount"`

	// UnitPrice is the cost of one ReferenceAmount
	UnitPrice decimal.Decimal `json:"price"`

	// Density is grams per milliliter or grams per item, depending on
	// which unit pair a conversion crosses
	Density decimal.Decimal `json:"density"`

	// CreatedAt is when the entry was created
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks the catalog invariants. It is meant to run once at the
// boundary, before an Ingredient reaches the engine.
func (i *Ingredient) Validate() error {
	if i.Name == "" {
		return errors.Input("ingredient name is required")
	}
	if !i.ReferenceUnit.Valid() {
		return errors.Newf(errors.TypeInput, "ingredient %q: unknown unit %q", i.Name, string(i.ReferenceUnit))
	}
	if i.ReferenceAmount.Sign() <= 0 {
		return errors.Newf(errors.TypeInput, "ingredient %q: reference amount must be positive", i.Name)
	}
	if i.UnitPrice.Sign() < 0 {
		return errors.Newf(errors.TypeInput, "ingredient %q: unit price must not be negative", i.Name)
	}
	if i.Density.Sign() < 0 {
		return errors.Newf(errors.TypeInput, "ingredient %q: density must not be negative", i.Name)
	}
	return nil
}
