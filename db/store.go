// Package db persists the ingredient catalog and costed recipes.
//
// The engine never touches this package; handlers read a catalog
// snapshot here, cost in memory, then write the recipe and its computed
// result back in a single transaction.
package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Storage("open database", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ingredients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			unit TEXT NOT NULL,
			amount TEXT NOT NULL,
			price TEXT NOT NULL,
			density TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT,
			packaging_cost TEXT NOT NULL,
			margin_percent TEXT NOT NULL,
			yield INTEGER NOT NULL,
			total_cost TEXT NOT NULL,
			suggested_price TEXT NOT NULL,
			price_per_yield_unit TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recipe_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
			quantity TEXT NOT NULL,
			unit TEXT NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return errors.Storage("init schema", err)
		}
	}
	return nil
}

// CreateIngredient inserts a catalog entry and fills in its id and
// creation time.
func (s *Store) CreateIngredient(ctx context.Context, ing *types.Ingredient) error {
	if err := ing.Validate(); err != nil {
		return err
	}
	ing.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (name, unit, amount, price, density, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ing.Name, string(ing.ReferenceUnit), ing.ReferenceAmount.String(),
		ing.UnitPrice.String(), ing.Density.String(), ing.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return errors.Storage("insert ingredient", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Storage("insert ingredient", err)
	}
	ing.ID = types.IngredientID(id)
	return nil
}

// GetIngredient fetches one catalog entry by id.
func (s *Store) GetIngredient(ctx context.Context, id types.IngredientID) (*types.Ingredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, unit, amount, price, density, created_at FROM ingredients WHERE id = ?`, int64(id))
	ing, err := scanIngredient(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("ingredient", int64(id))
	}
	if err != nil {
		return nil, errors.Storage("get ingredient", err)
	}
	return ing, nil
}

// ListIngredients returns the catalog ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]*types.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, unit, amount, price, density, created_at FROM ingredients ORDER BY name ASC`)
	if err != nil {
		return nil, errors.Storage("list ingredients", err)
	}
	defer rows.Close()

	out := []*types.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, errors.Storage("list ingredients", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// UpdateIngredient replaces a catalog entry in full.
func (s *Store) UpdateIngredient(ctx context.Context, ing *types.Ingredient) error {
	if err := ing.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE ingredients SET name = ?, unit = ?, amount = ?, price = ?, density = ? WHERE id = ?`,
		ing.Name, string(ing.ReferenceUnit), ing.ReferenceAmount.String(),
		ing.UnitPrice.String(), ing.Density.String(), int64(ing.ID))
	if err != nil {
		return errors.Storage("update ingredient", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Storage("update ingredient", err)
	}
	if n == 0 {
		return errors.NotFound("ingredient", int64(ing.ID))
	}
	return nil
}

// DeleteIngredient removes a catalog entry.
func (s *Store) DeleteIngredient(ctx context.Context, id types.IngredientID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, int64(id))
	if err != nil {
		return errors.Storage("delete ingredient", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Storage("delete ingredient", err)
	}
	if n == 0 {
		return errors.NotFound("ingredient", int64(id))
	}
	return nil
}

// Snapshot loads the whole catalog keyed by id, for use as an immutable
// costing snapshot.
func (s *Store) Snapshot(ctx context.Context) (map[types.IngredientID]*types.Ingredient, error) {
	ingredients, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(map[types.IngredientID]*types.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		snap[ing.ID] = ing
	}
	return snap, nil
}

// StoredRecipe is a persisted recipe joined with its costing figures.
type StoredRecipe struct {
	Recipe types.Recipe        `json:"recipe"`
	Result types.CostingResult `json:"result"`
}

// CreateRecipe persists a recipe together with its costing result and
// lines in one transaction. The result must already be rounded; no
// partial recipe survives a failed insert.
func (s *Store) CreateRecipe(ctx context.Context, recipe *types.Recipe, result *types.CostingResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("begin recipe insert", err)
	}
	defer tx.Rollback()

	recipe.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (name, category, packaging_cost, margin_percent, yield, total_cost, suggested_price, price_per_yield_unit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.Name, recipe.Category, recipe.PackagingCost.String(), recipe.MarginPercent.String(),
		recipe.EffectiveYield(), result.TotalCost.String(), result.SuggestedPrice.String(),
		result.PricePerYieldUnit.String(), recipe.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return errors.Storage("insert recipe", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Storage("insert recipe", err)
	}

	for _, line := range recipe.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_lines (recipe_id, ingredient_id, quantity, unit) VALUES (?, ?, ?, ?)`,
			id, int64(line.IngredientID), line.Quantity.String(), string(line.Unit)); err != nil {
			return errors.Storage("insert recipe line", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("commit recipe insert", err)
	}
	recipe.ID = types.RecipeID(id)
	return nil
}

// ListRecipes returns persisted recipes newest first, with their lines
// joined against current catalog names.
func (s *Store) ListRecipes(ctx context.Context) ([]*StoredRecipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, packaging_cost, margin_percent, yield, total_cost, suggested_price, price_per_yield_unit, created_at
		 FROM recipes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Storage("list recipes", err)
	}
	defer rows.Close()

	out := []*StoredRecipe{}
	for rows.Next() {
		var (
			sr                         StoredRecipe
			category                   sql.NullString
			packaging, margin          string
			total, suggested, perYield string
			createdAt                  string
		)
		if err := rows.Scan(&sr.Recipe.ID, &sr.Recipe.Name, &category, &packaging, &margin,
			&sr.Recipe.Yield, &total, &suggested, &perYield, &createdAt); err != nil {
			return nil, errors.Storage("scan recipe", err)
		}
		sr.Recipe.Category = category.String
		if sr.Recipe.PackagingCost, err = decimal.NewFromString(packaging); err != nil {
			return nil, errors.Storage("decode recipe", err)
		}
		if sr.Recipe.MarginPercent, err = decimal.NewFromString(margin); err != nil {
			return nil, errors.Storage("decode recipe", err)
		}
		if sr.Result.TotalCost, err = decimal.NewFromString(total); err != nil {
			return nil, errors.Storage("decode recipe", err)
		}
		if sr.Result.SuggestedPrice, err = decimal.NewFromString(suggested); err != nil {
			return nil, errors.Storage("decode recipe", err)
		}
		if sr.Result.PricePerYieldUnit, err = decimal.NewFromString(perYield); err != nil {
			return nil, errors.Storage("decode recipe", err)
		}
		sr.Result.IngredientCost = sr.Result.TotalCost.Sub(sr.Recipe.PackagingCost)
		sr.Recipe.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &sr)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("list recipes", err)
	}

	for _, sr := range out {
		if err := s.loadLines(ctx, sr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadLines(ctx context.Context, sr *StoredRecipe) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rl.ingredient_id, rl.quantity, rl.unit, COALESCE(i.name, '')
		 FROM recipe_lines rl
		 LEFT JOIN ingredients i ON i.id = rl.ingredient_id
		 WHERE rl.recipe_id = ?
		 ORDER BY rl.id ASC`, int64(sr.Recipe.ID))
	if err != nil {
		return errors.Storage("list recipe lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line     types.RecipeLine
			lineCost types.LineCost
			quantity string
			unit     string
			name     string
		)
		if err := rows.Scan(&line.IngredientID, &quantity, &unit, &name); err != nil {
			return errors.Storage("scan recipe line", err)
		}
		if line.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return errors.Storage("decode recipe line", err)
		}
		line.Unit = types.UnitKind(unit)
		sr.Recipe.Lines = append(sr.Recipe.Lines, line)

		lineCost.IngredientID = line.IngredientID
		lineCost.IngredientName = name
		lineCost.Quantity = line.Quantity
		lineCost.Unit = line.Unit
		sr.Result.Lines = append(sr.Result.Lines, lineCost)
	}
	return rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanIngredient(row scannable) (*types.Ingredient, error) {
	var (
		ing                    types.Ingredient
		unit                   string
		amount, price, density string
		createdAt              string
	)
	if err := row.Scan(&ing.ID, &ing.Name, &unit, &amount, &price, &density, &createdAt); err != nil {
		return nil, err
	}
	ing.ReferenceUnit = types.UnitKind(unit)
	var err error
	if ing.ReferenceAmount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if ing.UnitPrice, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	if ing.Density, err = decimal.NewFromString(density); err != nil {
		return nil, err
	}
	ing.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ing, nil
}
