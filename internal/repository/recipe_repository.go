package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

const recipeColumns = "id, user_id, title, instructions, image_url, created_at, updated_at"

// RecipeRepo stores recipes and their ordered ingredient lines. A recipe
// and its ingredients are always written in one transaction.
type RecipeRepo struct {
	db *sql.DB
}

func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

// ListByUser returns userID's recipes, newest first, with ingredients.
func (r *RecipeRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Recipe, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		index[rec.ID] = len(out)
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Join on the owner rather than binding every recipe id, so the
	// statement stays the same size however many recipes the user has.
	irows, err := r.db.QueryContext(ctx,
		`SELECT ri.recipe_id, ri.name, ri.quantity
		   FROM recipe_ingredients ri
		   JOIN recipes r ON r.id = ri.recipe_id
		  WHERE r.user_id = ?
		  ORDER BY ri.recipe_id, ri.position`, userID)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var (
			recipeID uint64
			ing      model.Ingredient
		)
		if err := irows.Scan(&recipeID, &ing.Name, &ing.Quantity); err != nil {
			return nil, err
		}
		if i, ok := index[recipeID]; ok {
			out[i].Ingredients = append(out[i].Ingredients, ing)
		}
	}
	return out, irows.Err()
}

// GetByID fetches a recipe and its ingredients regardless of owner.
func (r *RecipeRepo) GetByID(ctx context.Context, id uint64) (*model.Recipe, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id)
	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Ingredients, err = r.ingredients(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create inserts rec with its ingredients and reloads it.
func (r *RecipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO recipes (user_id, title, instructions, image_url) VALUES (?, ?, ?, ?)",
		rec.UserID, rec.Title, rec.Instructions, rec.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := insertIngredients(ctx, tx, uint64(id), rec.Ingredients); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rec = *stored
	return nil
}

// Update overwrites the recipe columns and replaces its ingredient list.
func (r *RecipeRepo) Update(ctx context.Context, rec *model.Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE recipes SET title = ?, instructions = ?, image_url = ? WHERE id = ? AND user_id = ?",
		rec.Title, rec.Instructions, rec.ImageURL, rec.ID, rec.UserID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = ?", rec.ID); err != nil {
		return err
	}
	if err := insertIngredients(ctx, tx, rec.ID, rec.Ingredients); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	stored, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	*rec = *stored
	return nil
}

// Delete removes the recipe; ingredient rows cascade.
func (r *RecipeRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RecipeRepo) ingredients(ctx context.Context, recipeID uint64) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, quantity FROM recipe_ingredients WHERE recipe_id = ? ORDER BY position", recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Ingredient, 0)
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.Name, &ing.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// ingredientBatch caps the rows per INSERT so a statement never nears
// MySQL's 65535 placeholder limit (4 placeholders per row).
const ingredientBatch = 500

// insertIngredients writes ings in order; position is the index in the list.
func insertIngredients(ctx context.Context, tx *sql.Tx, recipeID uint64, ings []model.Ingredient) error {
	for start := 0; start < len(ings); start += ingredientBatch {
		end := start + ingredientBatch
		if end > len(ings) {
			end = len(ings)
		}
		args := make([]any, 0, (end-start)*4)
		for pos := start; pos < end; pos++ {
			args = append(args, recipeID, pos, ings[pos].Name, ings[pos].Quantity)
		}
		if _, err := tx.ExecContext(ctx, ingredientInsertSQL(end-start), args...); err != nil {
			return err
		}
	}
	return nil
}

// ingredientInsertSQL builds a multi-row INSERT for n ingredient lines.
func ingredientInsertSQL(n int) string {
	values := make([]string, n)
	for i := range values {
		values[i] = "(?, ?, ?, ?)"
	}
	return "INSERT INTO recipe_ingredients (recipe_id, position, name, quantity) VALUES " + strings.Join(values, ", ")
}

func scanRecipe(s rowScanner) (*model.Recipe, error) {
	var rec model.Recipe
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Instructions, &rec.ImageURL,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Ingredients = make([]model.Ingredient, 0)
	return &rec, nil
}
