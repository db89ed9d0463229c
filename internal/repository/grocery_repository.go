package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

const groceryColumns = `id, user_id, name, category, quantity, unit, expiry_date,
	consumed, low_stock, image_url, created_at, updated_at`

// GroceryRepo encapsulates the queries on the `groceries` table.
// Ownership is enforced by the service; Update and Delete still pin
// user_id so a stale caller cannot touch another user's row.
type GroceryRepo struct {
	db *sql.DB
}

func NewGroceryRepo(db *sql.DB) *GroceryRepo {
	return &GroceryRepo{db: db}
}

// ListByUser returns every item owned by userID, soonest expiry first.
func (r *GroceryRepo) ListByUser(ctx context.Context, userID uint64) ([]model.GroceryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+groceryColumns+" FROM groceries WHERE user_id = ? ORDER BY expiry_date, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.GroceryItem, 0)
	for rows.Next() {
		g, err := scanGrocery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches an item regardless of owner.
func (r *GroceryRepo) GetByID(ctx context.Context, id uint64) (*model.GroceryItem, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+groceryColumns+" FROM groceries WHERE id = ?", id)
	g, err := scanGrocery(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// Create inserts g and reloads it so defaults and timestamps are populated.
func (r *GroceryRepo) Create(ctx context.Context, g *model.GroceryItem) error {
	const q = `INSERT INTO groceries
		(user_id, name, category, quantity, unit, expiry_date, consumed, low_stock, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, g.UserID, g.Name, g.Category, g.Quantity, g.Unit,
		g.ExpiryDate, g.Consumed, g.LowStock, g.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*g = *stored
	return nil
}

// Update overwrites every mutable column of g.
func (r *GroceryRepo) Update(ctx context.Context, g *model.GroceryItem) error {
	const q = `UPDATE groceries SET name = ?, category = ?, quantity = ?, unit = ?, expiry_date = ?,
		consumed = ?, low_stock = ?, image_url = ? WHERE id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, q, g.Name, g.Category, g.Quantity, g.Unit, g.ExpiryDate,
		g.Consumed, g.LowStock, g.ImageURL, g.ID, g.UserID); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = *stored
	return nil
}

// Delete removes the item. It returns ErrNotFound when no row matched.
func (r *GroceryRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM groceries WHERE id = ? AND user_id = ?", id, userID)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrocery(s rowScanner) (*model.GroceryItem, error) {
	var g model.GroceryItem
	if err := s.Scan(&g.ID, &g.UserID, &g.Name, &g.Category, &g.Quantity, &g.Unit, &g.ExpiryDate,
		&g.Consumed, &g.LowStock, &g.ImageURL, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
