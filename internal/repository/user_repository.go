package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

const userColumns = "id, name, email, password_hash, role, dietary, household_id, created_at, updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u and fills in its id and timestamps. The password must
// already be hashed.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, dietary) VALUES (?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role, u.Dietary)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
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
	*u = *stored
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// Update writes the mutable profile columns of u.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, password_hash=?, dietary=? WHERE id=?",
		u.Name, u.Email, u.PasswordHash, u.Dietary, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	stored, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *stored
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u         model.User
		household sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Dietary,
		&household, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if household.Valid {
		id := uint64(household.Int64)
		u.HouseholdID = &id
	}
	return &u, nil
}
