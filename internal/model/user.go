package model

import "time"

// Roles a user may hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Dietary preferences accepted on the profile.
const (
	DietaryNone       = "none"
	DietaryVegetarian = "vegetarian"
	DietaryVegan      = "vegan"
	DietaryHalal      = "halal"
	DietaryKosher     = "kosher"
)

// User represents an account record as stored in the `users` table.
// The password hash never leaves the process: it is excluded from
// JSON and the session middleware drops it before attaching the user
// to a request.
type User struct {
	ID           uint64    `json:"id"`                    // users.id
	Name         string    `json:"name"`                  // users.name
	Email        string    `json:"email"`                 // users.email (unique, lower-cased)
	PasswordHash string    `json:"-"`                     // users.password_hash
	Role         string    `json:"role"`                  // users.role
	Dietary      string    `json:"dietary"`               // users.dietary
	HouseholdID  *uint64   `json:"householdId,omitempty"` // users.household_id (nullable, unused)
	CreatedAt    time.Time `json:"createdAt"`             // users.created_at
	UpdatedAt    time.Time `json:"updatedAt"`             // users.updated_at
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
