package model

import "time"

// Grocery categories.
const (
	CategoryFruits     = "fruits"
	CategoryVegetables = "vegetables"
	CategoryDairy      = "dairy"
	CategoryMeat       = "meat"
	CategoryPantry     = "pantry"
	CategoryFrozen     = "frozen"
	CategoryOther      = "other"
)

// Units a grocery quantity can be measured in.
const (
	UnitPieces = "pcs"
	UnitKg     = "kg"
	UnitGram   = "g"
	UnitLiters = "liters"
	UnitML     = "ml"
	UnitPacks  = "packs"
)

// Categories lists every category in display order.
var Categories = []string{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategoryMeat,
	CategoryPantry,
	CategoryFrozen,
	CategoryOther,
}

// GroceryItem represents one row of the `groceries` table. UserID is set
// on creation and never changes afterwards.
type GroceryItem struct {
	ID         uint64    `json:"id"`                 // groceries.id
	UserID     uint64    `json:"userId"`             // groceries.user_id
	Name       string    `json:"name"`               // groceries.name
	Category   string    `json:"category"`           // groceries.category
	Quantity   int       `json:"quantity"`           // groceries.quantity
	Unit       string    `json:"unit"`               // groceries.unit
	ExpiryDate Date      `json:"expiryDate"`         // groceries.expiry_date
	Consumed   bool      `json:"consumed"`           // groceries.consumed
	LowStock   bool      `json:"lowStock"`           // groceries.low_stock
	ImageURL   string    `json:"imageUrl,omitempty"` // groceries.image_url
	CreatedAt  time.Time `json:"createdAt"`          // groceries.created_at
	UpdatedAt  time.Time `json:"updatedAt"`          // groceries.updated_at
}
