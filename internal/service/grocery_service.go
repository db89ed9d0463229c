package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/repository"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const (
	expiringWithinDays = 3
	lowStockThreshold  = 2
)

type CreateGroceryInput struct {
	Name       string      `json:"name" validate:"required,max=120"`
	Category   string      `json:"category" validate:"omitempty,oneof=fruits vegetables dairy meat pantry frozen other"`
	Quantity   *int        `json:"quantity" validate:"omitnil,gte=0,lte=4294967295"`
	Unit       string      `json:"unit" validate:"omitempty,oneof=pcs kg g liters ml packs"`
	ExpiryDate *model.Date `json:"expiryDate" validate:"required"`
	Consumed   bool        `json:"consumed"`
	LowStock   bool        `json:"lowStock"`
	ImageURL   string      `json:"imageUrl" validate:"max=2048"`
}

// UpdateGroceryInput carries a partial update; nil fields are left as stored.
type UpdateGroceryInput struct {
	Name       *string     `json:"name" validate:"omitnil,min=1,max=120"`
	Category   *string     `json:"category" validate:"omitnil,oneof=fruits vegetables dairy meat pantry frozen other"`
	Quantity   *int        `json:"quantity" validate:"omitnil,gte=0,lte=4294967295"`
	Unit       *string     `json:"unit" validate:"omitnil,oneof=pcs kg g liters ml packs"`
	ExpiryDate *model.Date `json:"expiryDate"`
	Consumed   *bool       `json:"consumed"`
	LowStock   *bool       `json:"lowStock"`
	ImageURL   *string     `json:"imageUrl" validate:"omitnil,max=2048"`
}

// GrocerySummary is the dashboard view over one user's items.
type GrocerySummary struct {
	Total        int                 `json:"total"`
	ExpiringSoon []model.GroceryItem `json:"expiringSoon"`
	LowStock     []model.GroceryItem `json:"lowStock"`
	ByCategory   map[string]int      `json:"byCategory"`
}

type GroceryService struct {
	store    GroceryStore
	validate *utils.Validator
	now      func() time.Time
}

func NewGroceryService(store GroceryStore, validate *utils.Validator) *GroceryService {
	return &GroceryService{store: store, validate: validate, now: time.Now}
}

// WithClock overrides the clock used by Summary.
func (s *GroceryService) WithClock(now func() time.Time) *GroceryService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *GroceryService) List(ctx context.Context, identity uint64) ([]model.GroceryItem, error) {
	items, err := s.store.ListByUser(ctx, identity)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list groceries")
	}
	return items, nil
}

// Get returns one item after checking it belongs to identity.
func (s *GroceryService) Get(ctx context.Context, identity, id uint64) (*model.GroceryItem, error) {
	return s.owned(ctx, identity, id)
}

func (s *GroceryService) Create(ctx context.Context, identity uint64, in CreateGroceryInput) (*model.GroceryItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Unit = strings.ToLower(strings.TrimSpace(in.Unit))
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := s.validate.Struct(in, "invalid grocery item"); err != nil {
		return nil, err
	}

	item := &model.GroceryItem{
		UserID:     identity,
		Name:       in.Name,
		Category:   model.CategoryOther,
		Quantity:   1,
		Unit:       model.UnitPieces,
		ExpiryDate: *in.ExpiryDate,
		Consumed:   in.Consumed,
		LowStock:   in.LowStock,
		ImageURL:   in.ImageURL,
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.Unit != "" {
		item.Unit = in.Unit
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}

	if err := s.store.Create(ctx, item); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "create grocery")
	}
	return item, nil
}

// Update checks existence and ownership before merging in.
func (s *GroceryService) Update(ctx context.Context, identity, id uint64, in UpdateGroceryInput) (*model.GroceryItem, error) {
	trimPtr(in.Name)
	lowerPtr(in.Category)
	lowerPtr(in.Unit)
	trimPtr(in.ImageURL)
	if err := s.validate.Struct(in, "invalid grocery item"); err != nil {
		return nil, err
	}

	item, err := s.owned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.ExpiryDate != nil {
		item.ExpiryDate = *in.ExpiryDate
	}
	if in.Consumed != nil {
		item.Consumed = *in.Consumed
	}
	if in.LowStock != nil {
		item.LowStock = *in.LowStock
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}

	if err := s.store.Update(ctx, item); err != nil {
		return nil, storeErr(err, "grocery item not found", "update grocery")
	}
	return item, nil
}

func (s *GroceryService) Delete(ctx context.Context, identity, id uint64) error {
	if _, err := s.owned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id, identity); err != nil {
		return storeErr(err, "grocery item not found", "delete grocery")
	}
	return nil
}

// Summary counts identity's items, lists those expiring within three days
// (already expired included) and those at or below the low-stock threshold.
func (s *GroceryService) Summary(ctx context.Context, identity uint64) (*GrocerySummary, error) {
	items, err := s.List(ctx, identity)
	if err != nil {
		return nil, err
	}
	today := model.DateOf(s.now())

	sum := &GrocerySummary{
		Total:        len(items),
		ExpiringSoon: make([]model.GroceryItem, 0),
		LowStock:     make([]model.GroceryItem, 0),
		ByCategory:   make(map[string]int),
	}
	for _, it := range items {
		if it.ExpiryDate.DaysUntil(today) <= expiringWithinDays {
			sum.ExpiringSoon = append(sum.ExpiringSoon, it)
		}
		if it.Quantity <= lowStockThreshold {
			sum.LowStock = append(sum.LowStock, it)
		}
		sum.ByCategory[it.Category]++
	}
	sort.SliceStable(sum.ExpiringSoon, func(i, j int) bool {
		return sum.ExpiringSoon[i].ExpiryDate.Before(sum.ExpiringSoon[j].ExpiryDate.Time)
	})
	sort.SliceStable(sum.LowStock, func(i, j int) bool {
		return sum.LowStock[i].Quantity < sum.LowStock[j].Quantity
	})
	return sum, nil
}

// owned loads id and rejects it unless identity owns it.
func (s *GroceryService) owned(ctx context.Context, identity, id uint64) (*model.GroceryItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "grocery item not found", "load grocery")
	}
	if item.UserID != identity {
		return nil, apperr.Forbidden("not authorized to access this grocery item")
	}
	return item, nil
}

// storeErr maps repository.ErrNotFound to NotFound and anything else to
// an internal error.
func storeErr(err error, notFound, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Wrap(apperr.CodeInternal, err, op)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func lowerPtr(s *string) {
	if s != nil {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}
