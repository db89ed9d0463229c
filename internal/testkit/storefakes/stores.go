// Package storefakes provides in-memory implementations of the service
// store interfaces for tests.
package storefakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/repository"
)

// UserStore is an in-memory UserStore fake. Setting Err makes every call
// fail with it.
type UserStore struct {
	mu     sync.Mutex
	Users  map[uint64]model.User
	Err    error
	nextID uint64
}

// NewUserStore constructs a UserStore fake with initialized state maps.
func NewUserStore() *UserStore {
	return &UserStore{Users: make(map[uint64]model.User)}
}

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.Users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	s.nextID++
	now := time.Now().UTC()
	u.ID = s.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	s.Users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.Users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.Users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) Update(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for id, existing := range s.Users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.UpdatedAt = time.Now().UTC()
	s.Users[u.ID] = *u
	return nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Users)
}

// GroceryStore is an in-memory GroceryStore fake.
type GroceryStore struct {
	mu     sync.Mutex
	Items  map[uint64]model.GroceryItem
	Err    error
	nextID uint64
}

// NewGroceryStore constructs a GroceryStore fake with initialized state maps.
func NewGroceryStore() *GroceryStore {
	return &GroceryStore{Items: make(map[uint64]model.GroceryItem)}
}

func (s *GroceryStore) ListByUser(_ context.Context, userID uint64) ([]model.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.GroceryItem, 0)
	for _, it := range s.Items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate.Time) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *GroceryStore) GetByID(_ context.Context, id uint64) (*model.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	it, ok := s.Items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (s *GroceryStore) Create(_ context.Context, g *model.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	now := time.Now().UTC()
	g.ID = s.nextID
	g.CreatedAt, g.UpdatedAt = now, now
	s.Items[g.ID] = *g
	return nil
}

func (s *GroceryStore) Update(_ context.Context, g *model.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.Items[g.ID]
	if !ok || cur.UserID != g.UserID {
		return repository.ErrNotFound
	}
	g.CreatedAt = cur.CreatedAt
	g.UpdatedAt = time.Now().UTC()
	s.Items[g.ID] = *g
	return nil
}

func (s *GroceryStore) Delete(_ context.Context, id, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.Items[id]
	if !ok || cur.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.Items, id)
	return nil
}

// RecipeStore is an in-memory RecipeStore fake.
type RecipeStore struct {
	mu      sync.Mutex
	Recipes map[uint64]model.Recipe
	Err     error
	nextID  uint64
}

// NewRecipeStore constructs a RecipeStore fake with initialized state maps.
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{Recipes: make(map[uint64]model.Recipe)}
}

func (s *RecipeStore) ListByUser(_ context.Context, userID uint64) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Recipe, 0)
	for _, r := range s.Recipes {
		if r.UserID == userID {
			out = append(out, cloneRecipe(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *RecipeStore) GetByID(_ context.Context, id uint64) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.Recipes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneRecipe(r)
	return &cp, nil
}

func (s *RecipeStore) Create(_ context.Context, r *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.nextID++
	now := time.Now().UTC()
	r.ID = s.nextID
	r.CreatedAt, r.UpdatedAt = now, now
	if r.Ingredients == nil {
		r.Ingredients = make([]model.Ingredient, 0)
	}
	s.Recipes[r.ID] = cloneRecipe(*r)
	return nil
}

func (s *RecipeStore) Update(_ context.Context, r *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.Recipes[r.ID]
	if !ok || cur.UserID != r.UserID {
		return repository.ErrNotFound
	}
	r.CreatedAt = cur.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	s.Recipes[r.ID] = cloneRecipe(*r)
	return nil
}

func (s *RecipeStore) Delete(_ context.Context, id, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.Recipes[id]
	if !ok || cur.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.Recipes, id)
	return nil
}

func cloneRecipe(r model.Recipe) model.Recipe {
	r.Ingredients = append(make([]model.Ingredient, 0, len(r.Ingredients)), r.Ingredients...)
	return r
}

// RecipeFinder is a scripted RecipeFinder. Calls records every ingredient
// list it was asked for.
type RecipeFinder struct {
	mu      sync.Mutex
	Results []model.SuggestedRecipe
	Err     error
	Calls   [][]string
}

func (f *RecipeFinder) FindByIngredients(_ context.Context, ingredients []string) ([]model.SuggestedRecipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, append([]string(nil), ingredients...))
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Results, nil
}
