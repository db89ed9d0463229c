package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/testkit/storefakes"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const (
	ana uint64 = 1
	bob uint64 = 2
)

func ptr[T any](v T) *T { return &v }

func newGroceries() (*service.GroceryService, *storefakes.GroceryStore) {
	store := storefakes.NewGroceryStore()
	return service.NewGroceryService(store, utils.NewValidator()), store
}

func milk(expiry model.Date) service.CreateGroceryInput {
	return service.CreateGroceryInput{Name: "Milk", Category: "dairy", Quantity: ptr(1), Unit: "liters", ExpiryDate: &expiry}
}

func TestCreateGroceryAppliesDefaults(t *testing.T) {
	svc, _ := newGroceries()
	expiry := model.NewDate(2030, time.January, 2)

	item, err := svc.Create(context.Background(), ana, service.CreateGroceryInput{Name: "  Rice ", ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, ana, item.UserID)
	assert.Equal(t, "Rice", item.Name)
	assert.Equal(t, model.CategoryOther, item.Category)
	assert.Equal(t, model.UnitPieces, item.Unit)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.Consumed)
	assert.Equal(t, expiry, item.ExpiryDate)

	zero, err := svc.Create(context.Background(), ana, service.CreateGroceryInput{Name: "Salt", Quantity: ptr(0), ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Quantity)
}

func TestCreateGroceryValidation(t *testing.T) {
	svc, store := newGroceries()

	_, err := svc.Create(context.Background(), ana, service.CreateGroceryInput{
		Name:     "   ",
		Category: "snacks",
		Quantity: ptr(-3),
		Unit:     "tons",
	})
	requireCode(t, err, apperr.CodeValidation)

	fields := apperr.As(err).Details().([]apperr.FieldError)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "category", "quantity", "unit", "expiryDate"}, names)
	assert.Empty(t, store.Items)
}

func TestGroceryQuantityFitsStoredColumn(t *testing.T) {
	svc, store := newGroceries()
	ctx := context.Background()
	expiry := model.NewDate(2030, time.January, 2)

	in := milk(expiry)
	in.Quantity = ptr(math.MaxUint32 + 1)
	_, err := svc.Create(ctx, ana, in)
	requireCode(t, err, apperr.CodeValidation)
	assert.Equal(t, "quantity", apperr.As(err).Details().([]apperr.FieldError)[0].Field)
	assert.Empty(t, store.Items)

	in.Quantity = ptr(math.MaxUint32)
	item, err := svc.Create(ctx, ana, in)
	require.NoError(t, err)

	_, err = svc.Update(ctx, ana, item.ID, service.UpdateGroceryInput{Quantity: ptr(10_000_000_000)})
	requireCode(t, err, apperr.CodeValidation)
	stored, err := svc.Get(ctx, ana, item.ID)
	require.NoError(t, err)
	assert.Equal(t, math.MaxUint32, stored.Quantity)
}

func TestCreateThenListThenDelete(t *testing.T) {
	svc, _ := newGroceries()
	ctx := context.Background()

	item, err := svc.Create(ctx, ana, milk(model.NewDate(2030, time.March, 1)))
	require.NoError(t, err)

	list, err := svc.List(ctx, ana)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Milk", list[0].Name)
	assert.Equal(t, model.UnitLiters, list[0].Unit)

	require.NoError(t, svc.Delete(ctx, ana, item.ID))
	list, err = svc.List(ctx, ana)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNonOwnerIsForbiddenAndRecordUnchanged(t *testing.T) {
	svc, store := newGroceries()
	ctx := context.Background()

	item, err := svc.Create(ctx, ana, milk(model.NewDate(2030, time.March, 1)))
	require.NoError(t, err)
	before := store.Items[item.ID]

	_, err = svc.Update(ctx, bob, item.ID, service.UpdateGroceryInput{Quantity: ptr(9)})
	requireCode(t, err, apperr.CodeForbidden)

	err = svc.Delete(ctx, bob, item.ID)
	requireCode(t, err, apperr.CodeForbidden)

	_, err = svc.Get(ctx, bob, item.ID)
	requireCode(t, err, apperr.CodeForbidden)

	assert.Equal(t, before, store.Items[item.ID])
}

func TestMissingGroceryIsNotFound(t *testing.T) {
	svc, _ := newGroceries()
	ctx := context.Background()

	_, err := svc.Update(ctx, ana, 99, service.UpdateGroceryInput{Name: ptr("x")})
	requireCode(t, err, apperr.CodeNotFound)
	requireCode(t, svc.Delete(ctx, ana, 99), apperr.CodeNotFound)
	_, err = svc.Get(ctx, ana, 99)
	requireCode(t, err, apperr.CodeNotFound)
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	svc, _ := newGroceries()
	ctx := context.Background()
	item, err := svc.Create(ctx, ana, milk(model.NewDate(2030, time.March, 1)))
	require.NoError(t, err)

	newExpiry := model.NewDate(2030, time.April, 1)
	updated, err := svc.Update(ctx, ana, item.ID, service.UpdateGroceryInput{
		Quantity:   ptr(4),
		Consumed:   ptr(true),
		ExpiryDate: &newExpiry,
	})
	require.NoError(t, err)
	assert.Equal(t, "Milk", updated.Name)
	assert.Equal(t, model.CategoryDairy, updated.Category)
	assert.Equal(t, 4, updated.Quantity)
	assert.True(t, updated.Consumed)
	assert.Equal(t, newExpiry, updated.ExpiryDate)
	assert.Equal(t, ana, updated.UserID)

	_, err = svc.Update(ctx, ana, item.ID, service.UpdateGroceryInput{Name: ptr("  ")})
	requireCode(t, err, apperr.CodeValidation)
	_, err = svc.Update(ctx, ana, item.ID, service.UpdateGroceryInput{Quantity: ptr(-1)})
	requireCode(t, err, apperr.CodeValidation)
}

func TestSummary(t *testing.T) {
	svc, _ := newGroceries()
	now := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)
	svc = svc.WithClock(func() time.Time { return now })
	ctx := context.Background()

	add := func(name, category string, qty int, expiry model.Date) {
		_, err := svc.Create(ctx, ana, service.CreateGroceryInput{Name: name, Category: category, Quantity: ptr(qty), ExpiryDate: &expiry})
		require.NoError(t, err)
	}
	add("Yogurt", "dairy", 5, model.NewDate(2025, time.June, 13))    // in 3 days
	add("Bread", "pantry", 1, model.NewDate(2025, time.June, 8))     // expired
	add("Beef", "meat", 2, model.NewDate(2025, time.June, 20))       // low stock only
	add("Peas", "frozen", 10, model.NewDate(2025, time.December, 1)) // neither
	add("Cheese", "dairy", 0, model.NewDate(2025, time.June, 14))    // low stock, 4 days out

	_, err := svc.Create(ctx, bob, milk(model.NewDate(2025, time.June, 10)))
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, ana)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Total)

	expiring := make([]string, 0)
	for _, it := range sum.ExpiringSoon {
		expiring = append(expiring, it.Name)
	}
	assert.Equal(t, []string{"Bread", "Yogurt"}, expiring)

	low := make([]string, 0)
	for _, it := range sum.LowStock {
		low = append(low, it.Name)
	}
	assert.Equal(t, []string{"Cheese", "Bread", "Beef"}, low)

	assert.Equal(t, map[string]int{"dairy": 2, "pantry": 1, "meat": 1, "frozen": 1}, sum.ByCategory)
}
