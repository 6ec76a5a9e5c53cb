package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-billing-app/internal/apperr"
	"food-billing-app/internal/dto"
	"food-billing-app/internal/model"
)

func TestAddItemValidation(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *dto.ItemInput
	}{
		{"empty name", &dto.ItemInput{Name: "  ", UnitPrice: 10}},
		{"zero price", &dto.ItemInput{Name: "Tea", UnitPrice: 0}},
		{"negative price", &dto.ItemInput{Name: "Tea", UnitPrice: -5}},
		{"negative stock", &dto.ItemInput{Name: "Tea", UnitPrice: 10, Stock: stockOf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.AddItem(ctx, tt.input)
			var validation *apperr.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestAddItemDuplicateName(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	mustAddItem(t, catalog, "Masala Chai", 25, nil)

	_, err := catalog.AddItem(ctx, &dto.ItemInput{Name: "masala chai", UnitPrice: 30})
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUpdateItem(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	tea := mustAddItem(t, catalog, "Tea", 20, stockOf(10))
	coffee := mustAddItem(t, catalog, "Coffee", 30, nil)

	t.Run("renaming over another item conflicts", func(t *testing.T) {
		_, err := catalog.UpdateItem(ctx, coffee.ID, &dto.ItemInput{Name: "TEA", UnitPrice: 30})
		var conflict *apperr.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("keeping own name is fine", func(t *testing.T) {
		updated, err := catalog.UpdateItem(ctx, tea.ID, &dto.ItemInput{Name: "Tea", UnitPrice: 22, Stock: stockOf(5)})
		require.NoError(t, err)
		assert.Equal(t, 22.0, updated.UnitPrice)
		require.NotNil(t, updated.Stock)
		assert.Equal(t, 5, *updated.Stock)
	})

	t.Run("stock can be cleared to untracked", func(t *testing.T) {
		updated, err := catalog.UpdateItem(ctx, tea.ID, &dto.ItemInput{Name: "Tea", UnitPrice: 22})
		require.NoError(t, err)
		assert.Nil(t, updated.Stock)

		got, err := catalog.GetItem(ctx, tea.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Stock)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := catalog.UpdateItem(ctx, 9999, &dto.ItemInput{Name: "Ghost", UnitPrice: 1})
		var notFound *apperr.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestGetItemByNameIsCaseInsensitive(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	added := mustAddItem(t, catalog, "Butter Chicken", 250, stockOf(20))

	got, err := catalog.GetItemByName(ctx, "bUtTeR cHiCkEn")
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)

	_, err = catalog.GetItemByName(ctx, "Butter")
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound, "name lookup is exact match, not substring")
}

func TestSearchItems(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	mustAddItem(t, catalog, "Paneer Tikka", 180, stockOf(15))
	mustAddItem(t, catalog, "Chicken Tikka", 200, stockOf(25))
	mustAddItem(t, catalog, "Biryani", 220, stockOf(25))

	items, err := catalog.SearchItems(ctx, "TIKKA")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Name-sorted.
	assert.Equal(t, "Chicken Tikka", items[0].Name)
	assert.Equal(t, "Paneer Tikka", items[1].Name)

	items, err = catalog.SearchItems(ctx, "dosa")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteItemBlockedByOrderLines(t *testing.T) {
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	tea := mustAddItem(t, catalog, "Tea", 20, stockOf(10))
	order := mustCreateOrder(t, orders, model.StatusPending, &dto.OrderLineInput{ItemID: tea.ID, Quantity: 2})

	_, err := orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	// Even a cancelled order keeps the item pinned.
	err = catalog.DeleteItem(ctx, tea.ID)
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)

	unreferenced := mustAddItem(t, catalog, "Coffee", 30, nil)
	require.NoError(t, catalog.DeleteItem(ctx, unreferenced.ID))

	_, err = catalog.GetItem(ctx, unreferenced.ID)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRestockAll(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	tea := mustAddItem(t, catalog, "Tea", 20, stockOf(3))
	samosa := mustAddItem(t, catalog, "Samosa", 30, stockOf(0))
	lassi := mustAddItem(t, catalog, "Mango Lassi", 80, nil)

	count, err := catalog.RestockAll(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.Equal(t, 500, currentStock(t, catalog, tea.ID))
	assert.Equal(t, 500, currentStock(t, catalog, samosa.ID))

	got, err := catalog.GetItem(ctx, lassi.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Stock, "untracked items stay untracked")
}

func TestRestockAllDefaultQuantity(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	tea := mustAddItem(t, catalog, "Tea", 20, stockOf(3))

	_, err := catalog.RestockAll(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 9999, currentStock(t, catalog, tea.ID))
}

func TestAdjustStock(t *testing.T) {
	catalog, _, _ := newTestServices(t)
	ctx := context.Background()

	tea := mustAddItem(t, catalog, "Tea", 20, stockOf(10))
	lassi := mustAddItem(t, catalog, "Mango Lassi", 80, nil)

	t.Run("decrement within stock", func(t *testing.T) {
		item, err := catalog.AdjustStock(ctx, tea.ID, -4)
		require.NoError(t, err)
		require.NotNil(t, item.Stock)
		assert.Equal(t, 6, *item.Stock)
	})

	t.Run("decrement past zero fails and changes nothing", func(t *testing.T) {
		_, err := catalog.AdjustStock(ctx, tea.ID, -7)
		var insufficient *apperr.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "Tea", insufficient.ItemName)
		assert.Equal(t, 6, insufficient.Available)
		assert.Equal(t, 6, currentStock(t, catalog, tea.ID))
	})

	t.Run("untracked item is rejected", func(t *testing.T) {
		_, err := catalog.AdjustStock(ctx, lassi.ID, 5)
		var conflict *apperr.ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}
