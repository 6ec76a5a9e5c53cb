package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-billing-app/internal/dto"
	"food-billing-app/internal/model"
)

func intPtr(n int) *int { return &n }

// seedSearchOrders builds a small, known ledger:
//
//	order A: pending,   Tea x2 + Samosa x10  (total 340)
//	order B: completed, Tea x1               (total 20)
//	order C: completed, Coffee x3            (total 90)
//	order D: cancelled, Samosa x5            (total 150)
func seedSearchOrders(t *testing.T) (OrderService, map[string]*dto.Order) {
	t.Helper()
	catalog, orders, _ := newTestServices(t)
	ctx := context.Background()

	tea := mustAddItem(t, catalog, "Tea", 20, stockOf(100))
	coffee := mustAddItem(t, catalog, "Coffee", 30, stockOf(100))
	samosa := mustAddItem(t, catalog, "Samosa", 30, stockOf(100))

	a := mustCreateOrder(t, orders, model.StatusPending,
		&dto.OrderLineInput{ItemID: tea.ID, Quantity: 2},
		&dto.OrderLineInput{ItemID: samosa.ID, Quantity: 10},
	)
	b := mustCreateOrder(t, orders, model.StatusCompleted, &dto.OrderLineInput{ItemID: tea.ID, Quantity: 1})
	c := mustCreateOrder(t, orders, model.StatusCompleted, &dto.OrderLineInput{ItemID: coffee.ID, Quantity: 3})
	d := mustCreateOrder(t, orders, model.StatusPending, &dto.OrderLineInput{ItemID: samosa.ID, Quantity: 5})
	_, err := orders.CancelOrder(ctx, d.ID)
	require.NoError(t, err)

	return orders, map[string]*dto.Order{"a": a, "b": b, "c": c, "d": d}
}

func orderIDs(orders []*dto.Order) []uint {
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func TestSearchOrdersNoFilters(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Default sort is order_date descending: newest first.
	assert.Equal(t, []uint{seeded["d"].ID, seeded["c"].ID, seeded["b"].ID, seeded["a"].ID}, orderIDs(results))

	for _, order := range results {
		requireConsistentTotal(t, order)
	}
}

func TestSearchOrdersByStatus(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{Status: model.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ElementsMatch(t, []uint{seeded["b"].ID, seeded["c"].ID}, orderIDs(results))
}

func TestSearchOrdersByItemName(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	// "tea" matches any line, case-insensitively; the two-line order A
	// must come back exactly once.
	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{ItemName: "TeA"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ElementsMatch(t, []uint{seeded["a"].ID, seeded["b"].ID}, orderIDs(results))
}

func TestSearchOrdersByQuantityRange(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	// Matches when any line quantity falls in the range.
	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{
		MinQuantity: intPtr(5),
		MaxQuantity: intPtr(10),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{seeded["a"].ID, seeded["d"].ID}, orderIDs(results))
}

func TestSearchOrdersCombinedFilters(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{
		Status:      model.StatusPending,
		ItemName:    "samosa",
		MinQuantity: intPtr(6),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, seeded["a"].ID, results[0].ID)
}

func TestSearchOrdersByOrderDateRange(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	// The fixed-width timestamps compare lexicographically, so the
	// seeded orders' own dates work as range bounds.
	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{
		OrderDateStart: seeded["b"].OrderDate,
		OrderDateEnd:   seeded["c"].OrderDate,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{seeded["b"].ID, seeded["c"].ID}, orderIDs(results))
}

func TestSearchOrdersByPaymentDateRange(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	require.NotNil(t, seeded["b"].PaymentDate)
	results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{
		PaymentDateStart: *seeded["b"].PaymentDate,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{seeded["b"].ID, seeded["c"].ID}, orderIDs(results))
}

func TestSearchOrdersSorting(t *testing.T) {
	orders, seeded := seedSearchOrders(t)
	ctx := context.Background()

	t.Run("by total price ascending", func(t *testing.T) {
		results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{
			SortBy:    "total_price",
			SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{seeded["b"].ID, seeded["c"].ID, seeded["d"].ID, seeded["a"].ID}, orderIDs(results))
	})

	t.Run("unknown sort key falls back to newest first", func(t *testing.T) {
		results, err := orders.SearchOrders(ctx, &dto.OrderSearchFilter{
			SortBy:    "item_name",
			SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, []uint{seeded["d"].ID, seeded["c"].ID, seeded["b"].ID, seeded["a"].ID}, orderIDs(results))
	})
}
