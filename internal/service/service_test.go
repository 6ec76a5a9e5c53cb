package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"food-billing-app/internal/dto"
	"food-billing-app/internal/model"
	"food-billing-app/internal/repository"
)

// newTestDB opens a fresh in-memory sqlite database per test. The DSN is
// named after the test so parallel tests never share state, and the pool
// is pinned to one connection so every session sees the same memory DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Item{}, &model.Order{}, &model.OrderLine{}))
	return db
}

func newTestServices(t *testing.T) (CatalogService, OrderService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalog := NewCatalogService(db, itemRepo, orderRepo, 9999)
	orders := NewOrderService(db, itemRepo, orderRepo)
	return catalog, orders, db
}

func stockOf(n int) *int { return &n }

func mustAddItem(t *testing.T, catalog CatalogService, name string, price float64, stock *int) *dto.Item {
	t.Helper()

	item, err := catalog.AddItem(context.Background(), &dto.ItemInput{
		Name:      name,
		UnitPrice: price,
		Stock:     stock,
	})
	require.NoError(t, err)
	return item
}

func mustCreateOrder(t *testing.T, orders OrderService, status string, lines ...*dto.OrderLineInput) *dto.Order {
	t.Helper()

	order, err := orders.CreateOrder(context.Background(), &dto.CreateOrderRequest{
		Lines:         lines,
		PaymentStatus: status,
	})
	require.NoError(t, err)
	return order
}

func currentStock(t *testing.T, catalog CatalogService, itemID uint) int {
	t.Helper()

	item, err := catalog.GetItem(context.Background(), itemID)
	require.NoError(t, err)
	require.NotNil(t, item.Stock)
	return *item.Stock
}

// requireConsistentTotal asserts the ledger invariant: the order total
// equals the sum of its line subtotals, and every subtotal equals
// quantity times the snapshot price.
func requireConsistentTotal(t *testing.T, order *dto.Order) {
	t.Helper()

	sum := 0.0
	for _, line := range order.Lines {
		require.Equal(t, float64(line.Quantity)*line.UnitPrice, line.Subtotal)
		sum += line.Subtotal
	}
	require.Equal(t, sum, order.TotalPrice)
}
