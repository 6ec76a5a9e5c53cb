package service

import (
	"context"
	"fmt"

	"food-billing-app/internal/dto"
	"food-billing-app/internal/repository"
)

// Columns callers may sort search results by. Anything else silently
// falls back to order_date descending rather than erroring, so stale
// bookmarked queries keep working.
var sortableColumns = map[string]bool{
	"order_date":   true,
	"payment_date": true,
	"total_price":  true,
}

func (s *orderServiceImpl) SearchOrders(ctx context.Context, filter *dto.OrderSearchFilter) ([]*dto.Order, error) {
	sortBy := filter.SortBy
	sortOrder := filter.SortOrder
	if !sortableColumns[sortBy] {
		sortBy = "order_date"
		sortOrder = "desc"
	}

	orders, err := s.orderRepo.Search(ctx, &repository.OrderFilter{
		Status:           filter.Status,
		ItemName:         filter.ItemName,
		MinQuantity:      filter.MinQuantity,
		MaxQuantity:      filter.MaxQuantity,
		OrderDateStart:   filter.OrderDateStart,
		OrderDateEnd:     filter.OrderDateEnd,
		PaymentDateStart: filter.PaymentDateStart,
		PaymentDateEnd:   filter.PaymentDateEnd,
		SortBy:           sortBy,
		SortDesc:         sortOrder != "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}

	return toOrderDTOs(orders), nil
}
