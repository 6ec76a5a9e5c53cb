package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"food-billing-app/internal/apperr"
	"food-billing-app/internal/dto"
	"food-billing-app/internal/model"
	"food-billing-app/internal/repository"
)

type CatalogService interface {
	ListItems(ctx context.Context) ([]*dto.Item, error)
	GetItem(ctx context.Context, itemID uint) (*dto.Item, error)
	GetItemByName(ctx context.Context, name string) (*dto.Item, error)
	SearchItems(ctx context.Context, query string) ([]*dto.Item, error)
	AddItem(ctx context.Context, in *dto.ItemInput) (*dto.Item, error)
	UpdateItem(ctx context.Context, itemID uint, in *dto.ItemInput) (*dto.Item, error)
	DeleteItem(ctx context.Context, itemID uint) error
	// RestockAll sets every tracked item's stock to target; target <= 0
	// falls back to the configured default. Returns the restocked count.
	RestockAll(ctx context.Context, target int) (int64, error)
	AdjustStock(ctx context.Context, itemID uint, delta int) (*dto.Item, error)
}

type catalogServiceImpl struct {
	db             *gorm.DB
	itemRepo       repository.ItemRepository
	orderRepo      repository.OrderRepository
	defaultRestock int
}

func NewCatalogService(
	db *gorm.DB,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	defaultRestock int,
) CatalogService {
	return &catalogServiceImpl{
		db:             db,
		itemRepo:       itemRepo,
		orderRepo:      orderRepo,
		defaultRestock: defaultRestock,
	}
}

func (s *catalogServiceImpl) ListItems(ctx context.Context) ([]*dto.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return toItemDTOs(items), nil
}

func (s *catalogServiceImpl) GetItem(ctx context.Context, itemID uint) (*dto.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, s.db, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("item %d not found", itemID)
		}
		return nil, fmt.Errorf("find item: %w", err)
	}

	return toItemDTO(item), nil
}

func (s *catalogServiceImpl) GetItemByName(ctx context.Context, name string) (*dto.Item, error) {
	item, err := s.itemRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("item %q not found", name)
		}
		return nil, fmt.Errorf("find item by name: %w", err)
	}

	return toItemDTO(item), nil
}

func (s *catalogServiceImpl) SearchItems(ctx context.Context, query string) ([]*dto.Item, error) {
	items, err := s.itemRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}

	return toItemDTOs(items), nil
}

func (s *catalogServiceImpl) AddItem(ctx context.Context, in *dto.ItemInput) (*dto.Item, error) {
	if err := s.validateItemInput(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := s.checkNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:      name,
		UnitPrice: in.UnitPrice,
		Stock:     in.Stock,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	return toItemDTO(item), nil
}

func (s *catalogServiceImpl) UpdateItem(ctx context.Context, itemID uint, in *dto.ItemInput) (*dto.Item, error) {
	if err := s.validateItemInput(in); err != nil {
		return nil, err
	}

	if _, err := s.itemRepo.FindByID(ctx, s.db, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("item %d not found", itemID)
		}
		return nil, fmt.Errorf("find item: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if err := s.checkNameFree(ctx, name, itemID); err != nil {
		return nil, err
	}

	item := &model.Item{
		ID:        itemID,
		Name:      name,
		UnitPrice: in.UnitPrice,
		Stock:     in.Stock,
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	return toItemDTO(item), nil
}

func (s *catalogServiceImpl) DeleteItem(ctx context.Context, itemID uint) error {
	item, err := s.itemRepo.FindByID(ctx, s.db, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("item %d not found", itemID)
		}
		return fmt.Errorf("find item: %w", err)
	}

	// Referential integrity is permanent: lines in cancelled and
	// completed orders still pin the item.
	count, err := s.orderRepo.CountLinesByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("count order lines: %w", err)
	}
	if count > 0 {
		return apperr.Conflictf("item %q is referenced by existing orders", item.Name)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}

func (s *catalogServiceImpl) RestockAll(ctx context.Context, target int) (int64, error) {
	if target <= 0 {
		target = s.defaultRestock
	}

	count, err := s.itemRepo.RestockAll(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("restock all: %w", err)
	}

	return count, nil
}

func (s *catalogServiceImpl) AdjustStock(ctx context.Context, itemID uint, delta int) (*dto.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, s.db, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("item %d not found", itemID)
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	if item.Stock == nil {
		return nil, apperr.Conflictf("item %q does not track stock", item.Name)
	}

	ok, err := s.itemRepo.AdjustStock(ctx, s.db, itemID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if !ok {
		return nil, &apperr.InsufficientStockError{ItemName: item.Name, Available: *item.Stock}
	}

	return s.GetItem(ctx, itemID)
}

func (s *catalogServiceImpl) validateItemInput(in *dto.ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validationf("item name must not be empty")
	}
	if in.UnitPrice <= 0 {
		return apperr.Validationf("unit price must be positive")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return apperr.Validationf("stock must not be negative")
	}
	return nil
}

// checkNameFree rejects a name already used by a different item. The
// comparison is case-insensitive, same as lookups by name.
func (s *catalogServiceImpl) checkNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.itemRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check item name: %w", err)
	}
	if existing.ID != selfID {
		return apperr.Conflictf("item name %q is already taken", name)
	}
	return nil
}

func toItemDTO(item *model.Item) *dto.Item {
	return &dto.Item{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Stock:     item.Stock,
	}
}

func toItemDTOs(items []*model.Item) []*dto.Item {
	out := make([]*dto.Item, len(items))
	for i, item := range items {
		out[i] = toItemDTO(item)
	}
	return out
}
