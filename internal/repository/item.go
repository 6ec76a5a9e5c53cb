package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"food-billing-app/internal/model"
)

type ItemRepository interface {
	// List returns the whole catalog sorted by name.
	List(ctx context.Context) ([]*model.Item, error)
	// FindByID runs on the given executor so order transactions can read
	// items through their own tx.
	FindByID(ctx context.Context, tx *gorm.DB, itemID uint) (*model.Item, error)
	// FindByName matches the name case-insensitively and exactly.
	FindByName(ctx context.Context, name string) (*model.Item, error)
	// Search matches a case-insensitive unanchored substring of the name.
	Search(ctx context.Context, query string) ([]*model.Item, error)
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, itemID uint) error
	// RestockAll sets the stock of every tracked item; untracked items
	// are left alone. Returns the number of items restocked.
	RestockAll(ctx context.Context, target int) (int64, error)
	// AdjustStock applies delta to a tracked item's stock in a single
	// conditional update, so concurrent decrements can never oversell.
	// It reports false without error when the item is untracked, missing,
	// or the decrement would push stock negative.
	AdjustStock(ctx context.Context, tx *gorm.DB, itemID uint, delta int) (bool, error)
}

type itemRepoImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepoImpl{
		db: db,
	}
}

func (r *itemRepoImpl) List(ctx context.Context) ([]*model.Item, error) {
	var items []*model.Item
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *itemRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, itemID uint) (*model.Item, error) {
	var item model.Item
	err := tx.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *itemRepoImpl) FindByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *itemRepoImpl) Search(ctx context.Context, query string) ([]*model.Item, error) {
	var items []*model.Item
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("name").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *itemRepoImpl) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepoImpl) Update(ctx context.Context, item *model.Item) error {
	// Save via column map so a nil Stock clears the column instead of
	// being skipped as a zero value.
	result := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":       item.Name,
			"unit_price": item.UnitPrice,
			"stock":      item.Stock,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *itemRepoImpl) Delete(ctx context.Context, itemID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&model.Item{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *itemRepoImpl) RestockAll(ctx context.Context, target int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("stock IS NOT NULL").
		Update("stock", target)

	return result.RowsAffected, result.Error
}

func (r *itemRepoImpl) AdjustStock(ctx context.Context, tx *gorm.DB, itemID uint, delta int) (bool, error) {
	query := tx.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ? AND stock IS NOT NULL", itemID)

	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}

	result := query.Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
