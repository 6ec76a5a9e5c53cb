package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"food-billing-app/internal/model"
)

// OrderFilter is the normalized search input: every field is optional
// and the combined filters are ANDed. SortBy must be one of the
// order table's sortable columns (the service enforces the whitelist).
type OrderFilter struct {
	Status           string
	ItemName         string
	MinQuantity      *int
	MaxQuantity      *int
	OrderDateStart   string
	OrderDateEnd     string
	PaymentDateStart string
	PaymentDateEnd   string
	SortBy           string
	SortDesc         bool
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateLines(ctx context.Context, tx *gorm.DB, lines []*model.OrderLine) error
	// FindByID returns the fully-materialized aggregate: the order row
	// plus all of its lines, fetched explicitly.
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
	ListByStatus(ctx context.Context, status string, oldestFirst bool) ([]*model.Order, error)
	FindLine(ctx context.Context, tx *gorm.DB, orderID, lineID uint) (*model.OrderLine, error)
	FindLineByItem(ctx context.Context, tx *gorm.DB, orderID, itemID uint) (*model.OrderLine, error)
	LinesByOrder(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderLine, error)
	UpdateLine(ctx context.Context, tx *gorm.DB, line *model.OrderLine) error
	DeleteLine(ctx context.Context, tx *gorm.DB, lineID uint) error
	// DeleteOrder removes the order and its lines.
	DeleteOrder(ctx context.Context, tx *gorm.DB, orderID uint) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status string, paymentDate *string) error
	// AddToTotal shifts total_price by delta in place.
	AddToTotal(ctx context.Context, tx *gorm.DB, orderID uint, delta float64) error
	SetTotal(ctx context.Context, tx *gorm.DB, orderID uint, total float64) error
	// CountLinesByItem counts lines referencing the item across every
	// order regardless of status; items stay undeletable while any exist.
	CountLinesByItem(ctx context.Context, itemID uint) (int64, error)
	Search(ctx context.Context, filter *OrderFilter) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateLines(ctx context.Context, tx *gorm.DB, lines []*model.OrderLine) error {
	return tx.WithContext(ctx).Create(&lines).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	lines, err := r.LinesByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, *line)
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("order_date DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return r.attachLines(ctx, orders)
}

func (r *orderRepoImpl) ListByStatus(ctx context.Context, status string, oldestFirst bool) ([]*model.Order, error) {
	direction := "DESC"
	if oldestFirst {
		direction = "ASC"
	}

	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", status).
		Order("order_date " + direction).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return r.attachLines(ctx, orders)
}

func (r *orderRepoImpl) FindLine(ctx context.Context, tx *gorm.DB, orderID, lineID uint) (*model.OrderLine, error) {
	var line model.OrderLine
	err := tx.WithContext(ctx).
		Where("id = ? AND order_id = ?", lineID, orderID).
		First(&line).Error

	if err != nil {
		return nil, err
	}

	return &line, nil
}

func (r *orderRepoImpl) FindLineByItem(ctx context.Context, tx *gorm.DB, orderID, itemID uint) (*model.OrderLine, error) {
	var line model.OrderLine
	err := tx.WithContext(ctx).
		Where("order_id = ? AND item_id = ?", orderID, itemID).
		First(&line).Error

	if err != nil {
		return nil, err
	}

	return &line, nil
}

func (r *orderRepoImpl) LinesByOrder(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderLine, error) {
	var lines []*model.OrderLine
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&lines).Error

	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *orderRepoImpl) UpdateLine(ctx context.Context, tx *gorm.DB, line *model.OrderLine) error {
	return tx.WithContext(ctx).
		Model(&model.OrderLine{}).
		Where("id = ?", line.ID).
		Updates(map[string]interface{}{
			"quantity": line.Quantity,
			"subtotal": line.Subtotal,
		}).Error
}

func (r *orderRepoImpl) DeleteLine(ctx context.Context, tx *gorm.DB, lineID uint) error {
	return tx.WithContext(ctx).
		Where("id = ?", lineID).
		Delete(&model.OrderLine{}).Error
}

func (r *orderRepoImpl) DeleteOrder(ctx context.Context, tx *gorm.DB, orderID uint) error {
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&model.OrderLine{}).Error
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&model.Order{}).Error
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, status string, paymentDate *string) error {
	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": status,
			"payment_date":   paymentDate,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) AddToTotal(ctx context.Context, tx *gorm.DB, orderID uint, delta float64) error {
	return tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_price", gorm.Expr("total_price + ?", delta)).Error
}

func (r *orderRepoImpl) SetTotal(ctx context.Context, tx *gorm.DB, orderID uint, total float64) error {
	return tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_price", total).Error
}

func (r *orderRepoImpl) CountLinesByItem(ctx context.Context, itemID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderLine{}).
		Where("item_id = ?", itemID).
		Count(&count).Error

	return count, err
}

func (r *orderRepoImpl) Search(ctx context.Context, filter *OrderFilter) ([]*model.Order, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})

	// Line-level filters need the join; DISTINCT folds the multi-line
	// matches back to one row per order.
	if filter.ItemName != "" || filter.MinQuantity != nil || filter.MaxQuantity != nil {
		query = query.
			Joins("JOIN order_lines ON order_lines.order_id = orders.id").
			Distinct("orders.*")
	}

	if filter.Status != "" {
		query = query.Where("orders.payment_status = ?", filter.Status)
	}
	if filter.ItemName != "" {
		query = query.Where("LOWER(order_lines.item_name) LIKE ?", "%"+strings.ToLower(filter.ItemName)+"%")
	}
	if filter.MinQuantity != nil {
		query = query.Where("order_lines.quantity >= ?", *filter.MinQuantity)
	}
	if filter.MaxQuantity != nil {
		query = query.Where("order_lines.quantity <= ?", *filter.MaxQuantity)
	}
	if filter.OrderDateStart != "" {
		query = query.Where("orders.order_date >= ?", filter.OrderDateStart)
	}
	if filter.OrderDateEnd != "" {
		query = query.Where("orders.order_date <= ?", filter.OrderDateEnd)
	}
	if filter.PaymentDateStart != "" {
		query = query.Where("orders.payment_date >= ?", filter.PaymentDateStart)
	}
	if filter.PaymentDateEnd != "" {
		query = query.Where("orders.payment_date <= ?", filter.PaymentDateEnd)
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var orders []*model.Order
	err := query.
		Order("orders." + filter.SortBy + " " + direction).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return r.attachLines(ctx, orders)
}

// attachLines materializes the lines of every order in one query
// instead of a lookup per order.
func (r *orderRepoImpl) attachLines(ctx context.Context, orders []*model.Order) ([]*model.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]uint, len(orders))
	byID := make(map[uint]*model.Order, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
		byID[order.ID] = order
	}

	var lines []model.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("id").
		Find(&lines).Error

	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		order := byID[line.OrderID]
		order.Lines = append(order.Lines, line)
	}

	return orders, nil
}
