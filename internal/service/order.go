package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"food-billing-app/internal/apperr"
	"food-billing-app/internal/dto"
	"food-billing-app/internal/model"
	"food-billing-app/internal/repository"
)

// Fixed-width ISO-8601 layout; the string form sorts the same way the
// instants do, which the date range filters rely on.
const dateLayout = "2006-01-02T15:04:05.000000"

func nowISO() string {
	return time.Now().Format(dateLayout)
}

type OrderService interface {
	// CreateOrder places a multi-line order. Stock is reserved per line;
	// any failure rolls the whole order back, stock included.
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*dto.Order, error)
	ListOrders(ctx context.Context) ([]*dto.Order, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]*dto.Order, error)
	// UpdatePaymentStatus moves an order between pending and completed.
	// It is a billing event only: stock was reserved at creation time and
	// is not touched here. Cancellation goes through CancelOrder.
	UpdatePaymentStatus(ctx context.Context, orderID uint, status string) (*dto.Order, error)
	// CancelOrder restores every line's stock and marks the order
	// cancelled. RefundNeeded reports whether money was already taken.
	CancelOrder(ctx context.Context, orderID uint) (*dto.CancelResult, error)
	AddLine(ctx context.Context, orderID uint, in *dto.OrderLineInput) (*dto.Order, error)
	// RemoveLine returns nil when removing the last line, which deletes
	// the order entirely.
	RemoveLine(ctx context.Context, orderID, lineID uint) (*dto.Order, error)
	UpdateLineQuantity(ctx context.Context, orderID, lineID uint, quantity int) (*dto.Order, error)
	// ModifyOrder applies a bulk set of target quantities: existing lines
	// are resized (zero removes), unknown items are added. Every change
	// goes through the same stock checks as the single-line operations,
	// then the total is recomputed from the surviving lines.
	ModifyOrder(ctx context.Context, orderID uint, lines []*dto.OrderLineInput) (*dto.Order, error)
	SearchOrders(ctx context.Context, filter *dto.OrderSearchFilter) ([]*dto.Order, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	itemRepo  repository.ItemRepository
	orderRepo repository.OrderRepository
}

func NewOrderService(
	db *gorm.DB,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:        db,
		itemRepo:  itemRepo,
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.Order, error) {
	if req.PaymentStatus != model.StatusPending && req.PaymentStatus != model.StatusCompleted {
		return nil, apperr.Validationf("payment status must be %q or %q", model.StatusPending, model.StatusCompleted)
	}
	if len(req.Lines) == 0 {
		return nil, apperr.Validationf("order must contain at least one line")
	}

	inputs, err := mergeLineInputs(req.Lines)
	if err != nil {
		return nil, err
	}

	orderDate := nowISO()
	var paymentDate *string
	if req.PaymentStatus == model.StatusCompleted {
		paymentDate = &orderDate
	}

	order := &model.Order{
		PaymentStatus: req.PaymentStatus,
		OrderDate:     orderDate,
		PaymentDate:   paymentDate,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]*model.OrderLine, 0, len(inputs))
		total := 0.0
		for _, in := range inputs {
			item, err := s.findItem(ctx, tx, in.ItemID)
			if err != nil {
				return err
			}
			if err := s.reserveStock(ctx, tx, item, in.Quantity); err != nil {
				return err
			}

			subtotal := float64(in.Quantity) * item.UnitPrice
			total += subtotal
			lines = append(lines, &model.OrderLine{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Quantity:  in.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  subtotal,
			})
		}

		order.TotalPrice = total
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		for _, line := range lines {
			line.OrderID = order.ID
		}
		if err := s.orderRepo.CreateLines(ctx, tx, lines); err != nil {
			return fmt.Errorf("store order lines: %w", err)
		}

		for _, line := range lines {
			order.Lines = append(order.Lines, *line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toOrderDTO(order), nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID uint) (*dto.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, s.db, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	return toOrderDTO(order), nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context) ([]*dto.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return toOrderDTOs(orders), nil
}

func (s *orderServiceImpl) ListOrdersByStatus(ctx context.Context, status string) ([]*dto.Order, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.Validationf("unknown payment status %q", status)
	}

	// Pending orders queue oldest-first for the kitchen; everything else
	// reads newest-first like history.
	orders, err := s.orderRepo.ListByStatus(ctx, status, status == model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}

	return toOrderDTOs(orders), nil
}

func (s *orderServiceImpl) UpdatePaymentStatus(ctx context.Context, orderID uint, status string) (*dto.Order, error) {
	if status != model.StatusPending && status != model.StatusCompleted {
		if status == model.StatusCancelled {
			return nil, apperr.Validationf("use the cancel operation to cancel an order")
		}
		return nil, apperr.Validationf("unknown payment status %q", status)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order %d not found", orderID)
			}
			return fmt.Errorf("find order: %w", err)
		}

		if order.PaymentStatus == model.StatusCancelled {
			return apperr.Conflictf("order %d is cancelled", orderID)
		}
		if order.PaymentStatus == model.StatusCompleted && status == model.StatusPending {
			return apperr.Conflictf("order %d is already completed", orderID)
		}

		var paymentDate *string
		if status == model.StatusCompleted {
			now := nowISO()
			paymentDate = &now
		}
		return s.orderRepo.UpdateStatus(ctx, tx, orderID, status, paymentDate)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID uint) (*dto.CancelResult, error) {
	refundNeeded := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order %d not found", orderID)
			}
			return fmt.Errorf("find order: %w", err)
		}

		if order.PaymentStatus == model.StatusCancelled {
			return apperr.Conflictf("order %d is already cancelled", orderID)
		}
		refundNeeded = order.PaymentStatus == model.StatusCompleted

		for _, line := range order.Lines {
			// Restores tracked stock; a no-op for untracked items and for
			// items deleted since the order was placed.
			if _, err := s.itemRepo.AdjustStock(ctx, tx, line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		return s.orderRepo.UpdateStatus(ctx, tx, orderID, model.StatusCancelled, nil)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CancelResult{
		OrderID:      orderID,
		Status:       model.StatusCancelled,
		RefundNeeded: refundNeeded,
	}, nil
}

func (s *orderServiceImpl) AddLine(ctx context.Context, orderID uint, in *dto.OrderLineInput) (*dto.Order, error) {
	if in.Quantity <= 0 {
		return nil, apperr.Validationf("quantity must be positive")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.pendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		item, err := s.findItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		if err := s.reserveStock(ctx, tx, item, in.Quantity); err != nil {
			return err
		}

		added, err := s.mergeIntoOrder(ctx, tx, order.ID, item, in.Quantity)
		if err != nil {
			return err
		}
		return s.orderRepo.AddToTotal(ctx, tx, order.ID, added)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) RemoveLine(ctx context.Context, orderID, lineID uint) (*dto.Order, error) {
	orderDeleted := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.pendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		line, err := s.orderRepo.FindLine(ctx, tx, orderID, lineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("line %d not found in order %d", lineID, orderID)
			}
			return fmt.Errorf("find order line: %w", err)
		}

		if _, err := s.itemRepo.AdjustStock(ctx, tx, line.ItemID, line.Quantity); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		if err := s.orderRepo.DeleteLine(ctx, tx, line.ID); err != nil {
			return fmt.Errorf("delete order line: %w", err)
		}

		// An order cannot exist with zero lines.
		if len(order.Lines) == 1 {
			orderDeleted = true
			return s.orderRepo.DeleteOrder(ctx, tx, orderID)
		}
		return s.orderRepo.AddToTotal(ctx, tx, orderID, -line.Subtotal)
	})
	if err != nil {
		return nil, err
	}

	if orderDeleted {
		return nil, nil
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) UpdateLineQuantity(ctx context.Context, orderID, lineID uint, quantity int) (*dto.Order, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, orderID, lineID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.pendingOrder(ctx, tx, orderID); err != nil {
			return err
		}

		line, err := s.orderRepo.FindLine(ctx, tx, orderID, lineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("line %d not found in order %d", lineID, orderID)
			}
			return fmt.Errorf("find order line: %w", err)
		}

		return s.resizeLine(ctx, tx, line, quantity, true)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) ModifyOrder(ctx context.Context, orderID uint, lines []*dto.OrderLineInput) (*dto.Order, error) {
	if len(lines) == 0 {
		return nil, apperr.Validationf("no line changes supplied")
	}

	// Entries are target quantities, so a repeated item id means the
	// later entry wins.
	targets := make(map[uint]int, len(lines))
	itemOrder := make([]uint, 0, len(lines))
	for _, in := range lines {
		if _, seen := targets[in.ItemID]; !seen {
			itemOrder = append(itemOrder, in.ItemID)
		}
		targets[in.ItemID] = in.Quantity
	}

	orderDeleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.pendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		for _, itemID := range itemOrder {
			quantity := targets[itemID]

			line, err := s.orderRepo.FindLineByItem(ctx, tx, orderID, itemID)
			switch {
			case err == nil:
				if quantity <= 0 {
					if _, err := s.itemRepo.AdjustStock(ctx, tx, line.ItemID, line.Quantity); err != nil {
						return fmt.Errorf("restore stock: %w", err)
					}
					if err := s.orderRepo.DeleteLine(ctx, tx, line.ID); err != nil {
						return fmt.Errorf("delete order line: %w", err)
					}
				} else if err := s.resizeLine(ctx, tx, line, quantity, false); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if quantity <= 0 {
					continue
				}
				item, err := s.findItem(ctx, tx, itemID)
				if err != nil {
					return err
				}
				if err := s.reserveStock(ctx, tx, item, quantity); err != nil {
					return err
				}
				if _, err := s.mergeIntoOrder(ctx, tx, order.ID, item, quantity); err != nil {
					return err
				}
			default:
				return fmt.Errorf("find order line: %w", err)
			}
		}

		remaining, err := s.orderRepo.LinesByOrder(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("load order lines: %w", err)
		}
		if len(remaining) == 0 {
			orderDeleted = true
			return s.orderRepo.DeleteOrder(ctx, tx, orderID)
		}

		total := 0.0
		for _, line := range remaining {
			total += line.Subtotal
		}
		return s.orderRepo.SetTotal(ctx, tx, orderID, total)
	})
	if err != nil {
		return nil, err
	}

	if orderDeleted {
		return nil, nil
	}
	return s.GetOrder(ctx, orderID)
}

// pendingOrder loads the order aggregate and rejects any order that is
// no longer editable.
func (s *orderServiceImpl) pendingOrder(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.PaymentStatus != model.StatusPending {
		return nil, apperr.Conflictf("order %d is not pending", orderID)
	}
	return order, nil
}

func (s *orderServiceImpl) findItem(ctx context.Context, tx *gorm.DB, itemID uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("item %d not found", itemID)
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

// reserveStock decrements tracked stock for an order line, failing when
// the remaining quantity does not cover it. Untracked items always pass.
func (s *orderServiceImpl) reserveStock(ctx context.Context, tx *gorm.DB, item *model.Item, quantity int) error {
	if item.Stock == nil {
		return nil
	}
	ok, err := s.itemRepo.AdjustStock(ctx, tx, item.ID, -quantity)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if !ok {
		return &apperr.InsufficientStockError{ItemName: item.Name, Available: *item.Stock}
	}
	return nil
}

// mergeIntoOrder adds quantity of an item to the order, growing the
// existing line for that item instead of creating a duplicate. It
// returns the subtotal added to the order.
func (s *orderServiceImpl) mergeIntoOrder(ctx context.Context, tx *gorm.DB, orderID uint, item *model.Item, quantity int) (float64, error) {
	line, err := s.orderRepo.FindLineByItem(ctx, tx, orderID, item.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("find order line: %w", err)
		}

		subtotal := float64(quantity) * item.UnitPrice
		newLine := &model.OrderLine{
			OrderID:   orderID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		}
		if err := s.orderRepo.CreateLines(ctx, tx, []*model.OrderLine{newLine}); err != nil {
			return 0, fmt.Errorf("store order line: %w", err)
		}
		return subtotal, nil
	}

	// Keep the line's price snapshot, not the item's current price.
	added := float64(quantity) * line.UnitPrice
	line.Quantity += quantity
	line.Subtotal += added
	if err := s.orderRepo.UpdateLine(ctx, tx, line); err != nil {
		return 0, fmt.Errorf("update order line: %w", err)
	}
	return added, nil
}

// resizeLine moves a line to a new positive quantity, reconciling stock
// by the delta. With adjustTotal the order total shifts incrementally;
// callers doing a full resum afterwards pass false.
func (s *orderServiceImpl) resizeLine(ctx context.Context, tx *gorm.DB, line *model.OrderLine, quantity int, adjustTotal bool) error {
	delta := quantity - line.Quantity
	if delta > 0 {
		item, err := s.findItem(ctx, tx, line.ItemID)
		if err != nil {
			return err
		}
		if err := s.reserveStock(ctx, tx, item, delta); err != nil {
			return err
		}
	} else if delta < 0 {
		if _, err := s.itemRepo.AdjustStock(ctx, tx, line.ItemID, -delta); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	newSubtotal := float64(quantity) * line.UnitPrice
	subtotalDelta := newSubtotal - line.Subtotal
	line.Quantity = quantity
	line.Subtotal = newSubtotal
	if err := s.orderRepo.UpdateLine(ctx, tx, line); err != nil {
		return fmt.Errorf("update order line: %w", err)
	}

	if adjustTotal && subtotalDelta != 0 {
		return s.orderRepo.AddToTotal(ctx, tx, line.OrderID, subtotalDelta)
	}
	return nil
}

// mergeLineInputs collapses duplicate item ids in a create request into
// one line each, summing quantities, and validates them.
func mergeLineInputs(lines []*dto.OrderLineInput) ([]*dto.OrderLineInput, error) {
	merged := make([]*dto.OrderLineInput, 0, len(lines))
	byItem := make(map[uint]*dto.OrderLineInput, len(lines))
	for _, in := range lines {
		if in.Quantity <= 0 {
			return nil, apperr.Validationf("quantity must be positive")
		}
		if existing, ok := byItem[in.ItemID]; ok {
			existing.Quantity += in.Quantity
			continue
		}
		copied := &dto.OrderLineInput{ItemID: in.ItemID, Quantity: in.Quantity}
		byItem[in.ItemID] = copied
		merged = append(merged, copied)
	}
	return merged, nil
}

func toOrderDTO(order *model.Order) *dto.Order {
	out := &dto.Order{
		ID:            order.ID,
		TotalPrice:    order.TotalPrice,
		PaymentStatus: order.PaymentStatus,
		OrderDate:     order.OrderDate,
		PaymentDate:   order.PaymentDate,
		Lines:         make([]*dto.OrderLine, len(order.Lines)),
	}
	for i, line := range order.Lines {
		out.Lines[i] = &dto.OrderLine{
			ID:        line.ID,
			OrderID:   line.OrderID,
			ItemID:    line.ItemID,
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		}
	}
	return out
}

func toOrderDTOs(orders []*model.Order) []*dto.Order {
	out := make([]*dto.Order, len(orders))
	for i, order := range orders {
		out[i] = toOrderDTO(order)
	}
	return out
}
