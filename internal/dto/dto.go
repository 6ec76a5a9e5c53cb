package dto

type Item struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Stock     *int    `json:"stock"`
}

type ItemInput struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Stock     *int    `json:"stock"`
}

type RestockRequest struct {
	// Zero means "use the configured default".
	Quantity int `json:"quantity"`
}

type OrderLine struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"order_id"`
	ItemID    uint    `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type Order struct {
	ID            uint         `json:"id"`
	TotalPrice    float64      `json:"total_price"`
	PaymentStatus string       `json:"payment_status"`
	OrderDate     string       `json:"order_date"`
	PaymentDate   *string      `json:"payment_date"`
	Lines         []*OrderLine `json:"lines"`
}

type OrderLineInput struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

type CreateOrderRequest struct {
	Lines         []*OrderLineInput `json:"lines"`
	PaymentStatus string            `json:"payment_status"`
}

type ModifyOrderRequest struct {
	Lines []*OrderLineInput `json:"lines"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

// CancelResult reports the outcome of cancelling an order. RefundNeeded
// is true when the order had already been paid; collecting the refund is
// the caller's responsibility.
type CancelResult struct {
	OrderID      uint   `json:"order_id"`
	Status       string `json:"status"`
	RefundNeeded bool   `json:"refund_needed"`
}

// OrderSearchFilter carries the optional, AND-combined order filters.
// Line-level filters (item name, quantity range) match an order when any
// of its lines matches.
type OrderSearchFilter struct {
	Status           string `query:"status"`
	ItemName         string `query:"item_name"`
	MinQuantity      *int   `query:"min_quantity"`
	MaxQuantity      *int   `query:"max_quantity"`
	OrderDateStart   string `query:"order_date_start"`
	OrderDateEnd     string `query:"order_date_end"`
	PaymentDateStart string `query:"payment_date_start"`
	PaymentDateEnd   string `query:"payment_date_end"`
	SortBy           string `query:"sort_by"`
	SortOrder        string `query:"sort_order"`
}
