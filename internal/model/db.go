package model

// Payment lifecycle of an order. Cancelled is terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Item is a sellable catalog entry. Stock is nil for untracked items
// (no inventory ceiling); tracked items never go below zero.
type Item struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;uniqueIndex;not null"`
	UnitPrice float64 `gorm:"not null;check:unit_price > 0"`
	Stock     *int    `gorm:"check:stock IS NULL OR stock >= 0"`
}

// Order owns its lines; deleting an order cascades to them.
// TotalPrice always equals the sum of line subtotals.
// PaymentDate is set iff the order is completed.
type Order struct {
	ID            uint    `gorm:"primaryKey"`
	TotalPrice    float64 `gorm:"not null;check:total_price >= 0"`
	PaymentStatus string  `gorm:"size:20;index;not null"`
	OrderDate     string  `gorm:"size:50;not null"`
	PaymentDate   *string `gorm:"size:50"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine references an item but does not own it. ItemName and
// UnitPrice are snapshots taken when the line was created, so later
// catalog edits never rewrite billing history.
type OrderLine struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	ItemID    uint    `gorm:"index;not null"`
	ItemName  string  `gorm:"size:100;not null"`
	Quantity  int     `gorm:"not null;check:quantity > 0"`
	UnitPrice float64 `gorm:"not null;check:unit_price > 0"`
	Subtotal  float64 `gorm:"not null;check:subtotal >= 0"`
}

// ValidStatus reports whether s is one of the known payment statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}
