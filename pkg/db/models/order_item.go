package models

import "github.com/shopspring/decimal"

// OrderItem captures the snapshot of one cart line at order placement. Price
// is copied from the product at that moment and never follows later catalog
// changes.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
