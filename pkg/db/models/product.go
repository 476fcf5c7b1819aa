package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories for the storefront catalog.
const (
	ProductCategoryAccessories = "accessories"
	ProductCategoryFood        = "food"
)

// Product represents a catalog entry. Rows are seeded externally and treated
// as read-mostly by this service.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Category    string          `gorm:"column:category;not null"`
	Image       string          `gorm:"column:image_url"`
	Stock       int             `gorm:"column:stock;not null;default:100"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
