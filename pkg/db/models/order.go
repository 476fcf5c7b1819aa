package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle states. Orders leave this service in StatusPending; later
// transitions belong to fulfillment tooling outside this codebase.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is the persisted result of a checkout. Line-item prices live on
// OrderItem as snapshots taken at placement time.
type Order struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	OrderNumber     string          `gorm:"column:order_number;not null;uniqueIndex"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status          string          `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod   string          `gorm:"column:payment_method;not null"`
	ShippingAddress string          `gorm:"column:shipping_address;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
