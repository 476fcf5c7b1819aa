package models

import "time"

// CartItem holds one (user, product) line in the shopping cart. The unique
// index enforces the at-most-one-row-per-pair invariant; adds increment
// quantity instead of inserting duplicates.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_cart_user_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
