package cart

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
)

// CartRepository is the persistence surface the cart service depends on.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	AddOne(ctx context.Context, userID, productID int64) error
	FindItem(ctx context.Context, userID, itemID int64) (*models.CartItem, error)
	ListItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (int64, error)
	Delete(ctx context.Context, userID, itemID int64) (int64, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
	CountItems(ctx context.Context, userID int64) (int, error)
}
