package orders

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"gorm.io/gorm"
)

// OrderRepository is the persistence surface for placed orders.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	FindByIDForUser(ctx context.Context, id, userID int64) (*models.Order, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Order, error)
}
