package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes reads over a user's placed orders.
type Service interface {
	Get(ctx context.Context, userID, orderID int64) (*models.Order, error)
	List(ctx context.Context, userID int64) ([]models.Order, error)
}

type service struct {
	repo OrderRepository
}

// NewService builds an order read service.
func NewService(repo OrderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// Get loads one order owned by the user. Orders belonging to someone else
// surface as not-found.
func (s *service) Get(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid order.")
	}
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// List returns the user's order history newest first.
func (s *service) List(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}
