package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"gorm.io/gorm"
)

type productStore interface {
	List(ctx context.Context, category string) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service exposes catalog reads with category validation.
type Service interface {
	List(ctx context.Context, category string) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	repo productStore
}

// NewService builds a catalog service.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// List returns the catalog. Unknown categories fall back to the full list,
// matching the storefront's "all" tab.
func (s *service) List(ctx context.Context, category string) ([]models.Product, error) {
	switch category {
	case models.ProductCategoryAccessories, models.ProductCategoryFood:
	default:
		category = ""
	}
	rows, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// Get loads one product or returns not-found.
func (s *service) Get(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid product.")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
