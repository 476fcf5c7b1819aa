package controllers

import (
	"net/http"
	"strings"

	"github.com/petpal-app/petpal-backend/api/responses"
	productsvc "github.com/petpal-app/petpal-backend/internal/products"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

// ProductList returns the catalog, optionally filtered to one category tab.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		rows, err := svc.List(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]map[string]any, 0, len(rows))
		for i := range rows {
			items = append(items, productResponse(&rows[i]))
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("products", items))
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productId", "Invalid product.")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("product", productResponse(product)))
	}
}

func productResponse(p *models.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       money(p.Price),
		"category":    p.Category,
		"image":       p.Image,
		"stock":       p.Stock,
	}
}
