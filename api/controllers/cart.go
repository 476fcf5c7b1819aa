package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/api/validators"
	cartsvc "github.com/petpal-app/petpal-backend/internal/cart"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

// CartView returns the cart contents and totals for the cart page.
func CartView(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]map[string]any, 0, len(view.Items))
		for _, item := range view.Items {
			entry := map[string]any{
				"id":         item.ID,
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			}
			if item.Product != nil {
				entry["name"] = item.Product.Name
				entry["image"] = item.Product.Image
				entry["price"] = money(item.Product.Price)
				entry["item_total"] = money(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2))
			}
			items = append(items, entry)
		}

		env := types.NewEnvelope(true, "").With("items", items)
		addSummary(env, view.Summary)
		responses.WriteSuccess(w, env)
	}
}

// CartAdd puts one unit of a product into the cart.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var productID int64
		if validators.IsJSON(r) {
			var payload struct {
				ProductID int64 `json:"product_id"`
			}
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			productID = payload.ProductID
		} else {
			productID, _ = validators.FormInt64(r, "product_id", "Invalid product.")
		}

		count, err := svc.Add(r.Context(), middleware.UserIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "Added to cart!").
			With("cart_count", count))
	}
}

// CartUpdate bumps a line's quantity up or down; reaching zero removes it.
func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var itemID int64
		var direction string
		if validators.IsJSON(r) {
			var payload struct {
				ItemID    int64  `json:"item_id"`
				Direction string `json:"direction"`
			}
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			itemID, direction = payload.ItemID, payload.Direction
		} else {
			itemID, _ = validators.FormInt64(r, "item_id", "Invalid request.")
			direction = validators.FormString(r, "direction")
		}

		result, err := svc.ChangeQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), itemID, direction)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		env := types.NewEnvelope(true, "").
			With("removed", result.Removed).
			With("quantity", result.Quantity).
			With("item_total", money(result.ItemTotal))
		addSummary(env, result.Summary)
		responses.WriteSuccess(w, env)
	}
}

// CartRemove deletes one line outright.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var itemID int64
		if validators.IsJSON(r) {
			var payload struct {
				ItemID int64 `json:"item_id"`
			}
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			itemID = payload.ItemID
		} else {
			itemID, _ = validators.FormInt64(r, "item_id", "Invalid request.")
		}

		summary, err := svc.Remove(r.Context(), middleware.UserIDFromContext(r.Context()), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		env := types.NewEnvelope(true, "")
		addSummary(env, *summary)
		responses.WriteSuccess(w, env)
	}
}

func addSummary(env types.Envelope, summary cartsvc.Summary) {
	env.With("cart_count", summary.CartCount).
		With("subtotal", money(summary.Totals.Subtotal)).
		With("shipping", money(summary.Totals.Shipping)).
		With("tax", money(summary.Totals.Tax)).
		With("total", money(summary.Totals.Total))
}
