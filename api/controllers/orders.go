package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/petpal-app/petpal-backend/api/middleware"
	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/api/validators"
	checkoutsvc "github.com/petpal-app/petpal-backend/internal/checkout"
	ordersvc "github.com/petpal-app/petpal-backend/internal/orders"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

const checkoutPath = "/checkout"

type placeOrderRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Postcode      string `json:"postcode"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

func (p *placeOrderRequest) fromForm(r *http.Request) {
	p.FirstName = validators.FormString(r, "first_name")
	p.LastName = validators.FormString(r, "last_name")
	p.Address = validators.FormString(r, "address")
	p.City = validators.FormString(r, "city")
	p.Postcode = validators.FormString(r, "postcode")
	p.Phone = validators.FormString(r, "phone")
	p.PaymentMethod = validators.FormString(r, "payment_method")
}

// OrderPlace drains the cart into an order. Form posts follow the storefront
// flow: redirect to the confirmation page on success, back to checkout with a
// flash on failure. JSON clients get the envelope instead.
func OrderPlace(svc checkoutsvc.Service, sessions *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		wantsJSON := validators.IsJSON(r)

		var payload placeOrderRequest
		if wantsJSON {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		} else {
			payload.fromForm(r)
		}

		order, err := svc.PlaceOrder(ctx, middleware.UserIDFromContext(ctx), checkoutsvc.PlaceOrderInput{
			FirstName:     payload.FirstName,
			LastName:      payload.LastName,
			Address:       payload.Address,
			City:          payload.City,
			Postcode:      payload.Postcode,
			Phone:         payload.Phone,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			if wantsJSON {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			flashOrderFailure(ctx, sessions, logg, err)
			http.Redirect(w, r, checkoutPath, http.StatusSeeOther)
			return
		}

		if wantsJSON {
			responses.WriteSuccessStatus(w, http.StatusCreated,
				types.NewEnvelope(true, "Your order has been placed successfully.").
					With("order", orderSummaryResponse(order)))
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%d", order.ID), http.StatusSeeOther)
	}
}

// flashOrderFailure records why checkout bounced. Validation problems and the
// empty-cart case surface their own wording; everything else collapses to the
// generic failure message.
func flashOrderFailure(ctx context.Context, sessions *session.Store, logg *logger.Logger, err error) {
	message := "Failed to place order. Please try again."
	if typed := pkgerrors.As(err); typed != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrEmptyCart):
			message = typed.Message()
		case typed.Code() == pkgerrors.CodeValidation:
			message = typed.Message()
		}
	}

	data := middleware.SessionFromContext(ctx)
	sid := middleware.SIDFromContext(ctx)
	if data == nil || sid == "" {
		return
	}
	data.Flash = &session.Flash{Type: "error", Message: message}
	if saveErr := sessions.Save(ctx, sid, data); saveErr != nil && logg != nil {
		logg.Error(ctx, "save checkout flash", saveErr)
	}
	if logg != nil {
		logg.Error(ctx, "checkout.failed", err)
	}
}

// OrderList returns the caller's order history, newest first.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]map[string]any, 0, len(rows))
		for i := range rows {
			items = append(items, orderSummaryResponse(&rows[i]))
		}

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("orders", items))
	}
}

// OrderDetail returns one order with its line items; the confirmation page
// reads this.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderId", "Invalid order.")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), middleware.UserIDFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail := orderSummaryResponse(order)
		detail["shipping_address"] = order.ShippingAddress
		detail["items"] = orderItemsResponse(order.Items)

		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("order", detail))
	}
}

func orderSummaryResponse(order *models.Order) map[string]any {
	return map[string]any{
		"id":             order.ID,
		"order_number":   order.OrderNumber,
		"total_amount":   money(order.TotalAmount),
		"status":         order.Status,
		"payment_method": order.PaymentMethod,
		"created_at":     order.CreatedAt.Format(time.RFC3339),
	}
}

func orderItemsResponse(items []models.OrderItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"price":      money(item.Price),
		}
		if item.Product != nil {
			entry["name"] = item.Product.Name
			entry["image"] = item.Product.Image
		}
		out = append(out, entry)
	}
	return out
}
