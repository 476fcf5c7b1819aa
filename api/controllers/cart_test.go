package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/petpal-app/petpal-backend/api/middleware"
	cartsvc "github.com/petpal-app/petpal-backend/internal/cart"
	"github.com/petpal-app/petpal-backend/internal/pricing"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/session"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedCtx(userID int64) context.Context {
	return middleware.WithSession(context.Background(), "sid", &session.Data{
		UserID:    userID,
		Username:  "buyer",
		FullName:  "Buyer One",
		CSRFToken: "token",
	})
}

type stubCartService struct {
	addCount  int
	addErr    error
	update    *cartsvc.UpdateResult
	updateErr error
	gotUser   int64
	gotID     int64
}

func (s *stubCartService) Add(_ context.Context, userID, productID int64) (int, error) {
	s.gotUser, s.gotID = userID, productID
	return s.addCount, s.addErr
}

func (s *stubCartService) ChangeQuantity(_ context.Context, userID, itemID int64, _ string) (*cartsvc.UpdateResult, error) {
	s.gotUser, s.gotID = userID, itemID
	return s.update, s.updateErr
}

func (s *stubCartService) Remove(context.Context, int64, int64) (*cartsvc.Summary, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found.")
}

func (s *stubCartService) View(context.Context, int64) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (s *stubCartService) Count(context.Context, int64) (int, error) {
	return s.addCount, nil
}

func postForm(t *testing.T, target string, values url.Values, ctx context.Context, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body
}

func TestCartAddFormPost(t *testing.T) {
	stub := &stubCartService{addCount: 3}

	values := url.Values{}
	values.Set("product_id", "9")
	rec := postForm(t, "/cart/add", values, authedCtx(7), CartAdd(stub, testLogger()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Added to cart!" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["cart_count"] != float64(3) {
		t.Fatalf("unexpected cart_count %v", body["cart_count"])
	}
	if stub.gotUser != 7 || stub.gotID != 9 {
		t.Fatalf("service got user=%d product=%d", stub.gotUser, stub.gotID)
	}
}

func TestCartAddJSONPost(t *testing.T) {
	stub := &stubCartService{addCount: 1}

	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{"product_id": 4}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(authedCtx(2))
	rec := httptest.NewRecorder()
	CartAdd(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.gotID != 4 {
		t.Fatalf("expected product 4, got %d", stub.gotID)
	}
}

func TestCartUpdateFormatsMoneyAsStrings(t *testing.T) {
	stub := &stubCartService{
		update: &cartsvc.UpdateResult{
			Removed:   false,
			Quantity:  2,
			ItemTotal: decimal.RequireFromString("18.50"),
			Summary: cartsvc.Summary{
				CartCount: 2,
				Totals: pricing.Totals{
					Subtotal: decimal.RequireFromString("18.50"),
					Shipping: decimal.RequireFromString("5.99"),
					Tax:      decimal.RequireFromString("1.48"),
					Total:    decimal.RequireFromString("25.97"),
				},
			},
		},
	}

	values := url.Values{}
	values.Set("item_id", "5")
	values.Set("direction", "increase")
	rec := postForm(t, "/cart/update", values, authedCtx(7), CartUpdate(stub, testLogger()))

	body := decodeBody(t, rec)
	for key, want := range map[string]string{
		"item_total": "18.50",
		"subtotal":   "18.50",
		"shipping":   "5.99",
		"tax":        "1.48",
		"total":      "25.97",
	} {
		if body[key] != want {
			t.Fatalf("expected %s=%q, got %v", key, want, body[key])
		}
	}
	if body["removed"] != false || body["quantity"] != float64(2) {
		t.Fatalf("unexpected removed/quantity: %v/%v", body["removed"], body["quantity"])
	}
}

func TestCartRemoveNotFound(t *testing.T) {
	stub := &stubCartService{}

	values := url.Values{}
	values.Set("item_id", "5")
	rec := postForm(t, "/cart/remove", values, authedCtx(7), CartRemove(stub, testLogger()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Item not found." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}
