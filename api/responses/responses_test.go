package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, types.NewEnvelope(true, "Added to cart!").With("cart_count", 3))

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}
	if body["message"] != "Added to cart!" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["cart_count"] != float64(3) {
		t.Fatalf("expected cart_count merged into the envelope, got %v", body["cart_count"])
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "Username is required.").
		WithDetails([]string{"Username is required.", "Full name is required."})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("expected success false, got %v", body["success"])
	}
	if body["message"] != "Username is required." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if errs, ok := body["errors"].([]any); !ok || len(errs) != 2 {
		t.Fatalf("expected two validation details, got %v", body["errors"])
	}
}

func TestWriteErrorHidesDetailsWhenCodeDisallows(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeNotFound, "Product not found.").
		WithDetails(map[string]string{"table": "products"})
	WriteError(context.Background(), nil, w, err)

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if _, present := body["errors"]; present {
		t.Fatalf("details must not leak for not-found responses")
	}
	if body["message"] != "Product not found." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body["message"] != "An error occurred. Please try again." {
		t.Fatalf("raw error text must not reach the client, got %v", body["message"])
	}
}
