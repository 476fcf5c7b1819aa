package validators

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
)

func TestFormInt64(t *testing.T) {
	values := url.Values{}
	values.Set("product_id", " 42 ")
	values.Set("bogus", "abc")
	req := httptest.NewRequest("POST", "/cart/add", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	id, err := FormInt64(req, "product_id", "Invalid product.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}

	if _, err := FormInt64(req, "bogus", "Invalid product."); err == nil {
		t.Fatalf("expected error for non-numeric field")
	} else if typed := pkgerrors.As(err); typed == nil || typed.Message() != "Invalid product." {
		t.Fatalf("expected the caller's message, got %v", err)
	}

	if _, err := FormInt64(req, "missing", "Invalid product."); err == nil {
		t.Fatalf("expected error for missing field")
	}
}

func TestFormBool(t *testing.T) {
	values := url.Values{}
	values.Set("terms", "on")
	values.Set("other", "nope")
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if !FormBool(req, "terms") {
		t.Fatalf("expected checkbox value 'on' to parse as true")
	}
	if FormBool(req, "other") {
		t.Fatalf("expected 'nope' to parse as false")
	}
	if FormBool(req, "missing") {
		t.Fatalf("expected missing field to parse as false")
	}
}

func TestIsJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if !IsJSON(req) {
		t.Fatalf("expected JSON content type to be detected")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if IsJSON(req) {
		t.Fatalf("form posts are not JSON")
	}
}
