package grpcapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	h := NewHTTPHandler(newTestFeed(), ":50051", nil)

	req := httptest.NewRequest(http.MethodGet, "/grpc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status         string `json:"status"`
		Address        string `json:"address"`
		AvailableSkins []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"availableSkins"`
		Endpoints []struct {
			Name string `json:"name"`
		} `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Address != ":50051" {
		t.Fatalf("address = %q", body.Address)
	}
	if len(body.AvailableSkins) != 2 {
		t.Fatalf("expected 2 skins, got %+v", body.AvailableSkins)
	}
	if len(body.Endpoints) != 2 || body.Endpoints[0].Name != "SubscribeToPriceUpdates" {
		t.Fatalf("unexpected endpoints: %+v", body.Endpoints)
	}
}

func TestInvokeGetPriceHistory(t *testing.T) {
	h := NewHTTPHandler(newTestFeed(), ":50051", nil)

	req := httptest.NewRequest(http.MethodPost, "/grpc",
		strings.NewReader(`{"method":"GetPriceHistory","params":{"skin_id":"awp_dragon_lore","time_range":"day"}}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		SkinID      string `json:"skin_id"`
		SkinName    string `json:"skin_name"`
		PricePoints []struct {
			Price     float64 `json:"price"`
			Timestamp string  `json:"timestamp"`
		} `json:"price_points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SkinName != "AWP | Dragon Lore" || len(body.PricePoints) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestInvokeUnknownSkin(t *testing.T) {
	h := NewHTTPHandler(newTestFeed(), ":50051", nil)

	req := httptest.NewRequest(http.MethodPost, "/grpc",
		strings.NewReader(`{"method":"GetPriceHistory","params":{"skin_id":"nope"}}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInvokeUnsupportedMethod(t *testing.T) {
	h := NewHTTPHandler(newTestFeed(), ":50051", nil)

	req := httptest.NewRequest(http.MethodPost, "/grpc",
		strings.NewReader(`{"method":"SubscribeToPriceUpdates"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUnsupportedHTTPVerb(t *testing.T) {
	h := NewHTTPHandler(newTestFeed(), ":50051", nil)

	req := httptest.NewRequest(http.MethodDelete, "/grpc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
