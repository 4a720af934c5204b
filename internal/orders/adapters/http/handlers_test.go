package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	orderhttp "github.com/tolvstad/ordersync/internal/orders/adapters/http"
	"github.com/tolvstad/ordersync/internal/orders/adapters/memory"
	"github.com/tolvstad/ordersync/internal/orders/app"
	"github.com/tolvstad/ordersync/internal/orders/domain"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Order) error { return nil }

type countingTrigger struct {
	triggers int
}

func (c *countingTrigger) Trigger() { c.triggers++ }

func setupRouter(t *testing.T) (*chi.Mux, *memory.Repository, *countingTrigger) {
	t.Helper()

	repo := memory.NewRepository()
	trigger := &countingTrigger{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := app.NewService(repo, noopPublisher{}, trigger, logger)

	router := chi.NewRouter()
	orderhttp.NewHandler(service).Register(router)

	return router, repo, trigger
}

func doRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	t.Run("returns 201 with the stored order", func(t *testing.T) {
		router, repo, _ := setupRouter(t)

		rec := doRequest(router, http.MethodPost, "/orders", `{"product":"widget","quantity":3,"amount":2.5}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}

		var body struct {
			Order domain.Order `json:"order"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if body.Order.ID == 0 {
			t.Error("expected order ID to be assigned")
		}

		if body.Order.Product != "widget" {
			t.Errorf("expected product widget, got %s", body.Order.Product)
		}

		if _, err := repo.FindByID(context.Background(), body.Order.ID); err != nil {
			t.Errorf("expected order stored, got %v", err)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodPost, "/orders", `{"product":`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for invalid input", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodPost, "/orders", `{"product":"","quantity":1,"amount":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestListOrdersEndpoint(t *testing.T) {
	t.Run("returns stored orders and nudges the drain worker", func(t *testing.T) {
		router, repo, trigger := setupRouter(t)

		if _, err := repo.Save(context.Background(), domain.Order{Product: "widget", Quantity: 1, Amount: 1.0}); err != nil {
			t.Fatalf("failed to seed order: %v", err)
		}

		rec := doRequest(router, http.MethodGet, "/orders", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body struct {
			Orders []domain.Order `json:"orders"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if len(body.Orders) != 1 {
			t.Errorf("expected 1 order, got %d", len(body.Orders))
		}

		if trigger.triggers != 1 {
			t.Errorf("expected 1 drain trigger, got %d", trigger.triggers)
		}
	})

	t.Run("returns empty list when no orders exist", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodGet, "/orders", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body struct {
			Orders []domain.Order `json:"orders"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if len(body.Orders) != 0 {
			t.Errorf("expected no orders, got %d", len(body.Orders))
		}
	})
}

func TestGetOrderEndpoint(t *testing.T) {
	t.Run("returns 200 with the order", func(t *testing.T) {
		router, repo, _ := setupRouter(t)

		saved, err := repo.Save(context.Background(), domain.Order{Product: "widget", Quantity: 1, Amount: 1.0})
		if err != nil {
			t.Fatalf("failed to seed order: %v", err)
		}

		rec := doRequest(router, http.MethodGet, "/orders/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body struct {
			Order domain.Order `json:"order"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if body.Order.ID != saved.ID {
			t.Errorf("expected order %d, got %d", saved.ID, body.Order.ID)
		}
	})

	t.Run("returns 404 for a missing order", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodGet, "/orders/404", "")

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for a non-numeric id", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodGet, "/orders/abc", "")

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestUpdateOrderEndpoint(t *testing.T) {
	t.Run("returns 200 with the updated order", func(t *testing.T) {
		router, repo, _ := setupRouter(t)

		saved, err := repo.Save(context.Background(), domain.Order{Product: "widget", Quantity: 1, Amount: 1.0})
		if err != nil {
			t.Fatalf("failed to seed order: %v", err)
		}

		rec := doRequest(router, http.MethodPut, "/orders/1", `{"product":"gadget","quantity":2,"amount":4,"processed":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		stored, err := repo.FindByID(context.Background(), saved.ID)
		if err != nil {
			t.Fatalf("expected order stored, got %v", err)
		}

		if stored.Product != "gadget" || stored.Quantity != 2 || !stored.Processed {
			t.Errorf("expected updated fields, got %+v", stored)
		}
	})

	t.Run("returns 404 for a missing order", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodPut, "/orders/404", `{"product":"gadget","quantity":2,"amount":4}`)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		router, _, _ := setupRouter(t)

		rec := doRequest(router, http.MethodPut, "/orders/1", `{"product":`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}
