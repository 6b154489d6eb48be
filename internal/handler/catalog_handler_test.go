package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/service"

	"github.com/go-chi/chi/v5"
)

func newCatalogHandler(t *testing.T, destRepo domain.DestinationRepository) *CatalogHandler {
	t.Helper()
	return NewCatalogHandler(service.NewCatalogService(destRepo), testRenderer(t))
}

func TestHome_ListsDestinationsByKind(t *testing.T) {
	destRepo := &mockDestinationRepository{
		listByKindFunc: func(ctx context.Context, kind string) ([]*domain.Destination, error) {
			if kind == domain.KindNational {
				return []*domain.Destination{{ID: 1, City: "Cancún", Photo: "cancun.jpg", Kind: kind, Price: 4999.99}}, nil
			}
			return []*domain.Destination{{ID: 2, City: "París", Photo: "paris.jpg", Kind: kind, Price: 24999.00}}, nil
		},
	}
	h := newCatalogHandler(t, destRepo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Home(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{"Cancún", "París", "/viajes/1", "/viajes/2"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHome_RepositoryErrorIsInternal(t *testing.T) {
	destRepo := &mockDestinationRepository{
		listByKindFunc: func(ctx context.Context, kind string) ([]*domain.Destination, error) {
			return nil, context.DeadlineExceeded
		},
	}
	h := newCatalogHandler(t, destRepo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Home(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func detailRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/viajes/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestDetail_RendersDestination(t *testing.T) {
	destRepo := &mockDestinationRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*domain.Destination, error) {
			return &domain.Destination{
				ID: id, City: "Cancún", Photo: "cancun.jpg",
				Kind: domain.KindNational, Description: "Playas de arena blanca.", Price: 4999.99,
			}, nil
		},
	}
	h := newCatalogHandler(t, destRepo)

	w := httptest.NewRecorder()
	h.Detail(w, detailRequest("1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Cancún") || !strings.Contains(body, "Playas de arena blanca.") {
		t.Error("destination detail not rendered")
	}
}

func TestDetail_NotFound(t *testing.T) {
	h := newCatalogHandler(t, &mockDestinationRepository{})

	tests := []struct {
		name string
		id   string
	}{
		{"unknown_id", "99"},
		{"non_numeric_id", "abc"},
		{"zero_id", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Detail(w, detailRequest(tt.id))

			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
			}
			if !strings.Contains(w.Body.String(), "Viaje no encontrado.") {
				t.Error("not-found message missing")
			}
		})
	}
}
