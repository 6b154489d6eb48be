package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/middleware"
)

func TestAdminDashboard_ListsUsers(t *testing.T) {
	userRepo := &mockUserRepository{
		listFunc: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: 1, Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, CreatedAt: time.Now()},
				{ID: 4, Username: "maria", Email: "maria@example.com", Role: domain.RoleStandard, CreatedAt: time.Now()},
			}, nil
		},
	}
	h := NewAdminHandler(newTestAuthService(userRepo, &mockSessionRepository{}), testRenderer(t))

	session := &domain.Session{Token: "tok", UserID: 1, Username: "admin", Role: domain.RoleAdmin}
	req := httptest.NewRequest(http.MethodGet, "/administracion", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), session))
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{"admin@example.com", "maria@example.com", "Panel de administración"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAdminDashboard_RepositoryErrorIsInternal(t *testing.T) {
	userRepo := &mockUserRepository{
		listFunc: func(ctx context.Context) ([]*domain.User, error) {
			return nil, context.DeadlineExceeded
		},
	}
	h := NewAdminHandler(newTestAuthService(userRepo, &mockSessionRepository{}), testRenderer(t))

	session := &domain.Session{Token: "tok", UserID: 1, Username: "admin", Role: domain.RoleAdmin}
	req := httptest.NewRequest(http.MethodGet, "/administracion", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), session))
	w := httptest.NewRecorder()
	h.Dashboard(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
