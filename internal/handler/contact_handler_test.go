package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/messaging"
	"agencia-viajes/internal/middleware"
)

func postContactForm(h *ContactHandler, session *domain.Session, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contacto", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), session))
	}
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func TestContactSubmit_PublishesRequest(t *testing.T) {
	publisher := &mockPublisher{}
	h := NewContactHandler(newTestAuthService(&mockUserRepository{}, &mockSessionRepository{}), publisher, testRenderer(t))

	w := postContactForm(h, anonymousSession("csrf-1"), url.Values{
		"nombre":  {"María García"},
		"email":   {"maria@example.com"},
		"mensaje": {"Quisiera información sobre Cancún."},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("published %d requests, want 1", len(publisher.published))
	}
	got := publisher.published[0]
	if got.Name != "María García" || got.Email != "maria@example.com" {
		t.Errorf("published request = %+v", got)
	}
	if got.SessionID != "anon-token" {
		t.Errorf("session id = %q, want anon-token", got.SessionID)
	}
	if !strings.Contains(w.Body.String(), "Hemos recibido tu mensaje") {
		t.Error("confirmation message not rendered")
	}
}

func TestContactSubmit_EmptyFieldsAreRejected(t *testing.T) {
	publisher := &mockPublisher{}
	h := NewContactHandler(newTestAuthService(&mockUserRepository{}, &mockSessionRepository{}), publisher, testRenderer(t))

	w := postContactForm(h, anonymousSession("csrf-1"), url.Values{
		"nombre":  {"María"},
		"email":   {""},
		"mensaje": {"Hola"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	if len(publisher.published) != 0 {
		t.Error("invalid submission was published")
	}
	if !strings.Contains(w.Body.String(), "Completa todos los campos") {
		t.Error("validation message not rendered")
	}
}

func TestContactSubmit_BrokerFailureIsInternal(t *testing.T) {
	publisher := &mockPublisher{
		publishFunc: func(ctx context.Context, req *messaging.ContactRequest) error {
			return context.DeadlineExceeded
		},
	}
	h := NewContactHandler(newTestAuthService(&mockUserRepository{}, &mockSessionRepository{}), publisher, testRenderer(t))

	w := postContactForm(h, anonymousSession("csrf-1"), url.Values{
		"nombre":  {"María"},
		"email":   {"maria@example.com"},
		"mensaje": {"Hola"},
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "Error interno. Intenta más tarde.") {
		t.Error("internal error message not rendered")
	}
	// user input is echoed back so nothing is lost
	if !strings.Contains(w.Body.String(), "maria@example.com") {
		t.Error("form values not echoed on failure")
	}
}
