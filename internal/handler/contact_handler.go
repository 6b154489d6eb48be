package handler

import (
	"context"
	"net/http"
	"strings"

	"agencia-viajes/internal/messaging"
	"agencia-viajes/internal/middleware"
	"agencia-viajes/internal/observability"
	"agencia-viajes/internal/service"
	"agencia-viajes/internal/web"
)

const (
	msgContactInvalid = "Completa todos los campos con datos válidos."
	msgContactSent    = "¡Gracias! Hemos recibido tu mensaje y te contactaremos pronto."
)

// ContactPublisher is the broker-facing surface the contact form needs.
type ContactPublisher interface {
	PublishContactRequest(ctx context.Context, req *messaging.ContactRequest) error
}

// ContactHandler serves the contact form and queues submissions for the
// back office.
type ContactHandler struct {
	authService *service.AuthService
	publisher   ContactPublisher
	renderer    *web.Renderer
}

func NewContactHandler(authService *service.AuthService, publisher ContactPublisher, renderer *web.Renderer) *ContactHandler {
	return &ContactHandler{
		authService: authService,
		publisher:   publisher,
		renderer:    renderer,
	}
}

// ShowForm handles GET /contacto.
func (h *ContactHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		var err error
		session, err = h.authService.StartSession(r.Context())
		if err != nil {
			logger.Error("starting session", "error", err)
			h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, nil)
			return
		}
		setSessionCookie(w, session)
	}

	csrfToken, err := h.authService.EnsureCSRFToken(r.Context(), session)
	if err != nil {
		logger.Error("issuing csrf token", "error", err)
		h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, session)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "contacto.html", web.PageData{
		Session:   session,
		CSRFToken: csrfToken,
	})
}

// Submit handles POST /contacto. Routed behind the CSRF middleware.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())
	session, _ := middleware.GetSession(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, msgContactInvalid, session)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("nombre"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	message := strings.TrimSpace(r.PostFormValue("mensaje"))

	data := web.PageData{
		Session:   session,
		CSRFToken: sessionCSRF(session),
		Name:      name,
		Email:     email,
		Message:   message,
	}

	if name == "" || email == "" || message == "" || len(message) > 2000 {
		data.Error = msgContactInvalid
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "contacto.html", data)
		return
	}

	req := &messaging.ContactRequest{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if session != nil {
		req.SessionID = session.Token
	}

	if err := h.publisher.PublishContactRequest(r.Context(), req); err != nil {
		logger.Error("publishing contact request", "error", err)
		data.Error = msgInternalError
		h.renderer.Render(w, r, http.StatusInternalServerError, "contacto.html", data)
		return
	}

	observability.ContactRequestsPublished.Inc()

	// Clear the echoed fields so the form comes back empty
	h.renderer.Render(w, r, http.StatusOK, "contacto.html", web.PageData{
		Session:   session,
		CSRFToken: sessionCSRF(session),
		Success:   msgContactSent,
	})
}
