package handler

import (
	"errors"
	"net/http"
	"strconv"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/middleware"
	"agencia-viajes/internal/observability"
	"agencia-viajes/internal/service"
	"agencia-viajes/internal/web"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler serves the public pages: home listing and destination detail.
type CatalogHandler struct {
	catalogService *service.CatalogService
	renderer       *web.Renderer
}

func NewCatalogHandler(catalogService *service.CatalogService, renderer *web.Renderer) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		renderer:       renderer,
	}
}

// Home handles GET /.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())

	national, international, err := h.catalogService.HomePage(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("loading home page destinations", "error", err)
		h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, session)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "home.html", web.PageData{
		Session:       session,
		CSRFToken:     sessionCSRF(session),
		National:      national,
		International: international,
	})
}

// Detail handles GET /viajes/{id}.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		h.renderer.RenderError(w, r, http.StatusNotFound, "Viaje no encontrado.", session)
		return
	}

	destination, err := h.catalogService.Destination(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDestinationNotFound) {
			h.renderer.RenderError(w, r, http.StatusNotFound, "Viaje no encontrado.", session)
			return
		}
		observability.FromContext(r.Context()).Error("loading destination", "id", id, "error", err)
		h.renderer.RenderError(w, r, http.StatusInternalServerError, msgInternalError, session)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "destino.html", web.PageData{
		Session:     session,
		CSRFToken:   sessionCSRF(session),
		Destination: destination,
	})
}

func sessionCSRF(session *domain.Session) string {
	if session == nil {
		return ""
	}
	return session.CSRFToken
}
