// Package web renders the server-side HTML pages. Templates are compiled
// into the binary and every page shares the common layout. html/template
// escapes all interpolated values, so raw user input stored in sessions
// and users is safe to pass straight to Render.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/observability"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages that can be rendered inside the layout
var pageNames = []string{
	"home.html",
	"login.html",
	"registro.html",
	"destino.html",
	"contacto.html",
	"administracion.html",
	"error.html",
}

// PageData carries everything a template may need. Handlers fill in the
// fields relevant to their page and leave the rest zero.
type PageData struct {
	Session   *domain.Session
	CSRFToken string
	Error     string
	Success   string
	Status    int

	// login / registro / contacto form echo values
	Username string
	Email    string
	Name     string
	Message  string

	// catalog pages
	National      []*domain.Destination
	International []*domain.Destination
	Destination   *domain.Destination

	// administracion
	Users []*domain.User
}

// Renderer holds one compiled template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. Each page is parsed together
// with the layout so that its "title" and "content" blocks override the
// layout's placeholders.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page to w with the given status code. The page
// is executed into a buffer first so a template error never produces a
// half-written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data PageData) {
	tmpl, ok := r.pages[page]
	if !ok {
		observability.FromContext(req.Context()).Error("unknown template page", "page", page)
		http.Error(w, "Error interno. Intenta más tarde.", http.StatusInternalServerError)
		return
	}

	if data.Session == nil {
		data.Session = &domain.Session{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		observability.FromContext(req.Context()).Error("rendering template", "page", page, "error", err)
		http.Error(w, "Error interno. Intenta más tarde.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError renders the shared error page.
func (r *Renderer) RenderError(w http.ResponseWriter, req *http.Request, status int, message string, session *domain.Session) {
	r.Render(w, req, status, "error.html", PageData{
		Session: session,
		Status:  status,
		Error:   message,
	})
}
