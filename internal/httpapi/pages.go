package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	log "github.com/sirupsen/logrus"
)

//go:embed web/templates/*.html web/static
var webFS embed.FS

// Pages holds one parsed template set per page; every set shares the
// layout and the partials.
type Pages struct {
	sets map[string]*template.Template
}

var pageFiles = map[string][]string{
	pageLoading:   {"layout.html", "loading.html"},
	pageDashboard: {"layout.html", "dashboard.html", "filters.html", "card.html"},
}

func LoadPages() (*Pages, error) {
	p := &Pages{sets: map[string]*template.Template{}}
	for name, files := range pageFiles {
		patterns := make([]string, 0, len(files))
		for _, f := range files {
			patterns = append(patterns, "web/templates/"+f)
		}
		t, err := template.New(name).ParseFS(webFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

// Render executes into a buffer first so a template error still yields
// a clean 500.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := p.sets[page]
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "unknown_page", page)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.WithFields(log.Fields{
			"request_id": RequestIDFrom(r.Context()),
			"page":       page,
		}).WithError(err).Error("render failed")
		WriteError(w, r, http.StatusInternalServerError, "render_failed", "could not render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
