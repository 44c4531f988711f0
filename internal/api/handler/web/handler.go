// internal/api/handler/web/handler.go
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/numeric"
	"github.com/newthinker/pricedash/internal/render"
)

//go:embed templates/*
var templateFS embed.FS

// pages lists the page templates rendered inside layout.html.
var pages = []string{"dashboard.html", "chart.html"}

// SnapshotProvider provides the latest dashboard snapshot.
type SnapshotProvider interface {
	Latest() (*dashboard.Snapshot, bool)
}

// Options tunes the rendered pages.
type Options struct {
	// StreamPath is the websocket endpoint the page listens on for new
	// snapshots. Empty disables live updates; the page then polls.
	StreamPath string
	// PollSeconds is the fallback refresh period of the chart grid.
	PollSeconds int
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// pageTemplates holds separate template instances for each page
	// Each instance contains layout.html + the specific page template
	pageTemplates map[string]*template.Template
	source        SnapshotProvider
	opts          Options
}

// NewHandler creates a new web handler with templates loaded from the given directory.
// If templatesDir is empty, it falls back to embedded templates.
func NewHandler(templatesDir string, source SnapshotProvider, opts Options) (*Handler, error) {
	if templatesDir != "" {
		return newHandler(func(page string) (*template.Template, error) {
			return template.New("layout.html").Funcs(funcs).ParseFiles(
				filepath.Join(templatesDir, "layout.html"),
				filepath.Join(templatesDir, page),
			)
		}, source, opts)
	}
	return NewHandlerWithFS(TemplateFS(), source, opts)
}

// NewHandlerWithFS creates a new web handler using a custom filesystem.
// This is useful for testing or custom template sources.
func NewHandlerWithFS(fsys fs.FS, source SnapshotProvider, opts Options) (*Handler, error) {
	return newHandler(func(page string) (*template.Template, error) {
		return template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", page)
	}, source, opts)
}

func newHandler(parse func(page string) (*template.Template, error), source SnapshotProvider, opts Options) (*Handler, error) {
	if opts.PollSeconds <= 0 {
		opts.PollSeconds = 30
	}

	pageTemplates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := parse(page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{pageTemplates: pageTemplates, source: source, opts: opts}, nil
}

// render executes the specified page template with the given data
func (h *Handler) render(w http.ResponseWriter, status int, page, name string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// funcs are available to every template.
var funcs = template.FuncMap{
	"svg": func(l layout.Layout) template.HTML {
		// render escapes every string it emits
		return template.HTML(render.SVG(l))
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", numeric.Finite(v))
	},
	"color": color,
	"pctp": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.1f%%", *v)
	},
}

// color passes palette tokens such as "#3b82f6", "hsl(120, 70%, 60%)" or
// "rgba(54,162,235,0.7)" through as CSS. Anything else becomes transparent.
func color(c string) template.CSS {
	for _, r := range c {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case strings.ContainsRune("#(),.% ", r):
		default:
			return "transparent"
		}
	}
	lower := strings.ToLower(c)
	if c == "" || strings.Contains(lower, "url") || strings.Contains(lower, "expression") {
		return "transparent"
	}
	return template.CSS(c)
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// This should never happen with valid embed directive
		return templateFS
	}
	return subFS
}
