package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeevanra/jeevanra/pkg/catalog"
	"github.com/jeevanra/jeevanra/pkg/model"
	"github.com/jeevanra/jeevanra/pkg/notify"
)

//go:embed templates static
var assets embed.FS

// DateLayout formats activity timestamps.
const DateLayout = "Jan 2, 2006, 03:04 PM"

// view is the data every page template receives.
type view struct {
	Title   string
	Path    string
	Session *model.Session
	Tab     string // candidate tab id; the page keeps an existing one
	Toasts  []notify.Message
	Data    any
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(cat *catalog.Catalog) (*renderer, error) {
	funcs := template.FuncMap{
		"kg":    formatKg,
		"date":  func(t time.Time) string { return t.Local().Format(DateLayout) },
		"icon":  cat.Icon,
		"unit":  cat.Unit,
		"label": cat.Label,
		"pct":   percentOf,
		"add":   func(a, b int) int { return a + b },
		"round": func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}

	files, err := fs.Glob(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: list templates: %w", err)
	}
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(name, ".html")] = t
	}
	return r, nil
}

// render writes page with status. Toasts stored by a previous redirect are
// shown along with the given ones.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, sess *model.Session, data any, toasts []notify.Message) {
	t, ok := s.pages.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	v := view{
		Title:   title,
		Path:    r.URL.Path,
		Session: sess,
		Tab:     uuid.NewString(),
		Toasts:  append(s.takeToasts(w, r), toasts...),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		slog.Error("render page", "page", page, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func formatKg(v float64) string {
	return fmt.Sprintf("%.2f kg CO₂", v)
}

// percentOf scales v against top for bar heights, in whole percent.
func percentOf(v, top float64) int {
	if top <= 0 || v <= 0 {
		return 0
	}
	p := int(v / top * 100)
	if p > 100 {
		p = 100
	}
	return p
}
