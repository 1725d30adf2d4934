// Package view renders the HTML pages of the front-end.
// Templates and static assets are embedded in the binary.
package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/bankdemo/frontend/internal/format"
	"github.com/bankdemo/frontend/internal/model"
)

// Page names accepted by Render.
const (
	PageLogin = "login.html"
	PageIndex = "index.html"
	PageError = "error.html"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the page templates. It is safe for concurrent use.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page against the shared layout.
// Timestamps are rendered in loc; nil means UTC.
func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}

	base, err := template.New("layout.html").Funcs(Funcs(loc)).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLogin, PageIndex, PageError} {
		tmpl, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Funcs returns the template helpers bound to loc.
func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"currency":         format.Currency,
		"optionalCurrency": format.OptionalCurrency,
		"timestamp": func(epoch int64) string {
			return format.TimestampIn(epoch, loc)
		},
		"depositAccount": depositAccount,
	}
}

// Render writes the named page with status 200.
// Output is buffered so a failing template never leaves a partial page.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded assets; mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// depositAccount encodes a contact as the value of the deposit form's
// account field.
func depositAccount(c model.Contact) (string, error) {
	b, err := json.Marshal(model.ExternalAccount{
		AccountNum: c.AccountNum,
		RoutingNum: c.RoutingNum,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
