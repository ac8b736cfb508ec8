// Package view renders the embedded html/template set: the page layout, every
// section and the error page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strings"

	"finitefield.org/konstruksi-web/internal/layout"
	"finitefield.org/konstruksi-web/internal/nav"
	"finitefield.org/konstruksi-web/internal/sections"
	"finitefield.org/konstruksi-web/internal/seo"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// Language is one entry of the language switcher.
type Language struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

// Analytics holds client instrumentation ids surfaced to templates.
type Analytics struct {
	GA4MeasurementID string
	GTMContainerID   string
}

// PageData is the view model of a full page.
type PageData struct {
	Lang            string
	HTMLLang        string
	Path            string
	SiteName        string
	HomeHref        string
	Doc             layout.Document
	Nav             []nav.RenderedItem
	Languages       []Language
	SEO             seo.Meta
	JSONLD          []template.JS
	Analytics       Analytics
	Footer          sections.FooterData
	Toast           *layout.Toast
	ToastCloseLabel string
	ScrollThreshold int
	// PageJSON is the serialised page payload read by the client on boot.
	PageJSON     string
	AssetVersion string
	CSRFToken    string
}

// ErrorData is the view model of the error page.
type ErrorData struct {
	HTMLLang  string
	SiteName  string
	Status    int
	Message   string
	RequestID string
	HomeHref  string
	HomeLabel string
}

// Options configures a Renderer.
type Options struct {
	// Dev re-parses templates on every render.
	Dev bool
	// Dir reads templates from disk instead of the embedded copy.
	Dir string
}

// Renderer executes the template set.
type Renderer struct {
	dev    bool
	fsys   fs.FS
	cached *template.Template
}

// New parses the templates once, failing fast on syntax errors.
func New(opts Options) (*Renderer, error) {
	var fsys fs.FS = embedded
	root := "templates"
	if strings.TrimSpace(opts.Dir) != "" {
		fsys = os.DirFS(opts.Dir)
		root = "."
	}
	sub, err := fs.Sub(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("view: templates dir: %w", err)
	}
	r := &Renderer{dev: opts.Dev, fsys: sub}
	t, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.cached = t
	return r, nil
}

func (r *Renderer) parse() (*template.Template, error) {
	var root *template.Template
	funcs := template.FuncMap{
		"section": func(s layout.Section) (template.HTML, error) {
			var buf bytes.Buffer
			if err := root.ExecuteTemplate(&buf, s.Template, s.Data); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}
	t, err := template.New("_root").Funcs(funcs).ParseFS(r.fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	root = t
	return t, nil
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.dev {
		return r.parse()
	}
	return r.cached, nil
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	t, err := r.templates()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Page renders a full document.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.execute(w, "base", data)
}

// Section renders a single section, used for htmx fragments.
func (r *Renderer) Section(w io.Writer, s layout.Section) error {
	return r.execute(w, s.Template, s.Data)
}

// Error renders the standalone error page.
func (r *Renderer) Error(w io.Writer, data ErrorData) error {
	return r.execute(w, "error", data)
}

// Has reports whether a template with the given name exists.
func (r *Renderer) Has(name string) bool {
	t, err := r.templates()
	if err != nil || t == nil {
		return false
	}
	return t.Lookup(name) != nil
}
