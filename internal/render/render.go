// Package render draws the HTML panels and the printable service card.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/locale"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/yuin/goldmark"
)

//go:embed templates/*
var templatesFS embed.FS

// panelTemplates maps each view to its page template.
var panelTemplates = map[models.View]string{
	models.ViewDashboard:  "dashboard.html",
	models.ViewHistory:    "history.html",
	models.ViewAddService: "add-service.html",
	models.ViewProducts:   "products.html",
	models.ViewAddProduct: "add-product.html",
}

// PageData contains common data for all pages.
type PageData struct {
	Title  string
	User   *models.User
	View   models.View
	Nav    []models.NavItem
	Locale locale.Locale
	Error  string
	Data   any
}

// HistoryData feeds the service history panel.
type HistoryData struct {
	Records []models.ServiceRecord
	IsAdmin bool
}

// AddServiceData feeds the add-service form.
type AddServiceData struct {
	OilProducts []models.Product
	IsAdmin     bool
	Today       string
}

// ProductsData feeds the catalog panel.
type ProductsData struct {
	Products  []models.Product
	CanManage bool
}

// AddProductData feeds the add-product form.
type AddProductData struct {
	Categories []models.Category
}

// PrintData feeds the printable service card.
type PrintData struct {
	Record models.ServiceRecord
	Locale locale.Locale
}

// Renderer handles template rendering.
type Renderer struct {
	base   *template.Template
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New parses the layout templates.
func New() (*Renderer, error) {
	r := &Renderer{
		fsys:   templatesFS,
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}

	base, err := template.New("").
		Funcs(r.funcs()).
		ParseFS(r.fsys, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}
	r.base = base
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": r.Markdown,
	}
}

// Markdown renders product description markdown to sanitized HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		log.WithError(err).Warn("Failed to render markdown")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// Panel renders the panel selected by data.View inside the layout.
func (r *Renderer) Panel(w http.ResponseWriter, status int, data PageData) error {
	name, ok := panelTemplates[data.View]
	if !ok {
		return fmt.Errorf("no template for view %q", data.View)
	}
	if data.Nav == nil {
		data.Nav = models.Navigation
	}
	return r.render(w, status, name, "base", data)
}

// Login renders the sign-in page.
func (r *Renderer) Login(w http.ResponseWriter, status int, errMsg string) error {
	return r.render(w, status, "login.html", "login", PageData{Title: "Masuk", Error: errMsg})
}

// PrintCard renders the standalone service card for printing.
func (r *Renderer) PrintCard(w http.ResponseWriter, record models.ServiceRecord, loc locale.Locale) error {
	return r.render(w, http.StatusOK, "print.html", "print", PrintData{Record: record, Locale: loc})
}

// render clones the base template and parses the page template into it,
// avoiding conflicts between "content" blocks of different pages.
func (r *Renderer) render(w http.ResponseWriter, status int, name, entry string, data any) error {
	tmpl, err := r.base.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}

	path := "templates/" + name
	if _, err := tmpl.ParseFS(r.fsys, path); err != nil {
		return fmt.Errorf("parse page template %s: %w", path, err)
	}

	// Nothing is written to w when execution fails.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

