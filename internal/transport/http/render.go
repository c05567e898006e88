// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rentdesk/rentdesk/internal/apiclient"
	"github.com/rentdesk/rentdesk/internal/billing"
	"github.com/rentdesk/rentdesk/internal/forms"
	"github.com/rentdesk/rentdesk/internal/observability/logger"
	"github.com/rentdesk/rentdesk/internal/session"
	"github.com/rentdesk/rentdesk/internal/view"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html static/*
var assets embed.FS

// pageTitles label each view in the document title.
var pageTitles = map[view.View]string{
	view.Landing:       "Welcome",
	view.Signup:        "Sign up",
	view.Login:         "Log in",
	view.TenantHome:    "Home",
	view.RoomSelection: "Choose a room",
	view.Tenants:       "My tenancy",
	view.Tenant:        "Payments",
	view.Landlord:      "Landlord dashboard",
}

// Page is the data every template receives.
type Page struct {
	View   view.View
	Title  string
	Navbar view.Navbar
	Notice string
	Error  string
	Errors forms.Errors
	Form   any
	Data   any
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[view.View]*template.Template
}

var printer = message.NewPrinter(language.English)

// ksh formats a whole-shilling amount with thousands separators.
func ksh(amount int64) string {
	return printer.Sprintf("%s %d", billing.Currency, amount)
}

var templateFuncs = template.FuncMap{
	"ksh": ksh,
	"date": func(t *apiclient.Timestamp) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006")
	},
	"lower": strings.ToLower,
}

// NewRenderer parses the layout together with each page template.
func NewRenderer(files fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[view.View]*template.Template, len(pageTitles))}
	for _, v := range view.All() {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(files,
			"templates/layout.html",
			"templates/"+templateName(v),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", v, err)
		}
		r.pages[v] = t
	}
	return r, nil
}

func templateName(v view.View) string {
	return strings.ReplaceAll(string(v), "-", "_") + ".html"
}

// defaultRenderer renders the embedded templates.
var defaultRenderer = func() *Renderer {
	r, err := NewRenderer(assets)
	if err != nil {
		panic(err)
	}
	return r
}()

func staticFiles() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Execute renders view v with p.
func (r *Renderer) Execute(buf *bytes.Buffer, v view.View, p Page) error {
	t, ok := r.pages[v]
	if !ok {
		return fmt.Errorf("no template for view %q", v)
	}
	return t.ExecuteTemplate(buf, "layout.html", p)
}

// render fills in the navbar and flash messages, commits the session and
// writes the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, v view.View, p Page) {
	sc := session.FromContext(r.Context())

	p.View = v
	p.Title = pageTitles[v]
	p.Navbar = view.NavbarFor(v, view.VisitorFrom(sc))
	if notice := sc.TakeFlash(flashNotice); p.Notice == "" {
		p.Notice = notice
	}
	if msg := sc.TakeFlash(flashError); p.Error == "" {
		p.Error = msg
	}

	var buf bytes.Buffer
	if err := h.renderer.Execute(&buf, v, p); err != nil {
		slog.ErrorContext(r.Context(), "failed to render page",
			logger.String("view", string(v)),
			logger.Error(err),
		)
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	h.commitSession(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StaticHandler serves the embedded stylesheet and scripts.
type StaticHandler struct {
	FS fs.FS
}

func (h StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	stat, err := fs.Stat(h.FS, path)
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.FileServer(http.FS(h.FS)).ServeHTTP(w, r)
}
