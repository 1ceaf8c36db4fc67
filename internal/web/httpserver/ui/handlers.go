package ui

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"finitefield.org/inertia-web/internal/web/inertia"
	"finitefield.org/inertia-web/internal/web/observability"
	"finitefield.org/inertia-web/internal/web/templates/layouts"
	"finitefield.org/inertia-web/internal/web/templates/pages"
)

const aboutSlug = "about"

// Dependencies collects collaborators required by the page handlers.
type Dependencies struct {
	Renderer    *inertia.Renderer
	Library     *pages.Library
	Lang        string
	Stylesheets []string
}

// Handlers exposes HTTP handlers for the page set.
type Handlers struct {
	renderer    *inertia.Renderer
	library     *pages.Library
	lang        string
	stylesheets []string
}

// NewHandlers wires the page handler set.
func NewHandlers(deps Dependencies) *Handlers {
	renderer := deps.Renderer
	if renderer == nil {
		renderer = inertia.NewRenderer("")
	}
	library := deps.Library
	if library == nil {
		library = pages.NewLibrary(nil)
	}
	return &Handlers{
		renderer:    renderer,
		library:     library,
		lang:        deps.Lang,
		stylesheets: deps.Stylesheets,
	}
}

// Home renders the landing page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	meta := pages.HomeMetadata()
	props := pageProps(meta)
	props["images"] = pages.HomeImages
	h.renderer.Render(w, r, pages.ComponentHome, props, h.view(meta, pages.Home()))
}

// About renders the markdown about page.
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) {
	doc, err := h.library.Load(aboutSlug)
	if errors.Is(err, pages.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("ui: load about page failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meta := pages.ArticleMetadata(doc)
	props := pageProps(meta)
	props["content"] = doc.HTML
	h.renderer.Render(w, r, pages.ComponentAbout, props, h.view(meta, pages.Article(doc)))
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	meta := pages.NotFoundMetadata()
	props := pageProps(meta)
	props["path"] = r.URL.Path
	h.renderer.RenderStatus(w, r, http.StatusNotFound, pages.ComponentNotFound, props, h.view(meta, pages.NotFound(r.URL.Path)))
}

// RedirectHome sends legacy entry points to the landing page.
func (h *Handlers) RedirectHome(w http.ResponseWriter, r *http.Request) {
	inertia.Location(w, r, "/")
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) view(meta layouts.Metadata, body templ.Component) inertia.ViewFunc {
	return func(page inertia.Page) templ.Component {
		return layouts.Layout(layouts.Props{
			Metadata:    meta,
			Lang:        h.lang,
			Stylesheets: h.stylesheets,
		}, inertia.App(page, body))
	}
}

// pageProps mirrors the head metadata into the props so the client can keep
// the head in sync across visits.
func pageProps(meta layouts.Metadata) inertia.Props {
	props := inertia.Props{}
	if meta.Title != "" {
		props["title"] = meta.Title
	}
	if meta.Description != "" {
		props["description"] = meta.Description
	}
	return props
}
