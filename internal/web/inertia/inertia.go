// Package inertia implements the server side of the Inertia protocol: first
// visits receive a full HTML document with the page object embedded in the
// root element, subsequent client visits receive the page object as JSON.
package inertia

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	custommw "finitefield.org/inertia-web/internal/web/httpserver/middleware"
	"finitefield.org/inertia-web/internal/web/observability"
)

// HeaderLocation carries the target of a hard visit in 409 responses.
const HeaderLocation = "X-Inertia-Location"

// Props are the component properties delivered to the client.
type Props map[string]any

// Page is the Inertia page object.
type Page struct {
	Component string `json:"component"`
	Props     Props  `json:"props"`
	URL       string `json:"url"`
	Version   string `json:"version"`
}

// ViewFunc builds the full HTML document for a first visit to page.
type ViewFunc func(page Page) templ.Component

// Renderer answers page requests for a fixed asset version.
type Renderer struct {
	version string
}

// NewRenderer constructs a renderer for the given asset version.
func NewRenderer(version string) *Renderer {
	return &Renderer{version: version}
}

// Version returns the current asset version.
func (rd *Renderer) Version() string {
	return rd.version
}

// Render writes component with props as a 200 response.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, component string, props Props, view ViewFunc) {
	rd.RenderStatus(w, r, http.StatusOK, component, props, view)
}

// RenderStatus writes component with props using status. Inertia requests get
// the JSON page object; everything else gets the document built by view.
func (rd *Renderer) RenderStatus(w http.ResponseWriter, r *http.Request, status int, component string, props Props, view ViewFunc) {
	ctx, span := observability.Tracer().Start(r.Context(), "inertia.render")
	defer span.End()
	r = r.WithContext(ctx)

	info := custommw.InertiaInfoFromRequest(r)
	page := Page{
		Component: component,
		Props:     selectProps(info, component, props),
		URL:       r.URL.RequestURI(),
		Version:   rd.version,
	}
	span.SetAttributes(
		attribute.String("inertia.component", component),
		attribute.Bool("inertia.request", info.IsInertia),
	)

	w.Header().Add("Vary", custommw.HeaderInertia)
	logger := observability.FromContext(ctx)

	if info.IsInertia {
		body, err := json.Marshal(page)
		if err != nil {
			logger.Error("inertia: encode page failed", zap.String("component", component), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set(custommw.HeaderInertia, "true")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	templ.Handler(view(page),
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			logger.Error("inertia: render page failed", zap.String("component", component), zap.Error(err))
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

// Location sends the client to url with a full page visit. Inertia requests
// receive 409 with X-Inertia-Location; others a regular redirect.
func Location(w http.ResponseWriter, r *http.Request, url string) {
	if custommw.InertiaInfoFromRequest(r).IsInertia {
		w.Header().Set(HeaderLocation, url)
		w.WriteHeader(http.StatusConflict)
		return
	}
	status := http.StatusFound
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, url, status)
}

// VersionCheck forces a full reload when an Inertia GET request was issued
// by a client holding stale assets.
func (rd *Renderer) VersionCheck() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := custommw.InertiaInfoFromRequest(r)
			if info.IsInertia && r.Method == http.MethodGet && info.Version != rd.version {
				observability.FromContext(r.Context()).Info("inertia: asset version changed",
					zap.String("client_version", info.Version),
					zap.String("server_version", rd.version),
				)
				Location(w, r, r.URL.RequestURI())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// App renders the Inertia root element: body is the server rendering of the
// page and the page object travels in data-page for client hydration.
func App(page Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := templ.JSONString(page)
		if err != nil {
			return err
		}
		children := body
		if children == nil {
			children = templ.NopComponent
		}
		return root(data).Render(templ.WithChildren(ctx, children), w)
	})
}

func selectProps(info custommw.InertiaInfo, component string, props Props) Props {
	out := make(Props, len(props))
	if !info.Partial(component) {
		for k, v := range props {
			out[k] = v
		}
		return out
	}

	if len(info.PartialData) > 0 {
		for _, key := range info.PartialData {
			if v, ok := props[key]; ok {
				out[key] = v
			}
		}
	} else {
		for k, v := range props {
			out[k] = v
		}
	}
	for _, key := range info.PartialExcept {
		delete(out, key)
	}
	return out
}
