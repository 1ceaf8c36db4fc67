package httpserver

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "finitefield.org/inertia-web/internal/web/httpserver/middleware"
	"finitefield.org/inertia-web/internal/web/httpserver/ui"
	"finitefield.org/inertia-web/internal/web/inertia"
	"finitefield.org/inertia-web/internal/web/observability"
	"finitefield.org/inertia-web/internal/web/templates/pages"
	"finitefield.org/inertia-web/public"
)

const stylesheetPath = "/static/css/app.css"

// Config holds runtime options for the web HTTP server.
type Config struct {
	Address      string
	Lang         string
	AssetVersion string
	Logger       *zap.Logger
	// Content overrides the embedded markdown documents.
	Content      fs.FS
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	version := strings.TrimSpace(cfg.AssetVersion)
	if version == "" {
		version, err = public.Version()
		if err != nil {
			return nil, fmt.Errorf("asset version: %w", err)
		}
	}
	renderer := inertia.NewRenderer(version)

	handlers := ui.NewHandlers(ui.Dependencies{
		Renderer:    renderer,
		Library:     pages.NewLibrary(cfg.Content),
		Lang:        cfg.Lang,
		Stylesheets: []string{stylesheetPath},
	})

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.GetHead)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.TraceMiddleware())
	router.Use(observability.RequestLogger())
	router.Use(observability.Recovery())
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(30 * time.Second))

	router.Get("/healthz", handlers.Healthz)
	router.Handle("/static/*", http.StripPrefix("/static", custommw.StaticCache(staticContent)))

	pageMiddleware := chi.Middlewares{
		custommw.NoStore(),
		custommw.Inertia(),
		renderer.VersionCheck(),
		custommw.ClientHints(),
	}
	router.Group(func(r chi.Router) {
		r.Use(pageMiddleware...)
		r.Get("/", handlers.Home)
		r.Get("/home", handlers.RedirectHome)
		r.Get("/about", handlers.About)
	})
	router.NotFound(pageMiddleware.HandlerFunc(handlers.NotFound).ServeHTTP)

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       durationOr(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}
