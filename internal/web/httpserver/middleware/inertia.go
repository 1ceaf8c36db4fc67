package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const inertiaContextKey contextKey = "inertia.info"

// Inertia protocol request headers.
const (
	HeaderInertia          = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
	HeaderPartialData      = "X-Inertia-Partial-Data"
	HeaderPartialExcept    = "X-Inertia-Partial-Except"
)

// InertiaInfo captures request metadata from X-Inertia-* headers.
type InertiaInfo struct {
	IsInertia        bool
	Version          string
	PartialComponent string
	PartialData      []string
	PartialExcept    []string
}

// Partial reports whether the request asks for a subset of component's props.
func (i InertiaInfo) Partial(component string) bool {
	return i.IsInertia && i.PartialComponent != "" && i.PartialComponent == component
}

// Inertia returns middleware that inspects X-Inertia-* headers and annotates the context.
func Inertia() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := parseInertia(r)
			ctx := context.WithValue(r.Context(), inertiaContextKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InertiaInfoFromContext retrieves Inertia metadata; returns zero value if absent.
func InertiaInfoFromContext(ctx context.Context) InertiaInfo {
	if ctx == nil {
		return InertiaInfo{}
	}
	val, ok := ctx.Value(inertiaContextKey).(InertiaInfo)
	if !ok {
		return InertiaInfo{}
	}
	return val
}

// InertiaInfoFromRequest returns the metadata stored by Inertia, parsing the
// headers directly when the middleware is not installed.
func InertiaInfoFromRequest(r *http.Request) InertiaInfo {
	if val, ok := r.Context().Value(inertiaContextKey).(InertiaInfo); ok {
		return val
	}
	return parseInertia(r)
}

func parseInertia(r *http.Request) InertiaInfo {
	return InertiaInfo{
		IsInertia:        strings.EqualFold(r.Header.Get(HeaderInertia), "true"),
		Version:          strings.TrimSpace(r.Header.Get(HeaderVersion)),
		PartialComponent: strings.TrimSpace(r.Header.Get(HeaderPartialComponent)),
		PartialData:      splitList(r.Header.Get(HeaderPartialData)),
		PartialExcept:    splitList(r.Header.Get(HeaderPartialExcept)),
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
