package middleware

import (
	"net/http"

	"finitefield.org/inertia-web/internal/web/theme"
)

// ClientHints asks supporting browsers for the prefers-color-scheme hint and
// attaches a request-backed color-scheme provider to the context. Critical-CH
// makes the browser retry once with the hint when it was not sent.
func ClientHints() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Accept-CH", theme.HintHeader)
			h.Set("Critical-CH", theme.HintHeader)
			h.Add("Vary", theme.HintHeader)

			ctx := theme.WithProvider(r.Context(), theme.FromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
