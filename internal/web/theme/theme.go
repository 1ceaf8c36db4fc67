package theme

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Theme is the presentation mode written to the document root.
type Theme string

const (
	// Light is used whenever a dark preference cannot be established.
	Light Theme = "light"
	// Dark is used when the environment reports a dark color-scheme preference.
	Dark Theme = "dark"
)

// Attribute is the document root attribute carrying the theme.
const Attribute = "data-theme"

// HintHeader is the user-agent client hint reporting prefers-color-scheme.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// ErrNoPreference indicates the environment did not report a color-scheme preference.
var ErrNoPreference = errors.New("theme: no color-scheme preference")

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// ColorSchemeProvider answers "does the user prefer a dark color scheme?".
type ColorSchemeProvider interface {
	PrefersDark(ctx context.Context) (bool, error)
}

// ProviderFunc adapts a plain function to ColorSchemeProvider.
type ProviderFunc func(ctx context.Context) (bool, error)

// PrefersDark implements ColorSchemeProvider.
func (f ProviderFunc) PrefersDark(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Fixed returns a provider that always reports the given preference.
func Fixed(prefersDark bool) ColorSchemeProvider {
	return ProviderFunc(func(context.Context) (bool, error) {
		return prefersDark, nil
	})
}

// FromRequest returns a provider backed by the request's color-scheme client hint.
func FromRequest(r *http.Request) ColorSchemeProvider {
	var value string
	if r != nil {
		value = r.Header.Get(HintHeader)
	}
	return requestProvider{hint: value}
}

type requestProvider struct {
	hint string
}

func (p requestProvider) PrefersDark(context.Context) (bool, error) {
	switch parseHint(p.hint) {
	case "dark":
		return true, nil
	case "light":
		return false, nil
	default:
		return false, ErrNoPreference
	}
}

// parseHint unwraps the structured-field string form (`"dark"`) used by browsers.
func parseHint(value string) string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"`)
	return strings.ToLower(strings.TrimSpace(value))
}

// FromPreference maps a dark preference flag to a Theme.
func FromPreference(prefersDark bool) Theme {
	if prefersDark {
		return Dark
	}
	return Light
}

// Detect queries the provider once and maps the answer to a Theme. A nil
// provider, an error or a panic inside the provider all resolve to Light.
func Detect(ctx context.Context, provider ColorSchemeProvider) (t Theme) {
	if provider == nil {
		return Light
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if recover() != nil {
			t = Light
		}
	}()
	prefersDark, err := provider.PrefersDark(ctx)
	if err != nil {
		return Light
	}
	return FromPreference(prefersDark)
}

type providerContextKey struct{}

// WithProvider attaches a provider to ctx for components rendered further down.
func WithProvider(ctx context.Context, provider ColorSchemeProvider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, providerContextKey{}, provider)
}

// ProviderFromContext returns the provider registered on ctx, if any.
func ProviderFromContext(ctx context.Context) (ColorSchemeProvider, bool) {
	if ctx == nil {
		return nil, false
	}
	provider, ok := ctx.Value(providerContextKey{}).(ColorSchemeProvider)
	return provider, ok && provider != nil
}
