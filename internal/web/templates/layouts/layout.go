package layouts

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"finitefield.org/inertia-web/internal/web/theme"
)

const defaultLang = "en"

// Metadata is the head metadata a page hands to the layout. Empty fields are
// treated as absent and produce no tag.
type Metadata struct {
	Title       string
	Description string
}

// Props configures a single layout render.
type Props struct {
	Metadata
	Lang        string
	Stylesheets []string
	// ColorScheme overrides the provider attached to the render context.
	ColorScheme theme.ColorSchemeProvider
}

type documentView struct {
	Metadata
	Lang        string
	Theme       theme.Theme
	Stylesheets []string
}

// Layout renders the document shell around children. The color-scheme
// preference is queried once per render and written to the root element as
// data-theme; children are rendered unchanged inside <body>.
func Layout(props Props, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		view := documentView{
			Metadata:    props.Metadata,
			Lang:        strings.TrimSpace(props.Lang),
			Theme:       theme.Detect(ctx, resolveProvider(ctx, props.ColorScheme)),
			Stylesheets: stylesheets(props.Stylesheets),
		}
		if view.Lang == "" {
			view.Lang = defaultLang
		}
		body := children
		if body == nil {
			body = templ.NopComponent
		}
		return document(view).Render(templ.WithChildren(ctx, body), w)
	})
}

func stylesheets(hrefs []string) []string {
	out := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		if strings.TrimSpace(href) != "" {
			out = append(out, href)
		}
	}
	return out
}

func resolveProvider(ctx context.Context, explicit theme.ColorSchemeProvider) theme.ColorSchemeProvider {
	if explicit != nil {
		return explicit
	}
	if provider, ok := theme.ProviderFromContext(ctx); ok {
		return provider
	}
	return nil
}
