package layouts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"finitefield.org/inertia-web/internal/web/theme"
)

func TestLayoutSetsThemeFromPreference(t *testing.T) {
	t.Parallel()

	for _, prefersDark := range []bool{true, false} {
		doc := renderLayout(t, context.Background(), Props{ColorScheme: theme.Fixed(prefersDark)}, nil)

		want := "light"
		if prefersDark {
			want = "dark"
		}
		require.Equal(t, want, doc.Find("html").AttrOr("data-theme", ""), "prefersDark=%v", prefersDark)
	}
}

func TestLayoutDarkScenarioWithTitle(t *testing.T) {
	t.Parallel()

	doc := renderLayout(t, context.Background(), Props{
		Metadata:    Metadata{Title: "Phoenix Inertia Template"},
		ColorScheme: theme.Fixed(true),
	}, nil)

	require.Equal(t, 1, doc.Find("head title").Length())
	require.Equal(t, "Phoenix Inertia Template", doc.Find("head title").Text())
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
}

func TestLayoutLightScenarioWithoutMetadata(t *testing.T) {
	t.Parallel()

	doc := renderLayout(t, context.Background(), Props{ColorScheme: theme.Fixed(false)}, nil)

	require.Equal(t, 0, doc.Find("title").Length(), "no title element when title is absent")
	require.Equal(t, 0, doc.Find(`meta[name="description"]`).Length(), "no description when absent")
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
}

func TestLayoutDescription(t *testing.T) {
	t.Parallel()

	doc := renderLayout(t, context.Background(), Props{
		Metadata: Metadata{Title: "About", Description: `Starter "template" & friends`},
	}, nil)

	meta := doc.Find(`head meta[name="description"]`)
	require.Equal(t, 1, meta.Length())
	require.Equal(t, `Starter "template" & friends`, meta.AttrOr("content", ""))
}

type nilProvider struct{ dark bool }

func (p *nilProvider) PrefersDark(context.Context) (bool, error) {
	return p.dark, nil
}

func TestLayoutEscapesMetadataAndToleratesTypedNilProvider(t *testing.T) {
	t.Parallel()

	var provider *nilProvider
	var buf bytes.Buffer
	err := Layout(Props{
		Metadata:    Metadata{Title: "a</title><script>x</script>", Description: `"><script>y</script>`},
		ColorScheme: provider,
	}, nil).Render(context.Background(), &buf)
	require.NoError(t, err)

	require.NotContains(t, buf.String(), "<script>")
	require.True(t, strings.HasPrefix(buf.String(), "<!doctype html>"))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 0, doc.Find("script").Length())
	require.Equal(t, "a</title><script>x</script>", doc.Find("head title").Text())
	require.Equal(t, `"><script>y</script>`, doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
}

func TestLayoutQueriesPreferenceOncePerRender(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	provider := theme.ProviderFunc(func(context.Context) (bool, error) {
		calls.Add(1)
		return true, nil
	})
	component := Layout(Props{ColorScheme: provider}, nil)

	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	require.EqualValues(t, 1, calls.Load())

	buf.Reset()
	require.NoError(t, component.Render(context.Background(), &buf))
	require.EqualValues(t, 2, calls.Load(), "each render re-evaluates the preference")
}

func TestLayoutFailsOpenToLight(t *testing.T) {
	t.Parallel()

	failing := theme.ProviderFunc(func(context.Context) (bool, error) {
		return false, errors.New("matchMedia unsupported")
	})
	doc := renderLayout(t, context.Background(), Props{ColorScheme: failing}, nil)
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))

	doc = renderLayout(t, context.Background(), Props{}, nil)
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""), "no provider anywhere")
}

func TestLayoutUsesContextProvider(t *testing.T) {
	t.Parallel()

	ctx := theme.WithProvider(context.Background(), theme.Fixed(true))
	doc := renderLayout(t, ctx, Props{}, nil)
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))

	doc = renderLayout(t, ctx, Props{ColorScheme: theme.Fixed(false)}, nil)
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""), "explicit provider wins")
}

func TestLayoutRendersChildrenUnchanged(t *testing.T) {
	t.Parallel()

	child := templ.Raw(`<main class="home-page"><h1>Hello</h1></main>`)
	doc := renderLayout(t, context.Background(), Props{
		Lang:        "ja",
		Stylesheets: []string{"/static/css/app.css", ""},
	}, child)

	require.Equal(t, "ja", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "Hello", doc.Find("body main.home-page h1").Text())
	require.Equal(t, 1, doc.Find(`link[rel="stylesheet"]`).Length())
	require.Equal(t, "/static/css/app.css", doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""))
}

func TestLayoutPropagatesChildErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	child := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })

	err := Layout(Props{}, child).Render(context.Background(), io.Discard)
	require.ErrorIs(t, err, boom)
}

func renderLayout(t *testing.T, ctx context.Context, props Props, children templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Layout(props, children).Render(ctx, &buf))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return doc
}
