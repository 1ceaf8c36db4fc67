package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/inertia-web/internal/web/inertia"
	"finitefield.org/inertia-web/internal/web/testutil"
)

func TestHomeRendersDarkThemeFromClientHint(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", `"dark"`)

	resp, body := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Sec-CH-Prefers-Color-Scheme", resp.Header.Get("Accept-CH"))
	require.Equal(t, "no-store, max-age=0", resp.Header.Get("Cache-Control"))

	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, "Phoenix Inertia Template", doc.Find("head title").Text())
	require.Equal(t, 0, doc.Find(`meta[name="description"]`).Length())
	require.Equal(t, "Phoenix Inertia Template", doc.Find("#app h1").Text())
	require.Equal(t, 3, doc.Find("#app .home-page__images img").Length())
	require.Equal(t, "/static/css/app.css", doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""))

	var page inertia.Page
	require.NoError(t, json.Unmarshal([]byte(doc.Find("#app").AttrOr("data-page", "")), &page))
	require.Equal(t, "Home", page.Component)
	require.Equal(t, "test-version", page.Version)
	require.Equal(t, "/", page.URL)
	require.Equal(t, "Phoenix Inertia Template", page.Props["title"])
}

func TestHomeDefaultsToLightTheme(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
}

func TestInertiaVisitReturnsPageObject(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithAssetVersion("v7"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/about", nil)
	require.NoError(t, err)
	req.Header.Set("X-Inertia", "true")
	req.Header.Set("X-Inertia-Version", "v7")

	resp, body := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "true", resp.Header.Get("X-Inertia"))

	var page inertia.Page
	require.NoError(t, json.Unmarshal(body, &page))
	require.Equal(t, "About", page.Component)
	require.Equal(t, "About this template", page.Props["title"])
	require.NotEmpty(t, page.Props["description"])
	require.NotEmpty(t, page.Props["content"])
}

func TestInertiaVisitWithStaleAssetsIsReloaded(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithAssetVersion("v7"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/about", nil)
	require.NoError(t, err)
	req.Header.Set("X-Inertia", "true")
	req.Header.Set("X-Inertia-Version", "v6")

	resp, _ := do(t, req)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "/about", resp.Header.Get("X-Inertia-Location"))
}

func TestAboutRendersDescription(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, body := get(t, ts.URL+"/about")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "About this template", doc.Find("head title").Text())
	require.NotEmpty(t, doc.Find(`head meta[name="description"]`).AttrOr("content", ""))
	require.Equal(t, 1, doc.Find("#app article.content-page").Length())
}

func TestAboutWithoutContentIsNotFound(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithContent(fstest.MapFS{}))

	resp, body := get(t, ts.URL+"/about")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Page not found", testutil.ParseHTML(t, body).Find("head title").Text())
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/missing", nil)
	require.NoError(t, err)
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")

	resp, body := do(t, req)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "Page not found", doc.Find("head title").Text())
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, "/missing", doc.Find(".not-found-page code").Text())
}

func TestLegacyHomeRedirects(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(ts.URL + "/home")
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestStaticAssetsAndHealth(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, body := get(t, ts.URL+"/static/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("ETag"))
	require.Contains(t, string(body), "data-theme")

	resp, _ = get(t, ts.URL+"/static/images/phoenix.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestHeadRequestsFollowGetRoutes(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	for _, path := range []string{"/", "/about", "/static/css/app.css"} {
		req, err := http.NewRequest(http.MethodHead, ts.URL+path, nil)
		require.NoError(t, err)

		resp, body := do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Empty(t, body, path)
	}
}

func TestStaticAssetsVaryOnceOnEncoding(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/static/css/app.css", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, _ := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	require.Equal(t, []string{"Accept-Encoding"}, resp.Header.Values("Vary"))
}

func TestRequestsAreLoggedThroughConfiguredLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ts := testutil.NewServer(t, testutil.WithLogger(zap.New(core)))

	resp, _ := get(t, ts.URL+"/about")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("request completed").Len() == 1
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("request completed").All()[0]
	fields := entry.ContextMap()
	require.Equal(t, "/about", fields["route"])
	require.EqualValues(t, http.StatusOK, fields["status"])
	require.NotEmpty(t, fields["request_id"])
	require.Equal(t, 1, logs.FilterMessage("request started").Len())
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}
