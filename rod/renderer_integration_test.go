//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scrapemill/scrapemill"
	"github.com/scrapemill/scrapemill/htmltomarkdown"
	"github.com/scrapemill/scrapemill/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *rod.Renderer {
	t.Helper()
	renderer, err := rod.NewRenderer(htmltomarkdown.NewConverter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = renderer.Close() })
	return renderer
}

func TestRenderer_Render_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title><meta property="og:title" content="OG Test"></head>
<body>
<div id="content">Loading...</div>
<a href="/next">next</a>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	renderer := newTestRenderer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := renderer.Render(ctx, srv.URL, scrapemill.RunConfig{})

	require.NoError(t, err)
	assert.Contains(t, result.HTML, "JavaScript Rendered")
	assert.NotContains(t, result.HTML, "Loading...")
	assert.Equal(t, "Test Page", result.PageTitle)
	assert.Equal(t, "OG Test", result.OGTitle)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.True(t, result.JSExecuted)
	assert.NotEmpty(t, result.Links)
	assert.NotEmpty(t, result.EngineMarkdown)
}

func TestRenderer_Render_WaitSelector(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<div id="root"></div>
<script>
setTimeout(() => {
  const el = document.createElement('div');
  el.id = 'late';
  el.textContent = 'arrived late';
  document.getElementById('root').appendChild(el);
}, 200);
</script>
</body></html>`))
	}))
	defer srv.Close()

	renderer := newTestRenderer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := renderer.Render(ctx, srv.URL, scrapemill.RunConfig{WaitSelector: "#late"})

	require.NoError(t, err)
	assert.Contains(t, result.HTML, "arrived late")
}

func TestRenderer_Render_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	renderer := newTestRenderer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := renderer.Render(ctx, srv.URL, scrapemill.RunConfig{})

	require.Error(t, err)
	assert.Equal(t, scrapemill.ETIMEOUT, scrapemill.ErrorCode(err))
}

func TestRenderer_Restart_RecoversFromClosedBrowser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>ok</title></head><body>ok</body></html>`))
	}))
	defer srv.Close()

	renderer := newTestRenderer(t)
	require.True(t, renderer.Ready())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, renderer.Restart(ctx))
	assert.True(t, renderer.Ready())

	result, err := renderer.Render(ctx, srv.URL, scrapemill.RunConfig{})
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "ok")
}

func TestRenderer_Close_Idempotent(t *testing.T) {
	t.Parallel()

	renderer, err := rod.NewRenderer(nil)
	require.NoError(t, err)

	require.NoError(t, renderer.Close())
	require.NoError(t, renderer.Close())
	assert.False(t, renderer.Ready())

	_, err = renderer.Render(context.Background(), "http://example.com", scrapemill.RunConfig{})
	require.Error(t, err)
	assert.Equal(t, scrapemill.EINTERNAL, scrapemill.ErrorCode(err))
}
