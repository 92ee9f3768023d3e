package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scrapemill/scrapemill"
	scrapehttp "github.com/scrapemill/scrapemill/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scrapemill.Downloader = (*scrapehttp.Downloader)(nil)

func TestDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("returns body and status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte("%PDF-1.4 fake"))
		}))
		defer srv.Close()

		d := scrapehttp.NewDownloader()
		body, status, err := d.Download(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusOK, status)
		assert.Equal(t, "%PDF-1.4 fake", string(body))
	})

	t.Run("reports HTTP errors with status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			nethttp.NotFound(w, r)
		}))
		defer srv.Close()

		d := scrapehttp.NewDownloader()
		_, status, err := d.Download(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, nethttp.StatusNotFound, status)
		assert.Equal(t, scrapemill.ENOTFOUND, scrapemill.ErrorCode(err))
		assert.Contains(t, scrapemill.ErrorMessage(err), "HTTP 404")
	})

	t.Run("maps status classes to error codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			want   string
		}{
			{nethttp.StatusForbidden, scrapemill.EINVALID},
			{nethttp.StatusGone, scrapemill.ENOTFOUND},
			{nethttp.StatusTooManyRequests, scrapemill.EUNAVAILABLE},
			{nethttp.StatusBadGateway, scrapemill.EUNAVAILABLE},
		}

		for _, tt := range tests {
			srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				w.WriteHeader(tt.status)
			}))

			d := scrapehttp.NewDownloader()
			_, _, err := d.Download(context.Background(), srv.URL)
			srv.Close()

			require.Error(t, err)
			assert.Equal(t, tt.want, scrapemill.ErrorCode(err), "status %d", tt.status)
		}
	})

	t.Run("rejects oversized documents", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
		}))
		defer srv.Close()

		d := scrapehttp.NewDownloader(scrapehttp.WithMaxSize(1024))
		_, _, err := d.Download(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, scrapemill.EINVALID, scrapemill.ErrorCode(err))
	})

	t.Run("classifies network failure as retryable", func(t *testing.T) {
		t.Parallel()

		d := scrapehttp.NewDownloader()
		_, _, err := d.Download(context.Background(), "http://127.0.0.1:1/doc.pdf")

		require.Error(t, err)
		assert.Equal(t, scrapemill.EUNAVAILABLE, scrapemill.ErrorCode(err))
	})
}
