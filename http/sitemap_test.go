package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	civhttp "github.com/civsearch/civsearch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("discovers sitemap from robots.txt", func(t *testing.T) {
		t.Parallel()

		var srvURL string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				fmt.Fprintf(w, "User-agent: *\nSitemap: %s/sitemap.xml\n", srvURL)
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/permits/building</loc></url>
  <url><loc>%s/news/meeting</loc></url>
</urlset>`, srvURL, srvURL)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()
		srvURL = srv.URL

		s := civhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/permits/building", srv.URL + "/news/meeting"}, urls)
	})

	t.Run("falls back to /sitemap.xml without robots directive", func(t *testing.T) {
		t.Parallel()

		var srvURL string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				fmt.Fprint(w, "User-agent: *\nDisallow:\n")
			case "/sitemap.xml":
				fmt.Fprintf(w, `<urlset><url><loc>%s/contact</loc></url></urlset>`, srvURL)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()
		srvURL = srv.URL

		s := civhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/contact"}, urls)
	})

	t.Run("resolves sitemap indexes recursively", func(t *testing.T) {
		t.Parallel()

		var srvURL string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				w.WriteHeader(http.StatusNotFound)
			case "/sitemap.xml":
				fmt.Fprintf(w, `<sitemapindex>
  <sitemap><loc>%s/sitemap-a.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap-b.xml</loc></sitemap>
</sitemapindex>`, srvURL, srvURL)
			case "/sitemap-a.xml":
				fmt.Fprintf(w, `<urlset><url><loc>%s/a</loc></url></urlset>`, srvURL)
			case "/sitemap-b.xml":
				fmt.Fprintf(w, `<urlset><url><loc>%s/b</loc></url><url><loc>%s/a</loc></url></urlset>`, srvURL, srvURL)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()
		srvURL = srv.URL

		s := civhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL)
		require.NoError(t, err)
		// Deduplicated across sitemaps.
		assert.Equal(t, []string{srv.URL + "/a", srv.URL + "/b"}, urls)
	})

	t.Run("no sitemap yields empty slice", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		s := civhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.NotNil(t, urls)
	})

	t.Run("cross-host URLs are dropped", func(t *testing.T) {
		t.Parallel()

		var srvURL string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				w.WriteHeader(http.StatusNotFound)
			case "/sitemap.xml":
				fmt.Fprintf(w, `<urlset>
  <url><loc>%s/ours</loc></url>
  <url><loc>https://other.example.com/theirs</loc></url>
</urlset>`, srvURL)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()
		srvURL = srv.URL

		s := civhttp.NewSitemapService(nil)
		urls, err := s.DiscoverURLs(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/ours"}, urls)
	})
}
