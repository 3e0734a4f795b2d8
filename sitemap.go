package civsearch

import "context"

// SitemapService discovers URLs from website sitemaps. The crawler uses it
// to seed the frontier before breadth-first link discovery; failures are
// non-fatal and simply leave the frontier with the start URL alone.
type SitemapService interface {
	// DiscoverURLs finds URLs from a site's sitemap. It first checks
	// robots.txt for sitemap directives, then falls back to /sitemap.xml.
	// Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
