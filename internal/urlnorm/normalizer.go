// Package urlnorm resolves Amazon listing URLs to a canonical,
// deduplication-ready form.
package urlnorm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// defaultExpandTimeout bounds the redirect-following HEAD request used to
// expand short links.
const defaultExpandTimeout = 10 * time.Second

// shortLinkHosts are domains that redirect to a full listing URL.
var shortLinkHosts = map[string]struct{}{
	"amzn.to": {},
	"a.co":    {},
}

// asinPatterns are tried in order; the first match wins. An ASIN is a
// 10-character alphanumeric token in a known URL path position.
var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/product/([A-Z0-9]{10})`),
}

// Normalizer resolves raw listing URLs to canonical product identifiers.
type Normalizer struct {
	client *http.Client
	log    logger.Interface
}

// New creates a Normalizer. The HTTP client follows redirects, which is how
// short links get expanded.
func New(log logger.Interface) *Normalizer {
	return &Normalizer{
		client: &http.Client{Timeout: defaultExpandTimeout},
		log:    log,
	}
}

// NewWithClient creates a Normalizer with a custom HTTP client.
func NewWithClient(client *http.Client, log logger.Interface) *Normalizer {
	return &Normalizer{client: client, log: log}
}

// Normalize resolves a raw URL to its canonical form. Short-link expansion
// failures degrade gracefully: the raw URL stands in for the resolved one
// and normalization continues.
func (n *Normalizer) Normalize(ctx context.Context, rawURL string) domain.CanonicalURL {
	resolved := n.expandShortURL(ctx, rawURL)
	asin := ExtractASIN(resolved)

	canonical := resolved
	if asin != "" {
		// Deterministic reconstruction drops every tracking parameter.
		canonical = fmt.Sprintf("https://www.amazon.com/dp/%s", asin)
	}

	return domain.CanonicalURL{
		Raw:       rawURL,
		Resolved:  resolved,
		ASIN:      asin,
		Canonical: canonical,
	}
}

// expandShortURL follows redirects for known short-link hosts via a HEAD
// request. Any other URL is returned unchanged without a network call.
func (n *Normalizer) expandShortURL(ctx context.Context, rawURL string) string {
	if !isShortLink(rawURL) {
		return rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		n.log.Warn("could not build short-link expansion request", "url", rawURL, "error", err)
		return rawURL
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn("could not expand short URL", "url", rawURL, "error", err)
		return rawURL
	}
	defer resp.Body.Close()

	return resp.Request.URL.String()
}

// isShortLink reports whether the URL's host is a known short-link domain.
func isShortLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	_, ok := shortLinkHosts[host]
	return ok
}

// ExtractASIN extracts the Amazon catalog identifier from a listing URL.
// Returns the empty string when no path pattern matches.
func ExtractASIN(rawURL string) string {
	for _, pattern := range asinPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}
