package scraper

import (
	"context"
	"math/rand"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// FetcherConfig configures page fetching and request pacing.
type FetcherConfig struct {
	// UserAgents is the identity pool; one is chosen per request.
	UserAgents []string
	// MinDelay and MaxDelay bound the randomized pause between fetches.
	MinDelay time.Duration
	MaxDelay time.Duration
	// RequestTimeout bounds a single fetch.
	RequestTimeout time.Duration
}

// Fetcher fetches listing pages with randomized identity headers. Transport
// errors and non-2xx statuses surface as *domain.FetchError and never
// propagate beyond the fetch call.
type Fetcher struct {
	base *colly.Collector
	cfg  FetcherConfig
	rng  *rand.Rand
	log  logger.Interface
}

// NewFetcher creates a Fetcher backed by a colly collector.
func NewFetcher(cfg FetcherConfig, log logger.Interface) *Fetcher {
	base := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &Fetcher{
		base: base,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:  log,
	}
}

// Fetch retrieves the page at url and returns its body. The collector is
// cloned per call so response capture stays local to this fetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}

	c := f.base.Clone()

	var (
		body       []byte
		statusCode int
		fetchErr   error
	)

	c.OnRequest(func(r *colly.Request) {
		for key, value := range f.identityHeaders() {
			r.Headers.Set(key, value)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, &domain.FetchError{URL: url, StatusCode: statusCode, Err: fetchErr}
	}
	return body, nil
}

// Delay sleeps for a duration drawn uniformly from [MinDelay, MaxDelay].
// The scrape stage calls this between batch items, never after the last one.
// Returns early if the context is cancelled.
func (f *Fetcher) Delay(ctx context.Context) {
	span := f.cfg.MaxDelay - f.cfg.MinDelay
	delay := f.cfg.MinDelay
	if span > 0 {
		delay += time.Duration(f.rng.Int63n(int64(span)))
	}
	if delay <= 0 {
		return
	}

	f.log.Debug("pacing between requests", "delay", delay)
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// identityHeaders builds browser-like request headers with a user agent
// chosen uniformly at random from the pool.
func (f *Fetcher) identityHeaders() map[string]string {
	agent := f.cfg.UserAgents[f.rng.Intn(len(f.cfg.UserAgents))]
	return map[string]string{
		"User-Agent":                agent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}
