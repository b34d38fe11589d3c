package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/giftmatch/catalog-ingest/internal/artifact"
	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// PageFetcher fetches listing pages with pacing between calls.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Delay(ctx context.Context)
}

// URLNormalizer resolves raw URLs to canonical listing identities.
type URLNormalizer interface {
	Normalize(ctx context.Context, rawURL string) domain.CanonicalURL
}

// Stage drives the scrape step of the pipeline: normalize, fetch, and
// extract each URL, isolating per-URL failures.
type Stage struct {
	fetcher    PageFetcher
	normalizer URLNormalizer
	extractor  *Extractor
	log        logger.Interface
}

// NewStage creates a scrape stage.
func NewStage(fetcher PageFetcher, normalizer URLNormalizer, log logger.Interface) *Stage {
	return &Stage{
		fetcher:    fetcher,
		normalizer: normalizer,
		extractor:  NewExtractor(),
		log:        log,
	}
}

// Run scrapes every URL in order and writes the surviving records to the
// artifact at outPath. One bad URL never aborts the batch; the artifact is
// written only when at least one record succeeded.
func (s *Stage) Run(ctx context.Context, urls []string, outPath string) (domain.Tally, error) {
	var tally domain.Tally
	var products []domain.ScrapedProduct

	s.log.Info("scraping listings", "count", len(urls))

	for i, rawURL := range urls {
		log := s.log.With("url", rawURL, "progress", fmt.Sprintf("%d/%d", i+1, len(urls)))

		product, err := s.scrapeOne(ctx, rawURL)
		if err != nil {
			log.Warn("listing skipped", "reason", failureReason(err), "error", err)
			tally.Fail()
		} else {
			log.Info("listing scraped",
				"name", product.Name,
				"price", product.Price,
				"prime", product.PrimeEligible,
			)
			products = append(products, *product)
			tally.Ok()
		}

		// Pace between fetches but not after the final one.
		if i < len(urls)-1 {
			s.fetcher.Delay(ctx)
		}
	}

	s.log.Info("scrape complete", "succeeded", tally.Succeeded, "failed", tally.Failed)

	if len(products) == 0 {
		return tally, nil
	}
	if err := artifact.WriteScraped(outPath, products); err != nil {
		return tally, err
	}
	return tally, nil
}

// scrapeOne runs a single URL through normalize -> fetch -> extract.
func (s *Stage) scrapeOne(ctx context.Context, rawURL string) (*domain.ScrapedProduct, error) {
	canonical := s.normalizer.Normalize(ctx, rawURL)

	body, err := s.fetcher.Fetch(ctx, canonical.Canonical)
	if err != nil {
		return nil, err
	}

	return s.extractor.Extract(canonical, body)
}

// failureReason classifies a per-URL failure for the tally log.
func failureReason(err error) string {
	var fetchErr *domain.FetchError
	var missingErr *domain.MissingFieldError

	switch {
	case errors.Is(err, domain.ErrBotChallenge):
		return "bot_challenge"
	case errors.As(err, &fetchErr):
		return "fetch_failed"
	case errors.As(err, &missingErr):
		return "missing_" + missingErr.Field
	default:
		return "error"
	}
}
