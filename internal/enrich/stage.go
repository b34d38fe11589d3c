// Package enrich maps scraped products through the attribute-generation
// collaborator, one record at a time.
package enrich

import (
	"context"

	"github.com/giftmatch/catalog-ingest/internal/artifact"
	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// AttributeGenerator produces gift-matching attributes for one product.
type AttributeGenerator interface {
	GenerateAttributes(ctx context.Context, product domain.ScrapedProduct) (domain.Enrichment, error)
}

// Stage drives the enrich step of the pipeline.
type Stage struct {
	generator AttributeGenerator
	log       logger.Interface
}

// NewStage creates an enrich stage.
func NewStage(generator AttributeGenerator, log logger.Interface) *Stage {
	return &Stage{generator: generator, log: log}
}

// Run reads the scrape artifact at inPath, enriches each record, and writes
// the survivors to outPath. Per-record failures are tallied and dropped; the
// artifact is written only when at least one record succeeded.
func (s *Stage) Run(ctx context.Context, inPath, outPath string) (domain.Tally, error) {
	products, err := artifact.ReadScraped(inPath)
	if err != nil {
		return domain.Tally{}, err
	}

	s.log.Info("enriching products", "count", len(products))

	var tally domain.Tally
	var enriched []domain.EnrichedProduct

	for _, product := range products {
		attrs, genErr := s.generator.GenerateAttributes(ctx, product)
		if genErr != nil {
			s.log.Warn("product skipped", "name", product.Name, "error", genErr)
			tally.Fail()
			continue
		}

		enriched = append(enriched, product.Enrich(attrs))
		s.log.Info("product enriched",
			"name", product.Name,
			"category", attrs.Category,
			"min_age", attrs.MinAge,
			"max_age", attrs.MaxAge,
		)
		tally.Ok()
	}

	s.log.Info("enrich complete", "succeeded", tally.Succeeded, "failed", tally.Failed)

	if len(enriched) == 0 {
		return tally, nil
	}
	if err := artifact.WriteEnriched(outPath, enriched); err != nil {
		return tally, err
	}
	return tally, nil
}
