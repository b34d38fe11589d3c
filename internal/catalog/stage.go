package catalog

import (
	"context"

	"github.com/giftmatch/catalog-ingest/internal/artifact"
	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// Embedder computes a fixed-length vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Inserter persists one product with its embedding.
type Inserter interface {
	Insert(ctx context.Context, p domain.EnrichedProduct, embedding []float32) (string, error)
}

// Stage drives the store step of the pipeline: assemble embedding text,
// embed, and insert, isolating per-record failures.
type Stage struct {
	embedder Embedder
	store    Inserter
	log      logger.Interface
}

// NewStage creates a store stage.
func NewStage(embedder Embedder, store Inserter, log logger.Interface) *Stage {
	return &Stage{embedder: embedder, store: store, log: log}
}

// Run reads the enrich artifact at inPath and stores each record. An
// embedding failure aborts only that record's storage.
func (s *Stage) Run(ctx context.Context, inPath string) (domain.Tally, error) {
	products, err := artifact.ReadEnriched(inPath)
	if err != nil {
		return domain.Tally{}, err
	}

	s.log.Info("storing products", "count", len(products))

	var tally domain.Tally
	for _, product := range products {
		id, storeErr := s.StoreOne(ctx, product)
		if storeErr != nil {
			s.log.Warn("product not stored", "name", product.Name, "error", storeErr)
			tally.Fail()
			continue
		}

		s.log.Info("product stored", "name", product.Name, "id", id)
		tally.Ok()
	}

	s.log.Info("store complete", "succeeded", tally.Succeeded, "failed", tally.Failed)

	return tally, nil
}

// StoreOne embeds and inserts a single product.
func (s *Stage) StoreOne(ctx context.Context, product domain.EnrichedProduct) (string, error) {
	embedding, err := s.embedder.Embed(ctx, EmbeddingText(product))
	if err != nil {
		return "", err
	}

	return s.store.Insert(ctx, product, embedding)
}
