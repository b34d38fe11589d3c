// Package pipeline sequences the scrape, enrich, and store stages, handing
// artifacts between them through the filesystem.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// Artifact file names within the run's artifact directory.
const (
	ScrapedArtifact  = "scraped_products.json"
	EnrichedArtifact = "enriched_products.json"
)

// ScrapeRunner runs the scrape stage over a URL batch.
type ScrapeRunner interface {
	Run(ctx context.Context, urls []string, outPath string) (domain.Tally, error)
}

// EnrichRunner runs the enrich stage over a scrape artifact.
type EnrichRunner interface {
	Run(ctx context.Context, inPath, outPath string) (domain.Tally, error)
}

// StoreRunner runs the store stage over an enrich artifact.
type StoreRunner interface {
	Run(ctx context.Context, inPath string) (domain.Tally, error)
}

// Options controls artifact placement and retention.
type Options struct {
	// OutputDir, when set, receives the intermediate artifacts and implies
	// retention. When empty a temporary directory is used.
	OutputDir string
	// KeepFiles retains a temporary artifact directory after the run.
	KeepFiles bool
}

// Result aggregates per-stage tallies for one pipeline run.
type Result struct {
	RunID       string
	ArtifactDir string
	Scrape      domain.Tally
	Enrich      domain.Tally
	Store       domain.Tally
}

// StageEmptyError reports that a stage produced zero successes, leaving
// downstream stages nothing to consume.
type StageEmptyError struct {
	Stage string
}

func (e *StageEmptyError) Error() string {
	return fmt.Sprintf("%s stage produced no usable records", e.Stage)
}

// Controller sequences the three stages. Each transition consumes the
// previous stage's artifact from disk, never from memory, so any stage can
// be rerun standalone against a saved artifact.
type Controller struct {
	scrape ScrapeRunner
	enrich EnrichRunner
	store  StoreRunner
	log    logger.Interface
}

// NewController creates a pipeline controller.
func NewController(scrape ScrapeRunner, enrich EnrichRunner, store StoreRunner, log logger.Interface) *Controller {
	return &Controller{scrape: scrape, enrich: enrich, store: store, log: log}
}

// Run executes scrape -> enrich -> store over the URL batch. A stage with
// zero successes aborts the run with a StageEmptyError; per-item failures
// never do. Temporary artifact directories are removed whether or not the
// run succeeds, unless retention was requested.
func (c *Controller) Run(ctx context.Context, urls []string, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	log := c.log.With("run_id", result.RunID)

	dir, cleanup, err := c.artifactDir(opts)
	if err != nil {
		return result, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	result.ArtifactDir = dir

	scrapedPath := filepath.Join(dir, ScrapedArtifact)
	enrichedPath := filepath.Join(dir, EnrichedArtifact)

	log.Info("pipeline started", "urls", len(urls), "artifact_dir", dir)

	if result.Scrape, err = c.scrape.Run(ctx, urls, scrapedPath); err != nil {
		return result, fmt.Errorf("scrape stage: %w", err)
	}
	if result.Scrape.Empty() {
		return result, &StageEmptyError{Stage: "scrape"}
	}

	if result.Enrich, err = c.enrich.Run(ctx, scrapedPath, enrichedPath); err != nil {
		return result, fmt.Errorf("enrich stage: %w", err)
	}
	if result.Enrich.Empty() {
		return result, &StageEmptyError{Stage: "enrich"}
	}

	if result.Store, err = c.store.Run(ctx, enrichedPath); err != nil {
		return result, fmt.Errorf("store stage: %w", err)
	}

	log.Info("pipeline complete",
		"scraped", result.Scrape.Succeeded,
		"enriched", result.Enrich.Succeeded,
		"stored", result.Store.Succeeded,
	)

	return result, nil
}

// artifactDir resolves where artifacts live for this run. The returned
// cleanup is non-nil only for unretained temporary directories.
func (c *Controller) artifactDir(opts Options) (string, func(), error) {
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create artifact dir: %w", err)
		}
		return opts.OutputDir, nil, nil
	}

	dir, err := os.MkdirTemp("", "catalog-pipeline-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp artifact dir: %w", err)
	}
	if opts.KeepFiles {
		return dir, nil, nil
	}

	cleanup := func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			c.log.Warn("could not remove temp artifact dir", "dir", dir, "error", rmErr)
		}
	}
	return dir, cleanup, nil
}
