package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
	"github.com/giftmatch/catalog-ingest/internal/pipeline"
)

type mockScrape struct {
	tally   domain.Tally
	err     error
	outPath string
	urls    []string
}

func (m *mockScrape) Run(_ context.Context, urls []string, outPath string) (domain.Tally, error) {
	m.urls = urls
	m.outPath = outPath
	return m.tally, m.err
}

type mockEnrich struct {
	tally   domain.Tally
	err     error
	inPath  string
	outPath string
	called  bool
}

func (m *mockEnrich) Run(_ context.Context, inPath, outPath string) (domain.Tally, error) {
	m.called = true
	m.inPath = inPath
	m.outPath = outPath
	return m.tally, m.err
}

type mockStore struct {
	tally  domain.Tally
	err    error
	inPath string
	called bool
}

func (m *mockStore) Run(_ context.Context, inPath string) (domain.Tally, error) {
	m.called = true
	m.inPath = inPath
	return m.tally, m.err
}

func TestPipelineHandsArtifactsBetweenStages(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Succeeded: 3, Failed: 1}}
	enrich := &mockEnrich{tally: domain.Tally{Succeeded: 3}}
	store := &mockStore{tally: domain.Tally{Succeeded: 2, Failed: 1}}

	controller := pipeline.NewController(scrape, enrich, store, logger.NewNoOp())

	outputDir := t.TempDir()
	result, err := controller.Run(context.Background(),
		[]string{"https://amzn.to/abc", "https://www.amazon.com/dp/B0TESTASIN"},
		pipeline.Options{OutputDir: outputDir})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, outputDir, result.ArtifactDir)
	assert.Equal(t, 3, result.Scrape.Succeeded)
	assert.Equal(t, 2, result.Store.Succeeded)

	scrapedPath := filepath.Join(outputDir, pipeline.ScrapedArtifact)
	enrichedPath := filepath.Join(outputDir, pipeline.EnrichedArtifact)
	assert.Equal(t, scrapedPath, scrape.outPath)
	assert.Equal(t, scrapedPath, enrich.inPath)
	assert.Equal(t, enrichedPath, enrich.outPath)
	assert.Equal(t, enrichedPath, store.inPath)
}

func TestPipelineAbortsWhenScrapeProducesNothing(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Failed: 2}}
	enrich := &mockEnrich{}
	store := &mockStore{}

	controller := pipeline.NewController(scrape, enrich, store, logger.NewNoOp())

	_, err := controller.Run(context.Background(), []string{"https://example.com"}, pipeline.Options{})

	var emptyErr *pipeline.StageEmptyError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "scrape", emptyErr.Stage)
	assert.False(t, enrich.called)
	assert.False(t, store.called)
}

func TestPipelineAbortsWhenEnrichProducesNothing(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Succeeded: 2}}
	enrich := &mockEnrich{tally: domain.Tally{Failed: 2}}
	store := &mockStore{}

	controller := pipeline.NewController(scrape, enrich, store, logger.NewNoOp())

	_, err := controller.Run(context.Background(), []string{"https://example.com"}, pipeline.Options{})

	var emptyErr *pipeline.StageEmptyError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "enrich", emptyErr.Stage)
	assert.False(t, store.called)
}

func TestPipelineWrapsStageErrors(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Succeeded: 1}}
	enrich := &mockEnrich{err: errors.New("artifact unreadable")}

	controller := pipeline.NewController(scrape, enrich, &mockStore{}, logger.NewNoOp())

	_, err := controller.Run(context.Background(), []string{"https://example.com"}, pipeline.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrich stage")
}

func TestPipelineRemovesTempArtifactDir(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Succeeded: 1}}
	enrich := &mockEnrich{tally: domain.Tally{Succeeded: 1}}
	store := &mockStore{tally: domain.Tally{Succeeded: 1}}

	controller := pipeline.NewController(scrape, enrich, store, logger.NewNoOp())

	result, err := controller.Run(context.Background(), []string{"https://example.com"}, pipeline.Options{})
	require.NoError(t, err)

	_, statErr := os.Stat(result.ArtifactDir)
	assert.True(t, os.IsNotExist(statErr), "temp artifact dir should be removed after the run")
}

func TestPipelineKeepsTempArtifactDirWhenRequested(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Succeeded: 1}}
	enrich := &mockEnrich{tally: domain.Tally{Succeeded: 1}}
	store := &mockStore{tally: domain.Tally{Succeeded: 1}}

	controller := pipeline.NewController(scrape, enrich, store, logger.NewNoOp())

	result, err := controller.Run(context.Background(), []string{"https://example.com"},
		pipeline.Options{KeepFiles: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(result.ArtifactDir) })

	info, statErr := os.Stat(result.ArtifactDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestPipelineRemovesTempDirOnAbort(t *testing.T) {
	scrape := &mockScrape{tally: domain.Tally{Failed: 1}}

	controller := pipeline.NewController(scrape, &mockEnrich{}, &mockStore{}, logger.NewNoOp())

	_, err := controller.Run(context.Background(), []string{"https://example.com"}, pipeline.Options{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Dir(scrape.outPath))
	assert.True(t, os.IsNotExist(statErr))
}
