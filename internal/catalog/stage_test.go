package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giftmatch/catalog-ingest/internal/artifact"
	"github.com/giftmatch/catalog-ingest/internal/catalog"
	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

type mockEmbedder struct {
	failFor map[string]error
	texts   []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.texts = append(m.texts, text)
	for name, err := range m.failFor {
		if len(text) >= len(name) && text[:len(name)] == name {
			return nil, err
		}
	}
	return []float32{0.5, 0.25}, nil
}

type mockInserter struct {
	failFor  map[string]error
	inserted []domain.EnrichedProduct
}

func (m *mockInserter) Insert(_ context.Context, p domain.EnrichedProduct, _ []float32) (string, error) {
	if err, ok := m.failFor[p.Name]; ok {
		return "", err
	}
	m.inserted = append(m.inserted, p)
	return "id-" + p.Name, nil
}

func writeEnrichedArtifact(t *testing.T, products []domain.EnrichedProduct) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enriched_products.json")
	require.NoError(t, artifact.WriteEnriched(path, products))
	return path
}

func namedProduct(name string) domain.EnrichedProduct {
	p := enrichedFixture()
	p.Name = name
	p.Description = name + " described"
	return p
}

func TestStoreStageStoresEveryRecord(t *testing.T) {
	embedder := &mockEmbedder{}
	inserter := &mockInserter{}
	stage := catalog.NewStage(embedder, inserter, logger.NewNoOp())

	path := writeEnrichedArtifact(t, []domain.EnrichedProduct{
		namedProduct("Alpha"), namedProduct("Beta"),
	})

	tally, err := stage.Run(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, tally.Succeeded)
	require.Zero(t, tally.Failed)
	require.Len(t, inserter.inserted, 2)
}

func TestStoreStageIsolatesEmbeddingFailure(t *testing.T) {
	embedder := &mockEmbedder{failFor: map[string]error{
		"Beta described": errors.New("embedding quota exceeded"),
	}}
	inserter := &mockInserter{}
	stage := catalog.NewStage(embedder, inserter, logger.NewNoOp())

	path := writeEnrichedArtifact(t, []domain.EnrichedProduct{
		namedProduct("Alpha"), namedProduct("Beta"), namedProduct("Gamma"),
	})

	tally, err := stage.Run(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, tally.Succeeded)
	require.Equal(t, 1, tally.Failed)
	require.Len(t, inserter.inserted, 2)
}

func TestStoreStageIsolatesInsertFailure(t *testing.T) {
	embedder := &mockEmbedder{}
	inserter := &mockInserter{failFor: map[string]error{
		"Alpha": &domain.StoreError{Kind: domain.StoreErrGeneric, Err: errors.New("boom")},
	}}
	stage := catalog.NewStage(embedder, inserter, logger.NewNoOp())

	path := writeEnrichedArtifact(t, []domain.EnrichedProduct{
		namedProduct("Alpha"), namedProduct("Beta"),
	})

	tally, err := stage.Run(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, tally.Succeeded)
	require.Equal(t, 1, tally.Failed)
}

func TestStoreStageFailsOnMissingArtifact(t *testing.T) {
	stage := catalog.NewStage(&mockEmbedder{}, &mockInserter{}, logger.NewNoOp())

	_, err := stage.Run(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestStoreOneEmbedsAssembledText(t *testing.T) {
	embedder := &mockEmbedder{}
	inserter := &mockInserter{}
	stage := catalog.NewStage(embedder, inserter, logger.NewNoOp())

	product := enrichedFixture()
	id, err := stage.StoreOne(context.Background(), product)
	require.NoError(t, err)
	require.Equal(t, "id-"+product.Name, id)
	require.Equal(t, []string{catalog.EmbeddingText(product)}, embedder.texts)
}
