package enrich_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giftmatch/catalog-ingest/internal/artifact"
	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/enrich"
	"github.com/giftmatch/catalog-ingest/internal/logger"
)

type mockGenerator struct {
	failFor map[string]error
	seen    []string
}

func (m *mockGenerator) GenerateAttributes(_ context.Context, product domain.ScrapedProduct) (domain.Enrichment, error) {
	m.seen = append(m.seen, product.Name)
	if err, ok := m.failFor[product.Name]; ok {
		return domain.Enrichment{}, err
	}
	return domain.Enrichment{
		Description: "A gift for fans of " + product.Name + ".",
		Category:    "toys",
		MinAge:      6,
		MaxAge:      12,
		Gender:      domain.GenderUnisex,
		Tags:        []string{"fun"},
	}, nil
}

func scraped(name string) domain.ScrapedProduct {
	return domain.ScrapedProduct{
		Name:               name,
		AmazonURL:          "https://www.amazon.com/dp/B000000000",
		Price:              19.99,
		ProductDescription: name + " listing text",
	}
}

func writeScrapedArtifact(t *testing.T, products []domain.ScrapedProduct) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraped_products.json")
	require.NoError(t, artifact.WriteScraped(path, products))
	return path
}

func TestEnrichStageWritesSurvivors(t *testing.T) {
	gen := &mockGenerator{}
	stage := enrich.NewStage(gen, logger.NewNoOp())

	inPath := writeScrapedArtifact(t, []domain.ScrapedProduct{scraped("Alpha"), scraped("Beta")})
	outPath := filepath.Join(t.TempDir(), "enriched_products.json")

	tally, err := stage.Run(context.Background(), inPath, outPath)
	require.NoError(t, err)
	require.Equal(t, 2, tally.Succeeded)
	require.Zero(t, tally.Failed)
	require.Equal(t, []string{"Alpha", "Beta"}, gen.seen)

	enriched, err := artifact.ReadEnriched(outPath)
	require.NoError(t, err)
	require.Len(t, enriched, 2)
	require.Equal(t, "Alpha", enriched[0].Name)
	require.Equal(t, "toys", enriched[0].Category)
	require.Equal(t, 19.99, enriched[0].Price)
}

func TestEnrichStageIsolatesGeneratorFailure(t *testing.T) {
	gen := &mockGenerator{failFor: map[string]error{
		"Beta": errors.New("model returned malformed json"),
	}}
	stage := enrich.NewStage(gen, logger.NewNoOp())

	inPath := writeScrapedArtifact(t, []domain.ScrapedProduct{
		scraped("Alpha"), scraped("Beta"), scraped("Gamma"),
	})
	outPath := filepath.Join(t.TempDir(), "enriched_products.json")

	tally, err := stage.Run(context.Background(), inPath, outPath)
	require.NoError(t, err)
	require.Equal(t, 2, tally.Succeeded)
	require.Equal(t, 1, tally.Failed)

	enriched, err := artifact.ReadEnriched(outPath)
	require.NoError(t, err)
	require.Len(t, enriched, 2)
	require.Equal(t, "Gamma", enriched[1].Name)
}

func TestEnrichStageSkipsArtifactWhenAllFail(t *testing.T) {
	gen := &mockGenerator{failFor: map[string]error{
		"Alpha": errors.New("timeout"),
	}}
	stage := enrich.NewStage(gen, logger.NewNoOp())

	inPath := writeScrapedArtifact(t, []domain.ScrapedProduct{scraped("Alpha")})
	outPath := filepath.Join(t.TempDir(), "enriched_products.json")

	tally, err := stage.Run(context.Background(), inPath, outPath)
	require.NoError(t, err)
	require.Zero(t, tally.Succeeded)
	require.Equal(t, 1, tally.Failed)

	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestEnrichStageFailsOnMissingInput(t *testing.T) {
	stage := enrich.NewStage(&mockGenerator{}, logger.NewNoOp())

	_, err := stage.Run(context.Background(),
		filepath.Join(t.TempDir(), "absent.json"),
		filepath.Join(t.TempDir(), "out.json"))
	require.Error(t, err)
}

func TestEnrichStageNormalizesGender(t *testing.T) {
	gen := &weirdGenderGenerator{}
	stage := enrich.NewStage(gen, logger.NewNoOp())

	inPath := writeScrapedArtifact(t, []domain.ScrapedProduct{scraped("Alpha")})
	outPath := filepath.Join(t.TempDir(), "enriched_products.json")

	_, err := stage.Run(context.Background(), inPath, outPath)
	require.NoError(t, err)

	enriched, err := artifact.ReadEnriched(outPath)
	require.NoError(t, err)
	require.Equal(t, domain.GenderUnisex, enriched[0].Gender)
}

type weirdGenderGenerator struct{}

func (weirdGenderGenerator) GenerateAttributes(_ context.Context, _ domain.ScrapedProduct) (domain.Enrichment, error) {
	return domain.Enrichment{
		Description: "text",
		Category:    "toys",
		Gender:      domain.Gender("ANYONE"),
	}, nil
}
