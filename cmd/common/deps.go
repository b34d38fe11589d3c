// Package common wires shared dependencies for the CLI commands: config,
// logger, collaborator clients, and the pipeline stages built from them.
package common

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/giftmatch/catalog-ingest/internal/catalog"
	"github.com/giftmatch/catalog-ingest/internal/config"
	"github.com/giftmatch/catalog-ingest/internal/enrich"
	"github.com/giftmatch/catalog-ingest/internal/logger"
	"github.com/giftmatch/catalog-ingest/internal/openai"
	"github.com/giftmatch/catalog-ingest/internal/scraper"
	"github.com/giftmatch/catalog-ingest/internal/urlnorm"
)

// Deps holds dependencies shared by the commands. Collaborator clients are
// constructed once per process and passed into each stage explicitly.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// NewDeps loads configuration and builds the logger.
func NewDeps(cfgFile string, debug bool) (*Deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logCfg := cfg.Log
	if debug {
		logCfg.Level = "debug"
		logCfg.Development = true
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}

// ScrapeStage builds the scrape stage with its fetcher and normalizer.
func (d *Deps) ScrapeStage() *scraper.Stage {
	fetcher := scraper.NewFetcher(scraper.FetcherConfig{
		UserAgents:     d.Config.Scraper.UserAgents,
		MinDelay:       d.Config.Scraper.MinDelay,
		MaxDelay:       d.Config.Scraper.MaxDelay,
		RequestTimeout: d.Config.Scraper.RequestTimeout,
	}, d.Logger)

	return scraper.NewStage(fetcher, urlnorm.New(d.Logger), d.Logger)
}

// OpenAIClient builds the enrichment/embedding API client.
func (d *Deps) OpenAIClient() (*openai.Client, error) {
	if d.Config.OpenAI.APIKey == "" {
		return nil, errors.New("openai.api_key is required (set CATALOG_OPENAI_API_KEY)")
	}

	return openai.NewClient(openai.Config{
		APIKey:         d.Config.OpenAI.APIKey,
		BaseURL:        d.Config.OpenAI.BaseURL,
		ChatModel:      d.Config.OpenAI.ChatModel,
		EmbeddingModel: d.Config.OpenAI.EmbeddingModel,
		RequestTimeout: d.Config.OpenAI.RequestTimeout,
	}), nil
}

// EnrichStage builds the enrich stage.
func (d *Deps) EnrichStage() (*enrich.Stage, error) {
	client, err := d.OpenAIClient()
	if err != nil {
		return nil, err
	}
	return enrich.NewStage(client, d.Logger), nil
}

// StoreStage builds the store stage with a live database connection. The
// caller owns closing the returned handle.
func (d *Deps) StoreStage() (*catalog.Stage, *sqlx.DB, error) {
	client, err := d.OpenAIClient()
	if err != nil {
		return nil, nil, err
	}

	db, err := catalog.NewPostgresConnection(d.Config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to catalog database: %w", err)
	}

	return catalog.NewStage(client, catalog.NewStore(db), d.Logger), db, nil
}
