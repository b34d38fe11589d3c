// Package artifact reads and writes the JSON files passed between pipeline
// stages. The files are the sole durable contract between stages: a JSON
// array of flat records with stable field names that round-trips exactly.
package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/giftmatch/catalog-ingest/internal/domain"
)

// filePerm is the mode for written artifact files.
const filePerm = 0o644

// WriteScraped writes scrape-stage output as a JSON array.
func WriteScraped(path string, products []domain.ScrapedProduct) error {
	return writeJSON(path, products)
}

// ReadScraped reads a scrape-stage artifact.
func ReadScraped(path string) ([]domain.ScrapedProduct, error) {
	var products []domain.ScrapedProduct
	if err := readJSON(path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// WriteEnriched writes enrich-stage output as a JSON array.
func WriteEnriched(path string, products []domain.EnrichedProduct) error {
	return writeJSON(path, products)
}

// ReadEnriched reads an enrich-stage artifact.
func ReadEnriched(path string) ([]domain.EnrichedProduct, error) {
	var products []domain.EnrichedProduct
	if err := readJSON(path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func writeJSON(path string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return nil
}

// ReadURLFile reads listing URLs from a file, one per line. Blank lines and
// lines starting with '#' are skipped.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file %s: %w", path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file %s: %w", path, err)
	}
	return urls, nil
}
