package catalog

import (
	"fmt"
	"strings"

	"github.com/giftmatch/catalog-ingest/internal/domain"
)

// EmbeddingText assembles the text handed to the embedding model. The clause
// order is fixed: description, category, age range, gender (omitted when
// unisex), tags (omitted when empty). The order feeds directly into the
// embedding vector, so changing it would silently shift search ranking
// against the existing corpus.
func EmbeddingText(p domain.EnrichedProduct) string {
	parts := []string{
		p.Description,
		fmt.Sprintf("Category: %s", p.Category),
		fmt.Sprintf("Good for ages %d to %d", p.MinAge, p.MaxAge),
	}

	if p.Gender != domain.GenderUnisex {
		parts = append(parts, fmt.Sprintf("Best for %s", p.Gender))
	}
	if len(p.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(p.Tags, ", ")))
	}

	nonEmpty := parts[:0]
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, ". ")
}
