package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/giftmatch/catalog-ingest/internal/domain"
)

// Postgres error codes used to classify store failures.
const (
	pqUndefinedColumn = "42703"
	pqUndefinedTable  = "42P01"
)

// Store persists products to the catalog database.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a catalog store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Insert adds one product with its embedding and returns the store-assigned
// identifier. Failures are classified so the caller can surface a
// remediation hint.
func (s *Store) Insert(ctx context.Context, p domain.EnrichedProduct, embedding []float32) (string, error) {
	query := `
		INSERT INTO products (
			name, amazon_url, price, min_age, max_age, gender, category,
			prime_eligible, product_description, description, embedding,
			tags, image_url, amazon_asin
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := s.db.QueryRowContext(
		ctx,
		query,
		p.Name,
		p.AmazonURL,
		p.Price,
		p.MinAge,
		p.MaxAge,
		string(p.Gender),
		p.Category,
		p.PrimeEligible,
		p.ProductDescription,
		p.Description,
		vectorLiteral(embedding),
		pq.Array(p.Tags),
		nullable(p.ImageURL),
		nullable(p.AmazonASIN),
	).Scan(&id)
	if err != nil {
		return "", classifyStoreError(err)
	}

	return id, nil
}

// classifyStoreError maps database failures to the store error taxonomy,
// attaching the migration hint for the two schema-shaped cases.
func classifyStoreError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUndefinedColumn:
			return &domain.StoreError{
				Kind: domain.StoreErrMissingColumn,
				Hint: "run the pending products table migrations",
				Err:  err,
			}
		case pqUndefinedTable:
			return &domain.StoreError{
				Kind: domain.StoreErrMissingTable,
				Hint: "run 001_create_products_table.sql to create the schema",
				Err:  err,
			}
		}
	}
	return &domain.StoreError{Kind: domain.StoreErrGeneric, Err: err}
}

// vectorLiteral renders an embedding as a pgvector input literal.
func vectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// nullable maps the empty string to SQL NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
