package domain

// FieldQuality records how a field value was obtained during extraction.
type FieldQuality string

const (
	// QualityExact means the primary strategy for the field matched.
	QualityExact FieldQuality = "exact"
	// QualityFallback means a lower-priority strategy matched.
	QualityFallback FieldQuality = "fallback"
	// QualityMissing means no strategy matched and a sentinel was used.
	QualityMissing FieldQuality = "missing"
)

// ExtractionQuality carries the per-field confidence markers for one
// scraped product.
type ExtractionQuality struct {
	Name        FieldQuality `json:"name"`
	Price       FieldQuality `json:"price"`
	Prime       FieldQuality `json:"prime"`
	Image       FieldQuality `json:"image"`
	Description FieldQuality `json:"description"`
}
