// Package domain provides domain models used across the application.
package domain

import "strings"

// Gender is the audience a product is targeted at.
type Gender string

const (
	// GenderMale targets male recipients.
	GenderMale Gender = "male"
	// GenderFemale targets female recipients.
	GenderFemale Gender = "female"
	// GenderUnisex targets any recipient.
	GenderUnisex Gender = "unisex"
)

// ParseGender normalizes a gender string, defaulting to unisex for
// anything unrecognized.
func ParseGender(s string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderUnisex
	}
}

// CanonicalURL is the resolved, deduplication-ready identity of a listing.
// Two raw URLs sharing an ASIN always produce the same Canonical value.
// Computed once per scrape attempt; immutable thereafter.
type CanonicalURL struct {
	// Raw is the URL exactly as given.
	Raw string `json:"raw_url"`
	// Resolved is the URL after following short-link redirects.
	Resolved string `json:"resolved_url"`
	// ASIN is the extracted Amazon catalog identifier, empty when none matched.
	ASIN string `json:"asin,omitempty"`
	// Canonical is the dedup key: reconstructed from the ASIN when present,
	// otherwise Resolved verbatim (tracking parameters retained).
	Canonical string `json:"canonical_url"`
}

// ScrapedProduct is the snapshot of one listing as scraped from Amazon.
// Immutable once written to the scrape artifact. Field names match the
// artifact corpus produced by earlier imports.
type ScrapedProduct struct {
	// Name is the product title. Absence is a scrape failure.
	Name string `json:"name"`
	// AmazonURL is the canonical listing URL.
	AmazonURL string `json:"amazon_url"`
	// AmazonASIN is the catalog identifier when the URL resolved to one.
	AmazonASIN string `json:"amazon_asin,omitempty"`
	// Price in dollars. 0.00 doubles as the "price not found" sentinel;
	// Quality.Price distinguishes the two.
	Price float64 `json:"price"`
	// PrimeEligible reports whether any free-delivery marker was present.
	PrimeEligible bool `json:"prime_eligible"`
	// ImageURL is the main product image, when one was found.
	ImageURL string `json:"image_url,omitempty"`
	// ProductDescription is the listing description text. Never empty:
	// falls back to Name when no description was found.
	ProductDescription string `json:"product_description"`
	// Quality records which extraction strategy produced each field.
	Quality ExtractionQuality `json:"extraction_quality"`
}

// EnrichedProduct is a ScrapedProduct plus model-generated gift attributes.
// Created by the enrich stage as a new value, never by mutating the scrape
// artifact.
type EnrichedProduct struct {
	ScrapedProduct

	// Description is the 1-3 sentence audience-targeting text used for
	// semantic matching.
	Description string `json:"description"`
	// Category is the product category (e.g. "toys", "electronics").
	Category string `json:"category"`
	// MinAge and MaxAge bound the recipient age range.
	MinAge int `json:"min_age"`
	MaxAge int `json:"max_age"`
	// Gender is one of male, female, unisex.
	Gender Gender `json:"gender"`
	// Tags are matching keywords. Insertion order is preserved so the
	// embedding text is reproducible.
	Tags []string `json:"tags,omitempty"`
}

// Enrichment holds just the model-generated attributes, as returned by the
// enrichment collaborator.
type Enrichment struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	MinAge      int      `json:"min_age"`
	MaxAge      int      `json:"max_age"`
	Gender      Gender   `json:"gender"`
	Tags        []string `json:"tags,omitempty"`
}

// Enrich combines a scraped product with model-generated attributes into a
// new EnrichedProduct.
func (p ScrapedProduct) Enrich(e Enrichment) EnrichedProduct {
	return EnrichedProduct{
		ScrapedProduct: p,
		Description:    e.Description,
		Category:       e.Category,
		MinAge:         e.MinAge,
		MaxAge:         e.MaxAge,
		Gender:         ParseGender(string(e.Gender)),
		Tags:           e.Tags,
	}
}

// StoredProduct is an EnrichedProduct after persistence: the store-assigned
// identifier plus the embedding vector computed at store time.
type StoredProduct struct {
	EnrichedProduct

	ID        string    `json:"id"`
	Embedding []float32 `json:"-"`
}
