package scraper

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/giftmatch/catalog-ingest/internal/domain"
)

const (
	// maxDescriptionLen hard-limits the listing description.
	maxDescriptionLen = 2000
	// maxRichContentLen limits the "about this item" rich-content block,
	// which tends to be enormous.
	maxRichContentLen = 1000
)

// challengeMarkers identify Amazon's bot-detection interstitial.
var challengeMarkers = []string{
	"api-services-support@amazon.com",
	"Enter the characters you see below",
}

var (
	titlePrefixPattern = regexp.MustCompile(`^Amazon\.com:\s*`)
	titleSuffixPattern = regexp.MustCompile(
		`\s*:\s*(Electronics|Home & Kitchen|Toys & Games|Sports & Outdoors|Everything Else|Books|Clothing|Beauty|Health).*$`)
	priceTokenPattern  = regexp.MustCompile(`[\d,]+\.?\d*`)
	freeDeliveryText   = regexp.MustCompile(`(?i)FREE.*delivery`)
	primeFreeText      = regexp.MustCompile(`(?i)Prime FREE`)
	whitespaceRuns     = regexp.MustCompile(`\s+`)
)

// textStrategy tries to produce a non-empty string value from the document.
type textStrategy func(doc *goquery.Document) string

// priceStrategy tries to produce a price > 0 from the document.
type priceStrategy func(doc *goquery.Document) float64

// primeMarker checks one independent free-delivery signal.
type primeMarker func(doc *goquery.Document) bool

// nameStrategies resolve the product title, most precise first.
var nameStrategies = []textStrategy{
	func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find("span#productTitle").First().Text())
	},
	func(doc *goquery.Document) string {
		title := strings.TrimSpace(doc.Find("title").First().Text())
		if title == "" {
			return ""
		}
		title = titlePrefixPattern.ReplaceAllString(title, "")
		return strings.TrimSpace(titleSuffixPattern.ReplaceAllString(title, ""))
	},
}

// priceStrategies resolve the listing price, most precise first. Each parses
// the selected element's text with a separator-tolerant numeric token.
var priceStrategies = []priceStrategy{
	priceFromSelector("span.a-price-whole"),
	priceFromSelector("span#priceblock_ourprice"),
	priceFromSelector("span#priceblock_dealprice"),
	priceFromSelector("span#priceblock_saleprice"),
	priceFromSelector("span.a-offscreen"),
	// Combined price display with a nested offscreen text node.
	func(doc *goquery.Document) float64 {
		offscreen := doc.Find("span.a-price").First().Find("span.a-offscreen").First()
		return parsePrice(offscreen.Text())
	},
}

// primeMarkers are ORed together: any positive marker flags the listing.
var primeMarkers = []primeMarker{
	func(doc *goquery.Document) bool { return doc.Find("span.a-icon-prime").Length() > 0 },
	func(doc *goquery.Document) bool { return doc.Find("i.a-icon-prime").Length() > 0 },
	func(doc *goquery.Document) bool {
		found := false
		doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if freeDeliveryText.MatchString(s.Text()) {
				found = true
				return false
			}
			return true
		})
		return found
	},
	func(doc *goquery.Document) bool {
		return doc.Find(`span[data-csa-c-delivery-price="FREE"]`).Length() > 0
	},
	func(doc *goquery.Document) bool { return primeFreeText.MatchString(doc.Text()) },
}

// imageSelectors resolve the main product image, most precise first.
var imageSelectors = []string{
	"img#landingImage",
	"img#imgBlkFront",
	"img#main-image",
	"img.a-dynamic-image",
}

// descriptionStrategies resolve the listing description. The title fallback
// lives in Extract so the chain stays a pure markup -> text mapping.
var descriptionStrategies = []textStrategy{
	func(doc *goquery.Document) string {
		var parts []string
		doc.Find("div#feature-bullets span.a-list-item").Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		return strings.Join(parts, " ")
	},
	func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find("div#productDescription").First().Text())
	},
	func(doc *goquery.Document) string {
		text := strings.TrimSpace(doc.Find("div#aplus_feature_div").First().Text())
		if len(text) > maxRichContentLen {
			text = text[:maxRichContentLen]
		}
		return text
	},
}

// Extractor turns raw listing markup into a structured product record via
// ordered per-field fallback strategies.
type Extractor struct{}

// NewExtractor creates a new product extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DetectChallenge reports whether the markup is Amazon's bot-detection page
// rather than a product listing.
func DetectChallenge(body []byte) bool {
	for _, marker := range challengeMarkers {
		if bytes.Contains(body, []byte(marker)) {
			return true
		}
	}
	return false
}

// Extract parses listing markup and resolves each field through its strategy
// chain. The name is required: failing every name strategy fails the whole
// extraction. Every other field degrades to a sentinel with its quality
// marker set to missing.
func (e *Extractor) Extract(canonical domain.CanonicalURL, body []byte) (*domain.ScrapedProduct, error) {
	if DetectChallenge(body) {
		return nil, domain.ErrBotChallenge
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	product := &domain.ScrapedProduct{
		AmazonURL:  canonical.Canonical,
		AmazonASIN: canonical.ASIN,
	}

	name, nameQuality := resolveText(doc, nameStrategies)
	if name == "" {
		return nil, &domain.MissingFieldError{Field: "name"}
	}
	product.Name = name
	product.Quality.Name = nameQuality

	product.Price, product.Quality.Price = resolvePrice(doc)
	product.PrimeEligible, product.Quality.Prime = resolvePrime(doc)
	product.ImageURL, product.Quality.Image = resolveImage(doc)

	desc, descQuality := resolveText(doc, descriptionStrategies)
	if desc == "" {
		// Last resort keeps the description non-empty for enrichment.
		desc = name
		descQuality = domain.QualityMissing
	}
	product.ProductDescription = cleanDescription(desc)
	product.Quality.Description = descQuality

	return product, nil
}

// resolveText evaluates a strategy chain short-circuit: the first non-empty
// value wins. Strategy 0 is exact; anything later is a fallback.
func resolveText(doc *goquery.Document, strategies []textStrategy) (string, domain.FieldQuality) {
	for i, strategy := range strategies {
		if value := strategy(doc); value != "" {
			return value, qualityForIndex(i)
		}
	}
	return "", domain.QualityMissing
}

// resolvePrice evaluates the price chain. No match yields the 0.00 sentinel,
// never an error: price absence does not block ingestion.
func resolvePrice(doc *goquery.Document) (float64, domain.FieldQuality) {
	for i, strategy := range priceStrategies {
		if price := strategy(doc); price > 0 {
			return price, qualityForIndex(i)
		}
	}
	return 0.0, domain.QualityMissing
}

// resolvePrime ORs the independent delivery markers.
func resolvePrime(doc *goquery.Document) (bool, domain.FieldQuality) {
	for _, marker := range primeMarkers {
		if marker(doc) {
			return true, domain.QualityExact
		}
	}
	return false, domain.QualityMissing
}

// resolveImage walks the image selector chain, preferring the high-res
// attribute and rejecting inline data URIs.
func resolveImage(doc *goquery.Document) (string, domain.FieldQuality) {
	for i, selector := range imageSelectors {
		img := doc.Find(selector).First()
		if img.Length() == 0 {
			continue
		}

		src, ok := img.Attr("data-old-hires")
		if !ok || src == "" {
			src, _ = img.Attr("src")
		}
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		return src, qualityForIndex(i)
	}
	return "", domain.QualityMissing
}

// qualityForIndex maps a winning strategy index to its quality marker.
func qualityForIndex(i int) domain.FieldQuality {
	if i == 0 {
		return domain.QualityExact
	}
	return domain.QualityFallback
}

// priceFromSelector builds a price strategy that parses the first element
// matched by the selector.
func priceFromSelector(selector string) priceStrategy {
	return func(doc *goquery.Document) float64 {
		return parsePrice(doc.Find(selector).First().Text())
	}
}

// parsePrice extracts a numeric price from display text, tolerating
// thousands separators. Returns 0 when no parseable value is present.
func parsePrice(text string) float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	token := priceTokenPattern.FindString(text)
	if token == "" {
		return 0
	}
	price, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return price
}

// cleanDescription collapses whitespace runs and hard-truncates overlong
// text with an ellipsis marker.
func cleanDescription(text string) string {
	text = strings.TrimSpace(whitespaceRuns.ReplaceAllString(text, " "))
	if len(text) > maxDescriptionLen {
		text = text[:maxDescriptionLen] + "..."
	}
	return text
}
