// Package extract recovers structure from LLM free text: product mentions
// from completed assistant answers and JSON objects from extraction-agent
// responses. Everything here is heuristic and best-effort; callers get an
// empty result on unmatched input, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wayfinder-supply/wayfinder/internal/domain"
)

// namePricePattern captures "<Name> - $<price>" mentions: a capitalized
// word run followed by a dash and a dollar amount.
//
//nolint:gochecknoglobals // compiled regexps
var namePricePattern = regexp.MustCompile(
	`([A-Z][A-Za-z0-9'&+]*(?:[ ][A-Za-z0-9'&+][A-Za-z0-9'&+.]*){0,6})\s*[-–—]\s*\$([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

//nolint:gochecknoglobals // compiled regexps
var pricePattern = regexp.MustCompile(`\$([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// Extractor is the fallback product-mention extractor, used when a chat
// turn produced no structured product-search tool result. The brand list
// is deployment configuration because it is tuned to the demo catalog.
type Extractor struct {
	brands []string
	max    int
}

// NewExtractor creates an Extractor with the given brand tokens and
// display cap.
func NewExtractor(brands []string, maxProducts int) *Extractor {
	if maxProducts < 1 {
		maxProducts = 6
	}
	return &Extractor{brands: brands, max: maxProducts}
}

// FromText scans one completed assistant answer for product mentions.
// Two patterns: "<Name> - $<price>" runs, and bullet lines that open with
// a known brand token. Deduplicated by normalized name, order preserved,
// capped at the display count. Never errors; empty on no match.
func (e *Extractor) FromText(text string) []domain.SuggestedProduct {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var products []domain.SuggestedProduct

	add := func(p domain.SuggestedProduct) {
		key := NormalizeName(p.Title)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		products = append(products, p)
	}

	for line := range strings.SplitSeq(text, "\n") {
		clean := stripEmphasis(line)

		for _, m := range namePricePattern.FindAllStringSubmatch(clean, -1) {
			add(domain.SuggestedProduct{
				Title: strings.TrimSpace(m[1]),
				Price: parsePrice(m[2]),
			})
		}

		if name, ok := e.matchBrandBullet(clean); ok {
			p := domain.SuggestedProduct{Title: name}
			if m := pricePattern.FindStringSubmatch(clean); m != nil {
				p.Price = parsePrice(m[1])
			}
			add(p)
		}

		if len(products) >= e.max {
			break
		}
	}

	if len(products) > e.max {
		products = products[:e.max]
	}
	return products
}

// matchBrandBullet reports whether the line is a bullet opening with a
// known brand token, and the product name it carries.
func (e *Extractor) matchBrandBullet(line string) (string, bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "-*•")
	trimmed = strings.TrimSpace(trimmed)

	lower := strings.ToLower(trimmed)
	matched := false
	for _, brand := range e.brands {
		if strings.HasPrefix(lower, strings.ToLower(brand)) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	// The name runs up to the first separator or price.
	for _, sep := range []string{" - ", " – ", ": ", " ($", " $"} {
		if idx := strings.Index(trimmed, sep); idx > 0 {
			trimmed = trimmed[:idx]
		}
	}
	name := strings.TrimSpace(strings.TrimRight(trimmed, ".,;"))
	if name == "" {
		return "", false
	}
	return name, true
}

// FromToolResults lifts suggested products out of a product-search
// tool_result payload. The upstream result shape has drifted across
// releases, so this walks the decoded JSON and accepts any object that
// carries a title/name and a price.
func (e *Extractor) FromToolResults(results any) []domain.SuggestedProduct {
	seen := make(map[string]struct{})
	var products []domain.SuggestedProduct
	collectProducts(results, seen, &products)
	return products
}

func collectProducts(node any, seen map[string]struct{}, out *[]domain.SuggestedProduct) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			collectProducts(item, seen, out)
		}
	case map[string]any:
		if p, ok := productFromMap(v); ok {
			key := NormalizeName(p.Title)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				*out = append(*out, p)
			}
			return
		}
		for _, child := range v {
			collectProducts(child, seen, out)
		}
	}
}

func productFromMap(m map[string]any) (domain.SuggestedProduct, bool) {
	title := stringField(m, "title", "name", "product_name")
	price, hasPrice := numberField(m, "price")
	if title == "" || !hasPrice {
		return domain.SuggestedProduct{}, false
	}

	return domain.SuggestedProduct{
		ID:       stringField(m, "id", "_id", "product_id"),
		Title:    title,
		Price:    price,
		ImageURL: stringField(m, "image_url", "imageUrl"),
		Reason:   stringField(m, "reason", "recommendation_reason"),
	}, true
}

// Merge combines structured (tool_result-derived) and fallback
// (text-derived) products, structured entries winning, deduplicated by
// normalized name and capped at the display count. Order preserving and
// idempotent: merging the same inputs twice yields the same list.
func (e *Extractor) Merge(structured, fallback []domain.SuggestedProduct) []domain.SuggestedProduct {
	seen := make(map[string]struct{})
	merged := make([]domain.SuggestedProduct, 0, len(structured)+len(fallback))

	for _, list := range [][]domain.SuggestedProduct{structured, fallback} {
		for _, p := range list {
			key := NormalizeName(p.Title)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, p)
			if len(merged) >= e.max {
				return merged
			}
		}
	}
	return merged
}

// NormalizeName lowercases and trims a product name for deduplication.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func stripEmphasis(s string) string {
	// Markdown bold/italic markers inside the line confuse the name
	// capture; leading bullet markers are handled separately.
	s = strings.ReplaceAll(s, "**", "")
	return strings.ReplaceAll(s, "`", "")
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimPrefix(strings.ReplaceAll(v, ",", ""), "$"), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
