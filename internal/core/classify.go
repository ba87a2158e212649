package core

// classify.go canonicalizes free-text job labels.
//
// Labels arrive in mixed languages and spellings ("Electricista", "electrician",
// "ELÉCTRICO"). They are slugified and then matched against an ordered table of
// keyword fragments. The first rule whose keyword is contained in the slug wins.
//
// To add a keyword:
//  1. Pick the canonical category it belongs to
//  2. Add a KeywordRule in the right position (specific before general)
//  3. Or ship it in a taxonomy file instead (see taxonomy.go)

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeywordRule maps a slug fragment to a canonical category.
type KeywordRule struct {
	Keyword  string
	Category Category
}

// defaultRules is evaluated in order; first contained keyword wins.
var defaultRules = []KeywordRule{
	// Plumbing
	{Keyword: "plom", Category: CategoryPlumber},
	{Keyword: "plumb", Category: CategoryPlumber},
	{Keyword: "fontaner", Category: CategoryPlumber},

	// Carpentry
	{Keyword: "carp", Category: CategoryCarpenter},
	{Keyword: "ebanist", Category: CategoryCarpenter},

	// Painting
	{Keyword: "pint", Category: CategoryPainter},
	{Keyword: "paint", Category: CategoryPainter},

	// Electrical
	{Keyword: "elect", Category: CategoryElectrician},

	// Welding
	{Keyword: "sold", Category: CategoryWelder},
	{Keyword: "weld", Category: CategoryWelder},

	// Masonry
	{Keyword: "alban", Category: CategoryMason},
	{Keyword: "mason", Category: CategoryMason},

	// Roofing
	{Keyword: "techad", Category: CategoryRoofer},
	{Keyword: "techo", Category: CategoryRoofer},
	{Keyword: "roof", Category: CategoryRoofer},

	// Heating, ventilation and air conditioning
	{Keyword: "hvac", Category: CategoryHVAC},
	{Keyword: "clima", Category: CategoryHVAC},
	{Keyword: "acondicion", Category: CategoryHVAC},
	{Keyword: "refriger", Category: CategoryHVAC},

	// Landscaping
	{Keyword: "paisaj", Category: CategoryLandscaper},
	{Keyword: "landscap", Category: CategoryLandscaper},
	{Keyword: "jardin", Category: CategoryLandscaper},
	{Keyword: "garden", Category: CategoryLandscaper},

	// Mechanics
	{Keyword: "mecan", Category: CategoryMechanic},
	{Keyword: "mechanic", Category: CategoryMechanic},

	// General labor
	{Keyword: "obrer", Category: CategoryGeneralLaborer},
	{Keyword: "labor", Category: CategoryGeneralLaborer},
	{Keyword: "general", Category: CategoryGeneralLaborer},
	{Keyword: "peon", Category: CategoryGeneralLaborer},
}

var spaceRuns = regexp.MustCompile(`\s+`)

// stripMarks returns a fresh transformer; a transform.Chain holds buffers and
// must not be shared between goroutines.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Slugify lowercases s, strips diacritics and joins whitespace runs with "_".
// Leading and trailing whitespace is dropped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks(), s); err == nil {
		s = stripped
	}
	return spaceRuns.ReplaceAllString(s, "_")
}

// Classify maps a free-text label to a canonical category using the default rules.
func Classify(label string) Category {
	return defaultPipeline.Classify(label)
}

// Classify maps a free-text label to a canonical category.
//
// Empty labels and labels matching no rule fall back to "other".
// Canonical labels map to themselves.
func (p *Pipeline) Classify(label string) Category {
	slug := Slugify(label)
	if slug == "" {
		return FallbackCategory
	}

	if c := Category(slug); c.IsCanonical() {
		return c
	}

	for _, rule := range p.rules {
		if strings.Contains(slug, rule.Keyword) {
			return rule.Category
		}
	}
	return FallbackCategory
}
