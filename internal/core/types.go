package core

import "strings"

// Category is a canonical job category. Every WorkerRecord carries one.
type Category string

const (
	CategoryPlumber        Category = "plumber"
	CategoryCarpenter      Category = "carpenter"
	CategoryPainter        Category = "painter"
	CategoryElectrician    Category = "electrician"
	CategoryWelder         Category = "welder"
	CategoryMason          Category = "mason"
	CategoryRoofer         Category = "roofer"
	CategoryHVAC           Category = "hvac"
	CategoryLandscaper     Category = "landscaper"
	CategoryMechanic       Category = "mechanic"
	CategoryGeneralLaborer Category = "general_laborer"
	CategoryOther          Category = "other"
)

// FallbackCategory is assigned when a label is empty or matches no rule.
const FallbackCategory = CategoryOther

// canon is the fixed category order used for every count and chart axis.
var canon = []Category{
	CategoryPlumber,
	CategoryCarpenter,
	CategoryPainter,
	CategoryElectrician,
	CategoryWelder,
	CategoryMason,
	CategoryRoofer,
	CategoryHVAC,
	CategoryLandscaper,
	CategoryMechanic,
	CategoryGeneralLaborer,
	CategoryOther,
}

// Canon returns the canonical categories in their fixed order.
// The returned slice is a copy.
func Canon() []Category {
	out := make([]Category, len(canon))
	copy(out, canon)
	return out
}

// IsCanonical reports whether c is a member of the canonical taxonomy.
func (c Category) IsCanonical() bool {
	for _, k := range canon {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory returns the canonical category named by s (case-insensitive).
// It does not classify free text; use Classify for that.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsCanonical() {
		return "", false
	}
	return c, true
}

// WorkerRecord is one ingested person. Category is always canonical.
type WorkerRecord struct {
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Address  string   `json:"address"`
	Category Category `json:"category"`
	Source   string   `json:"source"`
}

// RawRow maps lowercased header names to trimmed cell values.
// It is produced by the row parser and consumed by the normalizer.
type RawRow map[string]string

// LineNameKey is the key used by ParseLines for the bare-name value.
const LineNameKey = "name"

// Separator is the field delimiter picked by Sniff.
type Separator rune

const (
	SeparatorComma Separator = ','
	SeparatorTab   Separator = '\t'
)

// String returns a readable separator name.
func (s Separator) String() string {
	if s == SeparatorTab {
		return "tab"
	}
	return "comma"
}

// Mode selects how raw text is parsed.
type Mode int

const (
	ModeDelimited Mode = iota
	ModeLines
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDelimited:
		return "delimited"
	case ModeLines:
		return "lines"
	default:
		return "unknown"
	}
}

// ReasonCode explains why a file was not parsed.
type ReasonCode string

const (
	ReasonUnsupportedType   ReasonCode = "unsupported_type"
	ReasonUnsupportedFormat ReasonCode = "unsupported_format"
	ReasonReadOrParseError  ReasonCode = "read_or_parse_error"
)

// UnparsedFileEntry describes a file the pipeline declined or failed to parse.
type UnparsedFileEntry struct {
	Name      string     `json:"name"`
	Extension string     `json:"extension"` // Uppercased, no leading dot
	Reason    ReasonCode `json:"reason"`
}

// CategoryCount is one bar of the category chart.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// CategoryCounts holds one entry per canonical category, in canonical order.
type CategoryCounts []CategoryCount

// Get returns the count for c, or 0 if c is not canonical.
func (cc CategoryCounts) Get(c Category) int {
	for _, e := range cc {
		if e.Category == c {
			return e.Count
		}
	}
	return 0
}

// Total returns the sum of all counts.
func (cc CategoryCounts) Total() int {
	total := 0
	for _, e := range cc {
		total += e.Count
	}
	return total
}

// Max returns the largest single count (used to scale chart bars).
func (cc CategoryCounts) Max() int {
	highest := 0
	for _, e := range cc {
		if e.Count > highest {
			highest = e.Count
		}
	}
	return highest
}
