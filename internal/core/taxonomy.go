package core

// taxonomy.go loads optional header aliases and keyword rules from YAML.
//
// The canonical category set is fixed; a taxonomy file can only teach the
// pipeline new spellings. Extra aliases are checked after the built-in ones
// for the same field, and extra rules run after the built-in rules.
//
// Example file:
//
//	aliases:
//	  name: [trabajador, worker]
//	  phone: [tel, whatsapp]
//	rules:
//	  - category: hvac
//	    keywords: [aire acondicionado, ventilacion]
//	  - category: general_laborer
//	    keywords: [ayudante]

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTaxonomy is returned when a taxonomy file names an unknown field
// or a non-canonical category.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// Taxonomy is the full alias and rule table used by a Pipeline.
type Taxonomy struct {
	Aliases []FieldAliases
	Rules   []KeywordRule
}

// taxonomyFile is the YAML layout of a taxonomy extension.
type taxonomyFile struct {
	Aliases map[string][]string `yaml:"aliases"`
	Rules   []struct {
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"rules"`
}

// DefaultTaxonomy returns a copy of the built-in aliases and rules.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{
		Aliases: make([]FieldAliases, len(defaultAliases)),
		Rules:   make([]KeywordRule, len(defaultRules)),
	}
	for i, fa := range defaultAliases {
		t.Aliases[i] = FieldAliases{Field: fa.Field, Aliases: append([]string(nil), fa.Aliases...)}
	}
	copy(t.Rules, defaultRules)
	return t
}

// LoadTaxonomy reads a YAML extension from r and merges it onto the defaults.
func LoadTaxonomy(r io.Reader) (*Taxonomy, error) {
	var f taxonomyFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	t := DefaultTaxonomy()
	if err := t.extend(f); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTaxonomyFile reads a YAML extension from path.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy: %w", err)
	}
	defer file.Close()

	t, err := LoadTaxonomy(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *Taxonomy) extend(f taxonomyFile) error {
	for name, aliases := range f.Aliases {
		field := Field(strings.ToLower(strings.TrimSpace(name)))
		if !isKnownField(field) {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidTaxonomy, name)
		}
		for _, a := range aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" {
				continue
			}
			t.addAlias(field, a)
		}
	}

	for i, r := range f.Rules {
		c, ok := ParseCategory(r.Category)
		if !ok {
			return fmt.Errorf("%w: rule %d: category %q is not canonical", ErrInvalidTaxonomy, i+1, r.Category)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("%w: rule %d: no keywords", ErrInvalidTaxonomy, i+1)
		}
		for _, kw := range r.Keywords {
			slug := Slugify(kw)
			if slug == "" {
				return fmt.Errorf("%w: rule %d: empty keyword", ErrInvalidTaxonomy, i+1)
			}
			t.Rules = append(t.Rules, KeywordRule{Keyword: slug, Category: c})
		}
	}
	return nil
}

func (t *Taxonomy) addAlias(field Field, alias string) {
	for i := range t.Aliases {
		if t.Aliases[i].Field != field {
			continue
		}
		for _, existing := range t.Aliases[i].Aliases {
			if existing == alias {
				return
			}
		}
		t.Aliases[i].Aliases = append(t.Aliases[i].Aliases, alias)
		return
	}
	t.Aliases = append(t.Aliases, FieldAliases{Field: field, Aliases: []string{alias}})
}
