// Package catalog holds the activity types a user can track.
//
// The table is YAML. A default copy is embedded in the binary and can be
// replaced at startup with --activities-file.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed activities.yaml
var defaultYAML []byte

// DefaultIcon is shown for types the catalog does not know.
const DefaultIcon = "📋"

var (
	ErrEmptyCatalog    = errors.New("catalog: no activities defined")
	ErrDuplicateID     = errors.New("catalog: duplicate activity id")
	ErrIncompleteType  = errors.New("catalog: activity needs id, label and unit")
	ErrUnknownCategory = errors.New("catalog: activity refers to unknown category")
)

// Category groups activity types on the track page.
type Category struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// ActivityType is one selectable entry of the track form.
type ActivityType struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Category string `yaml:"category"`
	Unit     string `yaml:"unit"`
	Icon     string `yaml:"icon,omitempty"`
}

// Group is a category with its activity types, in file order.
type Group struct {
	Category
	Types []ActivityType
}

// Catalog is an immutable, validated activity table.
type Catalog struct {
	categories []Category
	types      []ActivityType
	byID       map[string]ActivityType
}

type document struct {
	Categories []Category     `yaml:"categories"`
	Activities []ActivityType `yaml:"activities"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic("catalog: embedded activities.yaml: " + err.Error())
	}
	return c
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI config
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	if len(doc.Activities) == 0 {
		return nil, ErrEmptyCatalog
	}

	known := make(map[string]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		known[cat.ID] = true
	}

	c := &Catalog{
		categories: doc.Categories,
		byID:       make(map[string]ActivityType, len(doc.Activities)),
	}
	for _, t := range doc.Activities {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" || strings.TrimSpace(t.Label) == "" || strings.TrimSpace(t.Unit) == "" {
			return nil, fmt.Errorf("%w (entry %q)", ErrIncompleteType, t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		if t.Category != "" && !known[t.Category] {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownCategory, t.ID, t.Category)
		}
		c.byID[t.ID] = t
		c.types = append(c.types, t)
	}
	return c, nil
}

// Types returns every activity type in file order.
func (c *Catalog) Types() []ActivityType {
	out := make([]ActivityType, len(c.types))
	copy(out, c.types)
	return out
}

// Lookup finds an activity type by id.
func (c *Catalog) Lookup(id string) (ActivityType, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Groups returns the types grouped by category, skipping empty categories.
// Uncategorised types come last under "Other".
func (c *Catalog) Groups() []Group {
	var groups []Group
	for _, cat := range c.categories {
		g := Group{Category: cat}
		for _, t := range c.types {
			if t.Category == cat.ID {
				g.Types = append(g.Types, t)
			}
		}
		if len(g.Types) > 0 {
			groups = append(groups, g)
		}
	}
	other := Group{Category: Category{ID: "other", Label: "Other"}}
	for _, t := range c.types {
		if t.Category == "" {
			other.Types = append(other.Types, t)
		}
	}
	if len(other.Types) > 0 {
		groups = append(groups, other)
	}
	return groups
}

// Unit returns the unit label for an activity type. Types missing from the
// catalog fall back on their prefix.
func (c *Catalog) Unit(id string) string {
	if t, ok := c.byID[id]; ok {
		return t.Unit
	}
	switch {
	case strings.HasPrefix(id, "commute_"), id == "air_travel":
		return "km"
	case id == "energy_kwh":
		return "kWh"
	case id == "food_meat", id == "food_plant":
		return "kg"
	default:
		return "unit"
	}
}

// Icon returns the glyph for an activity type.
func (c *Catalog) Icon(id string) string {
	if t, ok := c.byID[id]; ok && t.Icon != "" {
		return t.Icon
	}
	return DefaultIcon
}

// Label returns the human name of an activity type, or the raw id.
func (c *Catalog) Label(id string) string {
	if t, ok := c.byID[id]; ok {
		return t.Label
	}
	return id
}

// YAML renders the catalog in the same format Parse reads.
func (c *Catalog) YAML() ([]byte, error) {
	data, err := yaml.Marshal(document{Categories: c.categories, Activities: c.types})
	if err != nil {
		return nil, fmt.Errorf("catalog: marshal: %w", err)
	}
	return data, nil
}
