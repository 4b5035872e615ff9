// Package catalog loads the static content: tips, skill levels, checklist
// items, practice targets and topic prompts.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/scoring"
)

//go:embed catalog.yaml
var builtin []byte

// All is the filter wildcard for categories and difficulties.
const All = "all"

// Difficulties lists tip difficulties in ascending order.
var Difficulties = []string{"beginner", "intermediate", "advanced"}

// Catalog is the decoded content.
type Catalog struct {
	Categories    []model.Category      `yaml:"categories"`
	Tips          []model.Tip           `yaml:"tips"`
	Levels        scoring.Ladder        `yaml:"levels"`
	Checklist     []model.ChecklistItem `yaml:"checklist"`
	Targets       []int                 `yaml:"targets"`
	DefaultTarget int                   `yaml:"default_target"`
	Topics        []string              `yaml:"topics"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := LoadFromReader(bytes.NewReader(builtin))
	if err != nil {
		panic("catalog: built-in catalog is invalid: " + err.Error())
	}
	return c
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader decodes a YAML catalog from r and validates it.
func LoadFromReader(r io.Reader) (*Catalog, error) {
	c := &Catalog{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate returns a joined error listing every problem found.
func Validate(c *Catalog) error {
	var errs []error

	categories := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Key == "" {
			errs = append(errs, fmt.Errorf("categories[%d].key is required", i))
		}
		categories[cat.Key] = true
	}

	seen := make(map[string]int, len(c.Tips))
	for i, tip := range c.Tips {
		prefix := fmt.Sprintf("tips[%d]", i)
		if tip.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if prev, ok := seen[tip.ID]; ok {
			errs = append(errs, fmt.Errorf("%s.id %q is a duplicate of tips[%d]", prefix, tip.ID, prev))
		} else {
			seen[tip.ID] = i
		}
		if !categories[tip.Category] {
			errs = append(errs, fmt.Errorf("%s.category %q is unknown", prefix, tip.Category))
		}
		if !slices.Contains(Difficulties, tip.Difficulty) {
			errs = append(errs, fmt.Errorf("%s.difficulty %q is invalid; valid values: beginner, intermediate, advanced", prefix, tip.Difficulty))
		}
	}

	if err := c.Levels.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("levels: %w", err))
	}

	items := make(map[string]bool, len(c.Checklist))
	for i, item := range c.Checklist {
		if item.ID == "" {
			errs = append(errs, fmt.Errorf("checklist[%d].id is required", i))
		} else if items[item.ID] {
			errs = append(errs, fmt.Errorf("checklist[%d].id %q is a duplicate", i, item.ID))
		}
		items[item.ID] = true
	}

	if len(c.Targets) == 0 {
		errs = append(errs, errors.New("targets must not be empty"))
	}
	for i, t := range c.Targets {
		if t <= 0 {
			errs = append(errs, fmt.Errorf("targets[%d] must be > 0", i))
		}
	}
	if c.DefaultTarget == 0 && len(c.Targets) > 0 {
		c.DefaultTarget = c.Targets[0]
	}
	if !slices.Contains(c.Targets, c.DefaultTarget) {
		errs = append(errs, fmt.Errorf("default_target %d is not one of the targets", c.DefaultTarget))
	}

	return errors.Join(errs...)
}

// Filter returns tips matching category and difficulty; All matches anything.
func (c *Catalog) Filter(category, difficulty string) []model.Tip {
	out := make([]model.Tip, 0, len(c.Tips))
	for _, tip := range c.Tips {
		if category != All && category != "" && tip.Category != category {
			continue
		}
		if difficulty != All && difficulty != "" && tip.Difficulty != difficulty {
			continue
		}
		out = append(out, tip)
	}
	return out
}

// Tip looks up a tip by id.
func (c *Catalog) Tip(id string) (model.Tip, bool) {
	for _, tip := range c.Tips {
		if tip.ID == id {
			return tip, true
		}
	}
	return model.Tip{}, false
}

// CategoryLabel returns the display label for a category key.
func (c *Catalog) CategoryLabel(key string) string {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return cat.Label
		}
	}
	return key
}

// ValidTarget reports whether minutes is an offered practice target.
func (c *Catalog) ValidTarget(minutes int) bool {
	return slices.Contains(c.Targets, minutes)
}

// ChecklistIDs returns the checklist item ids in display order.
func (c *Catalog) ChecklistIDs() []string {
	ids := make([]string, len(c.Checklist))
	for i, item := range c.Checklist {
		ids[i] = item.ID
	}
	return ids
}
