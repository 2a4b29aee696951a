// Package content loads effect templates authored in YAML. Every template is
// checked by building a probe effect, so authoring mistakes fail at load time.
package content

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

//go:embed effects.yaml
var defaultCatalog []byte

// File is the YAML document layout.
type File struct {
	Effects []Template `yaml:"effects"`
}

// Template describes one grantable effect.
type Template struct {
	ID        string                 `yaml:"id"`
	Kind      effects.Kind           `yaml:"kind"`
	Name      string                 `yaml:"name"`
	Icon      effects.Icon           `yaml:"icon,omitempty"`
	Duration  int                    `yaml:"duration"`
	Decay     effects.DecayPolicy    `yaml:"decay"`
	Power     effects.PowerKind      `yaml:"power"`
	Target    effects.TargetDomain   `yaml:"target"`
	Magnitude *Magnitude             `yaml:"magnitude,omitempty"`
	Stacking  effects.StackingPolicy `yaml:"stacking,omitempty"`
}

// Magnitude is either {base, variance} or {min, max}. Variance and ranges
// are only valid for random power.
type Magnitude struct {
	Base     *float64 `yaml:"base,omitempty"`
	Variance float64  `yaml:"variance,omitempty"`
	Min      *float64 `yaml:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty"`
}

// Catalog is an immutable set of templates keyed by id.
type Catalog struct {
	templates map[string]Template
	order     []string
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read content file %s", path).
			WithMeta("path", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid content file %s", path).WithMeta("path", path)
	}
	return c, nil
}

// Parse decodes a catalog. Unknown YAML fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, errors.WrapWithCode(err, errors.CodeContentDefinition, "failed to decode content")
	}

	return New(file.Effects)
}

// New builds a catalog from templates, validating each one.
func New(templates []Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]Template, len(templates))}

	for i, t := range templates {
		if t.ID == "" {
			return nil, errors.ContentDefinitionf("effect %d has no id", i)
		}
		if _, exists := c.templates[t.ID]; exists {
			return nil, errors.AlreadyExistsf("duplicate effect template %q", t.ID).
				WithMeta("template_id", t.ID)
		}
		if _, err := t.Build("probe", ""); err != nil {
			return nil, errors.Wrapf(err, "effect template %q", t.ID).WithMeta("template_id", t.ID)
		}
		c.templates[t.ID] = t
		c.order = append(c.order, t.ID)
	}

	return c, nil
}

// Instantiate creates a new effect from the template named templateID.
func (c *Catalog) Instantiate(templateID, sourceID, id string) (*effects.StatusEffect, error) {
	t, ok := c.Template(templateID)
	if !ok {
		return nil, errors.NotFoundf("effect template %q not found", templateID).
			WithMeta("template_id", templateID)
	}
	return t.Build(id, sourceID)
}

// Template looks up a template by id.
func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// IDs returns template ids in file order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len is the number of templates.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Kinds counts templates per kind, for the validate command's summary.
func (c *Catalog) Kinds() map[effects.Kind]int {
	out := make(map[effects.Kind]int)
	for _, t := range c.templates {
		kind := t.Kind
		if kind == "" {
			kind = effects.KindOther
		}
		out[kind]++
	}
	return out
}

// SortedKinds returns the kinds present, sorted.
func (c *Catalog) SortedKinds() []effects.Kind {
	kinds := c.Kinds()
	out := make([]effects.Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Definition converts the template to an effect definition.
func (t Template) Definition(id, sourceID string) (effects.Definition, error) {
	caps := effects.Capabilities{Decay: t.Decay, Power: t.Power, Target: t.Target}
	if err := caps.Validate(); err != nil {
		return effects.Definition{}, err
	}

	magnitude, err := t.Magnitude.amount(t.Power)
	if err != nil {
		return effects.Definition{}, err
	}

	return effects.Definition{
		ID:           id,
		Kind:         t.Kind,
		Name:         t.Name,
		Icon:         t.Icon,
		Duration:     t.Duration,
		Capabilities: caps,
		Magnitude:    magnitude,
		SourceID:     sourceID,
		Stacking:     t.Stacking,
	}, nil
}

// Build creates an effect instance from the template.
func (t Template) Build(id, sourceID string) (*effects.StatusEffect, error) {
	def, err := t.Definition(id, sourceID)
	if err != nil {
		return nil, err
	}
	return effects.NewStatusEffect(def)
}

func (m *Magnitude) amount(power effects.PowerKind) (*effects.StatAmount, error) {
	if m == nil {
		return nil, nil
	}

	hasRange := m.Min != nil || m.Max != nil
	switch {
	case hasRange && m.Base != nil:
		return nil, errors.ContentDefinition("magnitude takes base or min/max, not both")
	case hasRange && (m.Min == nil || m.Max == nil):
		return nil, errors.ContentDefinition("magnitude range needs both min and max")
	case !hasRange && m.Base == nil:
		return nil, errors.ContentDefinition("magnitude needs base or min/max")
	}

	if power != effects.PowerRandom {
		if hasRange || m.Variance != 0 {
			return nil, errors.ContentDefinitionf("%s power takes a single base value", power)
		}
		return effects.NewFixedAmount(*m.Base), nil
	}

	if hasRange {
		if *m.Max < *m.Min {
			return nil, errors.ContentDefinitionf("magnitude max %v is below min %v", *m.Max, *m.Min)
		}
		return effects.NewRangeAmount(*m.Min, *m.Max), nil
	}
	if m.Variance < 0 {
		return nil, errors.ContentDefinitionf("magnitude variance must not be negative, got %v", m.Variance)
	}
	return effects.NewRandomAmount(*m.Base, m.Variance), nil
}
