package showroom3d

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Option is one mutually exclusive choice within a group.
// Visibility maps mesh names to false to hide them while the option
// is selected; true entries are ignored (hiding is union-only).
type Option struct {
	Value       string          `yaml:"value" json:"value"`
	Label       string          `yaml:"label" json:"label"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Price       float64         `yaml:"price,omitempty" json:"price,omitempty"` // legacy flat price, see EnsureBasePrices
	Visibility  map[string]bool `yaml:"visibility,omitempty" json:"visibility,omitempty"`
}

type Group struct {
	ID      string   `yaml:"id" json:"id"`
	Title   string   `yaml:"title" json:"title"`
	Helper  string   `yaml:"helper,omitempty" json:"helper,omitempty"`
	Options []Option `yaml:"options" json:"options"`
}

// Chapter is one section of the configurator. Its Focus key names the
// camera target used while the chapter is active, and its own
// Visibility map hides meshes for as long as it is the active chapter.
type Chapter struct {
	ID          string          `yaml:"id" json:"id"`
	Focus       string          `yaml:"focus" json:"focus"`
	Kicker      string          `yaml:"kicker,omitempty" json:"kicker,omitempty"`
	Title       string          `yaml:"title" json:"title"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Groups      []Group         `yaml:"groups" json:"groups"`
	Visibility  map[string]bool `yaml:"visibility,omitempty" json:"visibility,omitempty"`
}

// PricingRules maps targetOptionValue -> dependencyOptionValue -> price.
// The diagonal entry rules[v][v] is the option's base price.
type PricingRules map[string]map[string]float64

// FocusTarget is a camera pose in spherical coordinates around LookAt.
// Angles are radians in memory; the YAML form carries degrees.
type FocusTarget struct {
	Radius  float64
	Polar   float64
	Azimuth float64
	LookAt  mgl64.Vec3
}

type focusTargetYAML struct {
	Radius     float64    `yaml:"radius" json:"radius"`
	PolarDeg   float64    `yaml:"polarDeg" json:"polarDeg"`
	AzimuthDeg float64    `yaml:"azimuthDeg" json:"azimuthDeg"`
	LookAt     [3]float64 `yaml:"lookAt" json:"lookAt"`
}

func (t *FocusTarget) UnmarshalYAML(node *yaml.Node) error {
	var raw focusTargetYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	t.Radius = raw.Radius
	t.Polar = degToRad(raw.PolarDeg)
	t.Azimuth = degToRad(raw.AzimuthDeg)
	t.LookAt = mgl64.Vec3{raw.LookAt[0], raw.LookAt[1], raw.LookAt[2]}
	return nil
}

func (t FocusTarget) MarshalYAML() (interface{}, error) {
	return focusTargetYAML{
		Radius:     t.Radius,
		PolarDeg:   radToDeg(t.Polar),
		AzimuthDeg: radToDeg(t.Azimuth),
		LookAt:     [3]float64{t.LookAt.X(), t.LookAt.Y(), t.LookAt.Z()},
	}, nil
}

func degToRad(d float64) float64 { return d * (math.Pi / 180) }
func radToDeg(r float64) float64 { return r * (180 / math.Pi) }

// Scene carries the camera targets plus an opaque model block that the
// asset-loading collaborator consumes; the engine never looks inside it.
type Scene struct {
	FocusTargets map[string]FocusTarget `yaml:"focusTargets" json:"focusTargets"`
	Model        map[string]interface{} `yaml:"model,omitempty" json:"model,omitempty"`
}

// Config is the full configurator definition: chapters with their
// groups and options, the pricing matrix and the scene block.
type Config struct {
	Chapters     []Chapter    `yaml:"chapters" json:"chapters"`
	PricingRules PricingRules `yaml:"pricingRules,omitempty" json:"pricingRules,omitempty"`
	Scene        Scene        `yaml:"scene" json:"scene"`
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PricingRules == nil {
		cfg.PricingRules = PricingRules{}
	}
	if cfg.Scene.FocusTargets == nil {
		cfg.Scene.FocusTargets = map[string]FocusTarget{}
	}
	return cfg, nil
}

func (c *Config) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return b, nil
}

func (c *Config) Save(path string) error {
	b, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Group finds a group by id anywhere in the chapter list.
func (c *Config) Group(groupID string) *Group {
	for ci := range c.Chapters {
		for gi := range c.Chapters[ci].Groups {
			if c.Chapters[ci].Groups[gi].ID == groupID {
				return &c.Chapters[ci].Groups[gi]
			}
		}
	}
	return nil
}

func (c *Config) Chapter(chapterID string) *Chapter {
	for i := range c.Chapters {
		if c.Chapters[i].ID == chapterID {
			return &c.Chapters[i]
		}
	}
	return nil
}

// OptionOrder returns the canonical index of every option value:
// chapters first, then groups within a chapter, then options within a
// group. This order defines dependency precedence for pricing.
func (c *Config) OptionOrder() map[string]int {
	order := make(map[string]int)
	n := 0
	for _, ch := range c.Chapters {
		for _, g := range ch.Groups {
			for _, o := range g.Options {
				if _, dup := order[o.Value]; !dup {
					order[o.Value] = n
				}
				n++
			}
		}
	}
	return order
}

// SetRule writes one pricing matrix entry. Writes above the diagonal
// (a dependency that comes after its target in canonical order) are
// rejected, which keeps the dependency graph acyclic.
func (c *Config) SetRule(target, dependency string, price float64) error {
	order := c.OptionOrder()
	ti, ok := order[target]
	if !ok {
		return fmt.Errorf("set rule: unknown option %q", target)
	}
	di, ok := order[dependency]
	if !ok {
		return fmt.Errorf("set rule: unknown dependency %q", dependency)
	}
	if di > ti {
		return fmt.Errorf("set rule: %q comes after %q in chapter order", dependency, target)
	}
	if c.PricingRules == nil {
		c.PricingRules = PricingRules{}
	}
	if c.PricingRules[target] == nil {
		c.PricingRules[target] = map[string]float64{}
	}
	c.PricingRules[target][dependency] = price
	return nil
}

// EnsureBasePrices copies each option's legacy flat Price into the
// matrix diagonal where no base price has been authored yet. Options
// with neither stay at 0, which is not an error.
func (c *Config) EnsureBasePrices() {
	if c.PricingRules == nil {
		c.PricingRules = PricingRules{}
	}
	for _, ch := range c.Chapters {
		for _, g := range ch.Groups {
			for _, o := range g.Options {
				if o.Price == 0 {
					continue
				}
				if _, ok := c.PricingRules[o.Value][o.Value]; ok {
					continue
				}
				if c.PricingRules[o.Value] == nil {
					c.PricingRules[o.Value] = map[string]float64{}
				}
				c.PricingRules[o.Value][o.Value] = o.Price
			}
		}
	}
}

// RemoveGroup deletes a group from whichever chapter holds it and
// reports whether anything was removed. The caller owns selection
// repair; Session does this automatically.
func (c *Config) RemoveGroup(groupID string) bool {
	for ci := range c.Chapters {
		groups := c.Chapters[ci].Groups
		for gi := range groups {
			if groups[gi].ID == groupID {
				c.Chapters[ci].Groups = append(groups[:gi], groups[gi+1:]...)
				return true
			}
		}
	}
	return false
}

// RemoveOption deletes one option from a group.
func (c *Config) RemoveOption(groupID, value string) bool {
	g := c.Group(groupID)
	if g == nil {
		return false
	}
	for i := range g.Options {
		if g.Options[i].Value == value {
			g.Options = append(g.Options[:i], g.Options[i+1:]...)
			return true
		}
	}
	return false
}

// Validate reports every problem it finds rather than stopping at the
// first: duplicate option values, chapters whose focus key has no
// target, and pricing entries that violate the triangular constraint.
func (c *Config) Validate() []error {
	var problems []error

	seen := map[string]string{}
	for _, ch := range c.Chapters {
		for _, g := range ch.Groups {
			for _, o := range g.Options {
				if prev, dup := seen[o.Value]; dup {
					problems = append(problems, fmt.Errorf("option value %q used in groups %q and %q", o.Value, prev, g.ID))
				} else {
					seen[o.Value] = g.ID
				}
			}
		}
		if ch.Focus != "" {
			if _, ok := c.Scene.FocusTargets[ch.Focus]; !ok {
				problems = append(problems, fmt.Errorf("chapter %q: no focus target for key %q", ch.ID, ch.Focus))
			}
		}
	}

	order := c.OptionOrder()
	for target, deps := range c.PricingRules {
		ti, ok := order[target]
		if !ok {
			// rules may outlive a deleted option; harmless but worth flagging
			problems = append(problems, fmt.Errorf("pricing rule for unknown option %q", target))
			continue
		}
		for dep := range deps {
			di, ok := order[dep]
			if !ok {
				problems = append(problems, fmt.Errorf("pricing rule %q depends on unknown option %q", target, dep))
				continue
			}
			if di > ti {
				problems = append(problems, fmt.Errorf("pricing rule %q -> %q points forward in chapter order", target, dep))
			}
		}
	}

	return problems
}
