// Package liquidclass holds the pipetting-motion records used by a run.
//
// The records describe aspirate and dispense positions, flow rates and
// submerge/retract paths. They are opaque: this package loads them, copies
// them and hands them to the pipetting layer, but never interprets them. The
// only value set at run time is the dispense mix volume of the recovery
// transfer, which depends on the run parameters.
package liquidclass

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed classes.yaml
var classesYAML []byte

// Class names used by the transformation run.
const (
	DistributeCells = "distribute_step_1"
	PrefillSOC      = "transfer_step_3"
	SOCTo384        = "add SOC to 384 well plate"
	Recovery        = "transfer_step_6"
)

// ErrUnknownClass indicates a lookup of a class that is not in the catalog.
var ErrUnknownClass = errors.New("unknown liquid class")

// Class is one named liquid-class record.
type Class struct {
	// Name is the class name
	Name string `json:"name"`

	// Properties is the record keyed by pipette then tip rack
	Properties map[string]any `json:"properties"`
}

// Catalog is the set of classes available to a run.
type Catalog map[string]*Class

type document struct {
	Classes map[string]map[string]any `yaml:"classes"`
}

// Load parses the embedded class records.
func Load() (Catalog, error) {
	return Parse(classesYAML)
}

// Parse parses class records from YAML.
func Parse(data []byte) (Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse liquid classes: %w", err)
	}

	catalog := make(Catalog, len(doc.Classes))
	for name, props := range doc.Classes {
		if len(props) == 0 {
			return nil, fmt.Errorf("liquid class %q has no properties", name)
		}
		catalog[name] = &Class{Name: name, Properties: props}
	}
	return catalog, nil
}

// Get returns the class with the given name.
func (c Catalog) Get(name string) (*Class, error) {
	class, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return class, nil
}

// Names returns the class names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the class.
func (c *Class) Clone() *Class {
	return &Class{
		Name:       c.Name,
		Properties: cloneMap(c.Properties),
	}
}

// WithDispenseMixVolume returns a copy of the class whose dispense mix
// volume is set to volume for every pipette and tip rack it covers.
func (c *Class) WithDispenseMixVolume(volume float64) (*Class, error) {
	out := c.Clone()
	found := false
	for pipette, byTip := range out.Properties {
		tips, ok := byTip.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("liquid class %q: pipette %q is not a mapping", c.Name, pipette)
		}
		for tip, props := range tips {
			mix, err := lookup(props, "dispense", "mix")
			if err != nil {
				return nil, fmt.Errorf("liquid class %q (%s, %s): %w", c.Name, pipette, tip, err)
			}
			mix["volume"] = volume
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("liquid class %q has no dispense mix", c.Name)
	}
	return out, nil
}

// lookup walks nested mappings along path and returns the final mapping.
func lookup(v any, path ...string) (map[string]any, error) {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: not a mapping", key)
		}
		v, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("%s: missing", key)
		}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: not a mapping", path[len(path)-1])
	}
	return m, nil
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
