// Package combos holds the curated known-combo registry and the rule-based
// candidate combo generator.
package combos

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// TypeInfinite marks a combo that loops without bound.
const TypeInfinite = "infinite"

// KnownCombo is a hand-curated, verified combo.
type KnownCombo struct {
	Cards           []string `json:"cards" yaml:"cards"`
	Description     string   `json:"description" yaml:"description"`
	Steps           []string `json:"steps" yaml:"steps"`
	Requirements    []string `json:"requirements" yaml:"requirements"`
	Result          string   `json:"result" yaml:"result"`
	Type            string   `json:"type" yaml:"type"`
	ManaCostMinimum string   `json:"mana_cost_minimum,omitempty" yaml:"mana_cost_minimum,omitempty"`
	Colors          []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Notes           string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsInfinite reports whether the combo is classified as infinite.
func (k KnownCombo) IsInfinite() bool {
	return k.Type == TypeInfinite
}

// nameSetSep cannot appear in a card name.
const nameSetSep = "\x1f"

// NameSet is an order-independent key for a group of card names.
type NameSet string

// NewNameSet builds the canonical key: names sorted and de-duplicated.
func NewNameSet(names ...string) NameSet {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return NameSet(strings.Join(sorted, nameSetSep))
}

// Names returns the sorted names making up the set.
func (s NameSet) Names() []string {
	if s == "" {
		return nil
	}
	return strings.Split(string(s), nameSetSep)
}

// ExclusionSet is a set of NameSets used to skip already-known combos.
type ExclusionSet map[NameSet]struct{}

// Contains reports whether the given names, in any order, form an excluded set.
func (e ExclusionSet) Contains(names ...string) bool {
	_, ok := e[NewNameSet(names...)]
	return ok
}

// Registry is a read-only collection of known combos.
type Registry struct {
	combos []KnownCombo
}

// NewRegistry builds a registry over a copy of the given combos.
func NewRegistry(combos []KnownCombo) *Registry {
	return &Registry{combos: slices.Clone(combos)}
}

// DefaultRegistry returns a registry containing the built-in combos.
func DefaultRegistry() *Registry {
	return NewRegistry(Builtin())
}

// All returns every combo in registration order.
func (r *Registry) All() []KnownCombo {
	return slices.Clone(r.combos)
}

// Len returns the number of combos.
func (r *Registry) Len() int {
	return len(r.combos)
}

// Infinite returns the combos classified as infinite.
func (r *Registry) Infinite() []KnownCombo {
	var out []KnownCombo
	for _, c := range r.combos {
		if c.IsInfinite() {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether a known combo uses exactly the given card names.
func (r *Registry) Contains(names ...string) bool {
	key := NewNameSet(names...)
	for _, c := range r.combos {
		if NewNameSet(c.Cards...) == key {
			return true
		}
	}
	return false
}

// ExclusionSet returns the card-name sets of every known combo.
func (r *Registry) ExclusionSet() ExclusionSet {
	return NewExclusionSet(r.combos)
}

// NewExclusionSet builds an exclusion set from a combo list.
func NewExclusionSet(combos []KnownCombo) ExclusionSet {
	set := make(ExclusionSet, len(combos))
	for _, c := range combos {
		set[NewNameSet(c.Cards...)] = struct{}{}
	}
	return set
}

// Merge returns a new registry with extra combos appended. Combos whose card
// set is already registered are dropped.
func (r *Registry) Merge(extra []KnownCombo) *Registry {
	merged := slices.Clone(r.combos)
	seen := r.ExclusionSet()
	for _, c := range extra {
		key := NewNameSet(c.Cards...)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, c)
	}
	return &Registry{combos: merged}
}

// comboFile is the layout of a user-curated combo file.
type comboFile struct {
	Combos []KnownCombo `yaml:"combos"`
}

// LoadYAML reads additional curated combos from a YAML file.
func LoadYAML(path string) ([]KnownCombo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read combo file: %w", err)
	}

	var f comboFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse combo file %s: %w", path, err)
	}

	for i, c := range f.Combos {
		if len(c.Cards) < 2 {
			return nil, fmt.Errorf("combo %d in %s: needs at least 2 cards, got %d", i+1, path, len(c.Cards))
		}
		if c.Type == "" {
			f.Combos[i].Type = TypeInfinite
		}
	}

	return f.Combos, nil
}
