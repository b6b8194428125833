package training

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
)

// Instructions used by the general-purpose dataset.
const (
	InstructionGeneralCard = "Analyze this Magic: The Gathering Pauper format card."
	InstructionArchetype   = "Suggest cards for a Pauper deck archetype."
)

// Archetype pairs a colour identity with a deck style.
type Archetype struct {
	Colors []string
	Name   string
}

// Archetypes are the colour/style pairs used for deck-building examples.
var Archetypes = []Archetype{
	{Colors: []string{"U"}, Name: "blue control"},
	{Colors: []string{"R"}, Name: "red aggro"},
	{Colors: []string{"B"}, Name: "black sacrifice"},
	{Colors: []string{"W"}, Name: "white weenie"},
	{Colors: []string{"G"}, Name: "green ramp"},
	{Colors: []string{"U", "B"}, Name: "Dimir control"},
	{Colors: []string{"R", "G"}, Name: "Gruul aggro"},
}

// GeneralExamples builds the general card-knowledge dataset: one analysis
// per card with rules text, then one suggestion per archetype with enough
// matching cards.
func GeneralExamples(records []features.Record, cfg Config) []Example {
	var out []Example

	for _, r := range records {
		if r.OracleText == "" {
			continue
		}
		out = append(out, generalCardExample(r))
	}

	for _, a := range Archetypes {
		var names []string
		for _, r := range records {
			if hasColors(r.ColorIdentity, a.Colors) {
				names = append(names, r.Name)
			}
		}
		if len(names) <= cfg.ArchetypeMinCards {
			continue
		}
		out = append(out, Example{
			Instruction: InstructionArchetype,
			Input:       fmt.Sprintf("I want to build a %s deck in Pauper. What cards should I consider?", a.Name),
			Output: fmt.Sprintf("For a %s deck, consider these Pauper-legal cards: %s. These cards synergize well with the %s strategy.",
				a.Name, strings.Join(limit(names, cfg.ArchetypeListSize), ", "), a.Name),
		})
	}

	return out
}

func generalCardExample(r features.Record) Example {
	var b strings.Builder
	fmt.Fprintf(&b, "This is a %s that costs %s. ", r.TypeLine, r.ManaCost)
	if r.IsCreature {
		fmt.Fprintf(&b, "It's a creature with %s/%s stats. ", deref(r.Power), deref(r.Toughness))
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&b, "It has the following abilities: %s. ", strings.Join(r.Keywords, ", "))
	}

	return Example{
		Instruction: InstructionGeneralCard,
		Input: fmt.Sprintf("Analyze this Pauper card:\nName: %s\nMana Cost: %s\nType: %s\nText: %s",
			r.Name, r.ManaCost, r.TypeLine, r.OracleText),
		Output: b.String(),
	}
}

func hasColors(identity, want []string) bool {
	for _, w := range want {
		found := false
		for _, c := range identity {
			if c == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return "?"
	}
	return *s
}
