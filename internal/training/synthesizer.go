package training

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
)

// Instructions used by the synthesized examples.
const (
	InstructionInfiniteCheck   = "Analyze if these cards create an infinite combo in Pauper format."
	InstructionPairInteraction = "Explain how these two cards interact in a Pauper combo."
	InstructionCandidate       = "Describe the synergy between these Pauper cards."
	InstructionCardAnalysis    = "Analyze this Pauper card for combo potential."
)

// Combo potential ratings.
const (
	RatingHigh   = "High"
	RatingMedium = "Medium"
	RatingLow    = "Low"
)

// Synthesizer builds the combo-reasoning dataset.
type Synthesizer struct {
	Config Config
}

// NewSynthesizer creates a synthesizer with the given config.
func NewSynthesizer(cfg Config) *Synthesizer {
	return &Synthesizer{Config: cfg}
}

// Synthesize returns, in order: infinite-combo explanations, pairwise
// interaction examples, the fixed reasoning-pattern examples, candidate
// synergy examples and single-card analyses. Each example is self-contained.
func (s *Synthesizer) Synthesize(known []combos.KnownCombo, candidates []combos.Candidate, records []features.Record) []Example {
	var out []Example

	for _, combo := range known {
		if combo.IsInfinite() {
			out = append(out, infiniteExample(combo))
		}
	}

	// First record wins when a name repeats in the pool.
	byName := features.Index(records)
	for _, combo := range limit(known, s.Config.PairwiseComboLimit) {
		if ex, ok := pairwiseExample(combo, byName); ok {
			out = append(out, ex)
		}
	}

	out = append(out, ReasoningPatterns()...)

	for _, c := range limit(candidates, s.Config.CandidateLimit) {
		out = append(out, candidateExample(c))
	}

	for _, r := range limit(records, s.Config.CardSampleSize) {
		out = append(out, s.cardExample(r))
	}

	return out
}

// Rate buckets an ability count into a combo potential rating.
func (s *Synthesizer) Rate(abilityCount int) string {
	switch {
	case abilityCount > s.Config.HighThreshold:
		return RatingHigh
	case abilityCount > s.Config.MediumThreshold:
		return RatingMedium
	default:
		return RatingLow
	}
}

func infiniteExample(combo combos.KnownCombo) Example {
	var b strings.Builder
	b.WriteString("Yes, this is an infinite combo. Here's how it works:\n\n")
	fmt.Fprintf(&b, "Description: %s\n\n", combo.Description)
	b.WriteString("Steps:\n")
	b.WriteString(numbered(combo.Steps))
	fmt.Fprintf(&b, "\n\nResult: %s\n\n", combo.Result)
	fmt.Fprintf(&b, "Requirements: %s", strings.Join(combo.Requirements, ", "))

	var meta []string
	if combo.ManaCostMinimum != "" {
		meta = append(meta, "Minimum mana: "+combo.ManaCostMinimum)
	}
	if len(combo.Colors) > 0 {
		meta = append(meta, "Colors: "+strings.Join(combo.Colors, ", "))
	}
	if combo.Notes != "" {
		meta = append(meta, "Notes: "+combo.Notes)
	}
	if len(meta) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(meta, "\n"))
	}

	return Example{
		Instruction: InstructionInfiniteCheck,
		Input:       "Cards: " + strings.Join(combo.Cards, ", "),
		Output:      b.String(),
	}
}

// pairwiseExample uses the first two combo cards present in the card pool.
func pairwiseExample(combo combos.KnownCombo, byName map[string]features.Record) (Example, bool) {
	var found []features.Record
	for _, name := range combo.Cards {
		if r, ok := byName[name]; ok {
			found = append(found, r)
		}
	}
	if len(found) < 2 {
		return Example{}, false
	}
	card1, card2 := found[0], found[1]

	description := combo.Description
	if description == "" {
		description = "These cards work together."
	}
	keyInteraction := "They enable each other."
	if len(combo.Steps) > 0 {
		keyInteraction = combo.Steps[0]
	}

	return Example{
		Instruction: InstructionPairInteraction,
		Input: fmt.Sprintf("Card 1: %s\n%s\n\nCard 2: %s\n%s",
			card1.Name, card1.OracleText, card2.Name, card2.OracleText),
		Output: fmt.Sprintf("These cards create a synergistic interaction:\n\n%s\n\nKey interaction: %s",
			description, keyInteraction),
	}, true
}

func candidateExample(c combos.Candidate) Example {
	var b strings.Builder
	fmt.Fprintf(&b, "Synergy type: %s\n\n", c.SynergyType)
	if len(c.Cards) == 2 {
		fmt.Fprintf(&b, "%s: %s\n%s: %s\n\n", c.Cards[0], c.Card1Role, c.Cards[1], c.Card2Role)
	}
	b.WriteString(c.Description)
	if c.Analysis != "" {
		b.WriteString("\n\n")
		b.WriteString(c.Analysis)
	}

	return Example{
		Instruction: InstructionCandidate,
		Input:       "Cards: " + strings.Join(c.Cards, ", "),
		Output:      b.String(),
	}
}

func (s *Synthesizer) cardExample(r features.Record) Example {
	return Example{
		Instruction: InstructionCardAnalysis,
		Input: fmt.Sprintf("Card: %s\nMana Cost: %s\nType: %s\nText: %s",
			r.Name, r.ManaCost, r.TypeLine, r.OracleText),
		Output: fmt.Sprintf("Card Analysis:\n\nType: %s\nKey Abilities: %s\n\nCombo Potential: %s",
			r.TypeLine, strings.Join(r.ActiveAbilities(), ", "), s.Rate(r.AbilityCount())),
	}
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, step := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	return strings.Join(lines, "\n")
}

func limit[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
