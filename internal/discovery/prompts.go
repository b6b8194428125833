package discovery

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
)

// Instructions sent to the generator.
const (
	PairInstruction    = "Analyze if these two cards create a combo or synergy in Pauper format."
	TripleInstruction  = "Analyze if these cards create an infinite combo in Pauper format. Think step-by-step."
	ExploreInstruction = "Analyze if these cards create an infinite combo or powerful synergy in Pauper format. Explain step-by-step."
	SuggestInstruction = "What cards would combo well with this card in Pauper format?"
)

// PairInput describes two cards in full.
func PairInput(a, b features.Record) string {
	return fmt.Sprintf("Card 1: %s\nMana Cost: %s\nType: %s\nText: %s\n\nCard 2: %s\nMana Cost: %s\nType: %s\nText: %s",
		a.Name, a.ManaCost, a.TypeLine, a.OracleText,
		b.Name, b.ManaCost, b.TypeLine, b.OracleText)
}

// TripleInput lists cards by name and rules text.
func TripleInput(cards []features.Record) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Name + ": " + c.OracleText
	}
	return "Cards:\n" + strings.Join(parts, "\n\n")
}

// describeCard is the explorer's card block.
func describeCard(c features.Record) string {
	return fmt.Sprintf("%s (%s)\nType: %s\nText: %s", c.Name, c.ManaCost, c.TypeLine, c.OracleText)
}

// ExploreInput lists cards with mana cost, type and text.
func ExploreInput(cards []features.Record) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = describeCard(c)
	}
	return "Cards:\n\n" + strings.Join(parts, "\n\n")
}

// Query is a free-form generator request.
type Query struct {
	Instruction string
	Input       string
}

// SmokeQueries exercise the model on general Pauper knowledge.
var SmokeQueries = []Query{
	{
		Instruction: "Suggest cards for a Pauper deck archetype.",
		Input:       "I want to build a blue control deck in Pauper. What cards should I include?",
	},
	{
		Instruction: "Identify potential combos in Pauper.",
		Input:       "What are some infinite combos possible in Pauper format?",
	},
	{
		Instruction: "Analyze this Magic: The Gathering Pauper format card.",
		Input:       "What makes Counterspell a good card in Pauper?",
	},
}
