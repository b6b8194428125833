// Package discovery searches the card pool for novel combos by asking the
// fine-tuned generator about bounded sets of card pairs and triples.
package discovery

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/textutil"
)

// Config bounds the search and holds the response classification rules.
type Config struct {
	// Cards with fewer true ability flags are not searched.
	MinAbilities int `toml:"min_abilities"`

	// Pairs are drawn from the first PairPrefix high-potential cards.
	PairPrefix int `toml:"pair_prefix"`

	// Triples are drawn from the first TriplePrefix high-potential cards and
	// at most TripleBudget of them are examined, known combos included.
	TriplePrefix int `toml:"triple_prefix"`
	TripleBudget int `toml:"triple_budget"`

	// A pair response is positive when it contains any PairKeywords.
	PairKeywords []string `toml:"pair_keywords"`

	// A triple response is positive when it contains any TripleKeywords, or
	// any TripleAffirmatives within its first AffirmativeWindow characters.
	TripleKeywords     []string `toml:"triple_keywords"`
	TripleAffirmatives []string `toml:"triple_affirmatives"`
	AffirmativeWindow  int      `toml:"affirmative_window"`

	// Generation length per call.
	PairMaxTokens   int `toml:"pair_max_tokens"`
	TripleMaxTokens int `toml:"triple_max_tokens"`
}

// DefaultConfig returns the search defaults.
func DefaultConfig() Config {
	return Config{
		MinAbilities:       2,
		PairPrefix:         50,
		TriplePrefix:       30,
		TripleBudget:       20,
		PairKeywords:       []string{"combo", "infinite", "synergy", "loop", "repeatedly"},
		TripleKeywords:     []string{"infinite"},
		TripleAffirmatives: []string{"yes"},
		AffirmativeWindow:  100,
		PairMaxTokens:      512,
		TripleMaxTokens:    768,
	}
}

// Validate checks bounds and keyword lists.
func (c Config) Validate() error {
	for name, v := range map[string]int{
		"min abilities":      c.MinAbilities,
		"pair prefix":        c.PairPrefix,
		"triple prefix":      c.TriplePrefix,
		"triple budget":      c.TripleBudget,
		"affirmative window": c.AffirmativeWindow,
		"pair max tokens":    c.PairMaxTokens,
		"triple max tokens":  c.TripleMaxTokens,
	} {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %d", name, v)
		}
	}
	if len(c.PairKeywords) == 0 {
		return fmt.Errorf("at least one pair keyword is required")
	}
	if len(c.TripleKeywords) == 0 && len(c.TripleAffirmatives) == 0 {
		return fmt.Errorf("at least one triple keyword or affirmative is required")
	}
	return nil
}

// PairPositive classifies a pair response.
func (c Config) PairPositive(response string) bool {
	return containsAny(strings.ToLower(response), c.PairKeywords)
}

// TriplePositive classifies a triple response.
func (c Config) TriplePositive(response string) bool {
	lower := strings.ToLower(response)
	if containsAny(lower, c.TripleKeywords) {
		return true
	}
	return containsAny(textutil.Truncate(lower, c.AffirmativeWindow), c.TripleAffirmatives)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
