// Package training turns card features and combo knowledge into
// instruction-tuning examples and drives the external fine-tuning command.
package training

import "fmt"

// Example is one instruction-tuning record.
type Example struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// Config controls example synthesis.
type Config struct {
	// PairwiseComboLimit is how many known combos yield a two-card
	// interaction example.
	PairwiseComboLimit int `toml:"pairwise_combo_limit"`

	// CandidateLimit caps the candidate-synergy examples.
	CandidateLimit int `toml:"candidate_limit"`

	// CardSampleSize is how many feature records yield a single-card
	// analysis example.
	CardSampleSize int `toml:"card_sample_size"`

	// A card rates High when its ability count exceeds HighThreshold and
	// Medium when it exceeds MediumThreshold.
	HighThreshold   int `toml:"high_threshold"`
	MediumThreshold int `toml:"medium_threshold"`

	// An archetype example is emitted only when more than ArchetypeMinCards
	// cards match its colours; ArchetypeListSize names are suggested.
	ArchetypeMinCards int `toml:"archetype_min_cards"`
	ArchetypeListSize int `toml:"archetype_list_size"`
}

// DefaultConfig returns the synthesis defaults.
func DefaultConfig() Config {
	return Config{
		PairwiseComboLimit: 10,
		CandidateLimit:     50,
		CardSampleSize:     100,
		HighThreshold:      2,
		MediumThreshold:    0,
		ArchetypeMinCards:  10,
		ArchetypeListSize:  15,
	}
}

// Validate checks limits and threshold ordering.
func (c Config) Validate() error {
	for name, v := range map[string]int{
		"pairwise combo limit": c.PairwiseComboLimit,
		"candidate limit":      c.CandidateLimit,
		"card sample size":     c.CardSampleSize,
		"archetype min cards":  c.ArchetypeMinCards,
		"archetype list size":  c.ArchetypeListSize,
	} {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %d", name, v)
		}
	}
	if c.MediumThreshold > c.HighThreshold {
		return fmt.Errorf("medium threshold %d exceeds high threshold %d", c.MediumThreshold, c.HighThreshold)
	}
	return nil
}
