package discovery

import "testing"

func TestConfig_PairPositive(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		response string
		want     bool
	}{
		{"This creates an infinite loop", true},
		{"These cards have strong SYNERGY.", true},
		{"You can do this repeatedly.", true},
		{"A two-card Combo.", true},
		{"No interaction found", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := cfg.PairPositive(tt.response); got != tt.want {
			t.Errorf("PairPositive(%q) = %v, want %v", tt.response, got, tt.want)
		}
	}
}

func TestConfig_TriplePositive(t *testing.T) {
	cfg := DefaultConfig()
	late := "These three cards do not interact in any meaningful way at all, and the analysis is long enough to push past. yes"

	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"keyword anywhere", late + " infinite", true},
		{"affirmative at start", "Yes. Tap, untap, repeat.", true},
		{"affirmative past window", late, false},
		{"synergy is not enough", "Strong synergy and a loop.", false},
		{"negative", "No interaction found", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.TriplePositive(tt.response); got != tt.want {
				t.Errorf("TriplePositive(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestConfig_CustomKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PairKeywords = []string{"Engine"}
	if !cfg.PairPositive("a value engine") {
		t.Error("expected configured keyword to match case-insensitively")
	}
	if cfg.PairPositive("an infinite combo") {
		t.Error("default keywords should no longer apply")
	}

	cfg.AffirmativeWindow = 3
	if !cfg.TriplePositive("Yes, but only once") {
		t.Error("expected affirmative within window")
	}
	if cfg.TriplePositive("Oh yes") {
		t.Error("affirmative beyond window should not match")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.TripleBudget = -1
	if cfg.Validate() == nil {
		t.Error("expected error for negative budget")
	}

	cfg = DefaultConfig()
	cfg.TripleKeywords, cfg.TripleAffirmatives = nil, nil
	if cfg.Validate() == nil {
		t.Error("expected error without triple rules")
	}
}
