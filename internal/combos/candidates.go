package combos

import (
	"fmt"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/textutil"
)

// Synergy types emitted by GenerateCandidates.
const (
	SynergyETBFlicker      = "ETB + Flicker"
	SynergyUntapTap        = "Untap + Tap Ability"
	SynergyTokenSacrifice  = "Token Generation + Sacrifice"
	candidateExcerptLength = 100
)

// Candidate is an unverified, rule-generated combo hypothesis.
type Candidate struct {
	Cards       []string `json:"cards"`
	SynergyType string   `json:"synergy_type"`
	Description string   `json:"description"`
	Card1Role   string   `json:"card1_role"`
	Card2Role   string   `json:"card2_role"`
	Analysis    string   `json:"analysis"`
}

// CandidateBounds caps how many cards of each subset take part in the
// cartesian product of a synergy pattern. Cards beyond a prefix are never
// paired, which keeps output size bounded at the cost of completeness.
type CandidateBounds struct {
	Flicker   int `toml:"flicker_prefix"`
	ETB       int `toml:"etb_prefix"`
	Untap     int `toml:"untap_prefix"`
	Tap       int `toml:"tap_prefix"`
	Token     int `toml:"token_prefix"`
	Sacrifice int `toml:"sacrifice_prefix"`
}

// DefaultCandidateBounds returns the bounds used by the collector.
func DefaultCandidateBounds() CandidateBounds {
	return CandidateBounds{
		Flicker:   5,
		ETB:       20,
		Untap:     5,
		Tap:       20,
		Token:     10,
		Sacrifice: 10,
	}
}

// synergyPattern describes one pairing rule between two card subsets.
type synergyPattern struct {
	synergyType string
	primary     func(features.Record) bool
	secondary   func(features.Record) bool
	bounds      func(CandidateBounds) (int, int)
	build       func(primary, secondary features.Record) Candidate
}

var synergyPatterns = []synergyPattern{
	{
		synergyType: SynergyETBFlicker,
		primary:     func(r features.Record) bool { return r.Has(features.Flicker) },
		secondary:   func(r features.Record) bool { return r.Has(features.EntersBattlefield) && r.IsCreature },
		bounds:      func(b CandidateBounds) (int, int) { return b.Flicker, b.ETB },
		build: func(flicker, etb features.Record) Candidate {
			return Candidate{
				Cards:       []string{flicker.Name, etb.Name},
				SynergyType: SynergyETBFlicker,
				Description: fmt.Sprintf("%s can repeatedly trigger %s's enters-the-battlefield ability", flicker.Name, etb.Name),
				Card1Role:   "Flicker effect",
				Card2Role:   "ETB trigger source",
				Analysis: fmt.Sprintf("When you flicker %s with %s, you get repeated value from: %s...",
					etb.Name, flicker.Name, textutil.Truncate(etb.OracleText, candidateExcerptLength)),
			}
		},
	},
	{
		synergyType: SynergyUntapTap,
		primary:     func(r features.Record) bool { return r.Has(features.Untap) },
		secondary:   func(r features.Record) bool { return r.Has(features.TapAbility) && r.IsCreature },
		bounds:      func(b CandidateBounds) (int, int) { return b.Untap, b.Tap },
		build: func(untapper, tapper features.Record) Candidate {
			return Candidate{
				Cards:       []string{untapper.Name, tapper.Name},
				SynergyType: SynergyUntapTap,
				Description: fmt.Sprintf("%s can untap %s to use its tap ability multiple times", untapper.Name, tapper.Name),
				Card1Role:   "Untap source",
				Card2Role:   "Tap ability",
				Analysis:    fmt.Sprintf("By untapping %s, you can use its ability more than once per turn", tapper.Name),
			}
		},
	},
	{
		synergyType: SynergyTokenSacrifice,
		primary:     func(r features.Record) bool { return r.Has(features.CreateToken) },
		secondary:   func(r features.Record) bool { return r.Has(features.Sacrifice) },
		bounds:      func(b CandidateBounds) (int, int) { return b.Token, b.Sacrifice },
		build: func(tokens, outlet features.Record) Candidate {
			return Candidate{
				Cards:       []string{tokens.Name, outlet.Name},
				SynergyType: SynergyTokenSacrifice,
				Description: fmt.Sprintf("%s creates tokens for %s to sacrifice", tokens.Name, outlet.Name),
				Card1Role:   "Token generator",
				Card2Role:   "Sacrifice outlet",
				Analysis:    "This creates value by generating tokens to fuel sacrifice effects",
			}
		},
	},
}

// SynergyTypes lists the synergy tags in generation order.
func SynergyTypes() []string {
	out := make([]string, len(synergyPatterns))
	for i, p := range synergyPatterns {
		out[i] = p.synergyType
	}
	return out
}

// GenerateCandidates pairs cards whose ability flags match a known synergy
// pattern. Output order is stable for a fixed input order and bounds.
func GenerateCandidates(records []features.Record, bounds CandidateBounds) []Candidate {
	var out []Candidate
	for _, p := range synergyPatterns {
		primaryLimit, secondaryLimit := p.bounds(bounds)
		primaries := prefix(filter(records, p.primary), primaryLimit)
		secondaries := prefix(filter(records, p.secondary), secondaryLimit)

		for _, a := range primaries {
			for _, b := range secondaries {
				if a.Name == b.Name {
					continue
				}
				out = append(out, p.build(a, b))
			}
		}
	}
	return out
}

func filter(records []features.Record, keep func(features.Record) bool) []features.Record {
	var out []features.Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func prefix[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
