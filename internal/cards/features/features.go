// Package features derives combo-relevant feature records from raw card data.
//
// Every ability flag is an independent substring test over the lower-cased
// oracle text, so records are a pure function of (oracle text, type line).
package features

import (
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/cards/scryfall"
)

// Ability names used as keys of Record.Abilities.
const (
	EntersBattlefield = "enters_battlefield"
	LeavesBattlefield = "leaves_battlefield"
	Dies              = "dies"
	Draw              = "draw"
	Untap             = "untap"
	TapAbility        = "tap_ability"
	Sacrifice         = "sacrifice"
	ReturnToHand      = "return_to_hand"
	Flicker           = "flicker"
	CreateToken       = "create_token"
	AddMana           = "add_mana"
	Storm             = "storm"
	CostReduction     = "cost_reduction"
	Bounce            = "bounce"
	CopySpell         = "copy_spell"
	Tutor             = "tutor"
	Recur             = "recur"
)

// AbilityRule pairs an ability name with its predicate over lower-cased oracle text.
type AbilityRule struct {
	Name  string
	Match func(text string) bool
}

// abilityRules is evaluated in order; the order is also the order used when
// listing a card's active abilities.
var abilityRules = []AbilityRule{
	{EntersBattlefield, containsAny("enters the battlefield", "enter the battlefield")},
	{LeavesBattlefield, containsAny("leaves the battlefield", "leave the battlefield")},
	{Dies, containsAny("dies")},
	{Draw, containsAny("draw")},
	{Untap, containsAny("untap")},
	{TapAbility, containsAny("{t}:", "tap:")},
	{Sacrifice, containsAny("sacrifice")},
	{ReturnToHand, containsAll("return", "hand")},
	{Flicker, containsAll("exile", "return")},
	{CreateToken, containsAll("create", "token")},
	{AddMana, containsAny("add {", "add one mana")},
	{Storm, containsAny("storm")},
	{CostReduction, func(t string) bool {
		return strings.Contains(t, "cost") && containsAny("less", "reduced")(t)
	}},
	{Bounce, func(t string) bool {
		return strings.Contains(t, "return") && strings.Contains(t, "owner's hand")
	}},
	{CopySpell, func(t string) bool {
		return strings.Contains(t, "copy") && containsAny("spell", "instant", "sorcery")(t)
	}},
	{Tutor, containsAny("search your library")},
	{Recur, func(t string) bool {
		return containsAll("from your graveyard", "to")(t) || containsAll("return", "graveyard")(t)
	}},
}

// AbilityRules returns a copy of the ability table.
func AbilityRules() []AbilityRule {
	return append([]AbilityRule(nil), abilityRules...)
}

// AbilityNames returns the ability flag names in table order.
func AbilityNames() []string {
	names := make([]string, len(abilityRules))
	for i, r := range abilityRules {
		names[i] = r.Name
	}
	return names
}

func containsAny(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if !strings.Contains(text, s) {
				return false
			}
		}
		return true
	}
}

// Record is the derived feature snapshot of one card.
type Record struct {
	Name          string   `json:"name"`
	ManaCost      string   `json:"mana_cost"`
	CMC           float64  `json:"cmc"`
	TypeLine      string   `json:"type_line"`
	OracleText    string   `json:"oracle_text"`
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`
	Keywords      []string `json:"keywords"`
	Power         *string  `json:"power"`
	Toughness     *string  `json:"toughness"`

	Abilities map[string]bool `json:"abilities"`

	IsCreature    bool `json:"is_creature"`
	IsInstant     bool `json:"is_instant"`
	IsSorcery     bool `json:"is_sorcery"`
	IsArtifact    bool `json:"is_artifact"`
	IsEnchantment bool `json:"is_enchantment"`
	IsLand        bool `json:"is_land"`
}

// Has reports whether the named ability flag is set.
func (r Record) Has(ability string) bool {
	return r.Abilities[ability]
}

// AbilityCount returns the number of true ability flags.
func (r Record) AbilityCount() int {
	n := 0
	for _, rule := range abilityRules {
		if r.Abilities[rule.Name] {
			n++
		}
	}
	return n
}

// ActiveAbilities lists the true ability flags in table order.
func (r Record) ActiveAbilities() []string {
	var active []string
	for _, rule := range abilityRules {
		if r.Abilities[rule.Name] {
			active = append(active, rule.Name)
		}
	}
	return active
}

// Extract builds a Record from a raw card. Missing fields fall back to zero
// values; the function never fails.
func Extract(card scryfall.Card) Record {
	oracle := oracleText(card)
	lower := strings.ToLower(oracle)

	abilities := make(map[string]bool, len(abilityRules))
	for _, rule := range abilityRules {
		abilities[rule.Name] = rule.Match(lower)
	}

	typeLine := card.TypeLine

	return Record{
		Name:          card.Name,
		ManaCost:      card.ManaCost,
		CMC:           card.CMC,
		TypeLine:      typeLine,
		OracleText:    oracle,
		Colors:        nonNil(card.Colors),
		ColorIdentity: nonNil(card.ColorIdentity),
		Keywords:      nonNil(card.Keywords),
		Power:         optional(card.Power),
		Toughness:     optional(card.Toughness),
		Abilities:     abilities,
		IsCreature:    strings.Contains(typeLine, "Creature"),
		IsInstant:     strings.Contains(typeLine, "Instant"),
		IsSorcery:     strings.Contains(typeLine, "Sorcery"),
		IsArtifact:    strings.Contains(typeLine, "Artifact"),
		IsEnchantment: strings.Contains(typeLine, "Enchantment"),
		IsLand:        strings.Contains(typeLine, "Land"),
	}
}

// ExtractAll extracts every card, preserving input order.
func ExtractAll(cards []scryfall.Card) []Record {
	records := make([]Record, len(cards))
	for i, c := range cards {
		records[i] = Extract(c)
	}
	return records
}

// oracleText falls back to the faces of multi-faced cards, which carry no
// top-level oracle text.
func oracleText(card scryfall.Card) string {
	if card.OracleText != "" || len(card.CardFaces) == 0 {
		return card.OracleText
	}
	parts := make([]string, 0, len(card.CardFaces))
	for _, f := range card.CardFaces {
		if f.OracleText != "" {
			parts = append(parts, f.OracleText)
		}
	}
	return strings.Join(parts, "\n//\n")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Index maps card names to records. Later duplicates do not replace earlier ones.
func Index(records []Record) map[string]Record {
	idx := make(map[string]Record, len(records))
	for _, r := range records {
		if _, ok := idx[r.Name]; !ok {
			idx[r.Name] = r
		}
	}
	return idx
}
