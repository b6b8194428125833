package features

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/pauper-combos/internal/cards/scryfall"
)

var (
	mnemonicWall = scryfall.Card{
		Name:          "Mnemonic Wall",
		ManaCost:      "{4}{U}",
		CMC:           5,
		TypeLine:      "Creature — Wall",
		OracleText:    "Defender\nWhen Mnemonic Wall enters the battlefield, you may return target instant or sorcery card from your graveyard to your hand.",
		Colors:        []string{"U"},
		ColorIdentity: []string{"U"},
		Keywords:      []string{"Defender"},
		Power:         "0",
		Toughness:     "4",
	}
	ghostlyFlicker = scryfall.Card{
		Name:       "Ghostly Flicker",
		ManaCost:   "{2}{U}",
		CMC:        3,
		TypeLine:   "Instant",
		OracleText: "Exile two target artifacts, creatures, and/or lands you control, then return those cards to the battlefield under your control.",
	}
	midnightGuard = scryfall.Card{
		Name:       "Midnight Guard",
		TypeLine:   "Creature — Human Soldier",
		OracleText: "Whenever another creature enters the battlefield, untap Midnight Guard.",
	}
)

func TestExtract_Deterministic(t *testing.T) {
	for _, card := range []scryfall.Card{mnemonicWall, ghostlyFlicker, midnightGuard, {}} {
		first := Extract(card)
		second := Extract(card)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Extract(%q) not deterministic:\n%+v\n%+v", card.Name, first, second)
		}
	}
}

func TestExtract_KnownCards(t *testing.T) {
	tests := []struct {
		card     scryfall.Card
		set      []string
		creature bool
		instant  bool
	}{
		{
			card:     mnemonicWall,
			set:      []string{EntersBattlefield, ReturnToHand, Recur},
			creature: true,
		},
		{
			card:    ghostlyFlicker,
			set:     []string{Flicker},
			instant: true,
		},
		{
			card:     midnightGuard,
			set:      []string{EntersBattlefield, Untap},
			creature: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.card.Name, func(t *testing.T) {
			rec := Extract(tt.card)
			assert.Equal(t, tt.set, rec.ActiveAbilities())
			assert.Equal(t, len(tt.set), rec.AbilityCount())
			assert.Equal(t, tt.creature, rec.IsCreature)
			assert.Equal(t, tt.instant, rec.IsInstant)
			assert.Len(t, rec.Abilities, len(AbilityNames()), "every flag must be computed")
		})
	}
}

func TestExtract_FlagIndependence(t *testing.T) {
	base := scryfall.Card{
		Name:       "Test Card",
		TypeLine:   "Creature — Human",
		OracleText: "Sacrifice a creature: Untap target land.",
	}
	before := Extract(base)
	require.False(t, before.Has(Draw))

	base.OracleText += " Draw a card."
	after := Extract(base)

	assert.True(t, after.Has(Draw), "draw should be set after adding draw text")
	for _, name := range AbilityNames() {
		if name == Draw {
			continue
		}
		assert.Equalf(t, before.Has(name), after.Has(name), "flag %s changed", name)
	}
}

func TestExtract_CaseInsensitiveMatchingPreservesCase(t *testing.T) {
	card := scryfall.Card{
		Name:       "Shouty Card",
		OracleText: "SEARCH YOUR LIBRARY for a card. {T}: Add {G}.",
	}
	rec := Extract(card)

	assert.True(t, rec.Has(Tutor))
	assert.True(t, rec.Has(TapAbility))
	assert.True(t, rec.Has(AddMana))
	assert.Equal(t, card.OracleText, rec.OracleText)
}

func TestExtract_MissingFields(t *testing.T) {
	rec := Extract(scryfall.Card{Name: "Blank"})

	assert.Equal(t, "Blank", rec.Name)
	assert.Empty(t, rec.OracleText)
	assert.NotNil(t, rec.Colors)
	assert.NotNil(t, rec.ColorIdentity)
	assert.NotNil(t, rec.Keywords)
	assert.Nil(t, rec.Power)
	assert.Nil(t, rec.Toughness)
	assert.Zero(t, rec.AbilityCount())
	assert.False(t, rec.IsCreature || rec.IsInstant || rec.IsSorcery || rec.IsArtifact || rec.IsEnchantment || rec.IsLand)
}

func TestExtract_PowerToughness(t *testing.T) {
	rec := Extract(mnemonicWall)
	require.NotNil(t, rec.Power)
	require.NotNil(t, rec.Toughness)
	assert.Equal(t, "0", *rec.Power)
	assert.Equal(t, "4", *rec.Toughness)
}

func TestExtract_TypeFlags(t *testing.T) {
	tests := []struct {
		typeLine string
		check    func(Record) bool
	}{
		{"Artifact Creature — Golem", func(r Record) bool { return r.IsArtifact && r.IsCreature }},
		{"Enchantment — Aura", func(r Record) bool { return r.IsEnchantment && !r.IsCreature }},
		{"Land", func(r Record) bool { return r.IsLand }},
		{"Sorcery", func(r Record) bool { return r.IsSorcery && !r.IsInstant }},
	}

	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			if !tt.check(Extract(scryfall.Card{TypeLine: tt.typeLine})) {
				t.Errorf("unexpected type flags for %q", tt.typeLine)
			}
		})
	}
}

func TestExtract_MultiFacedOracleText(t *testing.T) {
	card := scryfall.Card{
		Name:     "Front // Back",
		TypeLine: "Instant // Sorcery",
		CardFaces: []scryfall.CardFace{
			{Name: "Front", OracleText: "Draw a card."},
			{Name: "Back", OracleText: "Create a 1/1 white Soldier creature token."},
		},
	}
	rec := Extract(card)

	assert.Equal(t, "Draw a card.\n//\nCreate a 1/1 white Soldier creature token.", rec.OracleText)
	assert.True(t, rec.Has(Draw))
	assert.True(t, rec.Has(CreateToken))
}

func TestExtractAll_PreservesOrder(t *testing.T) {
	records := ExtractAll([]scryfall.Card{ghostlyFlicker, mnemonicWall})
	require.Len(t, records, 2)
	assert.Equal(t, "Ghostly Flicker", records[0].Name)
	assert.Equal(t, "Mnemonic Wall", records[1].Name)
}

func TestIndex_FirstWins(t *testing.T) {
	idx := Index([]Record{
		{Name: "Counterspell", ManaCost: "{U}{U}"},
		{Name: "Counterspell", ManaCost: "{1}{U}"},
	})
	assert.Equal(t, "{U}{U}", idx["Counterspell"].ManaCost)
}
