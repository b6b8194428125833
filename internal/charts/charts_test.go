package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/discovery"
)

func record(name string, abilities ...string) features.Record {
	r := features.Record{Name: name, Abilities: make(map[string]bool)}
	for _, a := range features.AbilityNames() {
		r.Abilities[a] = false
	}
	for _, a := range abilities {
		r.Abilities[a] = true
	}
	return r
}

func TestAbilityFrequency(t *testing.T) {
	records := []features.Record{
		record("Ghostly Flicker", features.Flicker),
		record("Archaeomancer", features.EntersBattlefield, features.ReturnToHand),
		record("Mnemonic Wall", features.EntersBattlefield, features.ReturnToHand),
	}

	points := AbilityFrequency(records)
	if len(points) != len(features.AbilityNames()) {
		t.Fatalf("expected %d points, got %d", len(features.AbilityNames()), len(points))
	}

	got := make(map[string]float64)
	for _, p := range points {
		got[p.Label] = p.Value
	}
	if got[features.EntersBattlefield] != 2 {
		t.Errorf("etb = %v, want 2", got[features.EntersBattlefield])
	}
	if got[features.Flicker] != 1 {
		t.Errorf("flicker = %v, want 1", got[features.Flicker])
	}
	if got[features.Sacrifice] != 0 {
		t.Errorf("sacrifice = %v, want 0", got[features.Sacrifice])
	}
}

func TestAbilityCountHistogram(t *testing.T) {
	records := []features.Record{
		record("A"),
		record("B", features.Flicker),
		record("C", features.Flicker, features.Draw),
		record("D", features.Untap, features.TapAbility),
	}

	points := AbilityCountHistogram(records)
	if points[0].Label != "0" || points[0].Value != 1 {
		t.Errorf("bucket 0 = %+v", points[0])
	}
	if points[1].Value != 1 || points[2].Value != 2 {
		t.Errorf("buckets 1,2 = %v,%v", points[1].Value, points[2].Value)
	}
}

func TestSynergyBreakdown(t *testing.T) {
	candidates := []combos.Candidate{
		{SynergyType: combos.SynergyUntapTap},
		{SynergyType: combos.SynergyETBFlicker},
		{SynergyType: combos.SynergyETBFlicker},
	}

	points := SynergyBreakdown(candidates)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Label != combos.SynergyETBFlicker || points[0].Value != 2 {
		t.Errorf("most common first, got %+v", points[0])
	}
}

func TestDiscoveryBreakdown(t *testing.T) {
	points := DiscoveryBreakdown([]discovery.Discovery{
		{Cards: []string{"A", "B"}},
		{Cards: []string{"A", "C"}},
		{Cards: []string{"A", "B", "C"}},
	})
	if len(points) != 2 || points[0].Label != "2-card" || points[1].Label != "3-card" {
		t.Errorf("unexpected breakdown: %+v", points)
	}
}

func TestNewBarChart_NoSeries(t *testing.T) {
	if _, err := NewBarChart(nil, DefaultChartConfig()); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestRenderBarChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abilities.html")
	data := []DataPoint{{Label: "flicker", Value: 3}, {Label: "untap", Value: 1}}

	if err := RenderBarChart("Cards", data, DefaultChartConfig(), path); err != nil {
		t.Fatalf("RenderBarChart failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read chart: %v", err)
	}
	if !strings.Contains(string(content), "echarts") {
		t.Error("expected echarts HTML output")
	}
	if !strings.Contains(string(content), "flicker") {
		t.Error("expected axis labels in output")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(ReportData{
		Records:     []features.Record{record("Midnight Guard", features.Untap, features.EntersBattlefield)},
		Candidates:  []combos.Candidate{{SynergyType: combos.SynergyUntapTap}},
		Discoveries: []discovery.Discovery{{Cards: []string{"A", "B"}}},
		MinAbility:  2,
	}, &buf)
	if err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Pauper Combo Report", "Ability flags", "Candidate synergies", "Discoveries"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(ReportData{}, &buf); err == nil {
		t.Error("expected error for empty report")
	}
}
