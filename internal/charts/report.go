package charts

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/discovery"
)

// AbilityFrequency counts how many records carry each ability flag, in
// AbilityNames order.
func AbilityFrequency(records []features.Record) []DataPoint {
	names := features.AbilityNames()
	points := make([]DataPoint, len(names))
	for i, name := range names {
		points[i].Label = name
		for _, r := range records {
			if r.Has(name) {
				points[i].Value++
			}
		}
	}
	return points
}

// AbilityCountHistogram buckets records by their number of true flags.
func AbilityCountHistogram(records []features.Record) []DataPoint {
	points := make([]DataPoint, len(features.AbilityNames())+1)
	for i := range points {
		points[i].Label = strconv.Itoa(i)
	}
	for _, r := range records {
		if n := r.AbilityCount(); n < len(points) {
			points[n].Value++
		}
	}
	return points
}

// SynergyBreakdown counts candidates per synergy type, most common first.
func SynergyBreakdown(candidates []combos.Candidate) []DataPoint {
	counts := make(map[string]float64)
	for _, c := range candidates {
		counts[c.SynergyType]++
	}
	return sortedPoints(counts)
}

// DiscoveryBreakdown counts discoveries by combo size.
func DiscoveryBreakdown(discoveries []discovery.Discovery) []DataPoint {
	counts := make(map[string]float64)
	for _, d := range discoveries {
		counts[fmt.Sprintf("%d-card", len(d.Cards))]++
	}
	return sortedPoints(counts)
}

func sortedPoints(counts map[string]float64) []DataPoint {
	points := make([]DataPoint, 0, len(counts))
	for label, v := range counts {
		points = append(points, DataPoint{Label: label, Value: v})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})
	return points
}

// ReportData is the input for WriteReport. Empty sections are omitted.
type ReportData struct {
	Records     []features.Record
	Candidates  []combos.Candidate
	Discoveries []discovery.Discovery
	MinAbility  int
}

// WriteReport renders the card pool summary as a single HTML page.
func WriteReport(data ReportData, w io.Writer) error {
	var bars []*charts.Bar
	add := func(title, subtitle string, series ...SeriesData) error {
		config := DefaultChartConfig()
		config.Title = title
		config.Subtitle = subtitle
		bar, err := NewBarChart(series, config)
		if err != nil {
			return fmt.Errorf("failed to build %s chart: %w", title, err)
		}
		bars = append(bars, bar)
		return nil
	}

	if len(data.Records) > 0 {
		series := []SeriesData{{Name: "All cards", Points: AbilityFrequency(data.Records)}}
		var high []features.Record
		for _, r := range data.Records {
			if r.AbilityCount() >= data.MinAbility {
				high = append(high, r)
			}
		}
		if data.MinAbility > 0 {
			series = append(series, SeriesData{
				Name:   fmt.Sprintf("%d+ abilities", data.MinAbility),
				Points: AbilityFrequency(high),
			})
		}
		if err := add("Ability flags", fmt.Sprintf("%d cards", len(data.Records)), series...); err != nil {
			return err
		}
		if err := add("Abilities per card", "", SeriesData{Name: "Cards", Points: AbilityCountHistogram(data.Records)}); err != nil {
			return err
		}
	}
	if len(data.Candidates) > 0 {
		if err := add("Candidate synergies", fmt.Sprintf("%d candidates", len(data.Candidates)),
			SeriesData{Name: "Candidates", Points: SynergyBreakdown(data.Candidates)}); err != nil {
			return err
		}
	}
	if len(data.Discoveries) > 0 {
		if err := add("Discoveries", fmt.Sprintf("%d potential combos", len(data.Discoveries)),
			SeriesData{Name: "Discoveries", Points: DiscoveryBreakdown(data.Discoveries)}); err != nil {
			return err
		}
	}

	if len(bars) == 0 {
		return fmt.Errorf("nothing to report")
	}
	return RenderPage("Pauper Combo Report", bars, w)
}
