package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/llm"
	"github.com/ramonehamilton/pauper-combos/internal/textutil"
)

// NoveltyPotentiallyNew marks every discovery: the search cannot verify
// novelty beyond the known-combo exclusion.
const NoveltyPotentiallyNew = "potentially_new"

// Discovery is a card set the generator judged to be a combo.
type Discovery struct {
	Cards    []string `json:"cards"`
	Analysis string   `json:"analysis"`
	Novelty  string   `json:"novelty"`
	RunID    string   `json:"run_id,omitempty"`
}

// Failure records a generator call that did not produce a response.
type Failure struct {
	Cards []string `json:"cards"`
	Error string   `json:"error"`
}

// Report summarizes one search run. Discoveries are in discovery order.
type Report struct {
	RunID         string      `json:"run_id"`
	HighPotential int         `json:"high_potential"`
	PairsTested   int         `json:"pairs_tested"`
	TriplesTested int         `json:"triples_tested"`
	Skipped       int         `json:"skipped"`
	Failures      []Failure   `json:"failures,omitempty"`
	Discoveries   []Discovery `json:"discoveries"`
}

// Search tests bounded card pairs and triples against a generator.
type Search struct {
	Config    Config
	Generator llm.Generator
	Logger    *slog.Logger

	// OnDiscovery, when set, is called with each discovery as soon as it is
	// found. An error stops the search.
	OnDiscovery func(Discovery) error
}

// NewSearch creates a search.
func NewSearch(cfg Config, gen llm.Generator, logger *slog.Logger) *Search {
	return &Search{Config: cfg, Generator: gen, Logger: logger}
}

func (s *Search) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// HighPotential returns the records with at least MinAbilities true flags,
// in input order.
func (s *Search) HighPotential(records []features.Record) []features.Record {
	var out []features.Record
	for _, r := range records {
		if r.AbilityCount() >= s.Config.MinAbilities {
			out = append(out, r)
		}
	}
	return out
}

// Run searches pairs, then triples. Card sets matching a known combo are
// never sent to the generator. Candidates are enumerated so that raising a
// prefix or the triple budget only appends new card sets to the sequence.
//
// A failed generator call is logged and recorded and the search continues.
// When ctx is cancelled the partial report is returned with ctx's error.
func (s *Search) Run(ctx context.Context, records []features.Record, known []combos.KnownCombo) (*Report, error) {
	if s.Generator == nil {
		return nil, fmt.Errorf("no generator configured")
	}

	high := s.HighPotential(records)
	report := &Report{
		RunID:         uuid.NewString(),
		HighPotential: len(high),
	}
	exclude := combos.NewExclusionSet(known)
	log := s.logger().With("run_id", report.RunID)

	log.Info("Analyzing high-potential cards", "count", len(high))

	pairs := prefix(high, s.Config.PairPrefix)
	for j := 1; j < len(pairs); j++ {
		for i := 0; i < j; i++ {
			if err := s.test(ctx, log, report, exclude, pairs[i], pairs[j]); err != nil {
				return report, err
			}
		}
	}

	triples := prefix(high, s.Config.TriplePrefix)
	examined := 0
	for k := 2; k < len(triples); k++ {
		for j := 1; j < k; j++ {
			for i := 0; i < j; i++ {
				if examined >= s.Config.TripleBudget {
					return s.finish(log, report), nil
				}
				examined++
				if err := s.test(ctx, log, report, exclude, triples[i], triples[j], triples[k]); err != nil {
					return report, err
				}
			}
		}
	}

	return s.finish(log, report), nil
}

func (s *Search) finish(log *slog.Logger, report *Report) *Report {
	log.Info("Search complete",
		"pairs_tested", report.PairsTested,
		"triples_tested", report.TriplesTested,
		"skipped", report.Skipped,
		"failures", len(report.Failures),
		"discoveries", len(report.Discoveries))
	return report
}

// test runs one card set. The returned error aborts the search.
func (s *Search) test(ctx context.Context, log *slog.Logger, report *Report, exclude combos.ExclusionSet, cards ...features.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	if hasDuplicate(names) || exclude.Contains(names...) {
		report.Skipped++
		return nil
	}

	var (
		instruction, input string
		maxTokens          int
		positive           func(string) bool
	)
	if len(cards) == 2 {
		report.PairsTested++
		instruction, input = PairInstruction, PairInput(cards[0], cards[1])
		maxTokens, positive = s.Config.PairMaxTokens, s.Config.PairPositive
	} else {
		report.TriplesTested++
		instruction, input = TripleInstruction, TripleInput(cards)
		maxTokens, positive = s.Config.TripleMaxTokens, s.Config.TriplePositive
	}

	log.Debug("Testing", "cards", strings.Join(names, " + "))

	analysis, err := llm.Invoke(llm.WithMaxTokens(ctx, maxTokens), s.Generator, instruction, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn("Generator call failed, skipping", "cards", strings.Join(names, " + "), "error", err)
		report.Failures = append(report.Failures, Failure{Cards: names, Error: err.Error()})
		return nil
	}

	if !positive(analysis) {
		return nil
	}

	d := Discovery{
		Cards:    names,
		Analysis: analysis,
		Novelty:  NoveltyPotentiallyNew,
		RunID:    report.RunID,
	}
	report.Discoveries = append(report.Discoveries, d)
	log.Info("Potential combo found",
		"cards", strings.Join(names, " + "),
		"analysis", textutil.Ellipsize(analysis, 200))

	if s.OnDiscovery != nil {
		if err := s.OnDiscovery(d); err != nil {
			return fmt.Errorf("failed to record discovery: %w", err)
		}
	}
	return nil
}

func hasDuplicate(names []string) bool {
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				return true
			}
		}
	}
	return false
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
