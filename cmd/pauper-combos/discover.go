package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/discovery"
	"github.com/ramonehamilton/pauper-combos/internal/metrics"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
	"github.com/ramonehamilton/pauper-combos/internal/textutil"
)

func runDiscoverCommand(args []string) error {
	fs, common := newFlagSet("discover")
	pairPrefix := fs.Int("pair-prefix", -1, "High-potential cards used for pairs (default from config)")
	triplePrefix := fs.Int("triple-prefix", -1, "High-potential cards used for triples (default from config)")
	tripleBudget := fs.Int("triple-budget", -1, "Triples examined (default from config)")
	validate := fs.Int("validate", -1, "Known combos to validate first (default from config)")
	top := fs.Int("top", 5, "Discoveries to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	if err := e.store.Require(storage.CardsFile, storage.KnownCombosFile); err != nil {
		return err
	}

	cfg := e.cfg.Search
	if *pairPrefix >= 0 {
		cfg.PairPrefix = *pairPrefix
	}
	if *triplePrefix >= 0 {
		cfg.TriplePrefix = *triplePrefix
	}
	if *tripleBudget >= 0 {
		cfg.TripleBudget = *tripleBudget
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid search bounds: %w", err)
	}
	validateLimit := e.cfg.Explorer.ValidateLimit
	if *validate >= 0 {
		validateLimit = *validate
	}

	records, err := storage.Load[[]features.Record](e.store, storage.CardsFile)
	if err != nil {
		return err
	}
	known, err := storage.Load[[]combos.KnownCombo](e.store, storage.KnownCombosFile)
	if err != nil {
		return err
	}

	gen, err := e.newGenerator()
	if err != nil {
		return err
	}
	stats := metrics.NewGeneratorMetrics()
	gen = metrics.Instrument(gen, stats)

	ctx, stop := signalContext()
	defer stop()

	fmt.Println(titleStyle.Render("Combo Discovery"))
	fmt.Printf("Loaded %d cards and %d known combos\n\n", len(records), len(known))

	if validateLimit > 0 {
		fmt.Println(titleStyle.Render("Validating known combos"))
		explorer := discovery.NewExplorer(records, gen, e.logger)
		validations, err := explorer.ValidateKnown(ctx, known, validateLimit, cfg.TripleMaxTokens)
		printValidations(validations)
		if err != nil {
			return err
		}
	}

	var found []discovery.Discovery
	search := discovery.NewSearch(cfg, gen, e.logger)
	search.OnDiscovery = func(d discovery.Discovery) error {
		found = append(found, d)
		return e.store.Save(storage.DiscoveriesFile, found)
	}

	fmt.Println(titleStyle.Render("Searching for new combos"))
	report, runErr := search.Run(ctx, records, known)
	if report == nil {
		return runErr
	}
	if len(report.Discoveries) == 0 {
		// Keep an empty result set on disk so later commands can tell the
		// search ran.
		if err := e.store.Save(storage.DiscoveriesFile, []discovery.Discovery{}); err != nil {
			return errors.Join(runErr, err)
		}
	}

	fmt.Println()
	fmt.Printf("Run %s\n", report.RunID)
	fmt.Printf("  High-potential cards: %d\n", report.HighPotential)
	fmt.Printf("  Pairs tested:         %d\n", report.PairsTested)
	fmt.Printf("  Triples tested:       %d\n", report.TriplesTested)
	fmt.Printf("  Known combos skipped: %d\n", report.Skipped)
	fmt.Printf("  Generator failures:   %d\n", len(report.Failures))
	fmt.Printf("  Potential combos:     %s\n", okStyle.Render(fmt.Sprint(len(report.Discoveries))))
	fmt.Printf("  Generator:            %s\n", stats.Snapshot())
	fmt.Println()

	for i, d := range report.Discoveries[:min(max(*top, 0), len(report.Discoveries))] {
		fmt.Printf("%d. %s\n", i+1, cardStyle.Render(strings.Join(d.Cards, " + ")))
		fmt.Println(mutedStyle.Render("   " + textutil.Ellipsize(d.Analysis, 200)))
	}
	if len(report.Discoveries) > 0 {
		fmt.Printf("\nAll discoveries saved to %s\n", e.store.Path(storage.DiscoveriesFile))
	}

	if runErr != nil {
		return fmt.Errorf("search stopped early: %w", runErr)
	}
	return nil
}

func printValidations(validations []discovery.Validation) {
	for _, v := range validations {
		fmt.Println(cardStyle.Render(strings.Join(v.Cards, " + ")))
		for _, name := range v.Missing {
			fmt.Println(warningStyle.Render(fmt.Sprintf("  Card '%s' not found in Pauper format", name)))
		}
		switch {
		case v.Error != "":
			fmt.Println(errorStyle.Render("  Error: " + v.Error))
		case !v.Checked():
			fmt.Println(mutedStyle.Render("  Skipped: fewer than two cards available"))
		default:
			fmt.Println("  Expected: " + v.Expected)
			fmt.Println(responseStyle.Render(v.Analysis))
		}
		fmt.Println()
	}
}
