package main

import (
	"fmt"
	"os"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/charts"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/discovery"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
)

func runReportCommand(args []string) error {
	fs, common := newFlagSet("report")
	output := fs.String("output", "pauper_report.html", "HTML output path")
	open := fs.Bool("open", false, "Open the report in the default browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	if err := e.store.Require(storage.CardsFile); err != nil {
		return err
	}

	data := charts.ReportData{MinAbility: e.cfg.Search.MinAbilities}
	if data.Records, err = storage.Load[[]features.Record](e.store, storage.CardsFile); err != nil {
		return err
	}
	if e.store.Exists(storage.CandidatesFile) {
		if data.Candidates, err = storage.Load[[]combos.Candidate](e.store, storage.CandidatesFile); err != nil {
			return err
		}
	}
	if e.store.Exists(storage.DiscoveriesFile) {
		if data.Discoveries, err = storage.Load[[]discovery.Discovery](e.store, storage.DiscoveriesFile); err != nil {
			return err
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := charts.WriteReport(data, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Report written to %s\n", *output)
	if *open {
		if err := charts.OpenInBrowser(*output); err != nil {
			e.logger.Warn("Failed to open browser", "error", err)
		}
	}
	return nil
}
