package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/cards/scryfall"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
	"github.com/ramonehamilton/pauper-combos/internal/training"
)

func runCollectCommand(args []string) error {
	fs, common := newFlagSet("collect")
	offline := fs.Bool("offline", false, "Rebuild training data from the existing card snapshot instead of downloading")
	query := fs.String("query", "", "Scryfall search query (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	fmt.Println("Pauper Combo Finder - Collect")
	fmt.Println("=============================")
	fmt.Println()

	registry := combos.DefaultRegistry()
	if path := e.cfg.Data.CombosFile; path != "" {
		extra, err := combos.LoadYAML(path)
		if err != nil {
			return err
		}
		registry = registry.Merge(extra)
		fmt.Printf("Loaded %d curated combos from %s\n", len(extra), path)
	}

	var records []features.Record
	if *offline {
		records, err = storage.Load[[]features.Record](e.store, storage.CardsFile)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d cards from %s\n", len(records), e.store.Path(storage.CardsFile))
	} else {
		q := e.cfg.Scryfall.Query
		if *query != "" {
			q = *query
		}

		timeout, err := e.cfg.GetScryfallTimeout()
		if err != nil {
			return fmt.Errorf("invalid scryfall timeout: %w", err)
		}
		client := scryfall.NewClient(
			scryfall.WithBaseURL(e.cfg.Scryfall.BaseURL),
			scryfall.WithRateLimit(time.Duration(float64(time.Second)/e.cfg.Scryfall.RateLimit)),
			scryfall.WithTimeout(timeout),
		)

		fmt.Printf("Downloading cards matching %q...\n", q)
		cards, err := client.SearchAll(ctx, q, e.cfg.Scryfall.Unique, func(fetched, total int) {
			fmt.Printf("\r  %d / %d cards", fetched, total)
		})
		fmt.Println()
		if err != nil {
			if len(cards) == 0 {
				return fmt.Errorf("failed to download cards: %w", err)
			}
			e.logger.Warn("Download incomplete, continuing with partial card pool", "cards", len(cards), "error", err)
		}

		records = features.ExtractAll(cards)

		extra, missing, err := fillKnownComboCards(ctx, client, registry.All(), records)
		if err != nil {
			e.logger.Warn("Could not fetch known combo cards", "error", err)
		}
		for _, name := range missing {
			e.logger.Warn(fmt.Sprintf("Card '%s' not found in Pauper format", name))
		}
		if len(extra) > 0 {
			fmt.Printf("Added %d known combo cards missed by the query\n", len(extra))
			records = append(records, extra...)
		}

		if err := e.store.Save(storage.CardsFile, records); err != nil {
			return err
		}
		fmt.Printf("Saved %d cards to %s\n", len(records), e.store.Path(storage.CardsFile))
	}

	if err := e.store.Save(storage.KnownCombosFile, registry.All()); err != nil {
		return err
	}
	fmt.Printf("Saved %d known combos\n", registry.Len())

	candidates := combos.GenerateCandidates(records, e.cfg.Candidates)
	if err := e.store.Save(storage.CandidatesFile, candidates); err != nil {
		return err
	}
	fmt.Printf("Found %d candidate combos\n", len(candidates))

	comboExamples := training.NewSynthesizer(e.cfg.Synthesis).Synthesize(registry.All(), candidates, records)
	if err := e.store.Save(storage.ComboTrainingFile, comboExamples); err != nil {
		return err
	}
	fmt.Printf("Created %d combo training examples\n", len(comboExamples))

	generalExamples := training.GeneralExamples(records, e.cfg.Synthesis)
	if err := e.store.Save(storage.GeneralTrainingSet, generalExamples); err != nil {
		return err
	}
	fmt.Printf("Created %d general training examples\n", len(generalExamples))

	fmt.Println()
	fmt.Printf("Data written to %s. Next: pauper-combos train\n", e.store.Dir())
	return nil
}

// cardFetcher looks cards up by exact name.
type cardFetcher interface {
	GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
}

// fillKnownComboCards fetches the known combo pieces absent from records.
// Only Pauper-legal cards are returned; the other names come back as missing.
func fillKnownComboCards(ctx context.Context, client cardFetcher, known []combos.KnownCombo, records []features.Record) ([]features.Record, []string, error) {
	have := features.Index(records)
	seen := make(map[string]bool)
	var names []string
	for _, combo := range known {
		for _, name := range combo.Cards {
			if _, ok := have[name]; ok || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil, nil
	}

	cards, missing, err := client.GetCardsByNames(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch known combo cards: %w", err)
	}

	var extra []features.Record
	for _, card := range cards {
		if card.Legalities.Pauper != "legal" {
			missing = append(missing, card.Name)
			continue
		}
		extra = append(extra, features.Extract(card))
	}
	return extra, missing, nil
}
