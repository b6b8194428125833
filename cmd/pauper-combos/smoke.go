package main

import (
	"fmt"

	"github.com/ramonehamilton/pauper-combos/internal/discovery"
	"github.com/ramonehamilton/pauper-combos/internal/metrics"
	"github.com/ramonehamilton/pauper-combos/internal/textutil"
)

func runSmokeCommand(args []string) error {
	fs, common := newFlagSet("smoke")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	gen, err := e.newGenerator()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	stats := metrics.NewGeneratorMetrics()
	explorer := discovery.NewExplorer(nil, metrics.Instrument(gen, stats), e.logger)

	fmt.Println(titleStyle.Render("Model Smoke Test"))
	fmt.Println()
	failed := 0
	for i, q := range discovery.SmokeQueries {
		fmt.Printf("Test %d: %s\n", i+1, q.Instruction)
		if q.Input != "" {
			fmt.Println(mutedStyle.Render(textutil.Ellipsize(q.Input, 120)))
		}

		text, err := explorer.Ask(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			fmt.Println(errorStyle.Render("  Error: " + err.Error()))
			fmt.Println()
			continue
		}
		fmt.Println(responseStyle.Render(text))
		fmt.Println()
	}

	fmt.Println(mutedStyle.Render(stats.Snapshot().String()))

	if failed > 0 {
		return fmt.Errorf("%d of %d smoke queries failed", failed, len(discovery.SmokeQueries))
	}
	return nil
}
