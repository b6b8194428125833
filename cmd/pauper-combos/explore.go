package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/discovery"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
)

func runExploreCommand(args []string) error {
	fs, common := newFlagSet("explore")
	noExample := fs.Bool("no-example", false, "Skip the opening example analysis")
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

	load := func() ([]features.Record, error) {
		return storage.Load[[]features.Record](e.store, storage.CardsFile)
	}
	records, err := load()
	if err != nil {
		return err
	}

	known := combos.Builtin()
	if e.store.Exists(storage.KnownCombosFile) {
		if known, err = storage.Load[[]combos.KnownCombo](e.store, storage.KnownCombosFile); err != nil {
			return err
		}
	}

	gen, err := e.newGenerator()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	explorer := discovery.NewExplorer(records, gen, e.logger)
	if e.cfg.Explorer.Watch {
		go func() {
			err := explorer.Watch(ctx, e.store.Path(storage.CardsFile), load, func(n int, err error) {
				if err == nil {
					fmt.Println(mutedStyle.Render(fmt.Sprintf("\n[reloaded %d cards]", n)))
				}
			})
			if err != nil {
				e.logger.Warn("Card snapshot watcher stopped", "error", err)
			}
		}()
	}

	fmt.Println(titleStyle.Render("Pauper Combo Explorer"))
	fmt.Printf("Loaded %d Pauper cards\n\n", explorer.Len())

	if !*noExample {
		fmt.Println(mutedStyle.Render("Example: Midnight Guard + Presence of Gond"))
		analyzeCombo(ctx, explorer, []string{"Midnight Guard", "Presence of Gond"})
	}

	printExploreHelp()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print(promptStyle.Render("combo> "))

		var line string
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}

		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(command) {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			printExploreHelp()
		case "combo":
			analyzeCombo(ctx, explorer, splitCardNames(rest))
		case "suggest":
			suggestPieces(ctx, explorer, rest)
		case "card":
			showCard(explorer, rest)
		case "validate":
			limit := e.cfg.Explorer.ValidateLimit
			if rest != "" {
				n, err := strconv.Atoi(rest)
				if err != nil {
					fmt.Println(errorStyle.Render("validate takes a number"))
					continue
				}
				limit = n
			}
			validations, err := explorer.ValidateKnown(ctx, known, limit, e.cfg.Search.TripleMaxTokens)
			printValidations(validations)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
			}
		default:
			fmt.Println(warningStyle.Render("Unknown command: " + command))
			printExploreHelp()
		}
	}
}

func printExploreHelp() {
	fmt.Println("Commands:")
	fmt.Println("  combo <card> + <card> [+ <card>...]   Analyze a combination")
	fmt.Println("  suggest <card>                        Suggest combo pieces")
	fmt.Println("  card <card>                           Show card details")
	fmt.Println("  validate [n]                          Check the first n known combos")
	fmt.Println("  quit                                  Exit")
	fmt.Println()
}

// splitCardNames splits on "+" since card names may contain commas.
func splitCardNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, "+") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func analyzeCombo(ctx context.Context, explorer *discovery.Explorer, names []string) {
	result, err := explorer.AnalyzeCombo(ctx, names)
	if result != nil {
		for _, w := range result.Warnings {
			fmt.Println(warningStyle.Render(w))
		}
	}
	if err != nil {
		if errors.Is(err, discovery.ErrNotEnoughCards) {
			fmt.Println(errorStyle.Render("Need at least 2 valid Pauper cards to analyze"))
			return
		}
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}

	fmt.Println(cardStyle.Render(strings.Join(result.Cards, " + ")))
	fmt.Println(responseStyle.Render(result.Text))
	fmt.Println()
}

func suggestPieces(ctx context.Context, explorer *discovery.Explorer, name string) {
	text, err := explorer.SuggestPieces(ctx, name)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	fmt.Println(cardStyle.Render("Combo pieces for " + name))
	fmt.Println(responseStyle.Render(text))
	fmt.Println()
}

func showCard(explorer *discovery.Explorer, name string) {
	r, err := explorer.FindCard(name)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	fmt.Printf("%s %s\n", cardStyle.Render(r.Name), mutedStyle.Render(r.ManaCost))
	fmt.Println(r.TypeLine)
	fmt.Println(r.OracleText)
	if active := r.ActiveAbilities(); len(active) > 0 {
		fmt.Println(mutedStyle.Render("Abilities: " + strings.Join(active, ", ")))
	}
	fmt.Println()
}
