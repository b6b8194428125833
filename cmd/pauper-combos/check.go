package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ramonehamilton/pauper-combos/internal/llm"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
)

// requiredSnapshots are produced by collect and read by the later stages.
var requiredSnapshots = []string{
	storage.CardsFile,
	storage.KnownCombosFile,
	storage.CandidatesFile,
	storage.ComboTrainingFile,
	storage.GeneralTrainingSet,
}

func runCheckCommand(args []string) error {
	fs, common := newFlagSet("check")
	skipGenerator := fs.Bool("skip-generator", false, "Do not contact the generator backend")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Setup Check"))
	fmt.Println()

	ok := true

	fmt.Printf("Data files (%s):\n", e.store.Dir())
	missing := make(map[string]bool)
	for _, name := range e.store.Missing(requiredSnapshots...) {
		missing[name] = true
	}
	for _, name := range requiredSnapshots {
		if missing[name] {
			ok = false
			fmt.Println("  " + status(false, name, "run `pauper-combos collect` first"))
			continue
		}
		fmt.Println("  " + status(true, name, ""))
	}
	if e.store.Exists(storage.DiscoveriesFile) {
		fmt.Println("  " + status(true, storage.DiscoveriesFile, ""))
	}
	fmt.Println()

	fmt.Println("Trainer:")
	if path, err := exec.LookPath(e.cfg.Trainer.Command[0]); err != nil {
		ok = false
		fmt.Println("  " + status(false, e.cfg.Trainer.Command[0], "not found in PATH"))
	} else {
		fmt.Println("  " + status(true, e.cfg.Trainer.Command[0], path))
	}
	fmt.Println()

	if !*skipGenerator {
		fmt.Printf("Generator (%s):\n", e.cfg.Generator.Backend)
		if err := checkGenerator(e); err != nil {
			ok = false
			fmt.Println("  " + status(false, e.cfg.Generator.Model, err.Error()))
		} else {
			fmt.Println("  " + status(true, e.cfg.Generator.Model, "ready"))
		}
		fmt.Println()
	}

	if !ok {
		return errors.New("setup incomplete")
	}
	fmt.Println(okStyle.Render("All checks passed."))
	return nil
}

func checkGenerator(e *env) error {
	gen, err := e.newGenerator()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch g := gen.(type) {
	case *llm.OllamaClient:
		s := g.CheckAvailability(ctx)
		if !s.Available || !s.ModelReady {
			return errors.New(s.Error)
		}
		e.logger.Debug("Ollama available", "version", s.Version, "models", s.ModelsLoaded)
		return nil
	case *llm.OpenAIGenerator:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}
		_, err := llm.Invoke(llm.WithMaxTokens(ctx, 8), g, "Reply with OK.", "")
		return err
	default:
		return nil
	}
}
