package main

import (
	"fmt"

	"github.com/ramonehamilton/pauper-combos/internal/storage"
	"github.com/ramonehamilton/pauper-combos/internal/training"
)

func runTrainCommand(args []string) error {
	fs, common := newFlagSet("train")
	output := fs.String("output", "", "Adapter output directory (default from config)")
	noResume := fs.Bool("fresh", false, "Start from scratch instead of the latest checkpoint")
	dryRun := fs.Bool("dry-run", false, "Write the formatted dataset without training")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	if err := e.store.Require(storage.ComboTrainingFile, storage.GeneralTrainingSet); err != nil {
		return err
	}

	general, err := storage.Load[[]training.Example](e.store, storage.GeneralTrainingSet)
	if err != nil {
		return err
	}
	combo, err := storage.Load[[]training.Example](e.store, storage.ComboTrainingFile)
	if err != nil {
		return err
	}

	formatted := training.FormatAll(append(general, combo...))
	fmt.Printf("Training examples: %d general + %d combo = %d\n", len(general), len(combo), len(formatted))

	if *dryRun {
		if err := e.store.Save(storage.FormattedFile, formatted); err != nil {
			return err
		}
		fmt.Printf("Formatted dataset written to %s\n", e.store.Path(storage.FormattedFile))
		return nil
	}

	outputDir := e.cfg.Trainer.OutputDir
	if *output != "" {
		outputDir = *output
	}

	var resumeFrom string
	if e.cfg.Trainer.Resume && !*noResume {
		resumeFrom, err = training.LatestCheckpoint(outputDir)
		if err != nil {
			return err
		}
		if resumeFrom != "" {
			fmt.Printf("Resuming from %s\n", resumeFrom)
		}
	}

	texts := make([]string, len(formatted))
	for i, f := range formatted {
		texts[i] = f.Text
	}

	ctx, stop := signalContext()
	defer stop()

	trainer := training.NewCommandTrainer(e.cfg.Trainer.Command, e.store, e.logger)
	err = training.Run(ctx, trainer, training.TrainRequest{
		Texts:      texts,
		ResumeFrom: resumeFrom,
		OutputDir:  outputDir,
	})
	if err != nil {
		return fmt.Errorf("training failed (state saved in %s): %w", outputDir, err)
	}

	fmt.Printf("Model saved to %s\n", outputDir)
	return nil
}
