package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/pauper-combos/internal/llm"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
)

// TrainRequest describes one fine-tuning run.
type TrainRequest struct {
	Texts      []string
	ResumeFrom string
	OutputDir  string
}

// Trainer fine-tunes the model. Like a generator it owns an exclusive device
// context and is leased for the duration of a run.
type Trainer interface {
	Acquire(ctx context.Context) error
	Train(ctx context.Context, req TrainRequest) error
	// Save persists whatever adapter state exists. It is called after a
	// failed or interrupted Train.
	Save(ctx context.Context) error
	Release() error
}

// Run trains under a lease. When training fails the trainer is asked to
// save its partial state before the lease is released; the returned error
// joins every failure.
func Run(ctx context.Context, t Trainer, req TrainRequest) (err error) {
	if err := t.Acquire(ctx); err != nil {
		return fmt.Errorf("failed to acquire trainer: %w", err)
	}
	defer func() {
		if relErr := t.Release(); relErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release trainer: %w", relErr))
		}
	}()

	trainErr := t.Train(ctx, req)
	if trainErr == nil {
		return nil
	}

	err = fmt.Errorf("training failed: %w", trainErr)
	if saveErr := t.Save(context.WithoutCancel(ctx)); saveErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to save partial state: %w", saveErr))
	}
	return err
}

// StateFile is written into the output directory by CommandTrainer.Save.
const StateFile = "training_state.json"

// TrainingState records where an interrupted run stopped.
type TrainingState struct {
	SavedAt          time.Time `json:"saved_at"`
	ResumeFrom       string    `json:"resume_from,omitempty"`
	LatestCheckpoint string    `json:"latest_checkpoint,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// CommandTrainer runs an external fine-tuning command. The formatted
// dataset is written to the store and the command is invoked as
//
//	<command...> --data <formatted_all.json> --output <dir> [--resume <checkpoint>]
//
// On cancellation the command receives an interrupt and is given GracePeriod
// to write its adapter before being killed.
type CommandTrainer struct {
	llm.Lease

	Command     []string
	Store       *storage.Store
	Env         []string
	GracePeriod time.Duration
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger

	last    TrainRequest
	lastErr error
}

// NewCommandTrainer creates a trainer for command.
func NewCommandTrainer(command []string, store *storage.Store, logger *slog.Logger) *CommandTrainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandTrainer{
		Command:     command,
		Store:       store,
		GracePeriod: 2 * time.Minute,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Logger:      logger,
	}
}

// Train implements Trainer.
func (t *CommandTrainer) Train(ctx context.Context, req TrainRequest) error {
	t.last = req
	t.lastErr = t.train(ctx, req)
	return t.lastErr
}

func (t *CommandTrainer) train(ctx context.Context, req TrainRequest) error {
	if len(t.Command) == 0 {
		return fmt.Errorf("no training command configured")
	}
	if req.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	formatted := make([]FormattedText, len(req.Texts))
	for i, text := range req.Texts {
		formatted[i] = FormattedText{Text: text}
	}
	if err := t.Store.Save(storage.FormattedFile, formatted); err != nil {
		return err
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	args := append([]string{}, t.Command[1:]...)
	args = append(args, "--data", t.Store.Path(storage.FormattedFile), "--output", req.OutputDir)
	if req.ResumeFrom != "" {
		args = append(args, "--resume", req.ResumeFrom)
	}

	cmd := exec.CommandContext(ctx, t.Command[0], args...)
	cmd.Env = append(os.Environ(), t.Env...)
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = t.GracePeriod

	t.Logger.Info("Starting training",
		"command", t.Command[0],
		"examples", len(req.Texts),
		"resume_from", req.ResumeFrom,
		"output", req.OutputDir)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("training interrupted: %w", errors.Join(ctxErr, err))
		}
		return fmt.Errorf("training command failed: %w", err)
	}

	t.Logger.Info("Training complete", "duration", time.Since(start).Round(time.Second))
	return nil
}

// Save implements Trainer. The command writes its own checkpoints; Save
// records the newest one so the next run can resume from it.
func (t *CommandTrainer) Save(ctx context.Context) error {
	if t.last.OutputDir == "" {
		return nil
	}

	latest, err := LatestCheckpoint(t.last.OutputDir)
	if err != nil {
		return err
	}

	state := TrainingState{
		SavedAt:          time.Now().UTC(),
		ResumeFrom:       t.last.ResumeFrom,
		LatestCheckpoint: latest,
	}
	if t.lastErr != nil {
		state.Error = t.lastErr.Error()
	}

	if err := storage.NewStore(t.last.OutputDir).Save(StateFile, state); err != nil {
		return err
	}

	t.Logger.Warn("Saved partial training state",
		"path", filepath.Join(t.last.OutputDir, StateFile),
		"latest_checkpoint", latest)
	return nil
}
