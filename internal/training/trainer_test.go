package training

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/pauper-combos/internal/llm"
	"github.com/ramonehamilton/pauper-combos/internal/storage"
)

type stubTrainer struct {
	llm.Lease
	trainErr error
	saveErr  error

	trained bool
	saved   bool
}

func (s *stubTrainer) Train(ctx context.Context, req TrainRequest) error {
	s.trained = true
	return s.trainErr
}

func (s *stubTrainer) Save(ctx context.Context) error {
	s.saved = true
	return s.saveErr
}

func TestRun_Success(t *testing.T) {
	tr := &stubTrainer{}
	require.NoError(t, Run(context.Background(), tr, TrainRequest{OutputDir: "out"}))

	assert.True(t, tr.trained)
	assert.False(t, tr.saved, "no save after a successful run")
	assert.ErrorIs(t, tr.Release(), llm.ErrNotAcquired, "lease released")
}

func TestRun_FailureSavesAndReleases(t *testing.T) {
	boom := errors.New("CUDA out of memory")
	tr := &stubTrainer{trainErr: boom}

	err := Run(context.Background(), tr, TrainRequest{OutputDir: "out"})
	assert.ErrorIs(t, err, boom)
	assert.True(t, tr.saved)
	assert.ErrorIs(t, tr.Release(), llm.ErrNotAcquired, "lease released")
}

func TestRun_SaveFailureJoined(t *testing.T) {
	boom := errors.New("interrupted")
	diskFull := errors.New("disk full")
	tr := &stubTrainer{trainErr: boom, saveErr: diskFull}

	err := Run(context.Background(), tr, TrainRequest{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, diskFull)
}

func TestRun_AcquireCancelled(t *testing.T) {
	tr := &stubTrainer{}
	require.NoError(t, tr.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, tr, TrainRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, tr.trained)
}

// TestHelperProcess is not a real test. It stands in for the external
// training command when run as a subprocess.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	flags := map[string]string{}
	for i := 1; i+1 < len(args); i += 2 {
		flags[args[i]] = args[i+1]
	}

	data, err := os.ReadFile(flags["--data"])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	var records []FormattedText
	if err := json.Unmarshal(data, &records); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	checkpoint := filepath.Join(flags["--output"], fmt.Sprintf("checkpoint-%d", len(records)))
	_ = os.MkdirAll(checkpoint, 0o755)
	if resume := flags["--resume"]; resume != "" {
		_ = os.WriteFile(filepath.Join(flags["--output"], "resumed_from"), []byte(resume), 0o644)
	}

	if os.Getenv("HELPER_FAIL") == "1" {
		os.Exit(1)
	}
	os.Exit(0)
}

func helperTrainer(t *testing.T, fail bool) (*CommandTrainer, *storage.Store) {
	t.Helper()
	store := storage.NewStore(t.TempDir())
	tr := NewCommandTrainer([]string{os.Args[0], "-test.run=TestHelperProcess", "--"}, store,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	tr.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	if fail {
		tr.Env = append(tr.Env, "HELPER_FAIL=1")
	}
	tr.Stdout = io.Discard
	tr.Stderr = io.Discard
	return tr, store
}

func TestCommandTrainer_Train(t *testing.T) {
	tr, store := helperTrainer(t, false)
	out := filepath.Join(t.TempDir(), "adapter")

	err := Run(context.Background(), tr, TrainRequest{
		Texts:      []string{"one", "two", "three"},
		ResumeFrom: "prev/checkpoint-10",
		OutputDir:  out,
	})
	require.NoError(t, err)

	formatted, err := storage.Load[[]FormattedText](store, storage.FormattedFile)
	require.NoError(t, err)
	assert.Equal(t, []FormattedText{{Text: "one"}, {Text: "two"}, {Text: "three"}}, formatted)

	latest, err := LatestCheckpoint(out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "checkpoint-3"), latest)

	resumed, err := os.ReadFile(filepath.Join(out, "resumed_from"))
	require.NoError(t, err)
	assert.Equal(t, "prev/checkpoint-10", string(resumed))

	_, err = os.Stat(filepath.Join(out, StateFile))
	assert.True(t, os.IsNotExist(err), "no state file after success")
}

func TestCommandTrainer_FailureWritesState(t *testing.T) {
	tr, _ := helperTrainer(t, true)
	out := filepath.Join(t.TempDir(), "adapter")

	err := Run(context.Background(), tr, TrainRequest{Texts: []string{"a", "b"}, OutputDir: out})
	require.Error(t, err)

	state, err := storage.Load[TrainingState](storage.NewStore(out), StateFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "checkpoint-2"), state.LatestCheckpoint)
	assert.Contains(t, state.Error, "training command failed")
}

func TestCommandTrainer_Validation(t *testing.T) {
	store := storage.NewStore(t.TempDir())

	tr := NewCommandTrainer(nil, store, nil)
	assert.Error(t, tr.Train(context.Background(), TrainRequest{OutputDir: "x"}))

	tr = NewCommandTrainer([]string{"true"}, store, nil)
	assert.Error(t, tr.Train(context.Background(), TrainRequest{}))
}
