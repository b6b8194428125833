package training

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatInstruction(t *testing.T) {
	got := FormatInstruction(Example{
		Instruction: "Analyze this Pauper card for combo potential.",
		Input:       "Card: Ghostly Flicker",
		Output:      "Combo Potential: High",
	})
	want := "<start_of_turn>user\nAnalyze this Pauper card for combo potential.\n\nCard: Ghostly Flicker<end_of_turn>\n" +
		"<start_of_turn>model\nCombo Potential: High<end_of_turn>"
	if got != want {
		t.Errorf("FormatInstruction() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatAll(t *testing.T) {
	examples := []Example{{Instruction: "a"}, {Instruction: "b"}}
	got := FormatAll(examples)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].Text != FormatInstruction(examples[1]) {
		t.Errorf("order not preserved: %q", got[1].Text)
	}
}

func TestLatestCheckpoint(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		got, err := LatestCheckpoint(filepath.Join(t.TempDir(), "absent"))
		if err != nil || got != "" {
			t.Errorf("LatestCheckpoint() = %q, %v", got, err)
		}
	})

	t.Run("numeric ordering", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"checkpoint-90", "checkpoint-100", "checkpoint-5", "checkpoint-final", "logs"} {
			if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.WriteFile(filepath.Join(dir, "checkpoint-999"), nil, 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := LatestCheckpoint(dir)
		if err != nil {
			t.Fatalf("LatestCheckpoint() error: %v", err)
		}
		if want := filepath.Join(dir, "checkpoint-100"); got != want {
			t.Errorf("LatestCheckpoint() = %q, want %q", got, want)
		}
	})

	t.Run("no checkpoints", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "logs"), 0o755); err != nil {
			t.Fatal(err)
		}
		got, err := LatestCheckpoint(dir)
		if err != nil || got != "" {
			t.Errorf("LatestCheckpoint() = %q, %v", got, err)
		}
	})
}
