package training

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FormattedText is one serialized training record as consumed by the
// fine-tuning command.
type FormattedText struct {
	Text string `json:"text"`
}

// FormatInstruction renders an example in the Gemma chat template.
func FormatInstruction(ex Example) string {
	return fmt.Sprintf("<start_of_turn>user\n%s\n\n%s<end_of_turn>\n<start_of_turn>model\n%s<end_of_turn>",
		ex.Instruction, ex.Input, ex.Output)
}

// FormatAll renders every example, preserving order.
func FormatAll(examples []Example) []FormattedText {
	out := make([]FormattedText, len(examples))
	for i, ex := range examples {
		out[i] = FormattedText{Text: FormatInstruction(ex)}
	}
	return out
}

const checkpointPrefix = "checkpoint-"

// LatestCheckpoint returns the checkpoint-N directory in dir with the highest
// step, or "" when there is none. A missing dir is not an error.
func LatestCheckpoint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read checkpoint directory: %w", err)
	}

	best, bestStep := "", -1
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), checkpointPrefix) {
			continue
		}
		step, err := strconv.Atoi(strings.TrimPrefix(e.Name(), checkpointPrefix))
		if err != nil {
			continue
		}
		if step > bestStep {
			best, bestStep = e.Name(), step
		}
	}

	if best == "" {
		return "", nil
	}
	return filepath.Join(dir, best), nil
}
