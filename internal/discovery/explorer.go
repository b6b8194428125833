package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ramonehamilton/pauper-combos/internal/cards/features"
	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/llm"
)

var (
	// ErrCardNotFound is returned when a name is not in the card pool.
	ErrCardNotFound = errors.New("card not found in Pauper format")

	// ErrNotEnoughCards is returned when fewer than two cards resolve.
	ErrNotEnoughCards = errors.New("need at least 2 valid Pauper cards to analyze")
)

// Explorer answers interactive questions about the card pool.
type Explorer struct {
	Generator llm.Generator
	Logger    *slog.Logger

	mu      sync.RWMutex
	records []features.Record
	byName  map[string]features.Record
}

// NewExplorer creates an explorer over records.
func NewExplorer(records []features.Record, gen llm.Generator, logger *slog.Logger) *Explorer {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Explorer{Generator: gen, Logger: logger}
	e.Replace(records)
	return e
}

func (e *Explorer) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Replace swaps the card pool.
func (e *Explorer) Replace(records []features.Record) {
	byName := make(map[string]features.Record, len(records))
	for _, r := range records {
		key := strings.ToLower(r.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = r
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = records
	e.byName = byName
}

// Len returns the number of cards in the pool.
func (e *Explorer) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.records)
}

// FindCard looks a card up by name, ignoring case.
func (e *Explorer) FindCard(name string) (features.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, ok := e.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return features.Record{}, fmt.Errorf("%w: %q", ErrCardNotFound, name)
	}
	return r, nil
}

// Analysis is the result of AnalyzeCombo.
type Analysis struct {
	Cards    []string
	Warnings []string
	Text     string
}

// resolve looks up names, returning the found cards and the missing names.
func (e *Explorer) resolve(names []string) (found []features.Record, missing []string) {
	for _, name := range names {
		r, err := e.FindCard(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		found = append(found, r)
	}
	return found, missing
}

// AnalyzeCombo asks whether the named cards form a combo. Unknown names are
// reported as warnings; at least two must resolve.
func (e *Explorer) AnalyzeCombo(ctx context.Context, names []string) (*Analysis, error) {
	found, missing := e.resolve(names)

	result := &Analysis{}
	for _, name := range missing {
		w := fmt.Sprintf("Card '%s' not found in Pauper format", name)
		e.logger().Warn(w)
		result.Warnings = append(result.Warnings, w)
	}
	for _, r := range found {
		result.Cards = append(result.Cards, r.Name)
	}
	if len(found) < 2 {
		return result, ErrNotEnoughCards
	}

	text, err := llm.Invoke(ctx, e.Generator, ExploreInstruction, ExploreInput(found))
	if err != nil {
		return result, fmt.Errorf("failed to analyze combo: %w", err)
	}
	result.Text = text
	return result, nil
}

// SuggestPieces asks for cards that combo with the named card.
func (e *Explorer) SuggestPieces(ctx context.Context, name string) (string, error) {
	card, err := e.FindCard(name)
	if err != nil {
		return "", err
	}

	text, err := llm.Invoke(ctx, e.Generator, SuggestInstruction, describeCard(card))
	if err != nil {
		return "", fmt.Errorf("failed to suggest combo pieces: %w", err)
	}
	return text, nil
}

// Validation compares the generator's verdict on a known combo with its
// curated description.
type Validation struct {
	Cards    []string
	Expected string
	Missing  []string
	Analysis string
	Error    string
}

// Checked reports whether the generator was asked about the combo.
func (v Validation) Checked() bool {
	return v.Analysis != "" || v.Error != ""
}

// ValidateKnown runs the infinite-combo check on the first limit known
// combos. Combos with fewer than two cards in the pool are reported but not
// checked; a failed call is recorded and the remaining combos still run.
func (e *Explorer) ValidateKnown(ctx context.Context, known []combos.KnownCombo, limit int, maxTokens int) ([]Validation, error) {
	limit = min(max(limit, 0), len(known))

	out := make([]Validation, 0, limit)
	for _, combo := range known[:limit] {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		found, missing := e.resolve(combo.Cards)
		v := Validation{Cards: combo.Cards, Expected: combo.Description, Missing: missing}

		if len(found) >= 2 {
			text, err := llm.Invoke(llm.WithMaxTokens(ctx, maxTokens), e.Generator, TripleInstruction, TripleInput(found))
			switch {
			case err != nil && ctx.Err() != nil:
				return out, ctx.Err()
			case err != nil:
				e.logger().Warn("Validation call failed", "cards", strings.Join(combo.Cards, " + "), "error", err)
				v.Error = err.Error()
			default:
				v.Analysis = text
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Ask sends a free-form query.
func (e *Explorer) Ask(ctx context.Context, q Query) (string, error) {
	return llm.Invoke(ctx, e.Generator, q.Instruction, q.Input)
}
