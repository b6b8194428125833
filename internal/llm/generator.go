// Package llm provides the text-generation collaborators used to query the
// fine-tuned combo model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Generator produces free text for an (instruction, input) pair. Output may
// differ between calls with identical arguments.
//
// A Generator owns an exclusive device context. Callers Acquire it before
// Generate and Release it afterwards; Invoke does both.
type Generator interface {
	Acquire(ctx context.Context) error
	Generate(ctx context.Context, instruction, input string) (string, error)
	Release() error
}

// ErrNotAcquired is returned when a lease is released without being held.
var ErrNotAcquired = errors.New("generator lease not held")

// Lease serializes access to a single-instance resource. The zero value is
// ready to use.
type Lease struct {
	sem  chan struct{}
	once sync.Once
}

func (l *Lease) init() {
	l.once.Do(func() { l.sem = make(chan struct{}, 1) })
}

// Acquire blocks until the lease is free or ctx is done.
func (l *Lease) Acquire(ctx context.Context) error {
	l.init()
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the lease.
func (l *Lease) Release() error {
	l.init()
	select {
	case <-l.sem:
		return nil
	default:
		return ErrNotAcquired
	}
}

// Invoke runs one generation as a scoped acquisition: the generator is
// released on every exit path.
func Invoke(ctx context.Context, g Generator, instruction, input string) (text string, err error) {
	if err := g.Acquire(ctx); err != nil {
		return "", fmt.Errorf("acquire generator: %w", err)
	}
	defer func() {
		if relErr := g.Release(); relErr != nil {
			err = errors.Join(err, fmt.Errorf("release generator: %w", relErr))
		}
	}()

	return g.Generate(ctx, instruction, input)
}

// Prompt joins an instruction and its input the way the training examples
// present them to the model.
func Prompt(instruction, input string) string {
	if input == "" {
		return instruction
	}
	return instruction + "\n\n" + input
}

// modelTurnMarker starts the model's turn in the Gemma chat template.
const modelTurnMarker = "<start_of_turn>model"

// CleanResponse strips an echoed prompt and trailing end-of-turn markers from
// raw model output.
func CleanResponse(raw string) string {
	if i := strings.LastIndex(raw, modelTurnMarker); i >= 0 {
		raw = raw[i+len(modelTurnMarker):]
	}
	raw = strings.ReplaceAll(raw, "<end_of_turn>", "")
	return strings.TrimSpace(raw)
}

// StubGenerator returns canned text. It is used by tests and dry runs.
type StubGenerator struct {
	Lease

	// Respond builds the response for each call. When nil, Text is returned.
	Respond func(instruction, input string) (string, error)
	Text    string

	mu    sync.Mutex
	calls []StubCall
}

// StubCall records one Generate invocation.
type StubCall struct {
	Instruction string
	Input       string
}

// Generate implements Generator.
func (s *StubGenerator) Generate(ctx context.Context, instruction, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.calls = append(s.calls, StubCall{Instruction: instruction, Input: input})
	s.mu.Unlock()

	if s.Respond != nil {
		return s.Respond(instruction, input)
	}
	return s.Text, nil
}

// Calls returns the recorded invocations.
func (s *StubGenerator) Calls() []StubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StubCall(nil), s.calls...)
}

type maxTokensKey struct{}

// WithMaxTokens overrides the generation length for calls made with the
// returned context.
func WithMaxTokens(ctx context.Context, n int) context.Context {
	if n <= 0 {
		return ctx
	}
	return context.WithValue(ctx, maxTokensKey{}, n)
}

// MaxTokens returns the override set by WithMaxTokens.
func MaxTokens(ctx context.Context) (int, bool) {
	n, ok := ctx.Value(maxTokensKey{}).(int)
	return n, ok
}
