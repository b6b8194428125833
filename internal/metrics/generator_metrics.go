// Package metrics records in-process performance counters for generator
// calls.
package metrics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/pauper-combos/internal/llm"
)

// GeneratorMetrics tracks generator call counts and latency.
type GeneratorMetrics struct {
	Latency *Histogram

	// Counters (atomic operations for thread safety)
	Calls    atomic.Uint64
	Failures atomic.Uint64

	startTime time.Time
}

// NewGeneratorMetrics creates a new metrics collector.
func NewGeneratorMetrics() *GeneratorMetrics {
	return &GeneratorMetrics{
		Latency:   NewHistogram(1000),
		startTime: time.Now(),
	}
}

// RecordCall records one finished Generate call.
func (m *GeneratorMetrics) RecordCall(d time.Duration, err error) {
	m.Calls.Add(1)
	if err != nil {
		m.Failures.Add(1)
		return
	}
	m.Latency.Record(d)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Calls    uint64         `json:"calls"`
	Failures uint64         `json:"failures"`
	Latency  LatencySummary `json:"latency"`
	Uptime   time.Duration  `json:"uptime"`
}

// Snapshot returns the current values.
func (m *GeneratorMetrics) Snapshot() Snapshot {
	return Snapshot{
		Calls:    m.Calls.Load(),
		Failures: m.Failures.Load(),
		Latency:  m.Latency.Summary(),
		Uptime:   time.Since(m.startTime),
	}
}

// String formats the snapshot for terminal output.
func (s Snapshot) String() string {
	return fmt.Sprintf("%d calls, %d failed, latency mean %.0fms p50 %.0fms p95 %.0fms max %.0fms",
		s.Calls, s.Failures, s.Latency.Mean, s.Latency.P50, s.Latency.P95, s.Latency.Max)
}

// Generator wraps an llm.Generator and records every Generate call.
type Generator struct {
	llm.Generator
	Metrics *GeneratorMetrics
}

// Instrument wraps g. A nil m gets a fresh collector.
func Instrument(g llm.Generator, m *GeneratorMetrics) *Generator {
	if m == nil {
		m = NewGeneratorMetrics()
	}
	return &Generator{Generator: g, Metrics: m}
}

// Generate implements llm.Generator.
func (g *Generator) Generate(ctx context.Context, instruction, input string) (string, error) {
	start := time.Now()
	text, err := g.Generator.Generate(ctx, instruction, input)
	g.Metrics.RecordCall(time.Since(start), err)
	return text, err
}
