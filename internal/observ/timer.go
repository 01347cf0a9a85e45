// Package observ records phase timings of a CLI run.
package observ

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Phase is one measured step.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases in the order they were begun.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the phases and the slowest work items.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Slowest []PhaseReport `json:"slowest,omitempty"`
}

// Item is a named duration measured elsewhere (one lowered function).
type Item struct {
	Name string
	Dur  time.Duration
	Note string
}

// Report returns the phases and the n slowest items, longest first.
func (t *Timer) Report(items []Item, n int) Report {
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{Name: phase.Name, DurationMS: millis(phase.Dur), Note: phase.Note}
	}
	report.TotalMS = millis(total)

	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Dur > sorted[j].Dur })
	for _, it := range sorted[:min(n, len(sorted))] {
		report.Slowest = append(report.Slowest, PhaseReport{Name: it.Name, DurationMS: millis(it.Dur), Note: it.Note})
	}
	return report
}

// Summary renders r as an aligned table.
func (r Report) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		writeRow(&sb, p)
	}
	fmt.Fprintf(&sb, "  %-24s %8.2f ms\n", "total", r.TotalMS)
	if len(r.Slowest) > 0 {
		sb.WriteString("slowest functions:\n")
		for _, p := range r.Slowest {
			writeRow(&sb, p)
		}
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, p PhaseReport) {
	fmt.Fprintf(sb, "  %-24s %8.2f ms", p.Name, p.DurationMS)
	if p.Note != "" {
		sb.WriteString("  // " + p.Note)
	}
	sb.WriteString("\n")
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
