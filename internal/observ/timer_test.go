package observ

import (
	"strings"
	"testing"
	"time"
)

func TestReportSlowest(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("read")
	tm.End(idx, "3 functions")
	tm.End(42, "ignored")

	items := []Item{
		{Name: "a", Dur: 2 * time.Millisecond},
		{Name: "b", Dur: 5 * time.Millisecond, Note: "cached"},
		{Name: "c", Dur: time.Millisecond},
	}
	r := tm.Report(items, 2)
	if len(r.Phases) != 1 || r.Phases[0].Note != "3 functions" {
		t.Fatalf("phases: %+v", r.Phases)
	}
	if len(r.Slowest) != 2 || r.Slowest[0].Name != "b" || r.Slowest[1].Name != "a" {
		t.Fatalf("slowest: %+v", r.Slowest)
	}
	if r.Slowest[0].DurationMS != 5 {
		t.Fatalf("duration = %v", r.Slowest[0].DurationMS)
	}

	s := r.Summary()
	for _, want := range []string{"timings:", "read", "// 3 functions", "slowest functions:", "// cached"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary lacks %q:\n%s", want, s)
		}
	}
}

func TestReportEmpty(t *testing.T) {
	r := NewTimer().Report(nil, 5)
	if r.TotalMS != 0 || len(r.Phases) != 0 || r.Slowest != nil {
		t.Fatalf("unexpected report: %+v", r)
	}
}
