package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Errorf("round trip %q -> %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeFunc) {
		t.Error("phase level must stop at pass scope")
	}
	if !LevelDetail.ShouldEmit(ScopeFunc) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Error("detail level must stop at func scope")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Error("debug level emits node events")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	sp := Begin(tr, ScopePass, "lower", 0)
	Point(tr, ScopeFunc, "func:main", "3 locals", sp.ID())
	Point(tr, ScopeNode, "temp", "dropped", sp.ID())
	sp.Attr("funcs", "1").End("ok")

	out := buf.String()
	for _, want := range []string{"→ lower", "• func:main (3 locals)", "← lower (ok) {funcs=1}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "temp") {
		t.Error("node scope event must be filtered at detail level")
	}
}

func TestRingTracerSnapshotWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off config must produce a disabled tracer, got %v %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Error("tracer not propagated through context")
	}
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer must fall back to Nop")
	}
	if m, ok := tr.(*MultiTracer); !ok || m.Ring() == nil {
		t.Error("both mode must include a ring tracer")
	}
}

func TestRingOf(t *testing.T) {
	ring := NewRingTracer(4, LevelDebug)
	if RingOf(ring) != ring {
		t.Error("ring tracer is its own ring")
	}
	if RingOf(NewMultiTracer(LevelDebug, Nop, ring)) != ring {
		t.Error("multi tracer exposes its ring child")
	}
	if RingOf(Nop) != nil {
		t.Error("nop has no ring")
	}
}

func TestInertSpan(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	sp := Begin(ring, ScopeNode, "temp", 0)
	if sp.ID() != 0 || sp.Attr("k", "v").End("x") != 0 {
		t.Error("filtered span must be inert")
	}
	if len(ring.Snapshot()) != 0 {
		t.Error("filtered span emitted events")
	}
}

func TestFormatNDJSONAttrs(t *testing.T) {
	ev := &Event{Kind: KindSpanEnd, Scope: ScopeFunc, Name: "lower:f", Attrs: []Attr{{Key: "locals", Value: "2"}}}
	got := string(FormatEvent(ev, FormatNDJSON))
	if !strings.Contains(got, `"attrs":{"locals":"2"}`) || !strings.HasSuffix(got, "\n") {
		t.Fatalf("got %s", got)
	}
}
