package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

func emits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span brackets an operation with begin/end events. A span whose scope is
// filtered out is inert: End and Attr do nothing and ID is 0.
type Span struct {
	tracer Tracer
	begin  Event
	attrs  []Attr
}

// Begin emits a SpanBegin event under parent (0 for a root) and returns the span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !emits(t, scope) {
		return &Span{}
	}
	ev := Event{
		Time:     time.Now(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   spanCounter.Add(1),
		ParentID: parent,
		Name:     name,
	}
	t.Emit(&ev)
	return &Span{tracer: t, begin: ev}
}

// Attr attaches key=value to the end event.
func (s *Span) Attr(key, value string) *Span {
	if s != nil && s.tracer != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End emits the SpanEnd event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	end := s.begin
	end.Time = now
	end.Kind = KindSpanEnd
	end.Detail = detail
	end.Attrs = s.attrs
	s.tracer.Emit(&end)
	return now.Sub(s.begin.Time)
}

// ID returns the span ID, the parent of nested events.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !emits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
