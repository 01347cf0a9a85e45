package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; coarser scopes have lower values.
type Scope uint8

const (
	// ScopeDriver covers CLI and driver setup.
	ScopeDriver Scope = iota + 1
	// ScopePass covers a pass over a whole krate.
	ScopePass
	// ScopeFunc covers the lowering of one function.
	ScopeFunc
	// ScopeNode covers tree-node events (temps, scopes).
	ScopeNode
)

var scopeNames = [...]string{"unknown", "driver", "pass", "func", "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Attr annotates an event. Attrs keep the order they were added in.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that writes the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "lower_krate", "lower:f", "scope_push"
	Detail   string
	Attrs    []Attr
}
