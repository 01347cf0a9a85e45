package vir

import (
	"sort"

	"sstlower/internal/source"
)

// Param is a function parameter.
type Param struct {
	Name    string
	Typ     *Typ
	Mutable bool
	Purpose ParPurpose
	Span    source.Span
}

// Function is one lowering unit.
type Function struct {
	Name    Fun
	Mode    Mode
	Params  []Param
	Ret     *Param // nil for unit-returning functions
	Require []*Expr
	Ensure  []*Expr
	Body    *Expr // nil for bodiless declarations
	// IsConst marks global constants lowered through a function body.
	IsConst bool
	Span    source.Span
}

// Krate is the set of functions of one verification unit.
type Krate struct {
	Functions []*Function
	byName    map[Fun]*Function
}

// NewKrate indexes fns by name; later duplicates shadow earlier ones.
func NewKrate(fns []*Function) *Krate {
	k := &Krate{Functions: fns, byName: make(map[Fun]*Function, len(fns))}
	for _, fn := range fns {
		k.byName[fn.Name] = fn
	}
	return k
}

// Function looks up a function by name.
func (k *Krate) Function(name Fun) (*Function, bool) {
	if k == nil {
		return nil, false
	}
	fn, ok := k.byName[name]
	return fn, ok
}

// Names returns the sorted function names.
func (k *Krate) Names() []Fun {
	names := make([]Fun, 0, len(k.Functions))
	for _, fn := range k.Functions {
		names = append(names, fn.Name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
