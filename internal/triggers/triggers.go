// Package triggers chooses quantifier instantiation patterns.
//
// The default Selector picks function applications and field reads that
// mention the bound variables and contain no arithmetic, comparison or
// nested binder. It prefers single-term triggers covering every variable and,
// failing that, builds one multi-term trigger greedily.
package triggers

import (
	"fmt"
	"sort"

	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// Selector is the default trigger selector.
type Selector struct {
	// MaxTriggers caps the number of single-term triggers (0: no cap).
	MaxTriggers int
}

type candidate struct {
	exp   *sst.Exp
	text  string
	vars  map[string]struct{}
	order int
}

// BuildTriggers implements lower.TriggerSelector.
func (s Selector) BuildTriggers(sp source.Span, vars []string, body *sst.Exp) ([]sst.Trigger, error) {
	bound := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		bound[v] = struct{}{}
	}
	occurring := freeVars(body, bound)
	if len(occurring) == 0 {
		return nil, nil
	}
	cands := collect(body, bound)

	var singles []*candidate
	for _, c := range cands {
		if covers(c.vars, occurring) {
			singles = append(singles, c)
		}
	}
	if len(singles) > 0 {
		singles = minimal(singles)
		if s.MaxTriggers > 0 && len(singles) > s.MaxTriggers {
			singles = singles[:s.MaxTriggers]
		}
		out := make([]sst.Trigger, len(singles))
		for i, c := range singles {
			out[i] = sst.Trigger{c.exp}
		}
		return out, nil
	}

	if multi := greedy(cands, occurring); multi != nil {
		return []sst.Trigger{multi}, nil
	}
	return nil, fmt.Errorf("could not infer triggers for quantifier at %s", sp)
}

// freeVars returns the bound names that occur free in e.
func freeVars(e *sst.Exp, bound map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(e *sst.Exp, shadow map[string]struct{})
	walk = func(e *sst.Exp, shadow map[string]struct{}) {
		sst.WalkExp(e, func(x *sst.Exp) bool {
			switch d := x.Data.(type) {
			case sst.VarExp:
				if !d.Ident.Numbered {
					if _, ok := bound[d.Ident.Name]; ok {
						if _, sh := shadow[d.Ident.Name]; !sh {
							out[d.Ident.Name] = struct{}{}
						}
					}
				}
			case sst.BindExp:
				inner := make(map[string]struct{}, len(shadow))
				for k := range shadow {
					inner[k] = struct{}{}
				}
				for _, l := range d.Bnd.Lets {
					walk(l.Value, shadow)
					inner[l.Name] = struct{}{}
				}
				for _, p := range d.Bnd.Params {
					inner[p.Name] = struct{}{}
				}
				walk(d.Bnd.Cond, inner)
				walk(d.Body, inner)
				return false
			}
			return true
		})
	}
	walk(e, map[string]struct{}{})
	return out
}

func collect(body *sst.Exp, bound map[string]struct{}) []*candidate {
	var out []*candidate
	seen := make(map[string]bool)
	sst.WalkExp(body, func(e *sst.Exp) bool {
		if _, ok := e.Data.(sst.BindExp); ok {
			return false
		}
		if !isCandidateHead(e) || !cleanTerm(e) {
			return true
		}
		vs := freeVars(e, bound)
		if len(vs) == 0 {
			return true
		}
		text := sst.ExpString(e)
		if !seen[text] {
			seen[text] = true
			out = append(out, &candidate{exp: e, text: text, vars: vs, order: len(out)})
		}
		return true
	})
	return out
}

func isCandidateHead(e *sst.Exp) bool {
	switch d := e.Data.(type) {
	case sst.CallExp, sst.CallLambdaExp:
		return true
	case sst.UnaryOprExp:
		return d.Op.Kind == vir.OprField
	}
	return false
}

// cleanTerm rejects terms the solver cannot match on.
func cleanTerm(e *sst.Exp) bool {
	ok := true
	sst.WalkExp(e, func(x *sst.Exp) bool {
		switch x.Data.(type) {
		case sst.BinaryExp, sst.IfExp, sst.BindExp, sst.UnaryExp:
			ok = false
		}
		return ok
	})
	return ok
}

func covers(have, want map[string]struct{}) bool {
	for v := range want {
		if _, ok := have[v]; !ok {
			return false
		}
	}
	return true
}

// minimal drops candidates that strictly contain another candidate.
func minimal(cs []*candidate) []*candidate {
	var out []*candidate
	for _, c := range cs {
		redundant := false
		for _, o := range cs {
			if o != c && containsSubterm(c.exp, o.exp) {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, c)
		}
	}
	return out
}

func containsSubterm(outer, inner *sst.Exp) bool {
	found := false
	sst.WalkExp(outer, func(x *sst.Exp) bool {
		if x != outer && x == inner {
			found = true
		}
		return !found
	})
	return found
}

func greedy(cs []*candidate, want map[string]struct{}) sst.Trigger {
	sorted := append([]*candidate(nil), cs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].vars) > len(sorted[j].vars)
	})
	have := make(map[string]struct{})
	var picked []*candidate
	for _, c := range sorted {
		adds := false
		for v := range c.vars {
			if _, ok := have[v]; !ok {
				adds = true
				break
			}
		}
		if !adds {
			continue
		}
		picked = append(picked, c)
		for v := range c.vars {
			have[v] = struct{}{}
		}
		if covers(have, want) {
			sort.Slice(picked, func(i, j int) bool { return picked[i].order < picked[j].order })
			out := make(sst.Trigger, len(picked))
			for i, p := range picked {
				out[i] = p.exp
			}
			return out
		}
	}
	return nil
}
