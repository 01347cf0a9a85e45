package lower

import (
	"fmt"

	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/trace"
	"sstlower/internal/vir"
)

// RetPost describes the enclosing function for return expressions: the
// return-value destination (nil for unit functions) and the postconditions
// to check at every exit.
type RetPost struct {
	Dest *sst.UniqueIdent
	Enss []*sst.Exp
}

// State is the mutable context of one function's lowering.
type State struct {
	viewAsSpec bool
	nextVar    uint64
	// LocalDecls accumulates statement-level locals in declaration order.
	LocalDecls []sst.LocalDecl
	renameMap  *ScopeMap[string, sst.UniqueIdent]
	counters   map[string]uint64
	// dontRename holds identities whose numbering is erased on finalize.
	dontRename map[sst.UniqueIdent]struct{}
	retPost    *RetPost

	tracer trace.Tracer
	parent uint64
}

// NewState returns a State with one open (function-level) scope.
func NewState() *State {
	st := &State{
		renameMap:  NewScopeMap[string, sst.UniqueIdent](),
		counters:   make(map[string]uint64),
		dontRename: make(map[sst.UniqueIdent]struct{}),
		tracer:     trace.Nop,
	}
	st.renameMap.PushScope()
	return st
}

// SetViewAsSpec toggles spec-view lowering (no overflow checks).
func (st *State) SetViewAsSpec(v bool) { st.viewAsSpec = v }

// SetReturnContext installs the destination and postconditions used by
// return expressions.
func (st *State) SetReturnContext(rp *RetPost) { st.retPost = rp }

// SetTracer attaches debug-level events for temporaries and scopes.
func (st *State) SetTracer(t trace.Tracer, parent uint64) {
	if t == nil {
		t = trace.Nop
	}
	st.tracer = t
	st.parent = parent
}

// ScopeDepth reports the number of open scopes.
func (st *State) ScopeDepth() int { return st.renameMap.NumScopes() }

func (st *State) point(name, detail string) {
	if st.tracer.Level() >= trace.LevelDebug {
		trace.Point(st.tracer, trace.ScopeNode, name, detail, st.parent)
	}
}

func (st *State) pushScope() {
	st.renameMap.PushScope()
	st.point("scope_push", fmt.Sprintf("depth=%d", st.renameMap.NumScopes()))
}

func (st *State) popScope() {
	st.renameMap.PopScope()
	st.point("scope_pop", fmt.Sprintf("depth=%d", st.renameMap.NumScopes()))
}

// nextTemp reserves a fresh temporary and returns its name together with a
// reference to its generation-0 identity.
func (st *State) nextTemp(sp source.Span, typ *vir.Typ) (string, *sst.Exp) {
	name := vir.PrefixTempVar(st.nextVar)
	st.nextVar++
	st.point("temp", name)
	return name, sst.MkVar(sp, typ, sst.Numbered(name, 0))
}

func (st *State) insertUniqueVar(id sst.UniqueIdent) {
	if err := st.renameMap.Insert(id.Name, id); err != nil {
		internalf("variable %s declared twice in one scope", id.Name)
	}
}

// allocUniqueVar reserves the next generation of name without binding it.
func (st *State) allocUniqueVar(name string) sst.UniqueIdent {
	gen, ok := st.counters[name]
	if ok {
		gen++
	}
	st.counters[name] = gen
	return sst.Numbered(name, gen)
}

// newStatementVar binds name at generation 0, for names that never need
// renaming (parameters and temporaries).
func (st *State) newStatementVar(name string) sst.UniqueIdent {
	st.counters[name] = 0
	id := sst.Numbered(name, 0)
	st.insertUniqueVar(id)
	return id
}

func (st *State) getVarUniqueID(name string) sst.UniqueIdent {
	id, ok := st.renameMap.Get(name)
	if !ok {
		internalf("unbound variable %s", name)
	}
	return id
}

// declareExpressionVar binds an expression-level binder (quantifier,
// closure or choose variable) under its plain name.
func (st *State) declareExpressionVar(name string) {
	st.insertUniqueVar(sst.Plain(name))
}

// declareNewVar declares a statement-level local and records it in
// LocalDecls. With mayNeedRename the local gets the next free generation,
// otherwise generation 0.
func (st *State) declareNewVar(name string, typ *vir.Typ, mutable, mayNeedRename bool) sst.UniqueIdent {
	var id sst.UniqueIdent
	if mayNeedRename {
		id = st.allocUniqueVar(name)
		st.insertUniqueVar(id)
	} else {
		id = st.newStatementVar(name)
	}
	st.LocalDecls = append(st.LocalDecls, sst.LocalDecl{Ident: id, Typ: typ, Mutable: mutable})
	return id
}

// unrename erases the numbering of a variable marked dontRename.
func (st *State) unrename(e *sst.Exp) *sst.Exp {
	if id, ok := e.IsVar(); ok {
		if _, skip := st.dontRename[id]; skip {
			return e.WithData(sst.VarExp{Ident: sst.Plain(id.Name)})
		}
	}
	return e
}

func (st *State) finalizeExp(e *sst.Exp) *sst.Exp {
	if len(st.dontRename) == 0 {
		return e
	}
	return sst.MapExp(e, st.unrename)
}

func (st *State) finalizeStm(s *sst.Stm) *sst.Stm {
	if len(st.dontRename) == 0 {
		return s
	}
	return sst.MapStmExp(s, st.unrename)
}

// finalize closes the function-level scope. Every nested scope must have
// been closed already.
func (st *State) finalize() {
	st.renameMap.PopScope()
	if n := st.renameMap.NumScopes(); n != 0 {
		internalf("%d scopes left open", n)
	}
}
