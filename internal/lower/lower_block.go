package lower

import (
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// declBnd is what a declaration statement contributes to its block: the
// new local and, when its initialiser is pure, the equivalent let binding.
type declBnd struct {
	decl sst.LocalDecl
	bnd  *sst.Bnd
}

func (l *lowerer) stmtToStm(s *vir.Stmt) ([]*sst.Stm, ReturnValue, *declBnd, error) {
	if s.Kind == vir.StmtExpr {
		stms, rv, err := l.expr(s.Expr)
		return stms, rv, nil, err
	}
	pat := s.Decl.Pattern
	if pat.Kind != vir.PatVar {
		internalf("non-variable pattern at %s should have been desugared", pat.Span)
	}
	id := l.st.allocUniqueVar(pat.Name)
	decl := sst.LocalDecl{Ident: id, Typ: pat.Typ, Mutable: pat.Mutable}
	init := s.Decl.Init
	if init == nil {
		return nil, ImplicitUnit(s.Span), &declBnd{decl: decl}, nil
	}

	stms, call, err := l.exprMustBeCallStm(init)
	if err != nil {
		return nil, ReturnValue{}, nil, err
	}
	if call != nil {
		if call.never {
			return stms, Never(), nil, nil
		}
		dest := &sst.Dest{Dest: sst.MkVarLoc(pat.Span, pat.Typ, id), IsInit: true}
		stms = append(stms, l.stmCall(init.Span, call, dest))
		return stms, ImplicitUnit(s.Span), &declBnd{decl: decl}, nil
	}

	stms, rv, err := l.expr(init)
	if err != nil {
		return nil, ReturnValue{}, nil, err
	}
	v := rv.ToValue()
	if v == nil {
		return stms, Never(), nil, nil
	}
	var bnd *sst.Bnd
	if len(stms) == 0 {
		bnd = &sst.Bnd{
			Kind: sst.BndLet,
			Span: s.Span,
			Lets: []vir.Binder[*sst.Exp]{{Name: pat.Name, Value: v}},
		}
	}
	stms = append(stms, initVar(s.Span, id, v))
	return stms, ImplicitUnit(s.Span), &declBnd{decl: decl, bnd: bnd}, nil
}

// lowerBlock lowers a block. A block made only of pure declarations and a
// pure tail folds into nested let bindings with no statements.
func (l *lowerer) lowerBlock(e *vir.Expr, d vir.BlockData) ([]*sst.Stm, ReturnValue, error) {
	var (
		stms   []*sst.Stm
		decls  []sst.LocalDecl
		binds  []*sst.Bnd
		isPure = true
		never  = false
		pushed = 0
	)
	popAll := func() {
		for range pushed {
			l.st.popScope()
		}
	}
	for _, s := range d.Stmts {
		s0, rv0, db, err := l.stmtToStm(s)
		if err != nil {
			popAll()
			return nil, ReturnValue{}, err
		}
		if db != nil {
			l.st.pushScope()
			pushed++
			decls = append(decls, db.decl)
			l.st.insertUniqueVar(db.decl.Ident)
			if db.bnd == nil {
				isPure = false
			} else {
				binds = append(binds, db.bnd)
			}
		} else {
			isPure = false
		}
		if err := checkUnitOrNever(rv0); err != nil {
			popAll()
			return nil, ReturnValue{}, err
		}
		stms = append(stms, s0...)
		if rv0.IsNever() {
			never = true
			break
		}
	}

	var rv ReturnValue
	switch {
	case never:
		rv = Never()
	case d.Tail != nil:
		s1, rv1, err := l.expr(d.Tail)
		if err != nil {
			popAll()
			return nil, ReturnValue{}, err
		}
		if len(s1) > 0 {
			isPure = false
		}
		stms = append(stms, s1...)
		rv = rv1
	default:
		rv = ImplicitUnit(e.Span)
	}
	popAll()

	if rv.Kind == RetValue && isPure {
		exp := rv.Exp
		for i := len(binds) - 1; i >= 0; i-- {
			exp = sst.NewExp(e.Span, exp.Typ, sst.BindExp{Bnd: binds[i], Body: exp})
		}
		for _, decl := range decls {
			l.st.dontRename[decl.Ident] = struct{}{}
		}
		return nil, Value(exp), nil
	}
	l.st.LocalDecls = append(l.st.LocalDecls, decls...)
	return []*sst.Stm{sst.NewStm(e.Span, sst.BlockStm{Stms: stms})}, rv, nil
}
