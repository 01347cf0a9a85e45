package lower

import (
	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// StmsToOneStm wraps stms in a block unless there is exactly one.
func StmsToOneStm(sp source.Span, stms []*sst.Stm) *sst.Stm {
	if len(stms) == 1 {
		return stms[0]
	}
	return sst.NewStm(sp, sst.BlockStm{Stms: stms})
}

// stmsToOneStmOpt is StmsToOneStm, except that no statements yield nil.
func stmsToOneStmOpt(sp source.Span, stms []*sst.Stm) *sst.Stm {
	if len(stms) == 0 {
		return nil
	}
	return StmsToOneStm(sp, stms)
}

// initVar is the first write of e into the local id.
func initVar(sp source.Span, id sst.UniqueIdent, e *sst.Exp) *sst.Stm {
	return sst.NewStm(sp, sst.AssignStm{
		Lhs: sst.Dest{Dest: sst.MkVarLoc(sp, e.Typ, id), IsInit: true},
		Rhs: e,
	})
}

func assume(sp source.Span, e *sst.Exp) *sst.Stm {
	return sst.NewStm(sp, sst.AssumeStm{Exp: e})
}

func assumeFalse(sp source.Span) *sst.Stm {
	return assume(sp, sst.MkBool(sp, false))
}

func hasType(sp source.Span, typ *vir.Typ, e *sst.Exp) *sst.Exp {
	return sst.NewExp(sp, vir.BoolTyp(), sst.UnaryOprExp{
		Op:      vir.UnaryOpr{Kind: vir.OprHasType, Typ: typ},
		Operand: e,
	})
}

// isSmallExp reports whether e is cheap and effect-free enough to be passed
// to a call without a temporary.
func isSmallExp(e *sst.Exp) bool {
	switch d := e.Data.(type) {
	case sst.ConstExp, sst.VarExp, sst.VarAtExp, sst.OldExp:
		return true
	case sst.UnaryExp:
		return (d.Op.Kind == vir.UnaryNot || d.Op.Kind == vir.UnaryClip) && isSmallExpOrLoc(d.Operand)
	case sst.UnaryOprExp:
		return (d.Op.Kind == vir.OprBox || d.Op.Kind == vir.OprUnbox) && isSmallExpOrLoc(d.Operand)
	}
	return false
}

func isSmallExpOrLoc(e *sst.Exp) bool {
	if _, ok := e.Data.(sst.LocExp); ok {
		return true
	}
	return isSmallExp(e)
}
