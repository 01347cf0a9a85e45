package sst

import (
	"errors"
	"fmt"

	"sstlower/internal/vir"
)

// Validate checks structural well-formedness of a lowered body:
//   - first-write call destinations are simple variable locations;
//   - conditions of if and while statements are boolean;
//   - every numbered variable refers to a declared local or parameter.
func Validate(body *Stm, decls []LocalDecl) error {
	declared := make(map[UniqueIdent]struct{}, len(decls))
	for _, d := range decls {
		declared[d.Ident] = struct{}{}
	}
	var errs []error
	checkDest := func(d *Dest) {
		if d == nil || !d.IsInit {
			return
		}
		if d.Dest == nil || d.Dest.Kind != ExpVarLoc {
			errs = append(errs, fmt.Errorf("%s: first write into a non-variable location", spanOf(d.Dest)))
		}
	}
	checkCond := func(e *Exp, what string) {
		if e != nil && e.Typ != nil && e.Typ.Kind != vir.TypBool {
			errs = append(errs, fmt.Errorf("%s: %s condition has type %s", e.Span, what, e.Typ))
		}
	}
	checkVars := func(root *Exp) {
		WalkExp(root, func(e *Exp) bool {
			var id UniqueIdent
			switch d := e.Data.(type) {
			case VarExp:
				id = d.Ident
			case VarLocExp:
				id = d.Ident
			case VarAtExp:
				id = d.Ident
			default:
				return true
			}
			if id.Numbered {
				if _, ok := declared[id]; !ok {
					errs = append(errs, fmt.Errorf("%s: undeclared local %s", e.Span, id))
				}
			}
			return true
		})
	}
	WalkStm(body, func(s *Stm) {
		switch d := s.Data.(type) {
		case CallStm:
			checkDest(d.Dest)
		case IfStm:
			checkCond(d.Cond, "if")
		case WhileStm:
			checkCond(d.CondExp, "while")
		}
	}, checkVars)
	return errors.Join(errs...)
}

func spanOf(e *Exp) string {
	if e == nil {
		return "?"
	}
	return e.Span.String()
}
