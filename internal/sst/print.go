package sst

import (
	"fmt"
	"io"
	"strings"

	"sstlower/internal/vir"
)

// ExpString renders e on a single line.
func ExpString(e *Exp) string {
	var sb strings.Builder
	writeExp(&sb, e)
	return sb.String()
}

func writeExps(sb *strings.Builder, es []*Exp) {
	for i, e := range es {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExp(sb, e)
	}
}

func writeTypArgs(sb *strings.Builder, typs []*vir.Typ) {
	if len(typs) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, t := range typs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte('>')
}

func writeParams(sb *strings.Builder, params []vir.TypBinder) {
	sb.WriteByte('|')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s: %s", p.Name, p.Value)
	}
	sb.WriteByte('|')
}

func writeTriggers(sb *strings.Builder, trigs []Trigger) {
	for _, trig := range trigs {
		sb.WriteString(" #[")
		writeExps(sb, trig)
		sb.WriteByte(']')
	}
}

func writeExp(sb *strings.Builder, e *Exp) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}
	switch d := e.Data.(type) {
	case ConstExp:
		sb.WriteString(d.Value.String())
	case VarExp:
		sb.WriteString(d.Ident.String())
	case VarLocExp:
		sb.WriteString(d.Ident.String())
	case VarAtExp:
		fmt.Fprintf(sb, "pre(%s)", d.Ident)
	case LocExp:
		sb.WriteString("loc(")
		writeExp(sb, d.Exp)
		sb.WriteByte(')')
	case OldExp:
		fmt.Fprintf(sb, "old<%s>(%s)", d.Label, d.Ident)
	case CallExp:
		sb.WriteString(string(d.Fun))
		writeTypArgs(sb, d.TypArgs)
		sb.WriteByte('(')
		writeExps(sb, d.Args)
		sb.WriteByte(')')
	case CallLambdaExp:
		sb.WriteByte('(')
		writeExp(sb, d.Fn)
		sb.WriteString(")(")
		writeExps(sb, d.Args)
		sb.WriteByte(')')
	case CtorExp:
		if d.Datatype == vir.PrefixTupleType(0) && len(d.Fields) == 0 {
			sb.WriteString("()")
			return
		}
		fmt.Fprintf(sb, "%s::%s{", d.Datatype, d.Variant)
		for i, f := range d.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			writeExp(sb, f.Value)
		}
		sb.WriteByte('}')
	case UnaryExp:
		switch d.Op.Kind {
		case vir.UnaryNot:
			sb.WriteByte('!')
			writeExp(sb, d.Operand)
		case vir.UnaryClip:
			fmt.Fprintf(sb, "clip<%s>(", d.Op.Range)
			writeExp(sb, d.Operand)
			sb.WriteByte(')')
		}
	case UnaryOprExp:
		switch d.Op.Kind {
		case vir.OprBox:
			sb.WriteString("box(")
		case vir.OprUnbox:
			fmt.Fprintf(sb, "unbox<%s>(", d.Op.Typ)
		case vir.OprHasType:
			fmt.Fprintf(sb, "has_type<%s>(", d.Op.Typ)
		case vir.OprIsVariant:
			fmt.Fprintf(sb, "is<%s::%s>(", d.Op.Datatype, d.Op.Variant)
		case vir.OprField:
			writeExp(sb, d.Operand)
			sb.WriteByte('.')
			sb.WriteString(d.Op.Field)
			return
		}
		writeExp(sb, d.Operand)
		sb.WriteByte(')')
	case BinaryExp:
		sb.WriteByte('(')
		writeExp(sb, d.Left)
		fmt.Fprintf(sb, " %s ", d.Op)
		writeExp(sb, d.Right)
		sb.WriteByte(')')
	case IfExp:
		sb.WriteString("(if ")
		writeExp(sb, d.Cond)
		sb.WriteString(" then ")
		writeExp(sb, d.Then)
		sb.WriteString(" else ")
		writeExp(sb, d.Else)
		sb.WriteByte(')')
	case BindExp:
		writeBind(sb, d.Bnd)
		writeExp(sb, d.Body)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<%s>", e.Kind)
	}
}

func writeBind(sb *strings.Builder, b *Bnd) {
	switch b.Kind {
	case BndLet:
		sb.WriteString("(let ")
		for i, l := range b.Lets {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(l.Name)
			sb.WriteString(" = ")
			writeExp(sb, l.Value)
		}
		sb.WriteString(" in ")
	case BndQuant:
		fmt.Fprintf(sb, "(%s ", b.Quant)
		writeParams(sb, b.Params)
		writeTriggers(sb, b.Triggers)
		sb.WriteByte(' ')
	case BndLambda:
		sb.WriteString("(lambda ")
		writeParams(sb, b.Params)
		sb.WriteByte(' ')
	case BndChoose:
		sb.WriteString("(choose ")
		writeParams(sb, b.Params)
		writeTriggers(sb, b.Triggers)
		sb.WriteByte(' ')
		writeExp(sb, b.Cond)
		sb.WriteString(" => ")
	}
}

// StmString renders s as indented multi-line text.
func StmString(s *Stm) string {
	var sb strings.Builder
	writeStm(&sb, s, 0)
	return sb.String()
}

// Dump writes s to w in the format of StmString.
func Dump(w io.Writer, s *Stm) error {
	_, err := io.WriteString(w, StmString(s))
	return err
}

func indent(sb *strings.Builder, depth int) {
	for range depth {
		sb.WriteString("  ")
	}
}

func writeDest(sb *strings.Builder, d Dest) {
	writeExp(sb, d.Dest)
	if d.IsInit {
		sb.WriteString(" := ")
	} else {
		sb.WriteString(" = ")
	}
}

func writeBody(sb *strings.Builder, s *Stm, depth int) {
	if b, ok := s.Data.(BlockStm); ok {
		for _, c := range b.Stms {
			writeStm(sb, c, depth)
		}
		return
	}
	writeStm(sb, s, depth)
}

func writeStm(sb *strings.Builder, s *Stm, depth int) {
	indent(sb, depth)
	switch d := s.Data.(type) {
	case CallStm:
		if d.Dest != nil {
			writeDest(sb, *d.Dest)
		}
		sb.WriteString("call ")
		sb.WriteString(string(d.Fun))
		writeTypArgs(sb, d.TypArgs)
		sb.WriteByte('(')
		writeExps(sb, d.Args)
		sb.WriteString(")\n")
	case AssertStm:
		sb.WriteString("assert ")
		writeExp(sb, d.Exp)
		if d.Error != nil {
			fmt.Fprintf(sb, " // %s", d.Error.Message)
		}
		sb.WriteByte('\n')
	case AssertBVStm:
		sb.WriteString("assert_bv ")
		writeExp(sb, d.Exp)
		sb.WriteByte('\n')
	case AssumeStm:
		sb.WriteString("assume ")
		writeExp(sb, d.Exp)
		sb.WriteByte('\n')
	case AssignStm:
		writeDest(sb, d.Lhs)
		writeExp(sb, d.Rhs)
		sb.WriteByte('\n')
	case FuelStm:
		fmt.Fprintf(sb, "fuel %s %d\n", d.Fun, d.Fuel)
	case DeadEndStm:
		sb.WriteString("dead_end {\n")
		writeBody(sb, d.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("}\n")
	case IfStm:
		sb.WriteString("if ")
		writeExp(sb, d.Cond)
		sb.WriteString(" {\n")
		writeBody(sb, d.Then, depth+1)
		indent(sb, depth)
		if d.Else != nil {
			sb.WriteString("} else {\n")
			writeBody(sb, d.Else, depth+1)
			indent(sb, depth)
		}
		sb.WriteString("}\n")
	case WhileStm:
		sb.WriteString("while {\n")
		for _, c := range d.CondStms {
			writeStm(sb, c, depth+1)
		}
		indent(sb, depth+1)
		writeExp(sb, d.CondExp)
		sb.WriteByte('\n')
		indent(sb, depth)
		sb.WriteString("}")
		for _, inv := range d.Invs {
			sb.WriteByte('\n')
			indent(sb, depth+1)
			sb.WriteString("invariant ")
			writeExp(sb, inv)
		}
		sb.WriteString(" {\n")
		writeBody(sb, d.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("}\n")
	case OpenInvariantStm:
		fmt.Fprintf(sb, "open_invariant %s ", d.Atomicity)
		writeExp(sb, d.Inv)
		fmt.Fprintf(sb, " as %s: %s {\n", d.Ident, d.Typ)
		writeBody(sb, d.Body, depth+1)
		indent(sb, depth)
		sb.WriteString("}\n")
	case BlockStm:
		sb.WriteString("{\n")
		for _, c := range d.Stms {
			writeStm(sb, c, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	default:
		fmt.Fprintf(sb, "<%s>\n", s.Kind)
	}
}
