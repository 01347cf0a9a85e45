package lower

import (
	"fmt"
	"io"
	"strings"

	"sstlower/internal/sst"
)

// String renders f in the textual dump format.
func (f *FunctionSST) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s fn %s\n", f.Mode, f.Name)
	writeDecls(&sb, "param", f.Params)
	if f.RetDest != nil {
		fmt.Fprintf(&sb, "  returns %s\n", f.RetDest)
	}
	for _, r := range f.Reqs {
		fmt.Fprintf(&sb, "  requires %s\n", sst.ExpString(r))
	}
	for _, e := range f.Enss {
		fmt.Fprintf(&sb, "  ensures %s\n", sst.ExpString(e))
	}
	writeDecls(&sb, "local", f.LocalDecls)
	if f.SkipEnsures {
		sb.WriteString("  skip_ensures\n")
	}
	switch {
	case f.SpecBody != nil:
		fmt.Fprintf(&sb, "= %s\n", sst.ExpString(f.SpecBody))
	case f.Body != nil:
		sb.WriteString(sst.StmString(f.Body))
	}
	return sb.String()
}

// Dump writes f to w.
func (f *FunctionSST) Dump(w io.Writer) error {
	_, err := io.WriteString(w, f.String())
	return err
}

func writeDecls(sb *strings.Builder, what string, decls []sst.LocalDecl) {
	for _, d := range decls {
		mut := ""
		if d.Mutable {
			mut = " mut"
		}
		fmt.Fprintf(sb, "  %s%s %s: %s\n", what, mut, d.Ident, d.Typ)
	}
}
