package triggers

import (
	"testing"

	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

var (
	sp   = source.Span{}
	intT = vir.IntTyp(vir.IntRange{Kind: vir.RangeInt})
)

func bv(name string) *sst.Exp { return sst.MkVar(sp, intT, sst.Plain(name)) }

func app(fun string, args ...*sst.Exp) *sst.Exp {
	return sst.NewExp(sp, intT, sst.CallExp{Fun: vir.Fun(fun), Args: args})
}

func ge(l, r *sst.Exp) *sst.Exp {
	return sst.NewExp(sp, vir.BoolTyp(), sst.BinaryExp{Op: vir.BinaryOp{Kind: vir.BinGe}, Left: l, Right: r})
}

func render(trigs []sst.Trigger) []string {
	var out []string
	for _, trig := range trigs {
		s := ""
		for i, e := range trig {
			if i > 0 {
				s += " "
			}
			s += sst.ExpString(e)
		}
		out = append(out, s)
	}
	return out
}

func TestBuildTriggers(t *testing.T) {
	local := sst.MkVar(sp, intT, sst.Numbered("x", 0))
	tests := []struct {
		name string
		vars []string
		body *sst.Exp
		want []string
	}{
		{
			name: "single application",
			vars: []string{"i"},
			body: ge(app("f", bv("i")), local),
			want: []string{"f(i)"},
		},
		{
			name: "innermost covering term wins",
			vars: []string{"i"},
			body: ge(app("g", app("f", bv("i"))), local),
			want: []string{"f(i)"},
		},
		{
			name: "arithmetic inside a term disqualifies it",
			vars: []string{"i"},
			body: ge(app("f", ge(bv("i"), local)), app("h", bv("i"))),
			want: []string{"h(i)"},
		},
		{
			name: "multi-term trigger",
			vars: []string{"i", "j"},
			body: ge(app("f", bv("i")), app("g", bv("j"))),
			want: []string{"f(i) g(j)"},
		},
		{
			name: "variables that never occur need no trigger",
			vars: []string{"A%type_id"},
			body: ge(local, local),
			want: nil,
		},
	}
	for _, tt := range tests {
		got, err := Selector{}.BuildTriggers(sp, tt.vars, tt.body)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		r := render(got)
		if len(r) != len(tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, r, tt.want)
		}
		for i := range r {
			if r[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.name, r, tt.want)
			}
		}
	}
}

func TestNoTriggerIsAnError(t *testing.T) {
	body := ge(bv("i"), sst.MkVar(sp, intT, sst.Numbered("x", 0)))
	if _, err := (Selector{}).BuildTriggers(sp, []string{"i"}, body); err == nil {
		t.Fatalf("expected an error for a body without candidate terms")
	}
}

func TestMaxTriggers(t *testing.T) {
	body := ge(app("f", bv("i")), app("g", bv("i")))
	got, err := Selector{MaxTriggers: 1}.BuildTriggers(sp, []string{"i"}, body)
	if err != nil {
		t.Fatal(err)
	}
	if r := render(got); len(r) != 1 || r[0] != "f(i)" {
		t.Fatalf("got %v", r)
	}
}
