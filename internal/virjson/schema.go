package virjson

import (
	"bytes"
	"encoding/json"
)

type krateJSON struct {
	Files     []string          `json:"files"`
	Functions []json.RawMessage `json:"functions"`
}

type spanJSON struct {
	File  int64 `json:"file"`
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// typJSON accepts either a shorthand string or an object.
type typJSON struct {
	Short string     `json:"-"`
	Kind  string     `json:"kind"`
	Range string     `json:"range"`
	Name  string     `json:"name"`
	Args  []*typJSON `json:"args"`
	Elem  *typJSON   `json:"elem"`
}

func (t *typJSON) UnmarshalJSON(data []byte) error {
	if len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '"' {
		return json.Unmarshal(data, &t.Short)
	}
	type plain typJSON
	return json.Unmarshal(data, (*plain)(t))
}

type paramJSON struct {
	Name    string    `json:"name"`
	Typ     *typJSON  `json:"typ"`
	Mutable bool      `json:"mutable"`
	Purpose string    `json:"purpose"`
	Span    *spanJSON `json:"span"`
}

type funcJSON struct {
	Name    string      `json:"name"`
	Mode    string      `json:"mode"`
	Params  []paramJSON `json:"params"`
	Ret     *paramJSON  `json:"ret"`
	Require []*exprJSON `json:"require"`
	Ensure  []*exprJSON `json:"ensure"`
	Body    *exprJSON   `json:"body"`
	IsConst bool        `json:"is_const"`
	Span    *spanJSON   `json:"span"`
}

type binderJSON struct {
	Name string   `json:"name"`
	Typ  *typJSON `json:"typ"`
}

type fieldJSON struct {
	Name  string    `json:"name"`
	Value *exprJSON `json:"value"`
}

type patternJSON struct {
	Kind    string    `json:"kind"`
	Name    string    `json:"name"`
	Typ     *typJSON  `json:"typ"`
	Mutable bool      `json:"mutable"`
	Span    *spanJSON `json:"span"`
}

type stmtJSON struct {
	Kind    string       `json:"kind"`
	Span    *spanJSON    `json:"span"`
	Expr    *exprJSON    `json:"expr"`
	Pattern *patternJSON `json:"pattern"`
	Init    *exprJSON    `json:"init"`
}

// exprJSON is the union of every expression form; Kind selects the fields
// that are read.
type exprJSON struct {
	Kind string    `json:"kind"`
	Span *spanJSON `json:"span"`
	Typ  *typJSON  `json:"typ"`

	Bool *bool  `json:"bool"`
	Nat  string `json:"nat"`
	Name string `json:"name"`
	At   string `json:"at"`
	Fun  string `json:"fun"`

	TypArgs []*typJSON  `json:"typ_args"`
	Callee  *exprJSON   `json:"callee"`
	Args    []*exprJSON `json:"args"`
	Elems   []*exprJSON `json:"elems"`

	Op     string   `json:"op"`
	Mode   string   `json:"mode"`
	Range  string   `json:"range"`
	OprTyp *typJSON `json:"opr_typ"`

	Datatype string      `json:"datatype"`
	Variant  string      `json:"variant"`
	Field    string      `json:"field"`
	Fields   []fieldJSON `json:"fields"`
	Update   *exprJSON   `json:"update"`

	Expr    *exprJSON `json:"expr"`
	Operand *exprJSON `json:"operand"`
	Left    *exprJSON `json:"left"`
	Right   *exprJSON `json:"right"`

	Quant   string       `json:"quant"`
	Binders []binderJSON `json:"binders"`
	Binder  *binderJSON  `json:"binder"`
	Body    *exprJSON    `json:"body"`
	Cond    *exprJSON    `json:"cond"`
	Then    *exprJSON    `json:"then"`
	Else    *exprJSON    `json:"else"`
	Require *exprJSON    `json:"require"`
	Ensure  *exprJSON    `json:"ensure"`
	Proof   *exprJSON    `json:"proof"`
	Invs    []*exprJSON  `json:"invs"`

	InitNotMut bool      `json:"init_not_mut"`
	Lhs        *exprJSON `json:"lhs"`
	Rhs        *exprJSON `json:"rhs"`

	Fuel      uint32     `json:"fuel"`
	What      string     `json:"what"`
	Inv       *exprJSON  `json:"inv"`
	Atomicity string     `json:"atomicity"`
	Value     *exprJSON  `json:"value"`
	Stmts     []stmtJSON `json:"stmts"`
	Tail      *exprJSON  `json:"tail"`
	Scrutinee *exprJSON  `json:"scrutinee"`
}
