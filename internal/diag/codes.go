package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// krate reader
	ReadInfo        Code = 1000
	ReadBadJSON     Code = 1001
	ReadUnknownKind Code = 1002
	ReadBadSpan     Code = 1003
	ReadMissingNode Code = 1004

	// lowering errors
	LowerInfo                  Code = 4000
	LowerReturnOutsideFunction Code = 4001
	LowerReturnValueNotAllowed Code = 4002
	LowerHeaderNotAllowed      Code = 4003
	LowerAssignNotLocation     Code = 4004
	LowerProofEndsWithValue    Code = 4005
	LowerNoEffectExpression    Code = 4006
	LowerExpectedPure          Code = 4007
	LowerExpectedValue         Code = 4008
	LowerParamShadowed         Code = 4009
	LowerUnknownFunction       Code = 4010
	LowerNoTriggers            Code = 4011

	// deferred proof obligations
	ObligationInfo          Code = 5000
	ObligationArithOverflow Code = 5001
	ObligationDivByZero     Code = 5002
	ObligationPostcondition Code = 5003
	ObligationAssert        Code = 5004
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	ReadInfo:                   "Krate reader information",
	ReadBadJSON:                "Malformed krate JSON",
	ReadUnknownKind:            "Unknown node kind",
	ReadBadSpan:                "Malformed span",
	ReadMissingNode:            "Required node is missing",
	LowerInfo:                  "Lowering information",
	LowerReturnOutsideFunction: "Return outside of a function body",
	LowerReturnValueNotAllowed: "Return value not allowed",
	LowerHeaderNotAllowed:      "Header expression used as a value",
	LowerAssignNotLocation:     "Assignment to a non-location",
	LowerProofEndsWithValue:    "Proof block ends with a value",
	LowerNoEffectExpression:    "Expression statement has no effect",
	LowerExpectedPure:          "Expected pure expression",
	LowerExpectedValue:         "Expression produces no value",
	LowerParamShadowed:         "Pre-state parameter is shadowed",
	LowerUnknownFunction:       "Unknown function",
	LowerNoTriggers:            "Could not infer triggers",
	ObligationInfo:             "Proof obligation",
	ObligationArithOverflow:    "Arithmetic underflow/overflow",
	ObligationDivByZero:        "Division by zero",
	ObligationPostcondition:    "Postcondition not satisfied",
	ObligationAssert:           "Assertion failed",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RD%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBL%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
