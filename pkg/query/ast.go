package query

import (
	"encoding/json"
	"fmt"
)

// Operator is a comparison kind used by a Condition.
type Operator int

const (
	Eq Operator = iota
	Gt
	Lt
	Gte
	Lte
	StartsWith
	EndsWith
	Contains
	OneOf
)

var operatorTokens = [...]string{
	Eq:         "==",
	Gt:         ">",
	Lt:         "<",
	Gte:        ">=",
	Lte:        "<=",
	StartsWith: "@SW",
	EndsWith:   "@EW",
	Contains:   "@CT",
	OneOf:      "@OO",
}

// Token returns the query-language spelling of the operator.
func (o Operator) Token() string {
	if o < 0 || int(o) >= len(operatorTokens) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorTokens[o]
}

func (o Operator) String() string {
	switch o {
	case Eq:
		return "Eq"
	case Gt:
		return "Gt"
	case Lt:
		return "Lt"
	case Gte:
		return "Gte"
	case Lte:
		return "Lte"
	case StartsWith:
		return "StartsWith"
	case EndsWith:
		return "EndsWith"
	case Contains:
		return "Contains"
	case OneOf:
		return "OneOf"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// MarshalText lets operators appear by name in JSON dumps of a tree.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Expression is a node of a parsed query. The set of implementations is
// closed: Condition, Not, And and Or.
type Expression interface {
	isExpr()
	fmt.Stringer
}

// Condition compares one record field against one or more values. It holds
// when the comparison is true for any of the values.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Values   []string `json:"values"`
}

func (Condition) isExpr() {}

func (c Condition) String() string { return render(c) }

// Not negates its inner expression.
type Not struct {
	Expr Expression `json:"not"`
}

func (Not) isExpr() {}

func (n Not) String() string { return render(n) }

// And holds when both sides hold.
type And struct {
	Left  Expression
	Right Expression
}

func (And) isExpr() {}

func (a And) String() string { return render(a) }

func (a And) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Expression{"and": {a.Left, a.Right}})
}

// Or holds when either side holds.
type Or struct {
	Left  Expression
	Right Expression
}

func (Or) isExpr() {}

func (o Or) String() string { return render(o) }

func (o Or) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Expression{"or": {o.Left, o.Right}})
}

func render(expr Expression) string {
	text, err := SerializeText(expr)
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return text
}
