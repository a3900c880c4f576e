package query

import (
	"fmt"
	"strings"
)

// SerializeText renders an expression in canonical query syntax. Parsing the
// result yields a tree equal to expr. Values that the grammar cannot express
// (empty, padded with whitespace, or containing ',' or ']') are reported as
// errors.
func SerializeText(expr Expression) (string, error) {
	if expr == nil {
		return "", fmt.Errorf("cannot serialize nil expression")
	}
	var b strings.Builder
	if err := serialize(&b, expr); err != nil {
		return "", err
	}
	return b.String(), nil
}

func serialize(b *strings.Builder, expr Expression) error {
	switch e := expr.(type) {
	case Condition:
		return serializeCondition(b, e)

	case Not:
		if e.Expr == nil {
			return fmt.Errorf("not: missing operand")
		}
		// A negated equality reads back as "!=" and parses to the same tree.
		if c, ok := e.Expr.(Condition); ok && c.Operator == Eq {
			return serializeConditionWith(b, c, "!=")
		}
		b.WriteString("~ ")
		return serialize(b, e.Expr)

	case And:
		return serializeBinary(b, "&", e.Left, e.Right)

	case Or:
		return serializeBinary(b, "|", e.Left, e.Right)

	default:
		return fmt.Errorf("unsupported expression type: %T", expr)
	}
}

func serializeBinary(b *strings.Builder, op string, left, right Expression) error {
	if left == nil || right == nil {
		return fmt.Errorf("%s: missing operand", op)
	}
	b.WriteByte('(')
	if err := serialize(b, left); err != nil {
		return err
	}
	b.WriteString(" " + op + " ")
	if err := serialize(b, right); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

func serializeCondition(b *strings.Builder, c Condition) error {
	if c.Operator < Eq || c.Operator > OneOf {
		return fmt.Errorf("condition on %q: unknown operator %d", c.Field, int(c.Operator))
	}
	return serializeConditionWith(b, c, c.Operator.Token())
}

func serializeConditionWith(b *strings.Builder, c Condition, token string) error {
	if c.Field == "" || !isAlnumString(c.Field) {
		return fmt.Errorf("invalid field name %q", c.Field)
	}
	if len(c.Values) == 0 {
		return fmt.Errorf("condition on %q has no values", c.Field)
	}
	for _, v := range c.Values {
		if v == "" || strings.TrimSpace(v) != v || strings.ContainsAny(v, ",]") {
			return fmt.Errorf("condition on %q: value %q cannot be expressed in query syntax", c.Field, v)
		}
	}

	b.WriteString(c.Field)
	b.WriteByte(' ')
	b.WriteString(token)
	b.WriteByte(' ')

	// OneOf always reads as a list; so does anything a bare value cannot hold.
	if len(c.Values) == 1 && token != OneOf.Token() && isAlnumString(c.Values[0]) {
		b.WriteString(c.Values[0])
		return nil
	}
	b.WriteByte('[')
	b.WriteString(strings.Join(c.Values, ","))
	b.WriteByte(']')
	return nil
}

func isAlnumString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return s != ""
}
