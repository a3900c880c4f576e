package query

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is anything a query can be evaluated against.
type Record interface {
	// Lookup returns the value of the named field and whether it is present.
	Lookup(field string) (any, bool)
}

// Document is a record in decoded-JSON form.
type Document map[string]any

// Lookup implements Record.
func (d Document) Lookup(field string) (any, bool) {
	v, ok := d[field]
	return v, ok
}

// Evaluate reports whether record satisfies expr. It never fails: a missing
// field, a null or object value, or a value that cannot be coerced makes the
// enclosing condition false.
func Evaluate(expr Expression, record Record) bool {
	switch e := expr.(type) {
	case Condition:
		if record == nil {
			return false
		}
		actual, ok := record.Lookup(e.Field)
		if !ok {
			return false
		}
		return evaluateCondition(e, actual)
	case Not:
		return !Evaluate(e.Expr, record)
	case And:
		return Evaluate(e.Left, record) && Evaluate(e.Right, record)
	case Or:
		return Evaluate(e.Left, record) || Evaluate(e.Right, record)
	}
	return false
}

func evaluateCondition(c Condition, actual any) bool {
	if elems, ok := actual.([]any); ok {
		return evaluateCollection(c, elems)
	}
	if strs, ok := actual.([]string); ok {
		elems := make([]any, len(strs))
		for i, s := range strs {
			elems[i] = s
		}
		return evaluateCollection(c, elems)
	}

	switch c.Operator {
	case Gt, Lt, Gte, Lte:
		n, ok := toNumber(actual)
		if !ok {
			return false
		}
		for _, v := range c.Values {
			if compareNumbers(c.Operator, n, parseNumber(v)) {
				return true
			}
		}
		return false
	}

	s, ok := toText(actual)
	if !ok {
		return false
	}
	return matchText(c.Operator, s, c.Values)
}

// evaluateCollection applies a condition to an array-valued field. Equality,
// OneOf and Contains test membership; StartsWith and EndsWith test each
// element. Ordering never matches a collection.
func evaluateCollection(c Condition, elems []any) bool {
	op := c.Operator
	switch op {
	case Gt, Lt, Gte, Lte:
		return false
	case Contains, OneOf:
		op = Eq
	}
	for _, elem := range elems {
		s, ok := toText(elem)
		if !ok {
			continue
		}
		if matchText(op, s, c.Values) {
			return true
		}
	}
	return false
}

func matchText(op Operator, actual string, values []string) bool {
	for _, v := range values {
		var hit bool
		switch op {
		case Eq, OneOf:
			hit = actual == v
		case StartsWith:
			hit = strings.HasPrefix(actual, v)
		case EndsWith:
			hit = strings.HasSuffix(actual, v)
		case Contains:
			hit = strings.Contains(actual, v)
		}
		if hit {
			return true
		}
	}
	return false
}

func compareNumbers(op Operator, a, b float64) bool {
	// NaN compares false against everything.
	switch op {
	case Gt:
		return a > b
	case Lt:
		return a < b
	case Gte:
		return a >= b
	case Lte:
		return a <= b
	}
	return false
}

// toText renders a scalar field value in the form queries compare against.
func toText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case json.Number:
		return x.String(), true
	}
	return "", false
}

func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		return parseNumber(x.String()), true
	case string:
		return parseNumber(x), true
	}
	return 0, false
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
