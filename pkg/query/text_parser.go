package query

import (
	"fmt"
	"strings"
)

// MaxDepth bounds the nesting of groups and negations in a single query.
const MaxDepth = 256

// SyntaxError reports query text that does not follow the grammar.
type SyntaxError struct {
	// Offset is the byte offset of the failure in the query text.
	Offset int
	// Remainder is the unconsumed input starting at Offset.
	Remainder string
	Msg       string
}

func (e *SyntaxError) Error() string {
	if e.Remainder == "" {
		return fmt.Sprintf("query: syntax error at offset %d: %s (at end of input)", e.Offset, e.Msg)
	}
	return fmt.Sprintf("query: syntax error at offset %d: %s near %q", e.Offset, e.Msg, truncate(e.Remainder, 24))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Parse converts query text into an expression tree. The whole input must be
// consumed; trailing text is reported as a *SyntaxError.
func Parse(text string) (Expression, error) {
	p := &textParser{input: text}
	p.skipSpace()
	expr, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing input")
	}
	return expr, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level query constants.
func MustParse(text string) Expression {
	expr, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return expr
}

type textParser struct {
	input string
	pos   int
	depth int
}

func (p *textParser) eof() bool { return p.pos >= len(p.input) }

func (p *textParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *textParser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Offset:    p.pos,
		Remainder: p.input[p.pos:],
		Msg:       fmt.Sprintf(format, args...),
	}
}

// skipSpace consumes zero or more whitespace characters and reports how many.
func (p *textParser) skipSpace() int {
	start := p.pos
	for !p.eof() && isSpace(p.input[p.pos]) {
		p.pos++
	}
	return p.pos - start
}

// requireSpace consumes one or more whitespace characters.
func (p *textParser) requireSpace(after string) error {
	if p.skipSpace() == 0 {
		return p.errorf("expected whitespace after %s", after)
	}
	return nil
}

// logical := unary [ ws* ("&" | "|") ws* unary ]
func (p *textParser) parseLogical() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	save := p.pos
	p.skipSpace()
	op := p.peek()
	if op != '&' && op != '|' {
		p.pos = save
		return left, nil
	}
	p.pos++
	p.skipSpace()

	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if op == '&' {
		return And{Left: left, Right: right}, nil
	}
	return Or{Left: left, Right: right}, nil
}

// unary := "~" ws+ unary | "(" ws* logical ws* ")" | condition
func (p *textParser) parseUnary() (Expression, error) {
	switch p.peek() {
	case '~':
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.pos++
		if err := p.requireSpace("'~'"); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Expr: inner}, nil

	case '(':
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.pos++
		p.skipSpace()
		inner, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			if p.peek() == '&' || p.peek() == '|' {
				return nil, p.errorf("chained '%c' needs its own parentheses", p.peek())
			}
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return inner, nil

	case 0:
		return nil, p.errorf("expected expression")
	}
	return p.parseCondition()
}

func (p *textParser) enter() error {
	if p.depth >= MaxDepth {
		return p.errorf("expression nested deeper than %d levels", MaxDepth)
	}
	p.depth++
	return nil
}

func (p *textParser) leave() { p.depth-- }

// condition := field ws+ operator ws+ (value | value_list)
func (p *textParser) parseCondition() (Expression, error) {
	field := p.readAlnum()
	if field == "" {
		return nil, p.errorf("expected field name")
	}
	if err := p.requireSpace("field " + field); err != nil {
		return nil, err
	}

	op, negate, err := p.parseOperator()
	if err != nil {
		return nil, err
	}
	if err := p.requireSpace("operator"); err != nil {
		return nil, err
	}

	var values []string
	if p.peek() == '[' {
		values, err = p.parseValueList()
		if err != nil {
			return nil, err
		}
	} else {
		v := p.readAlnum()
		if v == "" {
			return nil, p.errorf("expected value")
		}
		values = []string{v}
	}

	var expr Expression = Condition{Field: field, Operator: op, Values: values}
	if negate {
		expr = Not{Expr: expr}
	}
	return expr, nil
}

// Longer tokens come first so ">=" is not read as ">".
var operatorTable = []struct {
	token  string
	op     Operator
	negate bool
}{
	{"==", Eq, false},
	{"!=", Eq, true},
	{">=", Gte, false},
	{"<=", Lte, false},
	{">", Gt, false},
	{"<", Lt, false},
	{"@SW", StartsWith, false},
	{"@EW", EndsWith, false},
	{"@CT", Contains, false},
	{"@OO", OneOf, false},
}

func (p *textParser) parseOperator() (Operator, bool, error) {
	rest := p.input[p.pos:]
	for _, entry := range operatorTable {
		if strings.HasPrefix(rest, entry.token) {
			p.pos += len(entry.token)
			return entry.op, entry.negate, nil
		}
	}
	if rest == "" {
		return 0, false, p.errorf("expected operator")
	}
	return 0, false, p.errorf("unknown operator")
}

// value_list := "[" item ("," item)* "]"
//
// Items may hold any character except ',' and ']'; surrounding whitespace is
// trimmed and an empty item is rejected.
func (p *textParser) parseValueList() ([]string, error) {
	open := p.pos
	p.pos++ // '['

	var values []string
	for {
		start := p.pos
		for !p.eof() && p.input[p.pos] != ',' && p.input[p.pos] != ']' {
			p.pos++
		}
		if p.eof() {
			p.pos = open
			return nil, p.errorf("unterminated value list")
		}
		item := strings.TrimSpace(p.input[start:p.pos])
		if item == "" {
			p.pos = start
			if len(values) == 0 && p.peek() == ']' {
				return nil, p.errorf("empty value list")
			}
			return nil, p.errorf("empty item in value list")
		}
		values = append(values, item)

		if p.input[p.pos] == ']' {
			p.pos++
			return values, nil
		}
		p.pos++ // ','
	}
}

func (p *textParser) readAlnum() string {
	start := p.pos
	for !p.eof() && isAlnum(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
