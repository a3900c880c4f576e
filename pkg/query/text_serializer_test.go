package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeText(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expression
		expected string
	}{
		{
			name:     "simple comparison",
			expr:     cond("index", Gt, "5"),
			expected: `index > 5`,
		},
		{
			name:     "one of always uses a list",
			expr:     cond("name", OneOf, "go"),
			expected: `name @OO [go]`,
		},
		{
			name:     "values that need a list",
			expr:     cond("description", Contains, "shell script", "bash"),
			expected: `description @CT [shell script,bash]`,
		},
		{
			name:     "negated equality",
			expr:     Not{Expr: cond("status", Eq, "done")},
			expected: `status != done`,
		},
		{
			name:     "negated other operator",
			expr:     Not{Expr: cond("name", StartsWith, "tmp")},
			expected: `~ name @SW tmp`,
		},
		{
			name: "nested logical operators",
			expr: Or{
				Left: And{
					Left:  cond("a", Gte, "1"),
					Right: cond("b", Lte, "2"),
				},
				Right: Not{Expr: Or{
					Left:  cond("x", EndsWith, "y"),
					Right: cond("z", Lt, "0"),
				}},
			},
			expected: `((a >= 1 & b <= 2) | ~ (x @EW y | z < 0))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := SerializeText(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
			assert.Equal(t, tt.expected, tt.expr.String())
		})
	}
}

func TestSerializeText_Unrepresentable(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
	}{
		{name: "nil", expr: nil},
		{name: "unsupported type", expr: DummyExpr{}},
		{name: "no values", expr: Condition{Field: "a", Operator: Eq}},
		{name: "empty field", expr: cond("", Eq, "x")},
		{name: "non alphanumeric field", expr: cond("a.b", Eq, "x")},
		{name: "value with comma", expr: cond("a", Eq, "x,y")},
		{name: "value with bracket", expr: cond("a", Eq, "x]")},
		{name: "padded value", expr: cond("a", Eq, " x")},
		{name: "empty value", expr: cond("a", Eq, "")},
		{name: "unknown operator", expr: cond("a", Operator(42), "x")},
		{name: "nil operand", expr: And{Left: cond("a", Eq, "x")}},
		{name: "nil negation", expr: Not{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SerializeText(tt.expr)
			require.Error(t, err)
		})
	}

	assert.Contains(t, cond("a", Eq, "x,y").String(), "<invalid:")
}

// DummyExpr is an Expression implementation the serializer does not know.
type DummyExpr struct{}

func (DummyExpr) isExpr()        {}
func (DummyExpr) String() string { return "dummy" }

func TestRoundTrip(t *testing.T) {
	queries := []string{
		"name @SW s",
		"(name @SW s)",
		"index > 5",
		"isDeleted == true",
		"status != done",
		"tagsIds @OO [t1,t2]",
		"tagsIds @OO [ spaced item , other ]",
		"name @OO go",
		"(a == 1) & (b == 2)",
		"(a == 1 | ~ b @EW x)",
		"~ ~ (a < 1 & b <= [2.5])",
		"((name @CT [a b] & index >= 3) | (folderId == f1 & ~ (isFavorites == true)))",
		"content != [x y,z]",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			first, err := Parse(q)
			require.NoError(t, err)

			canonical, err := SerializeText(first)
			require.NoError(t, err)

			second, err := Parse(canonical)
			require.NoError(t, err, "canonical form %q", canonical)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip of %q via %q changed the tree (-first +second):\n%s", q, canonical, diff)
			}

			again, err := SerializeText(second)
			require.NoError(t, err)
			assert.Equal(t, canonical, again, "canonical form must be stable")
		})
	}
}
