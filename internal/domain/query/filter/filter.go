package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
)

// MaxDepth bounds filter nesting so storage translators never recurse unbounded.
const MaxDepth = 32

// Kind discriminates filter nodes.
type Kind int

// Node kinds.
const (
	And Kind = iota
	Or
	Not
	Compare
)

// Operator is a comparison operator of a Compare node.
type Operator string

// Comparison operators.
const (
	Eq         Operator = "eq"
	Ne         Operator = "ne"
	Lt         Operator = "lt"
	Le         Operator = "le"
	Gt         Operator = "gt"
	Ge         Operator = "ge"
	In         Operator = "in"
	Contains   Operator = "contains"
	StartsWith Operator = "startsWith"
	EndsWith   Operator = "endsWith"
)

// IsOrdering reports whether op compares by order (lt/le/gt/ge).
func (op Operator) IsOrdering() bool {
	return op == Lt || op == Le || op == Gt || op == Ge
}

// IsText reports whether op is a substring operator.
func (op Operator) IsText() bool {
	return op == Contains || op == StartsWith || op == EndsWith
}

// Value is a typed literal on the right-hand side of a comparison.
type Value struct {
	kind field.Kind
	str  string
	num  int64
	flag bool
	ts   time.Time
}

// String creates a string literal.
func String(s string) Value { return Value{kind: field.String, str: s} }

// Int creates an integer literal.
func Int(i int64) Value { return Value{kind: field.Int, num: i} }

// Bool creates a boolean literal.
func Bool(b bool) Value { return Value{kind: field.Bool, flag: b} }

// Time creates a timestamp literal.
func Time(t time.Time) Value { return Value{kind: field.Timestamp, ts: t.UTC()} }

// Kind returns the literal kind.
func (v Value) Kind() field.Kind { return v.kind }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Int64 returns the integer payload.
func (v Value) Int64() int64 { return v.num }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// Time returns the timestamp payload.
func (v Value) Time() time.Time { return v.ts }

func (v Value) String() string {
	switch v.kind {
	case field.Int:
		return strconv.FormatInt(v.num, 10)
	case field.Bool:
		return strconv.FormatBool(v.flag)
	case field.Timestamp:
		return v.ts.Format(time.RFC3339Nano)
	default:
		return strconv.Quote(v.str)
	}
}

// Node is one node of a filter tree.
type Node struct {
	kind     Kind
	children []Node
	field    string
	op       Operator
	values   []Value
}

// NewAnd combines nodes with logical AND.
func NewAnd(children ...Node) (Node, error) {
	return newGroup(And, children)
}

// NewOr combines nodes with logical OR.
func NewOr(children ...Node) (Node, error) {
	return newGroup(Or, children)
}

func newGroup(k Kind, children []Node) (Node, error) {
	if len(children) == 0 {
		return Node{}, fmt.Errorf("logical group requires at least one operand")
	}
	c := make([]Node, len(children))
	copy(c, children)
	return Node{kind: k, children: c}, nil
}

// NewNot negates a node.
func NewNot(child Node) Node {
	return Node{kind: Not, children: []Node{child}}
}

// NewCompare validates and creates a comparison of a field against values.
// In takes one or more values, every other operator exactly one.
func NewCompare(name string, op Operator, values ...Value) (Node, error) {
	f, ok := field.Lookup(name)
	if !ok {
		return Node{}, fmt.Errorf("unknown field %q", name)
	}
	switch op {
	case In:
		if len(values) == 0 {
			return Node{}, fmt.Errorf("in on %q requires at least one value", name)
		}
	case Eq, Ne, Lt, Le, Gt, Ge, Contains, StartsWith, EndsWith:
		if len(values) != 1 {
			return Node{}, fmt.Errorf("%s on %q requires exactly one value", op, name)
		}
	default:
		return Node{}, fmt.Errorf("unknown operator %q", op)
	}
	if err := checkOperator(f, op); err != nil {
		return Node{}, err
	}
	want := f.Kind
	if want == field.TagList {
		want = field.String
	}
	for _, v := range values {
		if v.kind != want {
			return Node{}, fmt.Errorf("field %q expects %s, got %s", name, want, v.kind)
		}
	}
	vs := make([]Value, len(values))
	copy(vs, values)
	return Node{kind: Compare, field: name, op: op, values: vs}, nil
}

func checkOperator(f field.Field, op Operator) error {
	switch f.Kind {
	case field.TagList:
		if op != Eq && op != Ne && op != In {
			return fmt.Errorf("operator %s is not supported on tag field %q", op, f.Name)
		}
	case field.Bool:
		if op != Eq && op != Ne {
			return fmt.Errorf("operator %s is not supported on boolean field %q", op, f.Name)
		}
	case field.Int, field.Timestamp:
		if op.IsText() {
			return fmt.Errorf("operator %s is not supported on %s field %q", op, f.Kind, f.Name)
		}
	case field.String:
	}
	return nil
}

// Kind returns the node kind.
func (n Node) Kind() Kind { return n.kind }

// Children returns the operands of And/Or/Not nodes.
func (n Node) Children() []Node { return n.children }

// Field returns the compared field name.
func (n Node) Field() string { return n.field }

// Op returns the comparison operator.
func (n Node) Op() Operator { return n.op }

// Values returns the comparison literals.
func (n Node) Values() []Value { return n.values }

// WithValues returns a copy of a Compare node with replaced literals.
func (n Node) WithValues(values []Value) Node {
	vs := make([]Value, len(values))
	copy(vs, values)
	n.values = vs
	return n
}

// Depth returns the nesting depth of the tree (a single comparison is 1).
func (n Node) Depth() int {
	d := 0
	for _, c := range n.children {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// Rewrite rebuilds the tree bottom-up, replacing every Compare node with fn(node).
func Rewrite(n Node, fn func(Node) Node) Node {
	if n.kind == Compare {
		return fn(n)
	}
	children := make([]Node, len(n.children))
	for i, c := range n.children {
		children[i] = Rewrite(c, fn)
	}
	n.children = children
	return n
}

// Walk visits every node depth-first until fn returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// String renders the tree in prefix form, e.g. and(eq(fileName,"a"),not(...)).
func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	switch n.kind {
	case And, Or, Not:
		b.WriteString([...]string{"and", "or", "not"}[n.kind])
		b.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				b.WriteByte(',')
			}
			c.write(b)
		}
		b.WriteByte(')')
	case Compare:
		b.WriteString(string(n.op))
		b.WriteByte('(')
		b.WriteString(n.field)
		for _, v := range n.values {
			b.WriteByte(',')
			b.WriteString(v.String())
		}
		b.WriteByte(')')
	}
}
