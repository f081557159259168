package querylang

import (
	"math"
	"time"

	"github.com/google/cel-go/cel"
	celast "github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/operators"
	"github.com/google/cel-go/common/overloads"

	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
	"github.com/kailas-cloud/assetdex/internal/domain/query/filter"
)

var compareOps = map[string]filter.Operator{
	operators.Equals:        filter.Eq,
	operators.NotEquals:     filter.Ne,
	operators.Less:          filter.Lt,
	operators.LessEquals:    filter.Le,
	operators.Greater:       filter.Gt,
	operators.GreaterEquals: filter.Ge,
}

// mirrored returns the operator that keeps meaning when operands swap sides.
var mirrored = map[filter.Operator]filter.Operator{
	filter.Eq: filter.Eq,
	filter.Ne: filter.Ne,
	filter.Lt: filter.Gt,
	filter.Le: filter.Ge,
	filter.Gt: filter.Lt,
	filter.Ge: filter.Le,
}

var textOps = map[string]filter.Operator{
	overloads.Contains:   filter.Contains,
	overloads.StartsWith: filter.StartsWith,
	overloads.EndsWith:   filter.EndsWith,
}

func (p *Parser) parseFilter(src string) (*filter.Node, error) {
	if src == "" {
		return nil, syntaxErr(OptFilter, "empty expression")
	}
	if len(src) > MaxFilterLength {
		return nil, syntaxErr(OptFilter, "expression too long (max %d chars)", MaxFilterLength)
	}

	checked, iss := p.env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, syntaxErr(OptFilter, "%v", iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, syntaxErr(OptFilter, "expression must be boolean, got %s", checked.OutputType())
	}

	node, err := lower(checked.NativeRep().Expr())
	if err != nil {
		return nil, err
	}
	if node.Depth() > filter.MaxDepth {
		return nil, notSupported("filter nesting deeper than %d", filter.MaxDepth)
	}
	return &node, nil
}

func lower(e celast.Expr) (filter.Node, error) {
	switch e.Kind() {
	case celast.CallKind:
		return lowerCall(e.AsCall())
	case celast.IdentKind:
		// A bare boolean field reads as field == true.
		return compare(e.AsIdent(), filter.Eq, filter.Bool(true))
	case celast.ComprehensionKind:
		return filter.Node{}, notSupported("macros")
	default:
		return filter.Node{}, notSupported("standalone %s expression", kindName(e.Kind()))
	}
}

func lowerCall(call celast.CallExpr) (filter.Node, error) {
	fn := call.FunctionName()
	args := call.Args()

	switch fn {
	case operators.LogicalAnd, operators.LogicalOr:
		children := make([]filter.Node, 0, len(args))
		for _, a := range args {
			child, err := lower(a)
			if err != nil {
				return filter.Node{}, err
			}
			children = append(children, flatten(fn, child)...)
		}
		if fn == operators.LogicalAnd {
			return filter.NewAnd(children...)
		}
		return filter.NewOr(children...)

	case operators.LogicalNot:
		child, err := lower(args[0])
		if err != nil {
			return filter.Node{}, err
		}
		return filter.NewNot(child), nil

	case operators.In:
		return lowerIn(args[0], args[1])
	}

	if op, ok := compareOps[fn]; ok {
		return lowerCompare(op, args[0], args[1])
	}

	if op, ok := textOps[fn]; ok && call.IsMemberFunction() {
		name, ok := identName(call.Target())
		if !ok {
			return filter.Node{}, notSupported("%s on a computed value", fn)
		}
		v, err := literal(name, args[0])
		if err != nil {
			return filter.Node{}, err
		}
		return compare(name, op, v)
	}

	return filter.Node{}, notSupported("function %q", displayName(fn))
}

// flatten merges nested groups of the same kind into their parent.
func flatten(fn string, n filter.Node) []filter.Node {
	want := filter.And
	if fn == operators.LogicalOr {
		want = filter.Or
	}
	if n.Kind() == want {
		return n.Children()
	}
	return []filter.Node{n}
}

func lowerCompare(op filter.Operator, lhs, rhs celast.Expr) (filter.Node, error) {
	if name, ok := identName(lhs); ok {
		v, err := literal(name, rhs)
		if err != nil {
			return filter.Node{}, err
		}
		return compare(name, op, v)
	}
	if name, ok := identName(rhs); ok {
		v, err := literal(name, lhs)
		if err != nil {
			return filter.Node{}, err
		}
		return compare(name, mirrored[op], v)
	}
	return filter.Node{}, notSupported("comparison without a field operand")
}

// lowerIn handles `"tag" in tags` (tag membership) and
// `field in ["a", "b"]` (value set).
func lowerIn(elem, list celast.Expr) (filter.Node, error) {
	if name, ok := identName(list); ok {
		if name != field.Tags {
			return filter.Node{}, notSupported("in on field %q", name)
		}
		v, err := literal(name, elem)
		if err != nil {
			return filter.Node{}, err
		}
		return compare(name, filter.Eq, v)
	}

	name, ok := identName(elem)
	if !ok {
		return filter.Node{}, notSupported("in without a field operand")
	}
	if list.Kind() != celast.ListKind {
		return filter.Node{}, notSupported("in against a computed list")
	}
	elems := list.AsList().Elements()
	if len(elems) == 0 {
		return filter.Node{}, syntaxErr(OptFilter, "in on %q with an empty list", name)
	}
	values := make([]filter.Value, 0, len(elems))
	for _, el := range elems {
		v, err := literal(name, el)
		if err != nil {
			return filter.Node{}, err
		}
		values = append(values, v)
	}
	return compare(name, filter.In, values...)
}

func compare(name string, op filter.Operator, values ...filter.Value) (filter.Node, error) {
	n, err := filter.NewCompare(name, op, values...)
	if err != nil {
		return filter.Node{}, notSupported("%v", err)
	}
	return n, nil
}

func identName(e celast.Expr) (string, bool) {
	if e.Kind() != celast.IdentKind {
		return "", false
	}
	return e.AsIdent(), true
}

// literal converts a constant operand to a filter value of the field's kind.
func literal(name string, e celast.Expr) (filter.Value, error) {
	f, ok := field.Lookup(name)
	if !ok {
		return filter.Value{}, notSupported("field %q", name)
	}

	if e.Kind() == celast.CallKind {
		call := e.AsCall()
		if call.FunctionName() != overloads.TypeConvertTimestamp || len(call.Args()) != 1 {
			return filter.Value{}, notSupported("function %q as a value", displayName(call.FunctionName()))
		}
		arg := call.Args()[0]
		if arg.Kind() != celast.LiteralKind {
			return filter.Value{}, notSupported("timestamp of a computed value")
		}
		s, ok := arg.AsLiteral().Value().(string)
		if !ok {
			return filter.Value{}, notSupported("timestamp of a non-string value")
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return filter.Value{}, syntaxErr(OptFilter, "invalid timestamp %q", s)
		}
		return filter.Time(t), nil
	}

	if e.Kind() != celast.LiteralKind {
		return filter.Value{}, notSupported("non-constant value for %q", name)
	}

	switch v := e.AsLiteral().Value().(type) {
	case string:
		return filter.String(v), nil
	case bool:
		return filter.Bool(v), nil
	case int64:
		return filter.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return filter.Value{}, syntaxErr(OptFilter, "integer %d out of range", v)
		}
		return filter.Int(int64(v)), nil
	case float64:
		if f.Kind == field.Int && v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
			return filter.Int(int64(v)), nil
		}
		return filter.Value{}, notSupported("floating point value %v for %q", v, name)
	default:
		return filter.Value{}, notSupported("value of type %T for %q", v, name)
	}
}

func kindName(k celast.ExprKind) string {
	switch k {
	case celast.LiteralKind:
		return "literal"
	case celast.ListKind:
		return "list"
	case celast.MapKind:
		return "map"
	case celast.StructKind:
		return "struct"
	case celast.SelectKind:
		return "field selection"
	default:
		return "unknown"
	}
}

func displayName(fn string) string {
	if name, ok := operators.FindReverse(fn); ok {
		return name
	}
	return fn
}
