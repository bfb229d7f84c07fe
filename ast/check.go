// Copyright 2020 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/prometheus/prometheus/model/labels"

	"github.com/prometheus-community/promql-ast/token"
	"github.com/prometheus-community/promql-ast/value"
)

// CheckAST performs the whole-tree semantic validation pass (spec.md §4.3):
// binary operator legality, aggregate arity/parameter types, call arity and
// argument types, unary/subquery operand types, and vector-selector
// non-emptiness/metric-name uniqueness. It traverses the tree post-order, so
// unlike the original implementation (which checks only the current node and
// trusts that children were checked when built) it is safe to call on any
// tree regardless of how it was assembled; the accept/reject decision is the
// same either way (spec.md §9, open question).
func CheckAST(expr Expr) (Expr, error) {
	switch e := expr.(type) {
	case *BinaryExpr:
		if _, err := CheckAST(e.LHS); err != nil {
			return nil, err
		}
		if _, err := CheckAST(e.RHS); err != nil {
			return nil, err
		}
		return checkBinaryExpr(e)

	case *AggregateExpr:
		if _, err := CheckAST(e.Expr); err != nil {
			return nil, err
		}
		if e.Param != nil {
			if _, err := CheckAST(e.Param); err != nil {
				return nil, err
			}
		}
		return checkAggregateExpr(e)

	case *UnaryExpr:
		if _, err := CheckAST(e.Expr); err != nil {
			return nil, err
		}
		return checkUnaryExpr(e)

	case *ParenExpr:
		if _, err := CheckAST(e.Expr); err != nil {
			return nil, err
		}
		return e, nil

	case *SubqueryExpr:
		if _, err := CheckAST(e.Expr); err != nil {
			return nil, err
		}
		return checkSubqueryExpr(e)

	case *Call:
		for _, arg := range e.Args {
			if _, err := CheckAST(arg); err != nil {
				return nil, err
			}
		}
		return checkCall(e)

	case *VectorSelector:
		return checkVectorSelector(e)

	default:
		// MatrixSelector, NumberLiteral, StringLiteral, Extension carry no
		// semantic constraints of their own (spec.md §4.3.6).
		return expr, nil
	}
}

func isScalarOrVector(t value.Type) bool {
	return t == value.Scalar || t == value.Vector
}

func checkBinaryExpr(b *BinaryExpr) (Expr, error) {
	opDisplay := b.Op.String()

	if !b.Op.IsOperator() {
		return nil, fmt.Errorf("binary expression does not support operator '%s'", opDisplay)
	}

	if b.ReturnBool() && !b.Op.IsComparisonOperator() {
		return nil, errors.New("bool modifier can only be used on comparison operators")
	}

	lhsType, rhsType := b.LHS.Type(), b.RHS.Type()

	if b.Op.IsComparisonOperator() && lhsType == value.Scalar && rhsType == value.Scalar && !b.ReturnBool() {
		return nil, errors.New("comparisons between scalars must use BOOL modifier")
	}

	if b.IsMatchingOn() && b.IsLabelsJoint() {
		shared := b.IntersectLabels()
		return nil, fmt.Errorf("label '%s' must not occur in ON and GROUP clause at once", shared[0])
	}

	if b.Op.IsSetOperator() {
		if lhsType == value.Scalar || rhsType == value.Scalar {
			return nil, fmt.Errorf("set operator '%s' not allowed in binary scalar expression", opDisplay)
		}
		if lhsType == value.Vector && rhsType == value.Vector && b.Modifier != nil &&
			(b.Modifier.Card.Kind == OneToMany || b.Modifier.Card.Kind == ManyToOne) {
			return nil, fmt.Errorf("no grouping allowed for '%s' operation", opDisplay)
		}
		switch {
		case b.Modifier == nil:
			b.Modifier = &BinModifier{Card: VectorMatchCardinality{Kind: ManyToMany}}
		case b.Modifier.Card.Kind == OneToOne:
			b.Modifier.Card.Kind = ManyToMany
		}
	}

	if !isScalarOrVector(lhsType) || !isScalarOrVector(rhsType) {
		return nil, errors.New("binary expression must contain only scalar and instant vector types")
	}

	if b.IsMatchingLabelsNotEmpty() && !(lhsType == value.Vector && rhsType == value.Vector) {
		return nil, errors.New("vector matching only allowed between vectors")
	}

	return b, nil
}

func checkAggregateExpr(a *AggregateExpr) (Expr, error) {
	if !a.Op.IsAggregator() {
		return nil, fmt.Errorf("aggregation operator expected in aggregation expression but got '%s'", a.Op)
	}
	if a.Expr.Type() != value.Vector {
		return nil, fmt.Errorf("expected type vector in aggregation expression, got %s", a.Expr.Type())
	}

	switch a.Op {
	case token.TOPK, token.BOTTOMK, token.QUANTILE:
		if a.Param.Type() != value.Scalar {
			return nil, fmt.Errorf("expected type scalar in aggregation parameter, got %s", a.Param.Type())
		}
	case token.COUNT_VALUES:
		if a.Param.Type() != value.String {
			return nil, fmt.Errorf("expected type string in aggregation parameter, got %s", a.Param.Type())
		}
	}

	return a, nil
}

// scalarValuer is satisfied only by *NumberLiteral. isNonFiniteOrNonPositiveLiteral
// type-asserts against it rather than against *NumberLiteral directly, mirroring
// the original's Option<f64> accessor that is only ever populated for a number
// literal argument (spec.md §4.3.3, §9).
type scalarValuer interface {
	scalarValue() float64
}

func isNonFiniteOrNonPositiveLiteral(args []Expr, rejectNonPositive bool) bool {
	if len(args) == 0 {
		return false
	}
	lit, ok := args[0].(scalarValuer)
	if !ok {
		return false
	}
	val := lit.scalarValue()
	if isNaN(val) || math.IsInf(val, 0) {
		return true
	}
	return rejectNonPositive && val <= 0
}

// callSpecialCase implements the exp/ln/log2/log10 case-insensitive early
// accept for non-finite or non-positive scalar literal arguments (spec.md
// §4.3.3, §9).
func callSpecialCase(name string, args []Expr) bool {
	switch strings.ToLower(name) {
	case "exp":
		return isNonFiniteOrNonPositiveLiteral(args, false)
	case "ln", "log2", "log10":
		return isNonFiniteOrNonPositiveLiteral(args, true)
	default:
		return false
	}
}

func checkCall(c *Call) (Expr, error) {
	f := c.Func
	expected, got := len(f.ArgTypes), len(c.Args)

	if f.Variadic {
		if expected-1 > got {
			return nil, fmt.Errorf("expected at least %d argument(s) in call to '%s', got %d", expected-1, f.Name, got)
		}
		if got > expected && !strings.EqualFold(f.Name, "label_join") {
			return nil, fmt.Errorf("expected at most %d argument(s) in call to '%s', got %d", expected, f.Name, got)
		}
	} else if expected != got {
		return nil, fmt.Errorf("expected %d argument(s) in call to '%s', got %d", expected, f.Name, got)
	}

	if callSpecialCase(f.Name, c.Args) {
		return c, nil
	}

	for i, arg := range c.Args {
		slot := i
		if slot > expected-1 {
			slot = expected - 1
		}
		if slot < 0 {
			continue
		}
		if want := f.ArgTypes[slot]; arg.Type() != want {
			return nil, fmt.Errorf("expected type %s in call to function '%s', got %s", want, f.Name, arg.Type())
		}
	}

	return c, nil
}

func checkUnaryExpr(u *UnaryExpr) (Expr, error) {
	if t := u.Expr.Type(); t != value.Scalar && t != value.Vector {
		return nil, fmt.Errorf("unary expression only allowed on expressions of type scalar or vector, got: %s", t)
	}
	return u, nil
}

func checkSubqueryExpr(s *SubqueryExpr) (Expr, error) {
	if s.Expr.Type() != value.Vector {
		return nil, fmt.Errorf("expected type vector in subquery expression, got %s", s.Expr.Type())
	}
	return s, nil
}

func checkVectorSelector(v *VectorSelector) (Expr, error) {
	if v.Matchers.IsEmptyMatchers() {
		return nil, errors.New("vector selector must contain at least one non-empty matcher")
	}

	names := v.Matchers.FindMatchers(labels.MetricName)
	if len(names) >= 2 {
		return nil, fmt.Errorf("metric name must not be set twice: '%s' or '%s'", names[0], names[1])
	}

	return v, nil
}
