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
	"time"

	"github.com/prometheus-community/promql-ast/functions"
	"github.com/prometheus-community/promql-ast/token"
	"github.com/prometheus-community/promql-ast/value"
)

// Builder functions are called bottom-up by the grammar driver as it
// reduces a parse. Each either returns a new node or a diagnostic; none
// recurse into children that were already built (spec.md §4.1).

// NewVectorSelector builds a VectorSelector with no offset/@ modifier set.
// No validation happens here — non-emptiness and metric-name uniqueness are
// checked later by CheckAST.
func NewVectorSelector(name *string, matchers Matchers) *VectorSelector {
	return &VectorSelector{Name: name, Matchers: matchers}
}

// Negate returns the negation of expr: a NumberLiteral negates in place,
// any other expression is wrapped in a UnaryExpr. It performs no type
// checking; NewUnaryExpr is the checked entry point (SPEC_FULL.md §3.3).
func Negate(expr Expr) Expr {
	if n, ok := expr.(*NumberLiteral); ok {
		return &NumberLiteral{Val: -n.Val}
	}
	return &UnaryExpr{Expr: expr}
}

// NewUnaryExpr negates expr, rejecting String and Matrix operands.
func NewUnaryExpr(expr Expr) (Expr, error) {
	switch expr.Type() {
	case value.String:
		return nil, errors.New("unary expression only allowed on expressions of type scalar or vector, got: string")
	case value.Matrix:
		return nil, errors.New("unary expression only allowed on expressions of type scalar or vector, got: matrix")
	default:
		return Negate(expr), nil
	}
}

// NewSubqueryExpr wraps expr as a subquery over range, sampled every step
// (nil meaning the global evaluation interval). No type check happens
// here; it is deferred to CheckAST.
func NewSubqueryExpr(expr Expr, rng time.Duration, step *time.Duration) *SubqueryExpr {
	return &SubqueryExpr{Expr: expr, Range: rng, Step: step}
}

// NewParenExpr wraps expr so operator precedence can't disassemble it.
func NewParenExpr(expr Expr) *ParenExpr {
	return &ParenExpr{Expr: expr}
}

// NewMatrixSelector wraps expr, which must be a bare VectorSelector with
// neither offset nor @ already set, into a range selection. @ and offset
// may still be attached afterwards, to the MatrixSelector itself.
func NewMatrixSelector(expr Expr, rng time.Duration) (*MatrixSelector, error) {
	vs, ok := expr.(*VectorSelector)
	if !ok {
		return nil, errors.New("ranges only allowed for vector selectors")
	}
	if vs.Offset != nil {
		return nil, errors.New("no offset modifiers allowed before range")
	}
	if vs.At != nil {
		return nil, errors.New("no @ modifiers allowed before range")
	}
	return &MatrixSelector{VectorSelector: vs, Range: rng}, nil
}

// NewCall wraps a function and its arguments. Arity and argument-type
// checking is deferred to CheckAST.
func NewCall(fn *functions.Function, args []Expr) *Call {
	return &Call{Func: fn, Args: args}
}

// NewBinaryExpr wraps lhs/rhs under op and modifier. Operator legality,
// cardinality normalisation and operand-type checks are deferred to
// CheckAST.
func NewBinaryExpr(lhs Expr, op token.Type, modifier *BinModifier, rhs Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs, Modifier: modifier}
}

// NewAggregateExpr builds an aggregation, checking arity immediately:
// parameterised aggregators (topk, bottomk, quantile, count_values) require
// exactly 2 arguments (parameter, then the aggregated vector); every other
// aggregator requires exactly 1.
func NewAggregateExpr(op token.Type, modifier *LabelModifier, args []Expr) (*AggregateExpr, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments for aggregate expression '%s' provided", op)
	}

	desired := 1
	var param Expr
	if op.IsAggregatorWithParam() {
		desired = 2
		param = args[0]
	}

	if len(args) != desired {
		return nil, fmt.Errorf("wrong number of arguments for aggregate expression provided, expected %d, got %d", desired, len(args))
	}

	return &AggregateExpr{
		Op:       op,
		Expr:     args[len(args)-1],
		Param:    param,
		Modifier: modifier,
	}, nil
}

var (
	errAtAlreadySet     = errors.New("@ <timestamp> may not be set multiple times")
	errOffsetAlreadySet = errors.New("offset may not be set multiple times")
)

// AtExpr sets expr's @ modifier. It is a set-once operation: VectorSelector,
// MatrixSelector (which recurses into its inner selector) and Subquery
// accept it; anything else is rejected. Calling it twice on the same node
// is rejected too.
func AtExpr(expr Expr, at AtModifier) (Expr, error) {
	switch n := expr.(type) {
	case *VectorSelector:
		if n.At != nil {
			return nil, errAtAlreadySet
		}
		n.At = &at
		return n, nil
	case *MatrixSelector:
		if n.VectorSelector.At != nil {
			return nil, errAtAlreadySet
		}
		n.VectorSelector.At = &at
		return n, nil
	case *SubqueryExpr:
		if n.At != nil {
			return nil, errAtAlreadySet
		}
		n.At = &at
		return n, nil
	default:
		return nil, errors.New("@ modifier must be preceded by an vector selector or matrix selector or a subquery")
	}
}

// OffsetExpr sets expr's offset modifier. Same set-once rules as AtExpr.
func OffsetExpr(expr Expr, offset Offset) (Expr, error) {
	switch n := expr.(type) {
	case *VectorSelector:
		if n.Offset != nil {
			return nil, errOffsetAlreadySet
		}
		n.Offset = &offset
		return n, nil
	case *MatrixSelector:
		if n.VectorSelector.Offset != nil {
			return nil, errOffsetAlreadySet
		}
		n.VectorSelector.Offset = &offset
		return n, nil
	case *SubqueryExpr:
		if n.Offset != nil {
			return nil, errOffsetAlreadySet
		}
		n.Offset = &offset
		return n, nil
	default:
		return nil, errors.New("offset modifier must be preceded by an vector selector or matrix selector or a subquery")
	}
}
