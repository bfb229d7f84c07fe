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

// Package ast is the tagged-variant PromQL expression tree and its
// semantic validation pass. See spec.md for the authoritative contract;
// SPEC_FULL.md documents the ambient and domain stack this package carries.
package ast

import (
	"time"

	"github.com/prometheus-community/promql-ast/functions"
	"github.com/prometheus-community/promql-ast/token"
	"github.com/prometheus-community/promql-ast/value"
)

// Expr is any node in the PromQL abstract syntax tree. The set of concrete
// types satisfying it is closed to the eleven variants below, the last of
// which is the open Extension escape hatch (spec.md §9): AggregateExpr, UnaryExpr,
// BinaryExpr, ParenExpr, SubqueryExpr, NumberLiteral, StringLiteral,
// VectorSelector, MatrixSelector, Call, Extension. exprNode is unexported
// so no type outside this package can satisfy Expr directly; Extension is
// the only sanctioned way to extend the tree.
type Expr interface {
	// Type returns the value type this expression evaluates to.
	Type() value.Type
	exprNode()
}

// EvalStmt binds a parsed expression to the time range a downstream
// evaluator should run it over. Evaluation itself is out of scope (spec.md
// §1 Non-goals); EvalStmt is carried as a plain data record — ported from
// the original implementation's EvalStmt — so an evaluator has somewhere
// to attach start/end/interval without the core needing to know about it.
type EvalStmt struct {
	Expr Expr

	Start          time.Time
	End            time.Time
	Interval       time.Duration
	LookbackDelta  time.Duration
}

// AggregateExpr is an aggregation operation over a vector, e.g.
// `sum by (job) (rate(x[5m]))` or `topk(5, x)`.
type AggregateExpr struct {
	Op       token.Type
	Expr     Expr
	Param    Expr // only set for topk/bottomk/quantile/count_values
	Modifier *LabelModifier
}

func (*AggregateExpr) exprNode()        {}
func (*AggregateExpr) Type() value.Type { return value.Vector }

// UnaryExpr negates its operand. Only legal on Scalar or Vector operands;
// see NewUnaryExpr.
type UnaryExpr struct {
	Expr Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) Type() value.Type { return u.Expr.Type() }

// BinaryExpr is a binary operation between two expressions.
type BinaryExpr struct {
	Op       token.Type
	LHS      Expr
	RHS      Expr
	Modifier *BinModifier
}

func (*BinaryExpr) exprNode() {}

// Type is Scalar iff both operands are Scalar, else Vector (spec.md §3).
func (b *BinaryExpr) Type() value.Type {
	if b.LHS.Type() == value.Scalar && b.RHS.Type() == value.Scalar {
		return value.Scalar
	}
	return value.Vector
}

// ReturnBool reports whether the binary expression's modifier requests
// bool-mode comparison (0/1 rather than filtering).
func (b *BinaryExpr) ReturnBool() bool {
	return b.Modifier != nil && b.Modifier.ReturnBool
}

// IsMatchingOn reports whether the modifier's label list is `on`.
func (b *BinaryExpr) IsMatchingOn() bool {
	return b.Modifier != nil && b.Modifier.IsMatchingOn()
}

// IsMatchingLabelsNotEmpty reports whether a non-empty on/ignoring list is
// present.
func (b *BinaryExpr) IsMatchingLabelsNotEmpty() bool {
	return b.Modifier != nil && b.Modifier.IsMatchingLabelsNotEmpty()
}

// IsLabelsJoint reports whether the group_left/group_right labels and the
// on/ignoring labels share a member.
func (b *BinaryExpr) IsLabelsJoint() bool {
	return b.Modifier != nil && b.Modifier.IsLabelsJoint()
}

// IntersectLabels returns the labels shared between group and on/ignoring
// lists, sorted lexicographically.
func (b *BinaryExpr) IntersectLabels() []string {
	if b.Modifier == nil {
		return nil
	}
	return b.Modifier.IntersectLabels()
}

// ParenExpr wraps an expression so operator precedence can't disassemble it.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) exprNode()        {}
func (p *ParenExpr) Type() value.Type { return p.Expr.Type() }

// SubqueryExpr represents `<instant query>[<range>:<resolution>]`.
type SubqueryExpr struct {
	Expr   Expr
	Offset *Offset
	At     *AtModifier
	Range  time.Duration
	Step   *time.Duration // nil means the global evaluation interval.
}

func (*SubqueryExpr) exprNode()        {}
func (*SubqueryExpr) Type() value.Type { return value.Matrix }

// NumberLiteral is a scalar constant.
type NumberLiteral struct {
	Val float64
}

func (*NumberLiteral) exprNode()        {}
func (*NumberLiteral) Type() value.Type { return value.Scalar }

// scalarValue satisfies the unexported scalarValuer interface that
// isNonFiniteOrNonPositiveLiteral type-asserts against for the exp/ln/log2/log10
// special case (spec.md §4.3.3).
func (n *NumberLiteral) scalarValue() float64 { return n.Val }

// Equal compares two number literals, treating NaN as equal to NaN so that
// structural equality of a tree is reflexive (spec.md §8 P5, §9).
func (n *NumberLiteral) Equal(other *NumberLiteral) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Val == other.Val || (isNaN(n.Val) && isNaN(other.Val))
}

func isNaN(f float64) bool { return f != f }

// StringLiteral is a string constant.
type StringLiteral struct {
	Val string
}

func (*StringLiteral) exprNode()        {}
func (*StringLiteral) Type() value.Type { return value.String }

// VectorSelector selects a set of time series by label matchers, with
// optional set-once offset and @ modifiers.
type VectorSelector struct {
	Name     *string
	Matchers Matchers
	Offset   *Offset
	At       *AtModifier
}

func (*VectorSelector) exprNode()        {}
func (*VectorSelector) Type() value.Type { return value.Vector }

// VectorSelectorForName builds a VectorSelector for a bare metric name,
// synthesizing the `__name__` equality matcher — ported from the original
// implementation's `impl From<String> for VectorSelector` (SPEC_FULL.md §3).
func VectorSelectorForName(name string) *VectorSelector {
	n := name
	return &VectorSelector{
		Name:     &n,
		Matchers: Matchers{NewMetricNameMatcher(name)},
	}
}

// MatrixSelector wraps a bare vector selector with a range, e.g. `x[5m]`.
type MatrixSelector struct {
	VectorSelector *VectorSelector
	Range          time.Duration
}

func (*MatrixSelector) exprNode()        {}
func (*MatrixSelector) Type() value.Type { return value.Matrix }

// Call is a function call.
type Call struct {
	Func *functions.Function
	Args []Expr
}

func (*Call) exprNode() {}

// Type is the function's declared return type.
func (c *Call) Type() value.Type { return c.Func.ReturnType }
