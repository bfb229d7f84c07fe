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

import "fmt"

// goSyntax renders v the way Rust's `{:?}` Debug format is used for
// Extension equality (spec.md §6, §9): a deliberately weak, textual
// contract.
func goSyntax(v any) string {
	return fmt.Sprintf("%#v", v)
}

// Equal reports whether two expression trees are structurally equal.
// NumberLiteral comparison treats NaN as equal to NaN (spec.md §8 P5);
// every other variant compares its fields recursively.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case *NumberLiteral:
		bv, ok := b.(*NumberLiteral)
		return ok && av.Equal(bv)

	case *StringLiteral:
		bv, ok := b.(*StringLiteral)
		return ok && av.Val == bv.Val

	case *VectorSelector:
		bv, ok := b.(*VectorSelector)
		if !ok {
			return false
		}
		return equalStringPtr(av.Name, bv.Name) &&
			equalMatchers(av.Matchers, bv.Matchers) &&
			equalOffset(av.Offset, bv.Offset) &&
			equalAt(av.At, bv.At)

	case *MatrixSelector:
		bv, ok := b.(*MatrixSelector)
		return ok && av.Range == bv.Range && Equal(av.VectorSelector, bv.VectorSelector)

	case *ParenExpr:
		bv, ok := b.(*ParenExpr)
		return ok && Equal(av.Expr, bv.Expr)

	case *UnaryExpr:
		bv, ok := b.(*UnaryExpr)
		return ok && Equal(av.Expr, bv.Expr)

	case *SubqueryExpr:
		bv, ok := b.(*SubqueryExpr)
		if !ok {
			return false
		}
		return Equal(av.Expr, bv.Expr) && av.Range == bv.Range &&
			equalDurationPtr(av.Step, bv.Step) &&
			equalOffset(av.Offset, bv.Offset) && equalAt(av.At, bv.At)

	case *AggregateExpr:
		bv, ok := b.(*AggregateExpr)
		if !ok {
			return false
		}
		return av.Op == bv.Op && Equal(av.Expr, bv.Expr) && Equal(av.Param, bv.Param) &&
			equalLabelModifier(av.Modifier, bv.Modifier)

	case *BinaryExpr:
		bv, ok := b.(*BinaryExpr)
		if !ok {
			return false
		}
		return av.Op == bv.Op && Equal(av.LHS, bv.LHS) && Equal(av.RHS, bv.RHS) &&
			equalBinModifier(av.Modifier, bv.Modifier)

	case *Call:
		bv, ok := b.(*Call)
		if !ok || av.Func.Name != bv.Func.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true

	case *Extension:
		bv, ok := b.(*Extension)
		return ok && av.Equal(bv)

	default:
		return false
	}
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDurationPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalOffset(a, b *Offset) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalAt(a, b *AtModifier) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Time.Equal(b.Time)
}

func equalLabelSet(a, b LabelSet) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if !b.Has(name) {
			return false
		}
	}
	return true
}

func equalLabelModifier(a, b *LabelModifier) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && equalLabelSet(a.Labels, b.Labels)
}

func equalCardinality(a, b VectorMatchCardinality) bool {
	if a.Kind != b.Kind {
		return false
	}
	ga, _ := a.GroupLabels()
	gb, _ := b.GroupLabels()
	return equalLabelSet(ga, gb)
}

func equalBinModifier(a, b *BinModifier) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ReturnBool == b.ReturnBool && equalCardinality(a.Card, b.Card) &&
		equalLabelModifier(a.Matching, b.Matching)
}

func equalMatchers(a, b Matchers) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}
