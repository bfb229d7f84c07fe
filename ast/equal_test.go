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
	"math"
	"testing"

	"github.com/prometheus-community/promql-ast/token"
)

// TestNumberLiteralNaNEquality is P5: NaN == NaN under the node's equality
// relation.
func TestNumberLiteralNaNEquality(t *testing.T) {
	a := &NumberLiteral{Val: math.NaN()}
	b := &NumberLiteral{Val: math.NaN()}
	if !a.Equal(b) {
		t.Fatal("NaN literal: want equal to another NaN literal")
	}
	if !Equal(a, b) {
		t.Fatal("Equal(NaN, NaN): want true")
	}

	if (&NumberLiteral{Val: 1}).Equal(&NumberLiteral{Val: 2}) {
		t.Fatal("1 != 2: want not equal")
	}
}

func TestEqualVectorSelector(t *testing.T) {
	a := VectorSelectorForName("x")
	b := VectorSelectorForName("x")
	c := VectorSelectorForName("y")

	if !Equal(a, b) {
		t.Fatal("same metric name: want equal")
	}
	if Equal(a, c) {
		t.Fatal("different metric name: want not equal")
	}
}

func TestEqualBinaryExprComparesModifier(t *testing.T) {
	lhs, rhs := VectorSelectorForName("x"), VectorSelectorForName("y")

	withOn := NewBinaryExpr(lhs, token.ADD, &BinModifier{Matching: NewIncludeModifier(NewLabelSet("job"))}, rhs)
	withIgnoring := NewBinaryExpr(VectorSelectorForName("x"), token.ADD,
		&BinModifier{Matching: NewExcludeModifier(NewLabelSet("job"))}, VectorSelectorForName("y"))

	if Equal(withOn, withIgnoring) {
		t.Fatal("on(job) vs ignoring(job): want not equal")
	}

	withOnAgain := NewBinaryExpr(VectorSelectorForName("x"), token.ADD,
		&BinModifier{Matching: NewIncludeModifier(NewLabelSet("job"))}, VectorSelectorForName("y"))
	if !Equal(withOn, withOnAgain) {
		t.Fatal("structurally identical binary exprs: want equal")
	}
}

func TestEqualNilHandling(t *testing.T) {
	if !Equal(nil, nil) {
		t.Fatal("Equal(nil, nil): want true")
	}
	if Equal(nil, &NumberLiteral{Val: 1}) || Equal(&NumberLiteral{Val: 1}, nil) {
		t.Fatal("Equal(nil, non-nil): want false")
	}
}
