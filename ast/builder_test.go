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
	"testing"
	"time"

	"github.com/prometheus-community/promql-ast/functions"
	"github.com/prometheus-community/promql-ast/token"
)

func TestNegate(t *testing.T) {
	n := Negate(&NumberLiteral{Val: 3})
	lit, ok := n.(*NumberLiteral)
	if !ok || lit.Val != -3 {
		t.Fatalf("Negate(3) = %#v, want NumberLiteral{-3}", n)
	}

	wrapped := Negate(VectorSelectorForName("x"))
	if _, ok := wrapped.(*UnaryExpr); !ok {
		t.Fatalf("Negate(vector) = %#v, want *UnaryExpr", wrapped)
	}
}

func TestNewUnaryExprRejectsStringAndMatrix(t *testing.T) {
	_, err := NewUnaryExpr(&StringLiteral{Val: "x"})
	wantString := "unary expression only allowed on expressions of type scalar or vector, got: string"
	if err == nil || err.Error() != wantString {
		t.Fatalf("NewUnaryExpr(string) error = %v, want %q", err, wantString)
	}

	ms, err := NewMatrixSelector(VectorSelectorForName("x"), 5*time.Minute)
	if err != nil {
		t.Fatalf("NewMatrixSelector: %v", err)
	}
	_, err = NewUnaryExpr(ms)
	wantMatrix := "unary expression only allowed on expressions of type scalar or vector, got: matrix"
	if err == nil || err.Error() != wantMatrix {
		t.Fatalf("NewUnaryExpr(matrix) error = %v, want %q", err, wantMatrix)
	}
}

func TestNewMatrixSelectorRejectsNonSelector(t *testing.T) {
	_, err := NewMatrixSelector(&NumberLiteral{Val: 1}, time.Minute)
	if err == nil || err.Error() != "ranges only allowed for vector selectors" {
		t.Fatalf("got %v", err)
	}
}

func TestNewMatrixSelectorRejectsPriorModifiers(t *testing.T) {
	vs := VectorSelectorForName("x")
	vs.Offset = &Offset{Kind: Pos, Duration: time.Minute}
	if _, err := NewMatrixSelector(vs, time.Minute); err == nil || err.Error() != "no offset modifiers allowed before range" {
		t.Fatalf("got %v", err)
	}

	vs2 := VectorSelectorForName("x")
	vs2.At = &AtModifier{Kind: AtStart}
	if _, err := NewMatrixSelector(vs2, time.Minute); err == nil || err.Error() != "no @ modifiers allowed before range" {
		t.Fatalf("got %v", err)
	}
}

func TestNewAggregateExprArity(t *testing.T) {
	x := VectorSelectorForName("x")

	if _, err := NewAggregateExpr(token.SUM, nil, nil); err == nil ||
		err.Error() != "no arguments for aggregate expression 'sum' provided" {
		t.Fatalf("got %v", err)
	}

	// topk requires 2 arguments: a parameter, then the aggregated vector.
	_, err := NewAggregateExpr(token.TOPK, nil, []Expr{x})
	want := "wrong number of arguments for aggregate expression provided, expected 2, got 1"
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}

	agg, err := NewAggregateExpr(token.TOPK, nil, []Expr{&NumberLiteral{Val: 5}, x})
	if err != nil {
		t.Fatalf("NewAggregateExpr: %v", err)
	}
	if agg.Param == nil || agg.Expr != x {
		t.Fatalf("topk: param/expr not wired correctly: %#v", agg)
	}

	single, err := NewAggregateExpr(token.SUM, nil, []Expr{x})
	if err != nil || single.Param != nil || single.Expr != x {
		t.Fatalf("sum: got %#v, %v", single, err)
	}
}

func TestAtExprSetOnce(t *testing.T) {
	vs := VectorSelectorForName("x")
	at, _ := NewAtModifierFromToken(token.START)

	if _, err := AtExpr(vs, at); err != nil {
		t.Fatalf("first AtExpr: %v", err)
	}

	_, err := AtExpr(vs, at)
	if err == nil || err.Error() != "@ <timestamp> may not be set multiple times" {
		t.Fatalf("second AtExpr: got %v", err)
	}
}

func TestOffsetExprSetOnce(t *testing.T) {
	vs := VectorSelectorForName("x")
	off := Offset{Kind: Pos, Duration: 5 * time.Minute}

	if _, err := OffsetExpr(vs, off); err != nil {
		t.Fatalf("first OffsetExpr: %v", err)
	}

	_, err := OffsetExpr(vs, off)
	if err == nil || err.Error() != "offset may not be set multiple times" {
		t.Fatalf("second OffsetExpr: got %v", err)
	}
}

func TestAtExprRejectsWrongNodeKind(t *testing.T) {
	at, _ := NewAtModifierFromToken(token.END)
	_, err := AtExpr(&NumberLiteral{Val: 1}, at)
	want := "@ modifier must be preceded by an vector selector or matrix selector or a subquery"
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
}

func TestAtExprOnMatrixSelectorRecursesToInnerSelector(t *testing.T) {
	ms, err := NewMatrixSelector(VectorSelectorForName("x"), 5*time.Minute)
	if err != nil {
		t.Fatalf("NewMatrixSelector: %v", err)
	}
	at, _ := NewAtModifierFromToken(token.START)
	if _, err := AtExpr(ms, at); err != nil {
		t.Fatalf("AtExpr(matrix): %v", err)
	}
	if ms.VectorSelector.At == nil {
		t.Fatal("AtExpr(matrix) did not set the inner selector's At")
	}
}

func TestNewCallAndNewBinaryExprWrapWithoutChecks(t *testing.T) {
	rate, _ := functions.Default.Lookup("rate")
	call := NewCall(rate, []Expr{&StringLiteral{Val: "not a matrix, unchecked at this stage"}})
	if call.Func != rate || len(call.Args) != 1 {
		t.Fatalf("NewCall did not wire call: %#v", call)
	}

	bin := NewBinaryExpr(&NumberLiteral{Val: 1}, token.ADD, nil, &NumberLiteral{Val: 2})
	if bin.Op != token.ADD {
		t.Fatalf("NewBinaryExpr: %#v", bin)
	}
}
