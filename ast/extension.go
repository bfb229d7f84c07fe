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

import "github.com/prometheus-community/promql-ast/value"

// ExtensionExpr is the interface a host application implements to attach a
// custom expression node to the tree. The core parser never produces one;
// it only propagates the declared value type and exposes the children for
// later passes to traverse uniformly (spec.md §1, §9).
type ExtensionExpr interface {
	// Name identifies the extension's kind, for diagnostics.
	Name() string
	// ValueType is the value type this extension evaluates to.
	ValueType() value.Type
	// Children returns the sub-expressions this extension owns.
	Children() []Expr
}

// Extension wraps a host-supplied ExtensionExpr so it can appear anywhere
// an Expr is expected.
type Extension struct {
	Expr ExtensionExpr
}

func (e *Extension) exprNode() {}

// Type returns the extension's declared value type.
func (e *Extension) Type() value.Type {
	return e.Expr.ValueType()
}

// Equal reports whether two extensions are equal. Per spec.md §6/§9 this is
// deliberately a weak contract: equal iff their %#v (Go-syntax / debug)
// representations match.
func (e *Extension) Equal(other *Extension) bool {
	if e == nil || other == nil {
		return e == other
	}
	return goSyntax(e.Expr) == goSyntax(other.Expr)
}

// NewExtension wraps a host-supplied extension expression as an Expr.
func NewExtension(expr ExtensionExpr) Expr {
	return &Extension{Expr: expr}
}
