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

// Package token classifies the PromQL operator and aggregator keywords that
// the AST's semantic checks need to reason about. It is deliberately small:
// the full lexical grammar (identifiers, durations, numbers, punctuation)
// belongs to the external grammar driver (see package lexer), not here.
package token

// Type identifies a binary operator or aggregator keyword by its PromQL
// surface syntax.
type Type int

const (
	// Arithmetic operators.
	ADD Type = iota
	SUB
	MUL
	DIV
	MOD
	POW

	// Comparison operators.
	EQL
	NEQ
	GTR
	LSS
	GTE
	LTE

	// Set operators.
	LAND
	LOR
	LUNLESS

	// Aggregators.
	SUM
	AVG
	MAX
	MIN
	COUNT
	GROUP
	STDDEV
	STDVAR
	TOPK
	BOTTOMK
	QUANTILE
	COUNT_VALUES

	// AtModifier preprocessor keywords.
	START
	END
)

var display = map[Type]string{
	ADD: "+", SUB: "-", MUL: "*", DIV: "/", MOD: "%", POW: "^",
	EQL: "==", NEQ: "!=", GTR: ">", LSS: "<", GTE: ">=", LTE: "<=",
	LAND: "and", LOR: "or", LUNLESS: "unless",
	SUM: "sum", AVG: "avg", MAX: "max", MIN: "min", COUNT: "count",
	GROUP: "group", STDDEV: "stddev", STDVAR: "stdvar",
	TOPK: "topk", BOTTOMK: "bottomk", QUANTILE: "quantile", COUNT_VALUES: "count_values",
	START: "start", END: "end",
}

// String renders the operator the way it appears in diagnostics, e.g. "+",
// "and", "topk".
func (t Type) String() string {
	if s, ok := display[t]; ok {
		return s
	}
	return "<invalid>"
}

var byName = func() map[string]Type {
	m := make(map[string]Type, len(display))
	for t, s := range display {
		m[s] = t
	}
	// START/END are named in upper case, while a query writes the @
	// modifier keywords as lower-case `start()`/`end()`; keep both
	// spellings resolvable from text.
	m["START"] = START
	m["END"] = END
	return m
}()

// Lookup resolves the textual spelling of an operator or aggregator keyword
// (case-sensitive, as written in a query) to its Type. It is used by the
// lexer/parser glue, not by the core builders, which always receive an
// already-resolved Type.
func Lookup(s string) (Type, bool) {
	t, ok := byName[s]
	return t, ok
}

var operators = map[Type]bool{
	ADD: true, SUB: true, MUL: true, DIV: true, MOD: true, POW: true,
	EQL: true, NEQ: true, GTR: true, LSS: true, GTE: true, LTE: true,
	LAND: true, LOR: true, LUNLESS: true,
}

// IsOperator reports whether t is a binary operator (arithmetic, comparison
// or set). Aggregators are not operators.
func (t Type) IsOperator() bool { return operators[t] }

var comparisonOperators = map[Type]bool{
	EQL: true, NEQ: true, GTR: true, LSS: true, GTE: true, LTE: true,
}

// IsComparisonOperator reports whether t is one of ==, !=, >, <, >=, <=.
func (t Type) IsComparisonOperator() bool { return comparisonOperators[t] }

var setOperators = map[Type]bool{
	LAND: true, LOR: true, LUNLESS: true,
}

// IsSetOperator reports whether t is one of and, or, unless.
func (t Type) IsSetOperator() bool { return setOperators[t] }

var aggregators = map[Type]bool{
	SUM: true, AVG: true, MAX: true, MIN: true, COUNT: true, GROUP: true,
	STDDEV: true, STDVAR: true, TOPK: true, BOTTOMK: true, QUANTILE: true,
	COUNT_VALUES: true,
}

// IsAggregator reports whether t names an aggregation operator.
func (t Type) IsAggregator() bool { return aggregators[t] }

var aggregatorsWithParam = map[Type]bool{
	TOPK: true, BOTTOMK: true, QUANTILE: true, COUNT_VALUES: true,
}

// IsAggregatorWithParam reports whether t is an aggregator that takes a
// leading parameter argument in addition to the aggregated vector:
// topk, bottomk, quantile and count_values.
func (t Type) IsAggregatorWithParam() bool { return aggregatorsWithParam[t] }
