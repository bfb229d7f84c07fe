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

// Package functions provides the external function catalog that
// Call expressions are checked against: arity, argument value types,
// variadicity and return type. It is deliberately a stand-alone collaborator
// (see spec.md §6, "external function catalog") so that callers can supply
// their own table via lexer.WithFunctionCatalog without touching the AST or
// CheckAST code.
package functions

import "github.com/prometheus-community/promql-ast/value"

// Function describes a PromQL builtin: its name, the value type of each
// declared argument slot, whether it is variadic (the last declared slot
// repeats for any extra arguments), and its return type.
type Function struct {
	Name       string
	ArgTypes   []value.Type
	Variadic   bool
	ReturnType value.Type
}

// Catalog is a lookup table of functions keyed by name.
type Catalog map[string]*Function

// Lookup resolves name to its Function, exact-match (case-sensitive), as
// required by spec.md §9 ("all other builtin lookups are exact-match from
// the catalog"). The exp/ln/log2/log10 case-insensitive special case lives
// in the checker, not here.
func (c Catalog) Lookup(name string) (*Function, bool) {
	f, ok := c[name]
	return f, ok
}

func fn(name string, ret value.Type, variadic bool, args ...value.Type) *Function {
	return &Function{Name: name, ArgTypes: args, Variadic: variadic, ReturnType: ret}
}

// Default is the catalog of builtin PromQL functions as of Prometheus
// v2.40, the compliance target spec.md §1 names. It is not exhaustive of
// every function Prometheus ships, but covers the ones exercised by the
// AST's documented edge cases (exp, ln, log2, log10, label_join) and the
// common instant/range functions a downstream evaluator would dispatch on.
var Default = Catalog{
	"abs":                fn("abs", value.Vector, false, value.Vector),
	"absent":             fn("absent", value.Vector, false, value.Vector),
	"absent_over_time":   fn("absent_over_time", value.Vector, false, value.Matrix),
	"ceil":               fn("ceil", value.Vector, false, value.Vector),
	"changes":            fn("changes", value.Vector, false, value.Matrix),
	"clamp":              fn("clamp", value.Vector, false, value.Vector, value.Scalar, value.Scalar),
	"clamp_max":          fn("clamp_max", value.Vector, false, value.Vector, value.Scalar),
	"clamp_min":          fn("clamp_min", value.Vector, false, value.Vector, value.Scalar),
	"day_of_month":       fn("day_of_month", value.Vector, true, value.Vector),
	"day_of_week":        fn("day_of_week", value.Vector, true, value.Vector),
	"day_of_year":        fn("day_of_year", value.Vector, true, value.Vector),
	"days_in_month":      fn("days_in_month", value.Vector, true, value.Vector),
	"delta":              fn("delta", value.Vector, false, value.Matrix),
	"deriv":              fn("deriv", value.Vector, false, value.Matrix),
	"exp":                fn("exp", value.Vector, false, value.Vector),
	"floor":               fn("floor", value.Vector, false, value.Vector),
	"histogram_quantile": fn("histogram_quantile", value.Vector, false, value.Scalar, value.Vector),
	"holt_winters":       fn("holt_winters", value.Vector, false, value.Matrix, value.Scalar, value.Scalar),
	"hour":               fn("hour", value.Vector, true, value.Vector),
	"idelta":             fn("idelta", value.Vector, false, value.Matrix),
	"increase":           fn("increase", value.Vector, false, value.Matrix),
	"irate":              fn("irate", value.Vector, false, value.Matrix),
	"label_join":         fn("label_join", value.Vector, true, value.Vector, value.String, value.String, value.String),
	"label_replace":      fn("label_replace", value.Vector, false, value.Vector, value.String, value.String, value.String, value.String),
	"ln":                 fn("ln", value.Vector, false, value.Vector),
	"log2":               fn("log2", value.Vector, false, value.Vector),
	"log10":              fn("log10", value.Vector, false, value.Vector),
	"minute":             fn("minute", value.Vector, true, value.Vector),
	"month":              fn("month", value.Vector, true, value.Vector),
	"predict_linear":     fn("predict_linear", value.Vector, false, value.Matrix, value.Scalar),
	"rate":               fn("rate", value.Vector, false, value.Matrix),
	"resets":             fn("resets", value.Vector, false, value.Matrix),
	"round":              fn("round", value.Vector, true, value.Vector, value.Scalar),
	"scalar":             fn("scalar", value.Scalar, false, value.Vector),
	"sgn":                fn("sgn", value.Vector, false, value.Vector),
	"sort":               fn("sort", value.Vector, false, value.Vector),
	"sort_desc":          fn("sort_desc", value.Vector, false, value.Vector),
	"sqrt":               fn("sqrt", value.Vector, false, value.Vector),
	"time":               fn("time", value.Scalar, false),
	"timestamp":          fn("timestamp", value.Vector, false, value.Vector),
	"vector":             fn("vector", value.Vector, false, value.Scalar),
	"year":               fn("year", value.Vector, true, value.Vector),

	"avg_over_time":     fn("avg_over_time", value.Vector, false, value.Matrix),
	"count_over_time":   fn("count_over_time", value.Vector, false, value.Matrix),
	"last_over_time":    fn("last_over_time", value.Vector, false, value.Matrix),
	"max_over_time":     fn("max_over_time", value.Vector, false, value.Matrix),
	"min_over_time":     fn("min_over_time", value.Vector, false, value.Matrix),
	"present_over_time": fn("present_over_time", value.Vector, false, value.Matrix),
	"quantile_over_time": fn("quantile_over_time", value.Vector, false, value.Scalar, value.Matrix),
	"stddev_over_time":  fn("stddev_over_time", value.Vector, false, value.Matrix),
	"stdvar_over_time":  fn("stdvar_over_time", value.Vector, false, value.Matrix),
	"sum_over_time":     fn("sum_over_time", value.Vector, false, value.Matrix),
}
