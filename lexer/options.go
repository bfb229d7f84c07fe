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

package lexer

import (
	"github.com/prometheus-community/promql-ast/functions"
	"github.com/prometheus-community/promql-ast/metrics"
)

// options holds Parse's configurable behavior. There is deliberately no
// YAML/flag-based config layer here (SPEC_FULL.md §1.2): the core parser is
// a pure function over a string, and the only things worth varying are the
// function catalog, a recursion-depth cap, and optional instrumentation.
type options struct {
	catalog  functions.Catalog
	maxDepth int
	recorder *metrics.Recorder
}

func defaultOptions() options {
	return options{catalog: functions.Default, maxDepth: 128}
}

// Option configures a Parse call, following the teacher's functional-options
// idiom (injectproxy.Option / injectproxy.optionFunc).
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

// WithFunctionCatalog overrides the default builtin function catalog.
func WithFunctionCatalog(c functions.Catalog) Option {
	return optionFunc(func(o *options) { o.catalog = c })
}

// WithMaxDepth caps the recursion depth the expression parser will descend
// before giving up with a diagnostic, guarding against pathological or
// adversarial input.
func WithMaxDepth(n int) Option {
	return optionFunc(func(o *options) { o.maxDepth = n })
}

// WithMetrics attaches a metrics.Recorder that observes every Parse call's
// outcome and duration.
func WithMetrics(r *metrics.Recorder) Option {
	return optionFunc(func(o *options) { o.recorder = r })
}
