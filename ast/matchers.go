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
	"sort"

	"github.com/prometheus/prometheus/model/labels"
)

// Matchers is an unordered collection of label matchers, as spec.md's
// "label module" (deliberately out of scope for the core, §1) would provide.
// Rather than reimplement matcher/regex semantics, this module reuses the
// real thing: github.com/prometheus/prometheus/model/labels, which the
// teacher repository already depends on for exactly this purpose
// (injectproxy/enforce.go, inject.go).
type Matchers []*labels.Matcher

// NewMetricNameMatcher builds the synthetic `__name__=<name>` matcher a
// named vector selector carries (spec.md §3, invariant 2).
func NewMetricNameMatcher(name string) *labels.Matcher {
	m, err := labels.NewMatcher(labels.MatchEqual, labels.MetricName, name)
	if err != nil {
		// labels.MatchEqual never fails to compile; a literal string value
		// is always a valid equality matcher.
		panic(err)
	}
	return m
}

// IsEmptyMatchers reports whether ms contains no matcher, or every matcher
// in it would match the empty string — either way, it would implicitly
// select every series in the system (spec.md §4.3.6, step 1).
func (ms Matchers) IsEmptyMatchers() bool {
	if len(ms) == 0 {
		return true
	}
	for _, m := range ms {
		if !m.Matches("") {
			return false
		}
	}
	return true
}

// FindMatchers returns the textual form of every matcher in ms targeting
// the given label name, sorted lexicographically so duplicate-metric-name
// diagnostics are deterministic (spec.md §4.3.6 step 2, §9).
func (ms Matchers) FindMatchers(name string) []string {
	var out []string
	for _, m := range ms {
		if m.Name == name {
			out = append(out, m.String())
		}
	}
	sort.Strings(out)
	return out
}
