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

import "sort"

// LabelSet is an unordered set of label names. It backs the `on`/`ignoring`/
// `by`/`without`/`group_left`/`group_right` label lists (spec.md §3,
// "Label sets and matchers"): a set of label-name strings, distinct from
// `labels.Labels` (a full series' name/value pairs), which is why it is
// defined here rather than reused from github.com/prometheus/prometheus/model/labels.
type LabelSet map[string]struct{}

// NewLabelSet builds a LabelSet from the given label names.
func NewLabelSet(names ...string) LabelSet {
	s := make(LabelSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is a member of s.
func (s LabelSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// IsEmpty reports whether s has no members.
func (s LabelSet) IsEmpty() bool {
	return len(s) == 0
}

// IsDisjoint reports whether s and other share no labels.
func (s LabelSet) IsDisjoint(other LabelSet) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for name := range small {
		if big.Has(name) {
			return false
		}
	}
	return true
}

// IntersectSorted returns the labels present in both s and other, sorted
// lexicographically so callers that must report "the first offending
// label" (spec.md §4.3.1 step 4) can just take index 0.
func (s LabelSet) IntersectSorted(other LabelSet) []string {
	var out []string
	for name := range s {
		if other.Has(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
