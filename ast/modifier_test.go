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

import "testing"

func TestLabelModifierIsOn(t *testing.T) {
	include := NewIncludeModifier(NewLabelSet("a"))
	exclude := NewExcludeModifier(NewLabelSet("a"))

	if !include.IsOn() {
		t.Fatal("Include modifier: IsOn() = false")
	}
	if exclude.IsOn() {
		t.Fatal("Exclude modifier: IsOn() = true")
	}

	var nilModifier *LabelModifier
	if nilModifier.IsOn() {
		t.Fatal("nil modifier: IsOn() = true")
	}
	if nilModifier.LabelNames() != nil {
		t.Fatal("nil modifier: LabelNames() != nil")
	}
}

func TestVectorMatchCardinalityGroupLabels(t *testing.T) {
	oneToOne := VectorMatchCardinality{Kind: OneToOne}
	if _, ok := oneToOne.GroupLabels(); ok {
		t.Fatal("OneToOne: GroupLabels() ok = true")
	}

	manyToOne := VectorMatchCardinality{Kind: ManyToOne, Labels: NewLabelSet("a")}
	labels, ok := manyToOne.GroupLabels()
	if !ok || !labels.Has("a") {
		t.Fatalf("ManyToOne: GroupLabels() = %v, %v", labels, ok)
	}
}

func TestDefaultBinModifier(t *testing.T) {
	m := DefaultBinModifier()
	if m.Card.Kind != OneToOne || m.Matching != nil || m.ReturnBool {
		t.Fatalf("DefaultBinModifier() = %#v", m)
	}
}

func TestBinModifierIsLabelsJoint(t *testing.T) {
	joint := BinModifier{
		Card:     VectorMatchCardinality{Kind: ManyToOne, Labels: NewLabelSet("a")},
		Matching: NewIncludeModifier(NewLabelSet("a", "b")),
	}
	if !joint.IsLabelsJoint() {
		t.Fatal("expected joint labels")
	}
	if got := joint.IntersectLabels(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("IntersectLabels() = %v, want [a]", got)
	}

	disjoint := BinModifier{
		Card:     VectorMatchCardinality{Kind: ManyToOne, Labels: NewLabelSet("a")},
		Matching: NewIncludeModifier(NewLabelSet("b")),
	}
	if disjoint.IsLabelsJoint() {
		t.Fatal("expected disjoint labels")
	}
}
