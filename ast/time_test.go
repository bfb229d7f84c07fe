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
	"time"

	"github.com/prometheus-community/promql-ast/token"
)

// TestAtModifierRoundTrip is P3: for finite seconds, the produced At(t)
// satisfies |t - epoch| = round(|secs| * 1000) ms.
func TestAtModifierRoundTrip(t *testing.T) {
	cases := []float64{0.0, 1000.3, 1000.9, 1000.9991, 1000.9999, -1000.3, -1000.9}

	for _, secs := range cases {
		at, err := NewAtModifierFromSeconds(secs)
		if err != nil {
			t.Fatalf("NewAtModifierFromSeconds(%v): %v", secs, err)
		}
		wantMillis := math.Round(math.Abs(secs) * 1000)
		gotMillis := math.Abs(at.Time.Sub(epoch).Seconds() * 1000)
		if math.Abs(gotMillis-wantMillis) > 0.5 {
			t.Errorf("secs=%v: |t-epoch| = %v ms, want %v ms", secs, gotMillis, wantMillis)
		}
	}
}

// TestAtModifierRejectsNonFinite is P4: NaN, +-infinity and the magnitude
// extrema of the float64 domain are all rejected.
func TestAtModifierRejectsNonFinite(t *testing.T) {
	cases := []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.MaxFloat64, -math.MaxFloat64}

	for _, secs := range cases {
		if _, err := NewAtModifierFromSeconds(secs); err == nil {
			t.Errorf("NewAtModifierFromSeconds(%v): want error, got none", secs)
		}
	}
}

func TestAtModifierFromTokenOnlyAcceptsStartEnd(t *testing.T) {
	if at, err := NewAtModifierFromToken(token.START); err != nil || at.Kind != AtStart {
		t.Fatalf("START: %v, %v", at, err)
	}
	if at, err := NewAtModifierFromToken(token.END); err != nil || at.Kind != AtEnd {
		t.Fatalf("END: %v, %v", at, err)
	}
	if _, err := NewAtModifierFromToken(token.SUM); err == nil {
		t.Fatal("SUM: want error, got none")
	}
}

func TestOffsetCarriesKindAndDuration(t *testing.T) {
	off := Offset{Kind: Pos, Duration: 5 * time.Minute}
	if off.Duration != 5*time.Minute || off.Kind != Pos {
		t.Fatalf("got %#v", off)
	}
}
