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
	"fmt"
	"math"
	"time"

	"github.com/prometheus-community/promql-ast/token"
)

// OffsetKind distinguishes a positive (`offset 5m`, back in time) from a
// negative (`offset -5m`, ahead in time) time shift.
type OffsetKind int

const (
	// Pos is a positive offset: evaluate the selector as of `range ago`.
	Pos OffsetKind = iota
	// Neg is a negative offset: evaluate the selector `range` ahead.
	Neg
)

// Offset is a signed duration attached to a selector or subquery.
type Offset struct {
	Kind     OffsetKind
	Duration time.Duration
}

// AtKind is the flavor of an `@` modifier.
type AtKind int

const (
	// AtStart pins evaluation to the query's start time (`@ start()`).
	AtStart AtKind = iota
	// AtEnd pins evaluation to the query's end time (`@ end()`).
	AtEnd
	// AtTime pins evaluation to a fixed instant (`@ <unix seconds>`).
	AtTime
)

// AtModifier is the `@` modifier attached to a selector or subquery.
type AtModifier struct {
	Kind AtKind
	Time time.Time // only meaningful when Kind == AtTime
}

// epoch is the reference instant @ timestamps are measured from, mirroring
// Rust's SystemTime::UNIX_EPOCH.
var epoch = time.Unix(0, 0).UTC()

// maxRepresentableMillis is the largest millisecond magnitude that fits in
// a time.Duration (int64 nanoseconds) without overflowing, used as the
// overflow bound for NewAtModifierFromSeconds.
const maxRepresentableMillis = uint64(math.MaxInt64) / uint64(time.Millisecond)

// NewAtModifierFromToken converts a grammar keyword token into an
// AtModifier. Only START and END are valid; anything else is a structural
// error.
func NewAtModifierFromToken(t token.Type) (AtModifier, error) {
	switch t {
	case token.START:
		return AtModifier{Kind: AtStart}, nil
	case token.END:
		return AtModifier{Kind: AtEnd}, nil
	default:
		return AtModifier{}, fmt.Errorf("invalid @ modifier preprocessor '%s', START or END is valid.", t)
	}
}

// NewAtModifierFromSeconds converts a floating-point seconds value (as
// written after `@` in a query) into an AtModifier pinned to a fixed
// instant. It rejects NaN, infinities, and magnitudes at the extremes of
// the float64 domain, and any value whose millisecond duration would
// overflow the underlying time representation (spec.md §3, AtModifier).
func NewAtModifierFromSeconds(secs float64) (AtModifier, error) {
	errInfo := fmt.Errorf("timestamp out of bounds for @ modifier: %v", secs)

	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs >= math.MaxFloat64 || secs <= -math.MaxFloat64 {
		return AtModifier{}, errInfo
	}

	millisF := math.Round(math.Abs(secs) * 1000)
	if millisF > float64(maxRepresentableMillis) {
		return AtModifier{}, errInfo
	}
	millis := uint64(millisF)
	dur := time.Duration(millis) * time.Millisecond

	var t time.Time
	if secs >= 0 {
		t = epoch.Add(dur)
	} else {
		t = epoch.Add(-dur)
	}

	return AtModifier{Kind: AtTime, Time: t}, nil
}
