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

// Package metrics provides optional Prometheus instrumentation for the
// parser, wired in via lexer.WithMetrics. It is grounded on the teacher's
// own use of github.com/prometheus/client_golang/prometheus in main.go
// (prometheus.NewRegistry(), collectors.NewGoCollector()) — here scoped down
// to the one thing worth measuring in a parser: how often it's called, how
// often it fails, and how long it takes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records parser-level instrumentation. The zero value is not
// usable; build one with NewRecorder.
type Recorder struct {
	attempts *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewRecorder builds a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promql_ast_parse_attempts_total",
			Help: "Number of Parse calls, labeled by outcome (ok, error).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "promql_ast_parse_duration_seconds",
			Help:    "Time spent parsing and semantically validating a query.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.attempts, r.duration)
	return r
}

// Observe records the outcome and wall-clock duration of a single Parse
// call. ok is false if Parse returned an error.
func (r *Recorder) Observe(start time.Time, ok bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.attempts.WithLabelValues(outcome).Inc()
	r.duration.Observe(time.Since(start).Seconds())
}
