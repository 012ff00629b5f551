// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsOption configures a [MetricsRecorder].
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	registry  prometheus.Registerer
	buckets   []float64
}

// WithNamespace sets the metric namespace prefix. Defaults to "dispatch".
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithRegistry sets the Prometheus registerer metrics are registered with.
// Defaults to the global default registerer.
func WithRegistry(reg prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithBuckets overrides the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *metricsConfig) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// MetricsRecorder exports route resolution metrics to Prometheus: a
// resolutions counter partitioned by route, operation, and outcome, a
// duration histogram partitioned by route and operation, and an argument
// failure counter naming the argument that could not be resolved.
type MetricsRecorder struct {
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	argFailures *prometheus.CounterVec
}

// metricsState carries one call's labels and start time between the start
// and end hooks.
type metricsState struct {
	route string
	op    string
	start time.Time
}

// NewMetricsRecorder creates a metrics recorder and registers its collectors.
// Registering two recorders with the same namespace on the same registry
// panics, as duplicate collector registration always does.
func NewMetricsRecorder(opts ...MetricsOption) *MetricsRecorder {
	cfg := &metricsConfig{
		namespace: "dispatch",
		registry:  prometheus.DefaultRegisterer,
		buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	factory := promauto.With(cfg.registry)

	return &MetricsRecorder{
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "resolutions_total",
				Help:      "Total route resolutions by route, operation, and outcome.",
			},
			[]string{"route", "operation", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Route resolution and invocation duration in seconds.",
				Buckets:   cfg.buckets,
			},
			[]string{"route", "operation"},
		),
		argFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "argument_failures_total",
				Help:      "Arguments that failed resolution, by route, argument, and outcome.",
			},
			[]string{"route", "argument", "outcome"},
		),
	}
}

// OnResolveStart captures the labels and start time.
func (r *MetricsRecorder) OnResolveStart(ctx context.Context, route, op string) (context.Context, any) {
	return ctx, &metricsState{route: route, op: op, start: time.Now()}
}

// OnResolveEnd observes the duration and counts the outcome.
func (r *MetricsRecorder) OnResolveEnd(_ context.Context, state any, outcome Outcome, err error) {
	s, ok := state.(*metricsState)
	if !ok {
		return
	}
	r.resolutions.WithLabelValues(s.route, s.op, outcome.String()).Inc()
	r.duration.WithLabelValues(s.route, s.op).Observe(time.Since(s.start).Seconds())

	if name, ok := failedArgument(err); ok {
		r.argFailures.WithLabelValues(s.route, name, outcome.String()).Inc()
	}
}

// failedArgument extracts the argument name from a resolution failure.
func failedArgument(err error) (string, bool) {
	var unsat *UnsatisfiedError
	if errors.As(err, &unsat) {
		return unsat.Argument.Name, true
	}
	var conv *ConversionFailedError
	if errors.As(err, &conv) {
		return conv.Argument.Name, true
	}

	return "", false
}
