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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this instrumentation library in exported spans.
const tracerName = "rivaas.dev/dispatch"

// TraceRecorder records each Execute and Invoke call as an OpenTelemetry
// span named "dispatch.<op>", carrying the route name and final outcome as
// attributes. Resolution and invocation errors are recorded on the span and
// set its status to Error.
type TraceRecorder struct {
	tracer trace.Tracer
}

// NewTraceRecorder creates a trace recorder. A nil provider falls back to
// the globally registered one.
func NewTraceRecorder(tp trace.TracerProvider) *TraceRecorder {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &TraceRecorder{tracer: tp.Tracer(tracerName)}
}

// OnResolveStart opens the span and returns it as per-call state.
func (r *TraceRecorder) OnResolveStart(ctx context.Context, route, op string) (context.Context, any) {
	ctx, span := r.tracer.Start(ctx, "dispatch."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("dispatch.route", route),
			attribute.String("dispatch.operation", op),
		),
	)

	return ctx, span
}

// OnResolveEnd records the outcome and closes the span.
func (r *TraceRecorder) OnResolveEnd(_ context.Context, state any, outcome Outcome, err error) {
	span, ok := state.(trace.Span)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("dispatch.outcome", outcome.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
