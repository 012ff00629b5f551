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
)

// Resolution operation names reported to recorders.
const (
	OpExecute = "execute"
	OpInvoke  = "invoke"
)

// Outcome classifies how an Execute or Invoke call ended.
type Outcome int

const (
	// OutcomeOK means the target was invoked and returned without error.
	OutcomeOK Outcome = iota

	// OutcomeUnsatisfied means a required argument had no value.
	OutcomeUnsatisfied

	// OutcomeConversionFailed means a value could not be coerced to its
	// argument's declared type.
	OutcomeConversionFailed

	// OutcomeInvocationFailed means resolution succeeded but the target
	// itself returned an error, or the call could not be made.
	OutcomeInvocationFailed
)

// String returns the outcome's label as used in metrics and traces.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUnsatisfied:
		return "unsatisfied"
	case OutcomeConversionFailed:
		return "conversion_failed"
	default:
		return "invocation_failed"
	}
}

// outcomeFor classifies an Execute or Invoke error.
func outcomeFor(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var unsat *UnsatisfiedError
	if errors.As(err, &unsat) {
		return OutcomeUnsatisfied
	}
	var conv *ConversionFailedError
	if errors.As(err, &conv) {
		return OutcomeConversionFailed
	}

	return OutcomeInvocationFailed
}

// Recorder observes route resolution. OnResolveStart runs before argument
// resolution and may derive a new context (for span propagation) and return
// per-call state; OnResolveEnd receives that state back with the final
// outcome. Implementations must be safe for concurrent use.
type Recorder interface {
	OnResolveStart(ctx context.Context, route, op string) (context.Context, any)
	OnResolveEnd(ctx context.Context, state any, outcome Outcome, err error)
}

// multiRecorder fans out to several recorders in order.
type multiRecorder struct {
	recs []Recorder
}

// Recorders combines recorders into one. Start hooks run in order and end
// hooks in reverse order; contexts chain through, so a tracing recorder
// placed first makes its span visible to the recorders after it.
func Recorders(recs ...Recorder) Recorder {
	active := make([]Recorder, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			active = append(active, r)
		}
	}
	if len(active) == 1 {
		return active[0]
	}

	return &multiRecorder{recs: active}
}

func (m *multiRecorder) OnResolveStart(ctx context.Context, route, op string) (context.Context, any) {
	states := make([]any, len(m.recs))
	for i, r := range m.recs {
		ctx, states[i] = r.OnResolveStart(ctx, route, op)
	}

	return ctx, states
}

func (m *multiRecorder) OnResolveEnd(ctx context.Context, state any, outcome Outcome, err error) {
	states, _ := state.([]any)
	for i := len(m.recs) - 1; i >= 0; i-- {
		var s any
		if i < len(states) {
			s = states[i]
		}
		m.recs[i].OnResolveEnd(ctx, s, outcome, err)
	}
}
