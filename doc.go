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

// Package dispatch implements route matching and deferred argument
// resolution for an HTTP dispatch layer.
//
// A [RouteDefinition] is the immutable description of a route: its target
// [Callable], the named inputs the target needs, accepted and produced media
// types, guard predicates, and execution-mode flags. Matching a definition
// against a request produces a [RouteMatch] that ties the definition to a
// snapshot of currently-known variable values.
//
// The hard part the package solves is argument binding under partial,
// asynchronous availability of values. A parameter's value may not be known
// at match time: it may come from the request body, a filter, or downstream
// processing. The snapshot therefore distinguishes four value kinds, modeled
// as the tagged variant [Value]:
//
//   - a concrete bound value
//   - a deferred [Unresolved] binder, forced only at execution time
//   - an explicit null, distinct from "not yet known"
//   - a recorded conversion error, distinct from both
//
// # Lifecycle
//
// A match is created with the initial path-variable snapshot, then
// incrementally completed as more of the request becomes available:
//
//	match := def.Match(pathVars)
//	match = match.Fulfill(queryValues)   // copy-on-write: returns a new match
//	match = match.Fulfill(filterValues)
//	if match.IsExecutable() {
//	    out, err := match.Execute(ctx, nil)
//	}
//
// Fulfill never mutates the receiver, so a fixed match can be read
// concurrently and fulfillment can hop between goroutines. Execute performs
// final per-argument resolution: deferred binders are forced exactly once,
// explicit nulls bind nil, recorded conversion errors surface as
// [*ConversionFailedError], and missing non-nullable inputs surface as
// [*UnsatisfiedError] naming the offending argument.
//
// # Conversion
//
// Raw values are coerced to the declared argument types by a
// [rivaas.dev/dispatch/convert.Service]. Values whose runtime type already
// satisfies the declared type skip conversion.
//
// # Scope
//
// The package performs no routing-table lookup, no URI-template matching,
// and no I/O. Reactive, async, and suspended execution modes are reported
// via flags only; an outer dispatcher chooses a compatible invocation
// strategy. Cancellation and timeouts of deferred binders belong to the
// surrounding pipeline: forcing a binder is a synchronous call.
package dispatch
