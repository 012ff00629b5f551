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

import "rivaas.dev/dispatch/convert"

// Unresolved is a deferred-binding placeholder: a zero-argument binder that,
// when forced, yields a [BindingResult]. Binders are created by upstream
// binder logic (body decoders, filters) when a value cannot be computed
// synchronously, and are forced exactly once during Execute.
//
// A binder may block; cancellation and timeouts are the responsibility of
// the surrounding pipeline.
type Unresolved func() BindingResult

// BindingResult is the outcome of forcing an [Unresolved] binder. It is a
// tagged union of three cases: present-and-satisfied with a value, absent
// with conversion errors, or cleanly absent.
type BindingResult struct {
	value     any
	satisfied bool
	errs      []*convert.Error
}

// BindingOf returns a present-and-satisfied result carrying value.
func BindingOf(value any) BindingResult {
	return BindingResult{value: value, satisfied: true}
}

// BindingEmpty returns a cleanly absent result: no value, no errors.
func BindingEmpty() BindingResult {
	return BindingResult{}
}

// BindingFailed returns an absent result carrying the conversion errors that
// prevented binding.
func BindingFailed(errs ...*convert.Error) BindingResult {
	return BindingResult{errs: errs}
}

// PresentAndSatisfied reports whether the binder produced a value.
func (r BindingResult) PresentAndSatisfied() bool {
	return r.satisfied
}

// Value returns the bound value. Only meaningful when PresentAndSatisfied
// reports true.
func (r BindingResult) Value() any {
	return r.value
}

// ConversionErrors returns the conversion errors reported by the binder,
// if any.
func (r BindingResult) ConversionErrors() []*convert.Error {
	return r.errs
}

// ValueKind enumerates the kinds a snapshot entry can take.
type ValueKind int

const (
	// KindBound is a concrete resolved value.
	KindBound ValueKind = iota

	// KindDeferred wraps an Unresolved binder whose real value is not yet
	// known.
	KindDeferred

	// KindNull is the explicit-null marker, distinct from "no entry".
	KindNull

	// KindInvalid records a conversion error in place of a value.
	KindInvalid
)

// String returns the string representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindBound:
		return "bound"
	case KindDeferred:
		return "deferred"
	case KindNull:
		return "null"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Value is the tagged variant stored in a match's variable snapshot. Every
// resolution site switches exhaustively on [Value.Kind], so "value not yet
// available", "value is explicitly null", and "value failed to convert"
// propagate without losing information.
type Value struct {
	kind     ValueKind
	raw      any
	deferred Unresolved
	convErr  *convert.Error
}

// Bound wraps a concrete resolved value.
func Bound(v any) Value {
	return Value{kind: KindBound, raw: v}
}

// Deferred wraps an unresolved binder.
func Deferred(u Unresolved) Value {
	return Value{kind: KindDeferred, deferred: u}
}

// Null returns the explicit-null marker.
func Null() Value {
	return Value{kind: KindNull}
}

// Invalid wraps a recorded conversion error.
func Invalid(err *convert.Error) Value {
	return Value{kind: KindInvalid, convErr: err}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Raw returns the concrete value for a bound entry, or nil for every other
// kind.
func (v Value) Raw() any {
	return v.raw
}

// Err returns the recorded conversion error for an invalid entry, or nil.
func (v Value) Err() *convert.Error {
	return v.convErr
}

// Force invokes the deferred binder. It must only be called on a deferred
// value, and only once.
func (v Value) Force() BindingResult {
	if v.kind != KindDeferred || v.deferred == nil {
		return BindingEmpty()
	}

	return v.deferred()
}

// payload returns the raw representation handed to strict conversion in the
// direct-invoke path: the concrete value, the binder itself, the recorded
// error, or nil for the null marker. Non-bound payloads deliberately fail
// strict conversion.
func (v Value) payload() any {
	switch v.kind {
	case KindBound:
		return v.raw
	case KindDeferred:
		return v.deferred
	case KindInvalid:
		return v.convErr
	default:
		return nil
	}
}
