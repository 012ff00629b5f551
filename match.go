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
	"iter"
	"net/http"
	"slices"

	"rivaas.dev/dispatch/convert"
)

// RouteMatch ties a route definition to one request's in-progress variable
// snapshot. A match is request-scoped and copy-on-write: [RouteMatch.Fulfill]
// returns a new match and never mutates the receiver, so a fixed match may
// be read from multiple goroutines and fulfillment may hop between them.
type RouteMatch struct {
	def       *RouteDefinition
	vars      *orderedValues
	remaining []Argument
}

// Route returns the immutable definition this match was created from.
func (m *RouteMatch) Route() *RouteDefinition {
	return m.def
}

// IsExecutable reports whether every required input (and the body argument,
// if declared) has a present, non-deferred value. It has no side effects and
// is safe to poll repeatedly.
func (m *RouteMatch) IsExecutable() bool {
	for _, a := range m.def.required.all() {
		v, ok := m.vars.get(a.Name)
		if !ok || v.Kind() == KindDeferred {
			return false
		}
	}
	if body, ok := m.def.BodyArgument(); ok {
		v, present := m.vars.get(body.Name)
		if !present || v.Kind() == KindDeferred {
			return false
		}
	}

	return true
}

// Test evaluates the route's guard predicates against the request in
// declaration order, short-circuiting on the first failure. A guard failure
// is not an error: it means "this route does not match", letting the
// dispatcher try the next candidate.
func (m *RouteMatch) Test(req *http.Request) bool {
	for _, guard := range m.def.guards {
		if !guard(req) {
			return false
		}
	}

	return true
}

// Fulfill produces a new match whose snapshot additionally holds the given
// argument values, leaving the receiver unmodified. An empty or nil map
// returns the receiver itself.
//
// Candidates are processed per target argument, in callable-declared order:
//
//   - a nil candidate is skipped: null does not erase a prior value
//   - [Unresolved] binders, the explicit-null marker, and error markers are
//     stored verbatim, bypassing conversion
//   - a candidate whose runtime type satisfies the declared type is stored
//     as-is
//   - anything else is converted; on success the converted value is stored,
//     on failure the conversion diagnostic is stored in its place — or the
//     candidate is dropped entirely when no diagnostic exists
//
// Consumed names leave the still-required set reported by
// [RouteMatch.Remaining].
func (m *RouteMatch) Fulfill(values map[string]any) *RouteMatch {
	if len(values) == 0 {
		return m
	}

	newVars := m.vars.clone()
	remaining := slices.Clone(m.remaining)
	body, hasBody := m.def.BodyArgument()

	for _, arg := range m.def.target.Arguments() {
		candidate, ok := values[arg.Name]
		if !ok {
			continue
		}
		if hasBody && body.Name == arg.Name {
			arg = body
		}
		remaining = slices.DeleteFunc(remaining, func(a Argument) bool {
			return a.Name == arg.Name
		})
		if candidate == nil {
			continue
		}

		switch c := candidate.(type) {
		case Value:
			switch c.Kind() {
			case KindDeferred, KindNull, KindInvalid:
				newVars.set(arg.Name, c)
			default:
				m.storeConverted(newVars, arg, c.Raw())
			}
		case Unresolved:
			newVars.set(arg.Name, Deferred(c))
		case func() BindingResult:
			newVars.set(arg.Name, Deferred(c))
		case *convert.Error:
			newVars.set(arg.Name, Invalid(c))
		default:
			m.storeConverted(newVars, arg, candidate)
		}
	}

	return &RouteMatch{def: m.def, vars: newVars, remaining: remaining}
}

// storeConverted stores a plain candidate, converting it to the argument's
// declared type when needed. A failed conversion with a diagnostic stores
// the error marker; a failed conversion without one drops the candidate,
// leaving any previously bound value in place.
func (m *RouteMatch) storeConverted(vars *orderedValues, arg Argument, candidate any) {
	if arg.accepts(candidate) {
		vars.set(arg.Name, Bound(candidate))
		return
	}

	ctx := convert.NewContext(arg.Name, arg.Type)
	out, ok := m.def.conv.ConvertWithContext(candidate, ctx)
	switch {
	case ok:
		vars.set(arg.Name, Bound(out))
	case ctx.LastError() != nil:
		vars.set(arg.Name, Invalid(ctx.LastError()))
	}
}

// Remaining returns the required inputs not yet consumed by the initial
// snapshot or a fulfillment, for diagnostic reporting of what remains
// outstanding.
func (m *RouteMatch) Remaining() []Argument {
	return slices.Clone(m.remaining)
}

// Variables iterates the snapshot entries in insertion order.
func (m *RouteMatch) Variables() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		m.vars.each(yield)
	}
}

// VariableValues returns a copy of the snapshot as raw values: concrete
// values for bound entries, nil for explicit nulls, the binder for deferred
// entries, and the diagnostic for error markers.
func (m *RouteMatch) VariableValues() map[string]any {
	out := make(map[string]any, m.vars.len())
	m.vars.each(func(name string, v Value) bool {
		out[name] = v.payload()
		return true
	})

	return out
}
