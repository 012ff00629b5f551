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
	"net/http"
	"slices"
	"sort"

	"rivaas.dev/dispatch/convert"
)

// Predicate is an opaque guard condition over the incoming request.
// Predicates must be side-effect-free and safe for concurrent use; they are
// evaluated by [RouteMatch.Test] in declaration order with short-circuiting.
type Predicate func(*http.Request) bool

// ExecFlags reports the execution mode of a route's target so an outer
// dispatcher can choose a compatible invocation strategy. The dispatch core
// performs no suspension or scheduling itself.
type ExecFlags struct {
	Suspended       bool
	Reactive        bool
	Async           bool
	SingleResult    bool
	SpecifiedSingle bool
	Void            bool
}

// RouteDefinition is the immutable description of a route: target callable,
// required named inputs, optional body argument, media types, guard
// predicates, declared status, and execution-mode flags. A definition is
// created once at registration time and shared by all matches of the route.
type RouteDefinition struct {
	name        string
	target      Callable
	required    *orderedArgs
	bodyArg     *Argument
	bodyName    string
	consumes    []MediaType
	consumesAll bool
	produces    []MediaType
	producesAll bool
	guards      []Predicate
	status      *int
	websocket   bool
	flags       ExecFlags
	conv        *convert.Service
	rec         Recorder
}

// RouteOption configures a route definition at construction time.
type RouteOption func(*RouteDefinition)

// WithName sets a human-readable route name used in traces and metrics.
func WithName(name string) RouteOption {
	return func(d *RouteDefinition) {
		d.name = name
	}
}

// WithConsumes declares the media types the route accepts. Passing [All]
// marks the route as consuming everything.
func WithConsumes(types ...MediaType) RouteOption {
	return func(d *RouteDefinition) {
		d.consumes = append(d.consumes, types...)
		if slices.Contains(types, All) {
			d.consumesAll = true
		}
	}
}

// WithProduces declares the media types the route emits. Passing [All]
// marks the route as producing everything.
func WithProduces(types ...MediaType) RouteOption {
	return func(d *RouteDefinition) {
		d.produces = append(d.produces, types...)
		if slices.Contains(types, All) {
			d.producesAll = true
		}
	}
}

// WithGuard appends a guard predicate. Guards are evaluated in the order
// they were added.
func WithGuard(p Predicate) RouteOption {
	return func(d *RouteDefinition) {
		if p != nil {
			d.guards = append(d.guards, p)
		}
	}
}

// WithStatus declares the HTTP status the route responds with on success.
// Routes without a declared status fall back to the caller-supplied default
// in [RouteMatch.StatusOr].
func WithStatus(code int) RouteOption {
	return func(d *RouteDefinition) {
		d.status = &code
	}
}

// WithBody declares the body argument directly by descriptor.
func WithBody(arg Argument) RouteOption {
	return func(d *RouteDefinition) {
		d.bodyArg = &arg
	}
}

// WithBodyName declares the body argument by name. The name is resolved
// lazily against the required inputs; a name matching no required input
// means the route has no body argument.
func WithBodyName(name string) RouteOption {
	return func(d *RouteDefinition) {
		d.bodyName = name
	}
}

// WithWebSocket marks the route as a websocket route.
func WithWebSocket() RouteOption {
	return func(d *RouteDefinition) {
		d.websocket = true
	}
}

// WithExecFlags sets the execution-mode flags reported by the route.
func WithExecFlags(flags ExecFlags) RouteOption {
	return func(d *RouteDefinition) {
		d.flags = flags
	}
}

// WithConversion sets the conversion service used for argument coercion.
// Defaults to [convert.Default].
func WithConversion(svc *convert.Service) RouteOption {
	return func(d *RouteDefinition) {
		if svc != nil {
			d.conv = svc
		}
	}
}

// WithRecorder attaches an observability recorder to the route's Execute
// and Invoke paths.
func WithRecorder(rec Recorder) RouteOption {
	return func(d *RouteDefinition) {
		d.rec = rec
	}
}

// NewRoute creates an immutable route definition around the target callable.
// Every target argument becomes a required input, in declaration order.
func NewRoute(target Callable, opts ...RouteOption) *RouteDefinition {
	d := &RouteDefinition{
		target:   target,
		required: newOrderedArgs(target.Arguments()),
		conv:     convert.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Name returns the route's human-readable name (empty if not set).
func (d *RouteDefinition) Name() string {
	return d.name
}

// Target returns the route's target callable.
func (d *RouteDefinition) Target() Callable {
	return d.target
}

// Arguments returns the target's parameters in declaration order.
func (d *RouteDefinition) Arguments() []Argument {
	return d.target.Arguments()
}

// IsRequiredInput reports whether name is a required input of the route.
func (d *RouteDefinition) IsRequiredInput(name string) bool {
	_, ok := d.required.get(name)
	return ok
}

// RequiredInput returns the descriptor for the named required input.
func (d *RouteDefinition) RequiredInput(name string) (Argument, bool) {
	return d.required.get(name)
}

// BodyArgument returns the body argument, resolving a declared body name
// against the required inputs. The second result is false when the route has
// no body argument.
func (d *RouteDefinition) BodyArgument() (Argument, bool) {
	if d.bodyArg != nil {
		return *d.bodyArg, true
	}
	if d.bodyName != "" {
		return d.required.get(d.bodyName)
	}

	return Argument{}, false
}

// Consumes returns the declared consumed media types.
func (d *RouteDefinition) Consumes() []MediaType {
	return slices.Clone(d.consumes)
}

// Produces returns the declared produced media types.
func (d *RouteDefinition) Produces() []MediaType {
	return slices.Clone(d.produces)
}

// StatusOr returns the route's declared HTTP status, or def when none was
// declared.
func (d *RouteDefinition) StatusOr(def int) int {
	if d.status == nil {
		return def
	}

	return *d.status
}

// IsWebSocket reports whether the route is a websocket route.
func (d *RouteDefinition) IsWebSocket() bool {
	return d.websocket
}

// IsSuspended reports whether the target is a suspended (coroutine-style)
// callable.
func (d *RouteDefinition) IsSuspended() bool {
	return d.flags.Suspended
}

// IsReactive reports whether the target returns a reactive type.
func (d *RouteDefinition) IsReactive() bool {
	return d.flags.Reactive
}

// IsAsync reports whether the target returns an asynchronous result.
func (d *RouteDefinition) IsAsync() bool {
	return d.flags.Async
}

// IsAsyncOrReactive reports whether the target is asynchronous or reactive.
func (d *RouteDefinition) IsAsyncOrReactive() bool {
	return d.flags.Async || d.flags.Reactive
}

// IsSingleResult reports whether the target emits a single result.
func (d *RouteDefinition) IsSingleResult() bool {
	return d.flags.SingleResult
}

// IsSpecifiedSingle reports whether the target explicitly declared
// single-result semantics.
func (d *RouteDefinition) IsSpecifiedSingle() bool {
	return d.flags.SpecifiedSingle
}

// IsVoid reports whether the target returns nothing.
func (d *RouteDefinition) IsVoid() bool {
	return d.flags.Void
}

// Match creates a route match with the initial variable snapshot, typically
// the path variables extracted by URI matching. Values may be concrete,
// [Unresolved], or pre-wrapped [Value] entries; nil entries are ignored.
//
// Required inputs are snapshotted in declaration order first so the
// snapshot's value sequence is deterministic; names outside the required set
// follow in sorted order.
func (d *RouteDefinition) Match(initial map[string]any) *RouteMatch {
	vars := newOrderedValues()
	for _, a := range d.required.all() {
		if raw, ok := initial[a.Name]; ok && raw != nil {
			vars.set(a.Name, wrapCandidate(raw))
		}
	}
	var extras []string
	for name, raw := range initial {
		if raw == nil || vars.has(name) {
			continue
		}
		if _, ok := d.required.get(name); !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		vars.set(name, wrapCandidate(initial[name]))
	}

	remaining := make([]Argument, 0, d.required.len())
	for _, a := range d.required.all() {
		if !vars.has(a.Name) {
			remaining = append(remaining, a)
		}
	}

	return &RouteMatch{def: d, vars: vars, remaining: remaining}
}

// wrapCandidate lifts a raw candidate into the snapshot's tagged variant.
func wrapCandidate(raw any) Value {
	switch c := raw.(type) {
	case Value:
		return c
	case Unresolved:
		return Deferred(c)
	case func() BindingResult:
		return Deferred(c)
	case *convert.Error:
		return Invalid(c)
	default:
		return Bound(raw)
	}
}
