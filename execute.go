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
	"fmt"

	"rivaas.dev/dispatch/convert"
)

// Execute resolves every required input to a final ordered argument list and
// invokes the target. extra supplies request-scoped values consulted when
// the snapshot has no entry for a name; snapshot values always win.
//
// Per argument, in required-input declaration order:
//
//   - a deferred binder is forced now, exactly once; a satisfied result goes
//     through conversion, an absent result binds nil for declared-nullable
//     arguments and otherwise fails with the binder's first conversion error
//     when it reported any, or as unsatisfied
//   - the explicit-null marker binds nil, skipping conversion
//   - a recorded conversion error fails immediately
//   - a missing value binds nil for declared-nullable arguments and fails
//     as unsatisfied otherwise
//
// Absorption is keyed on declared nullability, not on whether the Go type
// happens to be nilable: a plain pointer-typed argument still fails when no
// value is present.
//   - a plain value is converted to the declared type unless its runtime
//     type already satisfies it
//
// A failure aborts the entire resolution; the target is never invoked with
// partially-defaulted arguments.
func (m *RouteMatch) Execute(ctx context.Context, extra map[string]any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rec := m.def.rec
	var state any
	if rec != nil {
		ctx, state = rec.OnResolveStart(ctx, m.def.name, OpExecute)
	}

	out, err := m.execute(ctx, extra)
	if rec != nil {
		rec.OnResolveEnd(ctx, state, outcomeFor(err), err)
	}

	return out, err
}

// execute is the uninstrumented resolution and invocation path.
func (m *RouteMatch) execute(ctx context.Context, extra map[string]any) (any, error) {
	if len(m.def.target.Arguments()) == 0 {
		return m.def.target.Call(ctx, nil)
	}

	list := make([]any, 0, m.def.required.len())
	for _, arg := range m.def.required.all() {
		val, has := m.vars.get(arg.Name)
		if !has && extra != nil {
			if raw, ok := extra[arg.Name]; ok {
				val, has = wrapCandidate(raw), raw != nil
			}
		}
		if !has {
			// No value, no diagnostic: the benign-gap rule of
			// resolveValueOrError applies.
			if !arg.DeclaredNullable {
				return nil, &UnsatisfiedError{Argument: arg}
			}
			list = append(list, nil)
			continue
		}

		switch val.Kind() {
		case KindDeferred:
			resolved, err := m.force(arg, val)
			if err != nil {
				return nil, err
			}
			list = append(list, resolved)

		case KindNull:
			list = append(list, nil)

		case KindInvalid:
			return nil, &ConversionFailedError{Argument: arg, Err: val.Err()}

		default: // KindBound
			v, err := m.convertForArg(arg, val.Raw())
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
	}

	return m.def.target.Call(ctx, list)
}

// force resolves a deferred binder to a final bound value.
func (m *RouteMatch) force(arg Argument, val Value) (any, error) {
	res := val.Force()
	if res.PresentAndSatisfied() {
		resolved := res.Value()
		if ce, ok := resolved.(*convert.Error); ok {
			return nil, &ConversionFailedError{Argument: arg, Err: ce}
		}

		return m.convertForArg(arg, resolved)
	}

	if arg.DeclaredNullable {
		return nil, nil
	}
	if errs := res.ConversionErrors(); len(errs) > 0 {
		return nil, &ConversionFailedError{Argument: arg, Err: errs[0]}
	}

	return nil, &UnsatisfiedError{Argument: arg}
}

// convertForArg converts a resolved raw value to the argument's declared
// type. Values whose runtime type already satisfies the declared type skip
// conversion, except for containers with concrete element types, which may
// still need per-element coercion.
func (m *RouteMatch) convertForArg(arg Argument, value any) (any, error) {
	if arg.accepts(value) && (!arg.IsContainer() || !arg.HasTypeVariables()) {
		return value, nil
	}

	ctx := convert.NewContext(arg.Name, arg.Type)
	out, ok := m.def.conv.ConvertWithContext(value, ctx)

	return resolveValueOrError(arg, ctx, out, ok)
}

// resolveValueOrError is the single place reconciling the three failed
// conversion outcomes: "no value, no error" is a benign gap for
// declared-nullable arguments and binds nil; "no value, has error" surfaces
// the error; "no value, not nullable, no error" surfaces as unsatisfied.
func resolveValueOrError(arg Argument, ctx *convert.Context, out any, ok bool) (any, error) {
	if ok {
		return out, nil
	}
	last := ctx.LastError()
	if last == nil && arg.DeclaredNullable {
		return nil, nil
	}
	if last != nil {
		return nil, &ConversionFailedError{Argument: arg, Err: last}
	}

	return nil, &UnsatisfiedError{Argument: arg}
}

// Invoke calls the target with caller-supplied positional values, bypassing
// named binding. For each target argument, in declaration order, the raw
// value is taken from the first available of: a same-named snapshot entry,
// the next unconsumed value of the snapshot's own value sequence, the next
// unconsumed caller value. Running out of values fails with
// [ErrWrongArgumentCount].
//
// Every chosen value is strictly converted to the declared type; a
// conversion failure is fatal ([ErrWrongArgumentTypes]), with none of
// Execute's nullable absorption. Wrong-count and wrong-type failures here
// are integration errors, not user input errors.
func (m *RouteMatch) Invoke(ctx context.Context, args ...any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rec := m.def.rec
	var state any
	if rec != nil {
		ctx, state = rec.OnResolveStart(ctx, m.def.name, OpInvoke)
	}

	out, err := m.invoke(ctx, args)
	if rec != nil {
		rec.OnResolveEnd(ctx, state, outcomeFor(err), err)
	}

	return out, err
}

// invoke is the uninstrumented direct-invocation path.
func (m *RouteMatch) invoke(ctx context.Context, args []any) (any, error) {
	targetArgs := m.def.target.Arguments()
	if len(targetArgs) == 0 {
		return m.def.target.Call(ctx, nil)
	}

	// The positional fallback walks the snapshot's value sequence from the
	// start, independent of which entries were already matched by name.
	seq := m.vars.ordered()
	seqIdx, callerIdx := 0, 0

	list := make([]any, 0, len(targetArgs))
	for _, arg := range targetArgs {
		var raw any
		switch {
		case m.vars.has(arg.Name):
			v, _ := m.vars.get(arg.Name)
			raw = v.payload()
		case seqIdx < len(seq):
			raw = seq[seqIdx].payload()
			seqIdx++
		case callerIdx < len(args):
			raw = args[callerIdx]
			callerIdx++
		default:
			return nil, fmt.Errorf("%w: no value for argument %q", ErrWrongArgumentCount, arg.Name)
		}

		out, ok := m.def.conv.Convert(raw, arg.Type)
		if !ok {
			return nil, fmt.Errorf("%w: argument %q", ErrWrongArgumentTypes, arg.Name)
		}
		list = append(list, out)
	}

	return m.def.target.Call(ctx, list)
}
