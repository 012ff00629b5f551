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
	"reflect"
)

// errorType is the reflect type of the error interface.
var errorType = reflect.TypeFor[error]()

// contextType is the reflect type of context.Context.
var contextType = reflect.TypeFor[context.Context]()

// Callable is the invocation capability consumed by route matching: ordered
// argument metadata plus a way to call the target with a resolved argument
// list. The routing core never uses reflection itself, only this interface.
//
// Implementations must be safe for concurrent calls.
type Callable interface {
	// Arguments returns the target's parameters in declaration order.
	Arguments() []Argument

	// Call invokes the target with the resolved argument list, one entry
	// per declared argument, nil for a null binding.
	Call(ctx context.Context, args []any) (any, error)
}

// Func adapts an ordinary Go function into a [Callable] using reflection.
// The function may optionally take a leading context.Context, and may return
// nothing, a value, an error, or a value and an error.
type Func struct {
	fn       reflect.Value
	fnType   reflect.Type
	args     []Argument
	takesCtx bool
}

// NewFunc wraps fn with the given argument descriptors, one per parameter
// (excluding a leading context.Context). Descriptors with a nil Type inherit
// the parameter type; descriptors with a type set must match it exactly.
//
// Example:
//
//	target, err := dispatch.NewFunc(
//	    func(ctx context.Context, id int64, name *string) (User, error) { ... },
//	    dispatch.Arg[int64]("id"),
//	    dispatch.NullableArg[*string]("name"),
//	)
func NewFunc(fn any, args ...Argument) (*Func, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, ErrTargetNotFunc
	}
	ft := fv.Type()

	takesCtx := ft.NumIn() > 0 && ft.In(0) == contextType
	offset := 0
	if takesCtx {
		offset = 1
	}
	if ft.NumIn()-offset != len(args) {
		return nil, fmt.Errorf("%w: have %d descriptors, want %d", ErrArgumentCountMismatch, len(args), ft.NumIn()-offset)
	}

	described := make([]Argument, len(args))
	for i, a := range args {
		pt := ft.In(i + offset)
		if a.Type == nil {
			a.Type = pt
		} else if a.Type != pt {
			return nil, fmt.Errorf("%w: %q is %s, parameter is %s", ErrArgumentTypeMismatch, a.Name, a.Type, pt)
		}
		if isNilableKind(a.Type.Kind()) {
			a.Nullable = true
		}
		described[i] = a
	}

	if err := checkReturnShape(ft); err != nil {
		return nil, err
	}

	return &Func{fn: fv, fnType: ft, args: described, takesCtx: takesCtx}, nil
}

// MustFunc is like [NewFunc] but panics on error. Intended for route tables
// built at startup.
func MustFunc(fn any, args ...Argument) *Func {
	f, err := NewFunc(fn, args...)
	if err != nil {
		panic(err)
	}

	return f
}

// checkReturnShape validates that the function returns one of the supported
// shapes: (), (T), (error), or (T, error).
func checkReturnShape(ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) != errorType {
			return ErrInvalidReturnShape
		}
		return nil
	default:
		return ErrInvalidReturnShape
	}
}

// Arguments returns the described parameters in declaration order.
func (f *Func) Arguments() []Argument {
	return f.args
}

// Call invokes the wrapped function. A nil args entry binds the parameter's
// zero value, which for nilable kinds is nil.
func (f *Func) Call(ctx context.Context, args []any) (any, error) {
	if len(args) != len(f.args) {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrWrongArgumentCount, len(args), len(f.args))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	offset := 0
	if f.takesCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
		offset = 1
	}
	for i, a := range args {
		pt := f.fnType.In(i + offset)
		if a == nil {
			in = append(in, reflect.Zero(pt))
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: argument %d is %T, parameter is %s", ErrWrongArgumentTypes, i, a, pt)
		}
		in = append(in, av)
	}

	out := f.fn.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if f.fnType.Out(0) == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

// asError extracts an error from a reflect value, preserving nil.
func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	err, ok := v.Interface().(error)
	if !ok {
		return nil
	}

	return err
}
