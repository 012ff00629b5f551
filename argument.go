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

import "reflect"

// Argument describes one parameter of a route's target callable: its name,
// declared type, and nullability. Arguments are immutable and owned by the
// route definition.
//
// Nullable reports whether the declared type can hold nil at runtime
// (pointers, maps, slices, interfaces). DeclaredNullable reports whether the
// route author opted the parameter into nullable-absorption semantics: a
// declared-nullable argument with no resolvable value binds nil instead of
// failing resolution.
type Argument struct {
	Name             string
	Type             reflect.Type
	Nullable         bool
	DeclaredNullable bool
}

// Arg builds an argument descriptor for type T. Nilable kinds are marked
// runtime-nullable.
//
// Example:
//
//	dispatch.Arg[int64]("id")
//	dispatch.Arg[*User]("user")
func Arg[T any](name string) Argument {
	t := reflect.TypeFor[T]()

	return Argument{
		Name:     name,
		Type:     t,
		Nullable: isNilableKind(t.Kind()),
	}
}

// NullableArg builds a declared-nullable argument descriptor for type T.
// A missing or error-free-absent value for a declared-nullable argument
// resolves to nil rather than an unsatisfied-route failure.
func NullableArg[T any](name string) Argument {
	a := Arg[T](name)
	a.Nullable = true
	a.DeclaredNullable = true

	return a
}

// IsContainer reports whether the declared type is a container (slice,
// array, or map).
func (a Argument) IsContainer() bool {
	if a.Type == nil {
		return false
	}
	switch a.Type.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// HasTypeVariables reports whether the container's element type is concrete.
// A concrete element type means a value of matching container type may still
// need per-element conversion; a container of any does not.
func (a Argument) HasTypeVariables() bool {
	if !a.IsContainer() {
		return false
	}

	return a.Type.Elem().Kind() != reflect.Interface
}

// accepts reports whether v's runtime type already satisfies the declared
// type without conversion.
func (a Argument) accepts(v any) bool {
	if v == nil || a.Type == nil {
		return false
	}

	return reflect.TypeOf(v).AssignableTo(a.Type)
}

// isNilableKind reports whether values of the kind can hold nil.
func isNilableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
