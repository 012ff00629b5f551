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

import "maps"

// orderedArgs is an insertion-ordered name to Argument mapping. Insertion
// order is declaration order and drives resolution order in Execute.
type orderedArgs struct {
	names  []string
	byName map[string]Argument
}

// newOrderedArgs builds an ordered argument set. Later duplicates overwrite
// earlier entries without changing their position.
func newOrderedArgs(args []Argument) *orderedArgs {
	o := &orderedArgs{
		names:  make([]string, 0, len(args)),
		byName: make(map[string]Argument, len(args)),
	}
	for _, a := range args {
		if _, ok := o.byName[a.Name]; !ok {
			o.names = append(o.names, a.Name)
		}
		o.byName[a.Name] = a
	}

	return o
}

func (o *orderedArgs) get(name string) (Argument, bool) {
	a, ok := o.byName[name]
	return a, ok
}

func (o *orderedArgs) len() int {
	return len(o.names)
}

// all returns the arguments in declaration order.
func (o *orderedArgs) all() []Argument {
	out := make([]Argument, 0, len(o.names))
	for _, name := range o.names {
		out = append(out, o.byName[name])
	}

	return out
}

// orderedValues is an insertion-ordered name to Value mapping: the variable
// snapshot owned by a single RouteMatch. It is never shared between matches;
// Fulfill clones before writing.
type orderedValues struct {
	names  []string
	byName map[string]Value
}

func newOrderedValues() *orderedValues {
	return &orderedValues{byName: make(map[string]Value)}
}

// set stores v under name. A name keeps its original position when
// overwritten.
func (o *orderedValues) set(name string, v Value) {
	if _, ok := o.byName[name]; !ok {
		o.names = append(o.names, name)
	}
	o.byName[name] = v
}

func (o *orderedValues) get(name string) (Value, bool) {
	v, ok := o.byName[name]
	return v, ok
}

func (o *orderedValues) has(name string) bool {
	_, ok := o.byName[name]
	return ok
}

func (o *orderedValues) len() int {
	return len(o.names)
}

// clone returns an independent copy sharing no mutable state.
func (o *orderedValues) clone() *orderedValues {
	c := &orderedValues{
		names:  make([]string, len(o.names)),
		byName: make(map[string]Value, len(o.byName)),
	}
	copy(c.names, o.names)
	maps.Copy(c.byName, o.byName)

	return c
}

// ordered returns the values in insertion order.
func (o *orderedValues) ordered() []Value {
	out := make([]Value, 0, len(o.names))
	for _, name := range o.names {
		out = append(out, o.byName[name])
	}

	return out
}

// each calls fn for every entry in insertion order until fn returns false.
func (o *orderedValues) each(fn func(name string, v Value) bool) {
	for _, name := range o.names {
		if !fn(name, o.byName[name]) {
			return
		}
	}
}
