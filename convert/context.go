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

package convert

import "reflect"

// Context scopes a conversion to a named argument and records the most
// recent failure. It lets callers distinguish "no value produced, nothing
// went wrong" from "conversion attempted and failed": a Context with a nil
// LastError after a failed conversion means there was nothing to convert.
//
// A Context is single-use and not safe for concurrent access. Create one per
// argument resolution.
type Context struct {
	name    string
	target  reflect.Type
	lastErr *Error
}

// NewContext creates a conversion context scoped to the named argument and
// target type.
func NewContext(name string, target reflect.Type) *Context {
	return &Context{name: name, target: target}
}

// Name returns the argument name the context is scoped to.
func (c *Context) Name() string {
	return c.name
}

// Target returns the target type the context is scoped to.
func (c *Context) Target() reflect.Type {
	return c.target
}

// LastError returns the most recent conversion failure, or nil if no failure
// has been recorded.
func (c *Context) LastError() *Error {
	return c.lastErr
}

// record stores a conversion failure as the context's last error.
func (c *Context) record(value any, cause error) {
	c.lastErr = &Error{
		Name:  c.name,
		Value: value,
		Type:  c.target,
		Err:   cause,
	}
}
