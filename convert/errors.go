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

import (
	"errors"
	"fmt"
	"reflect"
)

// Static errors for conversion operations.
var (
	ErrNoConversion        = errors.New("no conversion available")
	ErrInvalidBooleanValue = errors.New("invalid boolean value")
	ErrUnableToParseTime   = errors.New("unable to parse time")
	ErrInvalidUUIDFormat   = errors.New("invalid UUID format")
	ErrInvalidIPAddress    = errors.New("invalid IP address")
)

// Error describes a failed conversion attempt with enough context to format
// a diagnostic naming the offending argument.
//
// Use [errors.As] to check for Error:
//
//	var convErr *convert.Error
//	if errors.As(err, &convErr) {
//	    fmt.Printf("argument: %s, value: %v\n", convErr.Name, convErr.Value)
//	}
type Error struct {
	Name  string       // Argument name the conversion was scoped to
	Value any          // The value that failed conversion
	Type  reflect.Type // Target Go type
	Err   error        // Underlying error
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	typeName := "unknown"
	if e.Type != nil {
		typeName = e.Type.String()
	}
	if e.Name != "" {
		return fmt.Sprintf("converting argument %q: cannot convert %v (%T) to %s: %v",
			e.Name, e.Value, e.Value, typeName, e.Err)
	}

	return fmt.Sprintf("cannot convert %v (%T) to %s: %v", e.Value, e.Value, typeName, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus implements rivaas.dev/errors.ErrorType.
func (e *Error) HTTPStatus() int {
	return 400 // Bad Request
}

// Code implements rivaas.dev/errors.ErrorCode.
func (e *Error) Code() string {
	return "conversion_error"
}
