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
	"errors"
	"fmt"

	"rivaas.dev/dispatch/convert"
)

// Static errors for dispatch operations. Wrong-count and wrong-type failures
// in the direct-invoke path are integration errors, not user input errors.
var (
	ErrTargetNotFunc         = errors.New("route target must be a function")
	ErrArgumentCountMismatch = errors.New("argument descriptors do not match target signature")
	ErrArgumentTypeMismatch  = errors.New("argument descriptor type does not match target parameter")
	ErrInvalidReturnShape    = errors.New("target must return nothing, a value, an error, or a value and an error")
	ErrWrongArgumentCount    = errors.New("wrong number of arguments to route target")
	ErrWrongArgumentTypes    = errors.New("wrong argument types for route target")
)

// UnsatisfiedError indicates that a required input (including the body
// argument) had no usable value at final resolution. It carries the
// offending argument so error-reporting layers can name the parameter.
//
// Use [errors.As] to check for UnsatisfiedError:
//
//	var unsat *dispatch.UnsatisfiedError
//	if errors.As(err, &unsat) {
//	    fmt.Printf("missing: %s\n", unsat.Argument.Name)
//	}
type UnsatisfiedError struct {
	Argument Argument
}

// Error returns a formatted error message naming the missing argument.
func (e *UnsatisfiedError) Error() string {
	typeName := "unknown"
	if e.Argument.Type != nil {
		typeName = e.Argument.Type.String()
	}

	return fmt.Sprintf("required argument %q of type %s is not present", e.Argument.Name, typeName)
}

// HTTPStatus implements rivaas.dev/errors.ErrorType.
func (e *UnsatisfiedError) HTTPStatus() int {
	return 400 // Bad Request
}

// Code implements rivaas.dev/errors.ErrorCode.
func (e *UnsatisfiedError) Code() string {
	return "unsatisfied_route"
}

// ConversionFailedError indicates that a raw value could not be converted to
// an argument's declared type. It carries the argument and the underlying
// conversion diagnostic.
type ConversionFailedError struct {
	Argument Argument
	Err      *convert.Error
}

// Error returns a formatted error message.
func (e *ConversionFailedError) Error() string {
	return fmt.Sprintf("failed to convert argument %q: %v", e.Argument.Name, e.Err)
}

// Unwrap returns the underlying conversion error for errors.Is/As
// compatibility.
func (e *ConversionFailedError) Unwrap() error {
	return e.Err
}

// HTTPStatus implements rivaas.dev/errors.ErrorType.
func (e *ConversionFailedError) HTTPStatus() int {
	return 400 // Bad Request
}

// Code implements rivaas.dev/errors.ErrorCode.
func (e *ConversionFailedError) Code() string {
	return "conversion_error"
}
