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

// Converter converts a raw value to a custom type. Registered converters are
// checked before built-in conversion rules. If a converter returns an error,
// conversion fails for that value and the error is recorded on the context.
type Converter func(value any) (any, error)

// Option configures a conversion [Service].
type Option func(*options)

// options holds Service configuration.
type options struct {
	timeLayouts []string
	converters  map[reflect.Type]Converter
	sliceCSV    bool
}

// WithConverter registers a custom converter for type T.
//
// Example:
//
//	svc := convert.New(
//	    convert.WithConverter(func(v any) (Temperature, error) {
//	        return ParseTemperature(fmt.Sprint(v))
//	    }),
//	)
func WithConverter[T any](fn func(value any) (T, error)) Option {
	return func(o *options) {
		if o.converters == nil {
			o.converters = make(map[reflect.Type]Converter)
		}
		o.converters[reflect.TypeFor[T]()] = func(v any) (any, error) {
			return fn(v)
		}
	}
}

// WithTimeLayouts adds custom time layouts tried after the default formats
// (RFC3339, date-only, and other common layouts).
func WithTimeLayouts(layouts ...string) Option {
	return func(o *options) {
		o.timeLayouts = append(o.timeLayouts, layouts...)
	}
}

// WithoutSliceCSV disables splitting a single comma-separated string into
// slice elements. By default "a,b,c" converts to []string{"a", "b", "c"}.
func WithoutSliceCSV() Option {
	return func(o *options) {
		o.sliceCSV = false
	}
}
