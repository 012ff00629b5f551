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

// Package convert provides value coercion for the dispatch layer.
//
// A [Service] converts raw request-derived values (typically strings from
// path or query extraction, but also decoded body values) into the Go types
// declared by a route's target arguments. Conversion is best-effort: the
// two-valued Convert form reports only success or failure, while the
// [Context]-bearing form additionally records the most recent failure as an
// inspectable [*Error] so callers can distinguish "nothing to convert" from
// "conversion attempted and failed".
//
// # Quick Start
//
//	svc := convert.New()
//	v, ok := svc.Convert("42", reflect.TypeFor[int64]())
//	// v == int64(42), ok == true
//
// With a context to capture diagnostics:
//
//	ctx := convert.NewContext("id", reflect.TypeFor[int64]())
//	v, ok := svc.ConvertWithContext("abc", ctx)
//	if !ok {
//	    err := ctx.LastError() // *convert.Error naming the value and type
//	}
//
// # Supported Conversions
//
//   - assignable values pass through untouched
//   - strings to integers, unsigned integers, floats, and booleans
//     (generous boolean parsing: true/false, yes/no, 1/0, on/off)
//   - strings to time.Time (multiple layouts), time.Duration, url.URL,
//     net.IP, and uuid.UUID
//   - strings to any type implementing encoding.TextUnmarshaler
//   - numeric widening and narrowing between numeric kinds
//   - slices with per-element conversion, including CSV-split strings
//   - anything to string via fmt formatting
//
// # Custom Converters
//
// Register converters for domain types with functional options:
//
//	svc := convert.New(
//	    convert.WithConverter(func(v any) (Temperature, error) {
//	        return ParseTemperature(fmt.Sprint(v))
//	    }),
//	    convert.WithTimeLayouts("2006-01-02", "01/02/2006"),
//	)
//
// Registered converters take priority over the built-in rules.
//
// # Thread Safety
//
// A Service is immutable after New and safe for concurrent use. A Context is
// not: it belongs to a single resolution attempt.
package convert
