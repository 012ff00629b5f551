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
	"encoding"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type references for special type handling.
var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
	urlType             = reflect.TypeFor[url.URL]()
	ipType              = reflect.TypeFor[net.IP]()
	uuidType            = reflect.TypeFor[uuid.UUID]()
)

// Service converts raw values to declared argument types. It is immutable
// after [New] and safe for concurrent use.
type Service struct {
	opts options
}

// New creates a conversion service with the given options.
func New(opts ...Option) *Service {
	o := options{sliceCSV: true}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{opts: o}
}

// defaultService backs Default. It carries no custom converters.
var defaultService = New()

// Default returns the shared default conversion service.
func Default() *Service {
	return defaultService
}

// Convert converts value to the target type. It reports success or failure
// without a diagnostic; use [Service.ConvertWithContext] when the caller
// needs to inspect why a conversion failed.
func (s *Service) Convert(value any, target reflect.Type) (any, bool) {
	return s.ConvertWithContext(value, NewContext("", target))
}

// ConvertWithContext converts value to the context's target type, recording
// the most recent failure on the context.
//
// A nil value (or a typed nil pointer, map, or slice) produces no result and
// records no error: there was nothing to convert. Callers use the
// nil-LastError state to distinguish absence from failure.
func (s *Service) ConvertWithContext(value any, ctx *Context) (any, bool) {
	target := ctx.Target()
	if target == nil || value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if isNilable(rv.Kind()) && rv.IsNil() {
		return nil, false
	}

	if rv.Type().AssignableTo(target) {
		return value, true
	}

	// Registered converters take priority over built-in rules.
	if conv, ok := s.opts.converters[target]; ok {
		out, err := conv(value)
		if err != nil {
			ctx.record(value, err)
			return nil, false
		}

		return out, true
	}

	if str, ok := value.(string); ok {
		return s.fromString(str, value, target, ctx)
	}

	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target).Interface(), true
	}

	if target.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		return s.convertSlice(rv, target, ctx)
	}

	if target.Kind() == reflect.String {
		return reflect.ValueOf(fmt.Sprint(value)).Convert(target).Interface(), true
	}

	// Last resort: fmt.Stringer sources retry through the string rules.
	if str, ok := value.(fmt.Stringer); ok {
		return s.fromString(str.String(), value, target, ctx)
	}

	ctx.record(value, ErrNoConversion)

	return nil, false
}

// fromString converts a string representation to the target type. orig is
// the original value, kept for diagnostics.
func (s *Service) fromString(str string, orig any, target reflect.Type, ctx *Context) (any, bool) {
	// Special types take priority over TextUnmarshaler so time.Time gets
	// multi-layout parsing.
	switch target {
	case timeType:
		t, err := s.parseTime(str)
		if err != nil {
			ctx.record(orig, err)
			return nil, false
		}
		return t, true

	case durationType:
		d, err := time.ParseDuration(str)
		if err != nil {
			ctx.record(orig, err)
			return nil, false
		}
		return d, true

	case urlType:
		u, err := url.Parse(str)
		if err != nil {
			ctx.record(orig, err)
			return nil, false
		}
		return *u, true

	case ipType:
		ip := net.ParseIP(str)
		if ip == nil {
			ctx.record(orig, fmt.Errorf("%w: %s", ErrInvalidIPAddress, str))
			return nil, false
		}
		return ip, true

	case uuidType:
		id, err := uuid.Parse(str)
		if err != nil {
			ctx.record(orig, fmt.Errorf("%w: %v", ErrInvalidUUIDFormat, err))
			return nil, false
		}
		return id, true
	}

	// Pointer targets convert to the element type and take its address.
	if target.Kind() == reflect.Pointer {
		inner := NewContext(ctx.Name(), target.Elem())
		out, ok := s.ConvertWithContext(str, inner)
		if !ok {
			if le := inner.LastError(); le != nil {
				ctx.record(orig, le.Err)
			}
			return nil, false
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(reflect.ValueOf(out))

		return ptr.Interface(), true
	}

	if reflect.PointerTo(target).Implements(textUnmarshalerType) {
		pv := reflect.New(target)
		um, ok := pv.Interface().(encoding.TextUnmarshaler)
		if !ok {
			ctx.record(orig, ErrNoConversion)
			return nil, false
		}
		if err := um.UnmarshalText([]byte(str)); err != nil {
			ctx.record(orig, err)
			return nil, false
		}

		return pv.Elem().Interface(), true
	}

	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(str).Convert(target).Interface(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			ctx.record(orig, fmt.Errorf("invalid integer: %w", err))
			return nil, false
		}
		out := reflect.New(target).Elem()
		if out.OverflowInt(i) {
			ctx.record(orig, fmt.Errorf("integer overflows %s: %s", target, str))
			return nil, false
		}
		out.SetInt(i)
		return out.Interface(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			ctx.record(orig, fmt.Errorf("invalid unsigned integer: %w", err))
			return nil, false
		}
		out := reflect.New(target).Elem()
		if out.OverflowUint(u) {
			ctx.record(orig, fmt.Errorf("unsigned integer overflows %s: %s", target, str))
			return nil, false
		}
		out.SetUint(u)
		return out.Interface(), true

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			ctx.record(orig, fmt.Errorf("invalid float: %w", err))
			return nil, false
		}
		out := reflect.New(target).Elem()
		out.SetFloat(f)
		return out.Interface(), true

	case reflect.Bool:
		b, err := parseBoolGenerous(str)
		if err != nil {
			ctx.record(orig, err)
			return nil, false
		}
		return b, true

	case reflect.Slice:
		return s.stringToSlice(str, orig, target, ctx)
	}

	ctx.record(orig, ErrNoConversion)

	return nil, false
}

// convertSlice converts a slice or array value element-wise to the target
// slice type.
func (s *Service) convertSlice(rv reflect.Value, target reflect.Type, ctx *Context) (any, bool) {
	out := reflect.MakeSlice(target, rv.Len(), rv.Len())
	for i := range rv.Len() {
		elem := rv.Index(i).Interface()
		elemCtx := NewContext(ctx.Name(), target.Elem())
		v, ok := s.ConvertWithContext(elem, elemCtx)
		if !ok {
			cause := error(ErrNoConversion)
			if le := elemCtx.LastError(); le != nil {
				cause = le.Err
			}
			ctx.record(elem, fmt.Errorf("element %d: %w", i, cause))

			return nil, false
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}

	return out.Interface(), true
}

// stringToSlice converts a string to a slice target, splitting on commas
// when CSV mode is enabled.
func (s *Service) stringToSlice(str string, orig any, target reflect.Type, ctx *Context) (any, bool) {
	parts := []string{str}
	if s.opts.sliceCSV && strings.Contains(str, ",") {
		parts = strings.Split(str, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
	}

	out := reflect.MakeSlice(target, len(parts), len(parts))
	for i, part := range parts {
		elemCtx := NewContext(ctx.Name(), target.Elem())
		v, ok := s.ConvertWithContext(part, elemCtx)
		if !ok {
			cause := error(ErrNoConversion)
			if le := elemCtx.LastError(); le != nil {
				cause = le.Err
			}
			ctx.record(orig, fmt.Errorf("element %d: %w", i, cause))

			return nil, false
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}

	return out.Interface(), true
}

// parseTime attempts to parse a time string using the default layouts, then
// any custom layouts from options.
func (s *Service) parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnableToParseTime)
	}

	defaultFormats := []string{
		time.RFC3339,          // 2024-01-15T10:30:00Z (ISO 8601)
		time.RFC3339Nano,      // with nanoseconds
		"2006-01-02",          // Date only: 2024-01-15
		"2006-01-02 15:04:05", // DateTime: 2024-01-15 10:30:00
		"2006-01-02T15:04:05", // DateTime without timezone
		time.RFC1123,
		time.RFC1123Z,
	}
	for _, format := range defaultFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range s.opts.timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w %q (tried RFC3339, date-only, and other common formats)", ErrUnableToParseTime, value)
}

// parseBoolGenerous parses various boolean string representations.
// It supports: true/false, 1/0, yes/no, on/off, t/f, y/n (case-insensitive).
func parseBoolGenerous(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBooleanValue, s)
	}
}

// isNumeric reports whether the kind is an integer, unsigned integer, or
// float kind.
func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// isNilable reports whether values of the kind can be nil.
func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
