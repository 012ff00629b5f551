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

package bodybind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"

	"rivaas.dev/dispatch"
	"rivaas.dev/dispatch/convert"
)

// Static errors for body binding.
var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrBodyTooLarge           = errors.New("request body too large")
	ErrNotProtoMessage        = errors.New("target is not a proto.Message")
)

// DefaultMaxBytes caps how much of a request body is read.
const DefaultMaxBytes = 10 << 20 // 10 MiB

// Option configures body binding.
type Option func(*options)

type options struct {
	maxBytes int64
	fallback dispatch.MediaType
	argName  string
}

// WithMaxBytes overrides the body size limit.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

// WithFallback sets the media type assumed when the request carries no
// Content-Type header. Defaults to [dispatch.ApplicationJSON].
func WithFallback(mt dispatch.MediaType) Option {
	return func(o *options) {
		o.fallback = mt
	}
}

// WithArgName sets the argument name reported in binding diagnostics.
// Defaults to "body".
func WithArgName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.argName = name
		}
	}
}

// For returns a deferred binder that decodes the request body into a T when
// forced. The request body is consumed on the first force; binders are
// forced at most once per execution.
func For[T any](req *http.Request, opts ...Option) dispatch.Unresolved {
	return Body(req, reflect.TypeFor[T](), opts...)
}

// Body is the untyped form of [For], decoding into a freshly allocated value
// of the given target type. Pointer targets yield the pointer; value targets
// yield the dereferenced value.
func Body(req *http.Request, target reflect.Type, opts ...Option) dispatch.Unresolved {
	o := &options{maxBytes: DefaultMaxBytes, fallback: dispatch.ApplicationJSON, argName: "body"}
	for _, opt := range opts {
		opt(o)
	}

	return func() dispatch.BindingResult {
		return decode(req, target, o)
	}
}

// decode performs the actual read-and-unmarshal when the binder is forced.
func decode(req *http.Request, target reflect.Type, o *options) dispatch.BindingResult {
	mt := dispatch.ParseMediaType(req.Header.Get("Content-Type"))
	if mt == "" {
		mt = o.fallback
	}

	data, err := readLimited(req.Body, o.maxBytes)
	if err != nil {
		return failed(o.argName, nil, target, err)
	}
	if len(data) == 0 {
		return dispatch.BindingEmpty()
	}

	// Decode into the pointed-to struct regardless of whether the declared
	// target is the pointer or the value.
	elem := target
	wantPtr := target.Kind() == reflect.Pointer
	if wantPtr {
		elem = target.Elem()
	}
	ptr := reflect.New(elem)

	if err := unmarshal(mt, data, ptr.Interface()); err != nil {
		return failed(o.argName, string(data), target, err)
	}

	if wantPtr {
		return dispatch.BindingOf(ptr.Interface())
	}

	return dispatch.BindingOf(ptr.Elem().Interface())
}

// unmarshal dispatches on the normalized media type.
func unmarshal(mt dispatch.MediaType, data []byte, out any) error {
	switch mt {
	case dispatch.ApplicationJSON:
		return json.Unmarshal(data, out)
	case dispatch.ApplicationYAML:
		return yaml.Unmarshal(data, out)
	case dispatch.ApplicationTOML:
		return toml.Unmarshal(data, out)
	case dispatch.ApplicationMsgPack:
		return msgpack.Unmarshal(data, out)
	case dispatch.ApplicationProtobuf:
		msg, ok := out.(proto.Message)
		if !ok {
			return fmt.Errorf("%w: %T", ErrNotProtoMessage, out)
		}
		return proto.Unmarshal(data, msg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedContentType, mt)
	}
}

// readLimited reads at most max bytes and fails when the body exceeds it.
func readLimited(body io.ReadCloser, max int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(body, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrBodyTooLarge
	}

	return data, nil
}

// failed wraps a decode failure as an absent binding with one diagnostic.
func failed(name string, value any, target reflect.Type, err error) dispatch.BindingResult {
	return dispatch.BindingFailed(&convert.Error{
		Name:  name,
		Value: value,
		Type:  target,
		Err:   err,
	})
}
