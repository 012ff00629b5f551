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

// Package bodybind turns HTTP request bodies into deferred argument binders
// for route matches. The body is not read when the binder is created; it is
// read and decoded when the match forces the binder during execution, so
// routes rejected by guards or content negotiation never pay for decoding.
//
// # Quick Start
//
//	match = match.Fulfill(map[string]any{
//	    "body": bodybind.For[CreateUserRequest](req),
//	})
//	out, err := match.Execute(req.Context(), nil)
//
// # Supported Content Types
//
// JSON, YAML, TOML, MessagePack, and Protobuf, selected by the request's
// Content-Type header. Requests without a Content-Type fall back to JSON
// unless overridden with [WithFallback]. An empty body yields a cleanly
// absent binding, which Execute maps to nil for nullable body arguments.
//
// # Limits
//
// Bodies are read through a size limit (10 MiB by default, see
// [WithMaxBytes]); an oversized body fails the binding rather than
// truncating it.
package bodybind
