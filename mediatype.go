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

import "strings"

// MediaType is a normalized MIME type. The zero value means "no media type
// given".
type MediaType string

// Well-known media types.
const (
	// All is the universal wildcard. A route that consumes or produces All
	// matches every content type.
	All MediaType = "*/*"

	ApplicationJSON     MediaType = "application/json"
	ApplicationXML      MediaType = "application/xml"
	ApplicationYAML     MediaType = "application/yaml"
	ApplicationTOML     MediaType = "application/toml"
	ApplicationMsgPack  MediaType = "application/msgpack"
	ApplicationProtobuf MediaType = "application/x-protobuf"
	ApplicationForm     MediaType = "application/x-www-form-urlencoded"
	TextPlain           MediaType = "text/plain"
	TextHTML            MediaType = "text/html"
)

// mediaTypeAliases maps short names and alternate spellings to canonical
// media types.
var mediaTypeAliases = map[string]MediaType{
	"json":                   ApplicationJSON,
	"xml":                    ApplicationXML,
	"text/xml":               ApplicationXML,
	"yaml":                   ApplicationYAML,
	"application/x-yaml":     ApplicationYAML,
	"text/yaml":              ApplicationYAML,
	"toml":                   ApplicationTOML,
	"msgpack":                ApplicationMsgPack,
	"application/x-msgpack":  ApplicationMsgPack,
	"proto":                  ApplicationProtobuf,
	"protobuf":               ApplicationProtobuf,
	"application/protobuf":   ApplicationProtobuf,
	"text":                   TextPlain,
	"txt":                    TextPlain,
	"html":                   TextHTML,
	"form":                   ApplicationForm,
}

// ParseMediaType normalizes a Content-Type or Accept entry: it lowercases,
// strips parameters (charset and the like), and resolves common short names
// and alternate spellings to canonical types.
func ParseMediaType(s string) MediaType {
	s = strings.TrimSpace(strings.ToLower(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return ""
	}
	if canonical, ok := mediaTypeAliases[s]; ok {
		return canonical
	}

	return MediaType(s)
}

// String returns the media type as a string.
func (m MediaType) String() string {
	return string(m)
}

// DoesConsume reports whether the route accepts the given request content
// type: true when no content type is given, when the route consumes
// everything, or when the consumed set contains the type explicitly.
func (m *RouteMatch) DoesConsume(contentType MediaType) bool {
	return contentType == "" || m.def.consumesAll || m.ExplicitlyConsumes(contentType)
}

// ExplicitlyConsumes reports whether the consumed set contains contentType.
// No wildcard expansion is performed.
func (m *RouteMatch) ExplicitlyConsumes(contentType MediaType) bool {
	for _, mt := range m.def.consumes {
		if mt == contentType {
			return true
		}
	}

	return false
}

// DoesProduce reports whether the route can satisfy a single acceptable
// type: true when the route produces everything, when no preference is
// given, when the wildcard is acceptable, or when the type is explicitly
// produced.
func (m *RouteMatch) DoesProduce(acceptableType MediaType) bool {
	return m.def.producesAll ||
		acceptableType == "" ||
		acceptableType == All ||
		m.producesContains(acceptableType)
}

// DoesProduceAny reports whether the route can satisfy any entry of an
// acceptable-type collection. An empty collection is open negotiation and
// always matches.
func (m *RouteMatch) DoesProduceAny(acceptableTypes []MediaType) bool {
	if m.def.producesAll || len(acceptableTypes) == 0 {
		return true
	}
	for _, mt := range acceptableTypes {
		if mt == All || m.producesContains(mt) {
			return true
		}
	}

	return false
}

// producesContains reports whether the produced set contains mt.
func (m *RouteMatch) producesContains(mt MediaType) bool {
	for _, p := range m.def.produces {
		if p == mt {
			return true
		}
	}

	return false
}
