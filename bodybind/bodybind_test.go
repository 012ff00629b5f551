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
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"rivaas.dev/dispatch"
)

type createUserRequest struct {
	Name  string `json:"name"  msgpack:"name"  toml:"name"  yaml:"name"`
	Email string `json:"email" msgpack:"email" toml:"email" yaml:"email"`
}

func newRequest(contentType, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req
}

func TestBody_Decode(t *testing.T) {
	t.Parallel()

	want := createUserRequest{Name: "bob", Email: "bob@example.com"}

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"name":"bob","email":"bob@example.com"}`,
		},
		{
			name:        "json with charset",
			contentType: "application/json; charset=utf-8",
			body:        `{"name":"bob","email":"bob@example.com"}`,
		},
		{
			name:        "yaml",
			contentType: "application/yaml",
			body:        "name: bob\nemail: bob@example.com\n",
		},
		{
			name:        "toml",
			contentType: "application/toml",
			body:        "name = \"bob\"\nemail = \"bob@example.com\"\n",
		},
		{
			name:        "no content type falls back to json",
			contentType: "",
			body:        `{"name":"bob","email":"bob@example.com"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			binder := For[createUserRequest](newRequest(tt.contentType, tt.body))
			res := binder()
			require.True(t, res.PresentAndSatisfied())
			assert.Equal(t, want, res.Value())
		})
	}
}

func TestBody_MsgPack(t *testing.T) {
	t.Parallel()

	data, err := msgpack.Marshal(createUserRequest{Name: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/msgpack")

	res := For[createUserRequest](req)()
	require.True(t, res.PresentAndSatisfied())
	assert.Equal(t, createUserRequest{Name: "bob", Email: "bob@example.com"}, res.Value())
}

func TestBody_PointerTarget(t *testing.T) {
	t.Parallel()

	res := For[*createUserRequest](newRequest("application/json", `{"name":"bob"}`))()
	require.True(t, res.PresentAndSatisfied())

	out, ok := res.Value().(*createUserRequest)
	require.True(t, ok)
	assert.Equal(t, "bob", out.Name)
}

func TestBody_EmptyBodyIsCleanlyAbsent(t *testing.T) {
	t.Parallel()

	res := For[createUserRequest](newRequest("application/json", ""))()
	assert.False(t, res.PresentAndSatisfied())
	assert.Empty(t, res.ConversionErrors())
}

func TestBody_MalformedPayload(t *testing.T) {
	t.Parallel()

	res := For[createUserRequest](newRequest("application/json", `{"name":`))()
	require.False(t, res.PresentAndSatisfied())
	errs := res.ConversionErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Name)
}

func TestBody_UnsupportedContentType(t *testing.T) {
	t.Parallel()

	res := For[createUserRequest](newRequest("application/pdf", "%PDF"))()
	require.False(t, res.PresentAndSatisfied())
	errs := res.ConversionErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUnsupportedContentType)
}

func TestBody_TooLarge(t *testing.T) {
	t.Parallel()

	body := `{"name":"` + strings.Repeat("x", 64) + `"}`
	res := For[createUserRequest](newRequest("application/json", body), WithMaxBytes(16))()
	require.False(t, res.PresentAndSatisfied())
	errs := res.ConversionErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrBodyTooLarge)
}

func TestBody_ProtobufNeedsMessage(t *testing.T) {
	t.Parallel()

	res := For[createUserRequest](newRequest("application/x-protobuf", "\x0a\x03bob"))()
	require.False(t, res.PresentAndSatisfied())
	errs := res.ConversionErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNotProtoMessage)
}

func TestBody_ArgNameInDiagnostics(t *testing.T) {
	t.Parallel()

	res := For[createUserRequest](
		newRequest("application/json", "{"),
		WithArgName("payload"),
	)()
	errs := res.ConversionErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "payload", errs[0].Name)
}

func TestBody_FallbackOverride(t *testing.T) {
	t.Parallel()

	res := For[createUserRequest](
		newRequest("", "name: bob\n"),
		WithFallback(dispatch.ApplicationYAML),
	)()
	require.True(t, res.PresentAndSatisfied())
	assert.Equal(t, "bob", res.Value().(createUserRequest).Name)
}

func TestBody_DeferredUntilExecute(t *testing.T) {
	t.Parallel()

	target := dispatch.MustFunc(
		func(ctx context.Context, id int64, body *createUserRequest) (string, error) {
			if body == nil {
				return "no body", nil
			}

			return body.Name, nil
		},
		dispatch.Arg[int64]("id"),
		dispatch.NullableArg[*createUserRequest]("body"),
	)
	route := dispatch.NewRoute(target,
		dispatch.WithBodyName("body"),
		dispatch.WithConsumes(dispatch.ApplicationJSON),
	)

	t.Run("body decoded on execute", func(t *testing.T) {
		t.Parallel()

		req := newRequest("application/json", `{"name":"bob"}`)
		m := route.Match(map[string]any{"id": int64(1)}).
			Fulfill(map[string]any{"body": For[*createUserRequest](req)})

		require.False(t, m.IsExecutable(), "deferred body is not yet a value")

		out, err := m.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "bob", out)
	})

	t.Run("empty body binds nil for nullable body argument", func(t *testing.T) {
		t.Parallel()

		req := newRequest("application/json", "")
		m := route.Match(map[string]any{"id": int64(1)}).
			Fulfill(map[string]any{"body": For[*createUserRequest](req)})

		out, err := m.Execute(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "no body", out)
	})
}
