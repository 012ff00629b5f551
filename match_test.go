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
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/convert"
)

// newUserRoute builds the route used across tests: a target taking a
// required id and a nullable name.
func newUserRoute(opts ...RouteOption) *RouteDefinition {
	target := MustFunc(
		func(ctx context.Context, id int64, name *string) (string, error) {
			if name == nil {
				return fmt.Sprintf("%d:<none>", id), nil
			}

			return fmt.Sprintf("%d:%s", id, *name), nil
		},
		Arg[int64]("id"),
		NullableArg[*string]("name"),
	)

	return NewRoute(target, opts...)
}

func TestMatch_InitialSnapshot(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(map[string]any{"id": "42"})

	remaining := m.Remaining()
	require.Len(t, remaining, 1)
	assert.Equal(t, "name", remaining[0].Name)

	v, ok := m.vars.get("id")
	require.True(t, ok)
	assert.Equal(t, KindBound, v.Kind())
	assert.Equal(t, "42", v.Raw(), "initial snapshot values stay raw until resolution")
}

func TestMatch_NilEntriesIgnored(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(map[string]any{"id": nil})

	assert.False(t, m.vars.has("id"))
	assert.Len(t, m.Remaining(), 2)
}

func TestMatch_ValueSequenceOrder(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(map[string]any{
		"zebra": "z",
		"name":  "bob",
		"alpha": "a",
		"id":    int64(1),
	})

	var names []string
	for name := range m.Variables() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"id", "name", "alpha", "zebra"}, names,
		"required inputs in declaration order, extras sorted")
}

func TestFulfill_EmptyReturnsReceiver(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(map[string]any{"id": int64(1)})

	assert.Same(t, m, m.Fulfill(nil))
	assert.Same(t, m, m.Fulfill(map[string]any{}))
}

func TestFulfill_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(map[string]any{"id": int64(1)})
	m2 := m.Fulfill(map[string]any{"name": "bob"})

	require.NotSame(t, m, m2)
	assert.False(t, m.vars.has("name"))
	assert.Len(t, m.Remaining(), 1)
	assert.True(t, m2.vars.has("name"))
	assert.Empty(t, m2.Remaining())
}

func TestFulfill_ConvertsEagerly(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(nil).Fulfill(map[string]any{"id": "42"})

	v, ok := m.vars.get("id")
	require.True(t, ok)
	assert.Equal(t, KindBound, v.Kind())
	assert.Equal(t, int64(42), v.Raw())
}

func TestFulfill_NullDoesNotErase(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(map[string]any{"id": int64(7)})
	m2 := m.Fulfill(map[string]any{"id": nil})

	v, ok := m2.vars.get("id")
	require.True(t, ok)
	assert.Equal(t, int64(7), v.Raw())
}

func TestFulfill_StoresErrorMarker(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(nil).Fulfill(map[string]any{"id": "abc"})

	v, ok := m.vars.get("id")
	require.True(t, ok)
	require.Equal(t, KindInvalid, v.Kind())
	assert.Equal(t, "id", v.Err().Name)
}

func TestFulfill_DropsUnconvertibleNilWithoutDiagnostic(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(nil).Fulfill(map[string]any{"id": (*int)(nil)})

	assert.False(t, m.vars.has("id"), "typed nil produces no value and no marker")
	for _, arg := range m.Remaining() {
		assert.NotEqual(t, "id", arg.Name, "the name was still consumed")
	}
}

func TestFulfill_UnresolvedStoredVerbatim(t *testing.T) {
	t.Parallel()

	forced := false
	binder := Unresolved(func() BindingResult {
		forced = true
		return BindingOf(int64(1))
	})

	m := newUserRoute().Match(nil).Fulfill(map[string]any{"id": binder})

	v, ok := m.vars.get("id")
	require.True(t, ok)
	assert.Equal(t, KindDeferred, v.Kind())
	assert.False(t, forced, "fulfillment must not force binders")
}

func TestFulfill_ErrorValueStoredVerbatim(t *testing.T) {
	t.Parallel()

	convErr := &convert.Error{Name: "id", Value: "x", Err: convert.ErrNoConversion}
	m := newUserRoute().Match(nil).Fulfill(map[string]any{"id": convErr})

	v, ok := m.vars.get("id")
	require.True(t, ok)
	require.Equal(t, KindInvalid, v.Kind())
	assert.Same(t, convErr, v.Err())
}

func TestFulfill_UnknownNamesIgnored(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(nil).Fulfill(map[string]any{"bogus": "x"})

	assert.False(t, m.vars.has("bogus"))
}

func TestIsExecutable(t *testing.T) {
	t.Parallel()

	t.Run("missing required input", func(t *testing.T) {
		t.Parallel()

		m := newUserRoute().Match(map[string]any{"id": int64(1)})
		assert.False(t, m.IsExecutable(), "nullable name is still a required input")
	})

	t.Run("all inputs present", func(t *testing.T) {
		t.Parallel()

		m := newUserRoute().Match(map[string]any{"id": int64(1), "name": "bob"})
		assert.True(t, m.IsExecutable())
	})

	t.Run("deferred value blocks executability", func(t *testing.T) {
		t.Parallel()

		m := newUserRoute().
			Match(map[string]any{"name": "bob"}).
			Fulfill(map[string]any{"id": Unresolved(func() BindingResult {
				return BindingOf(int64(1))
			})})
		assert.False(t, m.IsExecutable())
	})

	t.Run("error marker counts as present", func(t *testing.T) {
		t.Parallel()

		m := newUserRoute().
			Match(map[string]any{"name": "bob"}).
			Fulfill(map[string]any{"id": "abc"})
		assert.True(t, m.IsExecutable())
	})

	t.Run("declared body must be present", func(t *testing.T) {
		t.Parallel()

		m := newUserRoute(WithBodyName("name")).Match(map[string]any{"id": int64(1)})
		assert.False(t, m.IsExecutable())

		m = m.Fulfill(map[string]any{"name": "bob"})
		assert.True(t, m.IsExecutable())
	})
}

func TestTest_GuardsShortCircuit(t *testing.T) {
	t.Parallel()

	var calls []string
	guard := func(name string, pass bool) Predicate {
		return func(*http.Request) bool {
			calls = append(calls, name)
			return pass
		}
	}

	m := newUserRoute(
		WithGuard(guard("first", true)),
		WithGuard(guard("second", false)),
		WithGuard(guard("third", true)),
	).Match(nil)

	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	assert.False(t, m.Test(req))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestTest_NoGuardsPasses(t *testing.T) {
	t.Parallel()

	m := newUserRoute().Match(nil)
	assert.True(t, m.Test(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestVariableValues(t *testing.T) {
	t.Parallel()

	convErr := &convert.Error{Name: "id", Err: convert.ErrNoConversion}
	m := newUserRoute().Match(nil).Fulfill(map[string]any{
		"id":   convErr,
		"name": Null(),
	})

	values := m.VariableValues()
	assert.Same(t, convErr, values["id"])
	assert.Nil(t, values["name"])
}

func TestRouteDefinition_Accessors(t *testing.T) {
	t.Parallel()

	d := newUserRoute(
		WithName("users.get"),
		WithStatus(http.StatusCreated),
		WithWebSocket(),
		WithExecFlags(ExecFlags{Async: true, SingleResult: true}),
	)

	assert.Equal(t, "users.get", d.Name())
	assert.Equal(t, http.StatusCreated, d.StatusOr(http.StatusOK))
	assert.True(t, d.IsWebSocket())
	assert.True(t, d.IsAsync())
	assert.True(t, d.IsAsyncOrReactive())
	assert.True(t, d.IsSingleResult())
	assert.False(t, d.IsReactive())
	assert.False(t, d.IsSuspended())
	assert.False(t, d.IsVoid())

	assert.True(t, d.IsRequiredInput("id"))
	assert.False(t, d.IsRequiredInput("bogus"))

	arg, ok := d.RequiredInput("name")
	require.True(t, ok)
	assert.True(t, arg.DeclaredNullable)
}

func TestRouteDefinition_StatusOrDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusOK, newUserRoute().StatusOr(http.StatusOK))
}

func TestRouteDefinition_BodyArgument(t *testing.T) {
	t.Parallel()

	t.Run("no body declared", func(t *testing.T) {
		t.Parallel()

		_, ok := newUserRoute().BodyArgument()
		assert.False(t, ok)
	})

	t.Run("body by name", func(t *testing.T) {
		t.Parallel()

		body, ok := newUserRoute(WithBodyName("name")).BodyArgument()
		require.True(t, ok)
		assert.Equal(t, "name", body.Name)
	})

	t.Run("body name matching no input means no body", func(t *testing.T) {
		t.Parallel()

		_, ok := newUserRoute(WithBodyName("payload")).BodyArgument()
		assert.False(t, ok)
	})

	t.Run("body by descriptor", func(t *testing.T) {
		t.Parallel()

		body, ok := newUserRoute(WithBody(NullableArg[*string]("name"))).BodyArgument()
		require.True(t, ok)
		assert.Equal(t, "name", body.Name)
		assert.True(t, body.DeclaredNullable)
	})
}
