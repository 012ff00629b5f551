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
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFunc_Validation(t *testing.T) {
	t.Parallel()

	t.Run("not a function", func(t *testing.T) {
		t.Parallel()

		_, err := NewFunc("not a func")
		assert.ErrorIs(t, err, ErrTargetNotFunc)
	})

	t.Run("nil target", func(t *testing.T) {
		t.Parallel()

		_, err := NewFunc(nil)
		assert.ErrorIs(t, err, ErrTargetNotFunc)
	})

	t.Run("descriptor count mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := NewFunc(func(a, b int) {}, Arg[int]("a"))
		assert.ErrorIs(t, err, ErrArgumentCountMismatch)
	})

	t.Run("descriptor type mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := NewFunc(func(a int) {}, Arg[string]("a"))
		assert.ErrorIs(t, err, ErrArgumentTypeMismatch)
	})

	t.Run("too many return values", func(t *testing.T) {
		t.Parallel()

		_, err := NewFunc(func() (int, string, error) { return 0, "", nil })
		assert.ErrorIs(t, err, ErrInvalidReturnShape)
	})

	t.Run("second return not error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFunc(func() (int, string) { return 0, "" })
		assert.ErrorIs(t, err, ErrInvalidReturnShape)
	})

	t.Run("context parameter needs no descriptor", func(t *testing.T) {
		t.Parallel()

		f, err := NewFunc(func(ctx context.Context, id int) {}, Arg[int]("id"))
		require.NoError(t, err)
		require.Len(t, f.Arguments(), 1)
		assert.Equal(t, "id", f.Arguments()[0].Name)
	})

	t.Run("untyped descriptor inherits parameter type", func(t *testing.T) {
		t.Parallel()

		f, err := NewFunc(func(id int64) {}, Argument{Name: "id"})
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[int64](), f.Arguments()[0].Type)
	})

	t.Run("nilable parameter marked runtime-nullable", func(t *testing.T) {
		t.Parallel()

		f, err := NewFunc(func(tags []string) {}, Argument{Name: "tags"})
		require.NoError(t, err)
		assert.True(t, f.Arguments()[0].Nullable)
		assert.False(t, f.Arguments()[0].DeclaredNullable)
	})
}

func TestMustFunc_PanicsOnError(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustFunc(42)
	})
}

func TestFunc_Call(t *testing.T) {
	t.Parallel()

	t.Run("value and error", func(t *testing.T) {
		t.Parallel()

		f := MustFunc(func(a, b int) (int, error) { return a + b, nil },
			Arg[int]("a"), Arg[int]("b"))
		out, err := f.Call(context.Background(), []any{2, 3})
		require.NoError(t, err)
		assert.Equal(t, 5, out)
	})

	t.Run("error only", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		f := MustFunc(func() error { return boom })
		out, err := f.Call(context.Background(), nil)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil error result stays nil", func(t *testing.T) {
		t.Parallel()

		f := MustFunc(func() error { return nil })
		_, err := f.Call(context.Background(), nil)
		assert.NoError(t, err)
	})

	t.Run("void", func(t *testing.T) {
		t.Parallel()

		called := false
		f := MustFunc(func() { called = true })
		out, err := f.Call(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, out)
		assert.True(t, called)
	})

	t.Run("nil argument binds zero value", func(t *testing.T) {
		t.Parallel()

		f := MustFunc(func(name *string) bool { return name == nil },
			NullableArg[*string]("name"))
		out, err := f.Call(context.Background(), []any{nil})
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("context is forwarded", func(t *testing.T) {
		t.Parallel()

		type ctxKey struct{}
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		f := MustFunc(func(c context.Context) (any, error) {
			return c.Value(ctxKey{}), nil
		})
		out, err := f.Call(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "v", out)
	})

	t.Run("nil context defaults to background", func(t *testing.T) {
		t.Parallel()

		f := MustFunc(func(c context.Context) (bool, error) { return c != nil, nil })
		out, err := f.Call(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		t.Parallel()

		f := MustFunc(func(a int) {}, Arg[int]("a"))
		_, err := f.Call(context.Background(), nil)
		assert.ErrorIs(t, err, ErrWrongArgumentCount)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		t.Parallel()

		f := MustFunc(func(a int) {}, Arg[int]("a"))
		_, err := f.Call(context.Background(), []any{"nope"})
		assert.ErrorIs(t, err, ErrWrongArgumentTypes)
	})
}

func TestArg_Descriptors(t *testing.T) {
	t.Parallel()

	t.Run("value kind is not nullable", func(t *testing.T) {
		t.Parallel()

		a := Arg[int64]("id")
		assert.False(t, a.Nullable)
		assert.False(t, a.DeclaredNullable)
	})

	t.Run("pointer kind is runtime-nullable", func(t *testing.T) {
		t.Parallel()

		a := Arg[*string]("name")
		assert.True(t, a.Nullable)
		assert.False(t, a.DeclaredNullable)
	})

	t.Run("nullable arg opts into absorption", func(t *testing.T) {
		t.Parallel()

		a := NullableArg[int64]("id")
		assert.True(t, a.Nullable)
		assert.True(t, a.DeclaredNullable)
	})
}

func TestArgument_Containers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		arg          Argument
		container    bool
		typeVariable bool
	}{
		{name: "int slice", arg: Arg[[]int]("v"), container: true, typeVariable: true},
		{name: "any slice", arg: Arg[[]any]("v"), container: true, typeVariable: false},
		{name: "string map", arg: Arg[map[string]int]("v"), container: true, typeVariable: true},
		{name: "scalar", arg: Arg[int]("v"), container: false, typeVariable: false},
		{name: "struct", arg: Arg[struct{}]("v"), container: false, typeVariable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.container, tt.arg.IsContainer())
			assert.Equal(t, tt.typeVariable, tt.arg.HasTypeVariables())
		})
	}
}
