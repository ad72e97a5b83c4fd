// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"errors"
	"net/url"
	"testing"

	"github.com/prosepilot/restbridge/rpc"
	"github.com/prosepilot/restbridge/schema"

	"github.com/stretchr/testify/require"
)

func TestReconcileInput(t *testing.T) {
	t.Run("will produce nothing for a void shape", func(t *testing.T) {
		v, err := reconcileInput(schema.Void(), map[string]string{"id": "42"}, map[string]any{"a": 1}, nil, false)
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("will pass an array body through unchanged", func(t *testing.T) {
		v, err := reconcileInput(schema.Array(schema.String()), nil, []any{"Steve", "Mary"}, nil, false)
		require.NoError(t, err)
		require.Equal(t, []any{"Steve", "Mary"}, v)
	})

	t.Run("will reject a non array body for an array shape", func(t *testing.T) {
		_, err := reconcileInput(schema.Array(schema.String()), nil, map[string]any{"a": 1}, nil, false)

		var perr *rpc.Error
		require.True(t, errors.As(err, &perr))
		require.Equal(t, rpc.CodeBadRequest, perr.Code)
		require.Equal(t, "Expected array in request body", perr.Message)
	})

	t.Run("will not merge path parameters into an array shape", func(t *testing.T) {
		v, err := reconcileInput(schema.Array(schema.String()), map[string]string{"id": "42"}, []any{"a"}, nil, false)
		require.NoError(t, err)
		require.Equal(t, []any{"a"}, v)
	})

	t.Run("will assemble an object from the query string", func(t *testing.T) {
		query := url.Values{"name": {"James"}}

		v, err := reconcileInput(objectShape(), nil, nil, query, true)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"name": "James"}, v)
	})

	t.Run("will keep the first value of a repeated query key", func(t *testing.T) {
		query := url.Values{"name": {"James", "Steve"}}

		v, err := reconcileInput(objectShape(), nil, nil, query, true)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"name": "James"}, v)
	})

	t.Run("will let path parameters win a key collision", func(t *testing.T) {
		t.Run("if the query string carries the same key", func(t *testing.T) {
			query := url.Values{"id": {"q"}}

			v, err := reconcileInput(objectShape(), map[string]string{"id": "p"}, nil, query, true)
			require.NoError(t, err)
			require.Equal(t, map[string]any{"id": "p"}, v)
		})

		t.Run("if the decoded body carries the same key", func(t *testing.T) {
			body := map[string]any{"id": "b", "name": "James"}

			v, err := reconcileInput(objectShape(), map[string]string{"id": "p"}, body, nil, false)
			require.NoError(t, err)
			require.Equal(t, map[string]any{"id": "p", "name": "James"}, v)
		})
	})

	t.Run("will assemble an object from path parameters alone", func(t *testing.T) {
		v, err := reconcileInput(objectShape(), map[string]string{"id": "42"}, nil, nil, false)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"id": "42"}, v)
	})

	t.Run("will hand a non object body to validation untouched", func(t *testing.T) {
		v, err := reconcileInput(objectShape(), nil, "raw text", nil, false)
		require.NoError(t, err)
		require.Equal(t, "raw text", v)
	})
}

func objectShape() schema.Type {
	return schema.Object(
		schema.Field{Name: "id", Type: schema.String()},
		schema.Field{Name: "name", Type: schema.String()},
	)
}
