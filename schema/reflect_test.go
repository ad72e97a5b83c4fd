// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reflectPet struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Weight    float64   `json:"weight,omitempty"`
	Nickname  *string   `json:"nickname"`
	AdoptedAt time.Time `json:"adoptedAt"`
	Tags      []string  `json:"tags,omitempty"`
	Hidden    string    `json:"-"`
	internal  string
}

type reflectAudit struct {
	CreatedBy string `json:"createdBy"`
}

type reflectOwner struct {
	reflectAudit
	Name string     `json:"name"`
	Pet  reflectPet `json:"pet"`
}

func TestReflect(t *testing.T) {
	t.Run("should map struct fields using json tags", func(t *testing.T) {
		typ := Reflect[reflectPet]()
		require.Equal(t, KindObject, typ.Kind())

		name, ok := typ.Field("name")
		require.True(t, ok)
		assert.Equal(t, KindString, name.Type.Kind())
		assert.True(t, name.Required)

		age, ok := typ.Field("age")
		require.True(t, ok)
		assert.Equal(t, KindInteger, age.Type.Kind())
		assert.True(t, age.Required)

		weight, ok := typ.Field("weight")
		require.True(t, ok)
		assert.Equal(t, KindNumber, weight.Type.Kind())
		assert.False(t, weight.Required, "omitempty fields are optional")

		nickname, ok := typ.Field("nickname")
		require.True(t, ok)
		assert.Equal(t, KindString, nickname.Type.Kind())
		assert.False(t, nickname.Required, "pointer fields are optional")

		adopted, ok := typ.Field("adoptedAt")
		require.True(t, ok)
		assert.Equal(t, KindDateTime, adopted.Type.Kind())

		tags, ok := typ.Field("tags")
		require.True(t, ok)
		assert.Equal(t, KindArray, tags.Type.Kind())
		assert.Equal(t, KindString, tags.Type.Elem().Kind())

		_, ok = typ.Field("Hidden")
		assert.False(t, ok)
		_, ok = typ.Field("internal")
		assert.False(t, ok)
	})

	t.Run("should flatten untagged embedded structs", func(t *testing.T) {
		typ := Reflect[reflectOwner]()

		_, ok := typ.Field("createdBy")
		assert.True(t, ok)

		pet, ok := typ.Field("pet")
		require.True(t, ok)
		assert.Equal(t, KindObject, pet.Type.Kind())
	})

	t.Run("should map struct{} to void", func(t *testing.T) {
		typ := Reflect[struct{}]()
		assert.Equal(t, KindVoid, typ.Kind())
	})

	t.Run("should map slices to arrays", func(t *testing.T) {
		typ := Reflect[[]reflectPet]()
		require.Equal(t, KindArray, typ.Kind())
		assert.Equal(t, KindObject, typ.Elem().Kind())
	})

	t.Run("should map byte slices to strings", func(t *testing.T) {
		typ := Reflect[[]byte]()
		assert.Equal(t, KindString, typ.Kind())
	})

	t.Run("should map interfaces and maps to any", func(t *testing.T) {
		assert.Equal(t, KindAny, Reflect[any]().Kind())
		assert.Equal(t, KindAny, Reflect[map[string]int]().Kind())
	})
}
