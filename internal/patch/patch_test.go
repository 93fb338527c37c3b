package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notePatch struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Pinned      Field[bool]   `json:"pinned"`
}

func (p notePatch) Assignments() []Assignment {
	var list []Assignment
	list = Append(list, "title", p.Title)
	list = Append(list, "description", p.Description)
	list = AppendWith(list, "pinned", p.Pinned, func(v bool) any {
		if v {
			return 1
		}
		return 0
	})
	return list
}

func TestField(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var f Field[string]

		assert.False(t, f.IsSet())
		assert.False(t, f.IsNull())
		_, ok := f.Get()
		assert.False(t, ok)
		assert.Equal(t, "fallback", f.OrElse("fallback"))
	})

	t.Run("null is set but has no value", func(t *testing.T) {
		f := Null[string]()

		assert.True(t, f.IsSet())
		assert.True(t, f.IsNull())
		_, ok := f.Get()
		assert.False(t, ok)
	})

	t.Run("set holds value", func(t *testing.T) {
		f := Set("groceries")

		v, ok := f.Get()
		assert.True(t, ok)
		assert.Equal(t, "groceries", v)
	})
}

func TestField_UnmarshalJSON(t *testing.T) {
	// given
	var p notePatch

	// when
	err := json.Unmarshal([]byte(`{"title": "Rent", "description": null}`), &p)

	// then
	require.NoError(t, err)
	title, _ := p.Title.Get()
	assert.Equal(t, "Rent", title)
	assert.True(t, p.Description.IsNull())
	assert.False(t, p.Pinned.IsSet())
}

func TestBuild(t *testing.T) {
	t.Run("should skip absent fields and bind id last", func(t *testing.T) {
		p := notePatch{Pinned: Set(true), Description: Null[string]()}

		query, args, ok := Build("notes", p.Assignments(), 42, Assignment{Column: "modified_at", Value: "2025-07-01T10:00:00Z"})

		assert.True(t, ok)
		assert.Equal(t, "UPDATE notes SET description = ?, pinned = ?, modified_at = ? WHERE id = ?", query)
		assert.Equal(t, []any{nil, 1, "2025-07-01T10:00:00Z", 42}, args)
	})

	t.Run("should keep declared column order", func(t *testing.T) {
		p := notePatch{Pinned: Set(false), Title: Set("a")}

		assert.Equal(t, []string{"title", "pinned"}, Columns(p.Assignments()))
	})

	t.Run("should do nothing for an empty patch", func(t *testing.T) {
		query, args, ok := Build("notes", notePatch{}.Assignments(), 1, Assignment{Column: "modified_at", Value: "x"})

		assert.False(t, ok)
		assert.Empty(t, query)
		assert.Nil(t, args)
	})
}
