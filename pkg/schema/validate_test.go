package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var destination = Schema{
	"name":   Text(),
	"reason": Text(),
}

func TestValidate_Success(t *testing.T) {
	data := map[string]any{
		"name":   "Rome",
		"reason": "food",
		"extra":  42,
	}

	assert.NoError(t, Validate(destination, data))
}

func TestValidate_MissingAndBlank(t *testing.T) {
	err := Validate(destination, map[string]any{"reason": "  "})
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.Len(t, errs, 2)

	// Sorted by field name.
	first := errs[0].(*ValidationError)
	assert.Equal(t, "name", first.Key)
	assert.Equal(t, "required", first.Reason)

	second := errs[1].(*ValidationError)
	assert.Equal(t, "reason", second.Key)
	assert.Equal(t, "must not be blank", second.Reason)
}

func TestValidate_EmptySchema(t *testing.T) {
	assert.NoError(t, Validate(nil, map[string]any{"a": 1}))
}

func TestSlice_Len(t *testing.T) {
	list := Slice(Object(destination)).Len(3)
	assert.Equal(t, "[3]object", list.Name())

	err := list.Validate([]any{
		map[string]any{"name": "Rome", "reason": "food"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 elements, got 1")
}

func TestSlice_ReportsElementPaths(t *testing.T) {
	list := Slice(Object(destination))

	err := list.Validate([]any{
		map[string]any{"name": "Rome", "reason": "food"},
		map[string]any{"name": 7, "reason": "sun"},
		"not an object",
	})
	require.Error(t, err)

	keys := []string{}
	for _, e := range ValidationErrors(err) {
		keys = append(keys, e.(*ValidationError).Key)
	}
	assert.Equal(t, []string{"[1].name", "[2]"}, keys)
}

func TestValidate_NestedFieldPaths(t *testing.T) {
	s := Schema{"items": Slice(Object(destination))}

	err := Validate(s, map[string]any{
		"items": []any{map[string]any{"reason": "x"}},
	})
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "items[0].name", errs[0].(*ValidationError).Key)
}

func TestTypes(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		value   any
		wantErr bool
	}{
		{"string ok", String(), "", false},
		{"string wrong type", String(), 1, true},
		{"text ok", Text(), "hi", false},
		{"text blank", Text(), " \t", true},
		{"object wrong type", Object(destination), []any{}, true},
		{"slice wrong type", Slice(String()), "x", true},
		{"custom", Custom("even", func(v any) error {
			if v.(int)%2 != 0 {
				return assert.AnError
			}
			return nil
		}), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
