package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 5)

	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = c.Key
		require.Len(t, c.Exercises, 2, c.Key)
		assert.False(t, c.Exercises[0].Fixed)
		assert.True(t, c.Exercises[1].Fixed)
		assert.Equal(t, c.Exercises[0].Name+"_fixed", c.Exercises[1].Name)
	}

	assert.Equal(t, []string{"ownership", "error_handling", "concurrency", "memory_management", "performance"}, keys)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Key = "mutated"
	cats[0].Exercises[0].Name = "mutated"

	fresh := Categories()
	assert.Equal(t, "ownership", fresh[0].Key)
	assert.Equal(t, "ownership_basics", fresh[0].Exercises[0].Name)
}

func TestTitle(t *testing.T) {
	c, ok := CategoryFor("ownership")
	require.True(t, ok)
	assert.Equal(t, "Ownership Borrowing", c.Title())

	c, ok = CategoryFor("memory_management")
	require.True(t, ok)
	assert.Equal(t, "Memory Management", c.Title())
}

func TestLookup(t *testing.T) {
	e, c, ok := Lookup("concurrency_basics_fixed")
	require.True(t, ok)
	assert.True(t, e.Fixed)
	assert.Equal(t, "concurrency", c.Key)

	_, _, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestCategoryFor(t *testing.T) {
	c, ok := CategoryFor("ownership_borrowing")
	require.True(t, ok)
	assert.Equal(t, "ownership", c.Key)

	_, ok = CategoryFor("lifetimes")
	assert.False(t, ok)
}

func TestExercisesSorted(t *testing.T) {
	names := Exercises()
	assert.Len(t, names, 10)
	assert.IsNonDecreasing(t, names)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ownership_basic", "ownership_basics"},
		{"Ownership_Basics", "ownership_basics"},
		{"concurency_basics", "concurrency_basics"},
		{"memory_managment_fixed", "memory_management_fixed"},
		{"hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suggest(tt.input))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 3, levenshtein("abc", ""))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 1, levenshtein("ñu", "nu"))
}
