package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		expected []Duplicate
	}{
		{
			name:     "empty collection",
			sections: nil,
		},
		{
			name:     "unique keys",
			sections: []Section{section("s1", row("a", "1")), section("s2", row("a", "1"))},
		},
		{
			name:     "duplicate section keys",
			sections: []Section{section("s1"), section("s2"), section("s1")},
			expected: []Duplicate{{Level: LevelSection, Keys: []string{"s1"}}},
		},
		{
			name: "duplicate rows in two sections",
			sections: []Section{
				section("s1", row("b", "1"), row("a", "1"), row("b", "2"), row("a", "3")),
				section("s2", row("c", "1")),
				section("s3", row("x", "1"), row("x", "1")),
			},
			expected: []Duplicate{
				{Level: LevelRow, Section: "s1", Keys: []string{"a", "b"}},
				{Level: LevelRow, Section: "s3", Keys: []string{"x"}},
			},
		},
		{
			name:     "section and row duplicates together",
			sections: []Section{section("s1", row("x", "1"), row("x", "2")), section("s1")},
			expected: []Duplicate{
				{Level: LevelSection, Keys: []string{"s1"}},
				{Level: LevelRow, Section: "s1", Keys: []string{"x"}},
			},
		},
		{
			name:     "repeated rows in a section with an empty key",
			sections: []Section{section("", row("x", "1"), row("x", "2"))},
			expected: []Duplicate{{Level: LevelRow, Keys: []string{"x"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sections)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDuplicateKey))
			var keyErr *KeyError
			require.True(t, errors.As(err, &keyErr))
			assert.Equal(t, tt.expected, keyErr.Duplicates)
		})
	}
}

func TestKeyError_Message(t *testing.T) {
	err := &KeyError{Duplicates: []Duplicate{
		{Level: LevelSection, Keys: []string{"s1"}},
		{Level: LevelRow, Section: "s2", Keys: []string{"a", "b"}},
	}}
	assert.Equal(t, `duplicate keys: sections [s1]; rows [a b] in section "s2"`, err.Error())
}

func TestKeyError_MessageEmptySectionKey(t *testing.T) {
	err := Validate([]Section{section("", row("x", "1"), row("x", "2"))})
	require.Error(t, err)
	assert.Equal(t, `duplicate keys: rows [x] in section ""`, err.Error())
}
