package rule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		find    string
		replace Replace
		all     bool
		want    string
	}{
		{"first occurrence", "aceg aceg", "a", Text("b"), false, "bceg aceg"},
		{"all occurrences", "aceg aceg", "c", Text("d"), true, "adeg adeg"},
		{"non overlapping", "aaaa", "aa", Text("b"), true, "bb"},
		{"no match", "abc", "z", Text("y"), true, "abc"},
		{"literal regex chars", "x ** y", "**", Text("-**-"), false, "x -**- y"},
		{"whole match", "abc", "b", Text("<$&>"), false, "a<b>c"},
		{"prefix and suffix", "abc", "b", Text("[$`|$']"), false, "a[a|c]c"},
		{"dollar escape", "abc", "b", Text("$$"), false, "a$c"},
		{"group reference stays literal", "abc", "b", Text("$1"), false, "a$1c"},
		{"name reference stays literal", "abc", "b", Text("$<n>"), false, "a$<n>c"},
		{"trailing dollar", "abc", "b", Text("x$"), false, "ax$c"},
		{"nil replace", "abc", "b", nil, false, "ac"},
		{"empty find", "abc", "", Text("x"), true, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReplaceText(tt.input, tt.find, tt.replace, tt.all)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceTextFunc(t *testing.T) {
	var offsets []int
	got, err := ReplaceText("é-a-a", "a", ReplaceFunc(func(m Match) (string, error) {
		offsets = append(offsets, m.Offset)
		assert.Equal(t, "é-a-a", m.Input)
		assert.Empty(t, m.Groups)
		return "A", nil
	}), true)
	require.NoError(t, err)

	assert.Equal(t, "é-A-A", got)
	assert.Equal(t, []int{2, 4}, offsets)
}

func TestReplaceTextFuncOffsetUTF16(t *testing.T) {
	var offset int
	_, err := ReplaceText("😀a", "a", ReplaceFunc(func(m Match) (string, error) {
		offset = m.Offset
		return "", nil
	}), false)
	require.NoError(t, err)
	assert.Equal(t, 2, offset)
}

func TestReplaceTextFuncError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ReplaceText("abc", "b", ReplaceFunc(func(Match) (string, error) {
		return "", boom
	}), false)
	assert.Same(t, boom, err)
}
