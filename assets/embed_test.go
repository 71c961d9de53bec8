package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	got, err := ParseList(strings.NewReader("# header\ncrane\n\n  Slate  # trailing note\n#skip\nTRUST\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "SLATE", "TRUST"}, got)
}

func TestEmbeddedLists(t *testing.T) {
	for _, name := range []string{AnswersFile, AllowedFile} {
		words, err := List(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, words, name)
		for _, w := range words {
			assert.Equal(t, strings.ToUpper(w), w)
		}
	}
	_, err := List("missing.txt")
	assert.Error(t, err)
}
